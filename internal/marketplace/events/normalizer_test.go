package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
)

func TestNormalize_TaskAssigned(t *testing.T) {
	raw := RawOccurrence{
		Name:        markettypes.EventTaskAssigned,
		BlockNumber: 1234,
		TxHash:      "0xabc",
		Values: map[string]string{
			"_taskID":     "7",
			"_translator": "0x1111111111111111111111111111111111111111",
			"_price":      "1500000000000000000",
			"_timestamp":  "1700000000",
		},
	}

	rec, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, markettypes.EventTaskAssigned, rec.Name)
	assert.Equal(t, uint64(1234), rec.BlockNumber)
	assert.Equal(t, "0xabc", rec.TxHash)
	assert.Equal(t, "7", rec.BigIntParam("_taskID").String())
	assert.Equal(t, "1500000000000000000", rec.BigIntParam("_price").String())
	assert.Equal(t, "0x1111111111111111111111111111111111111111", rec.StringParam("_translator"))
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), rec.TimeParam("_timestamp"))
}

func TestNormalize_UnknownEvent(t *testing.T) {
	_, err := Normalize(RawOccurrence{
		Name:   "OperatorSlashed",
		Values: map[string]string{"_operator": "0xdead"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, markettypes.ErrUnrecognizedEvent)
}

func TestNormalize_MalformedNumericField(t *testing.T) {
	_, err := Normalize(RawOccurrence{
		Name:   markettypes.EventTaskAssigned,
		Values: map[string]string{"_price": "not-a-number"},
	})
	assert.Error(t, err)

	_, err = Normalize(RawOccurrence{
		Name:   markettypes.EventTaskCreated,
		Values: map[string]string{"_timestamp": "soon"},
	})
	assert.Error(t, err)
}

func TestNormalize_UnmappedFieldPassesThrough(t *testing.T) {
	rec, err := Normalize(RawOccurrence{
		Name: markettypes.EventTaskResolved,
		Values: map[string]string{
			"_taskID":   "3",
			"_reason":   markettypes.ReasonTranslationAccepted,
			"_newField": "whatever",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "whatever", rec.StringParam("_newField"))
	assert.Equal(t, markettypes.ReasonTranslationAccepted, rec.StringParam("_reason"))
}

func TestNormalizeAll_PreservesOrderAndGroupsByName(t *testing.T) {
	raw := []RawOccurrence{
		{
			Name:        markettypes.EventTaskCreated,
			BlockNumber: 100,
			Values:      map[string]string{"_taskID": "1"},
		},
		{
			Name:        markettypes.EventAppealContribution,
			BlockNumber: 200,
			Values:      map[string]string{"_taskID": "1", "_party": "1", "_amount": "10"},
		},
		{
			Name:        markettypes.EventAppealContribution,
			BlockNumber: 300,
			Values:      map[string]string{"_taskID": "1", "_party": "2", "_amount": "20"},
		},
	}

	log, err := NormalizeAll(raw)
	require.NoError(t, err)

	assert.True(t, log.Has(markettypes.EventTaskCreated))
	contributions := log[markettypes.EventAppealContribution]
	require.Len(t, contributions, 2)
	assert.Equal(t, uint64(200), contributions[0].BlockNumber)
	assert.Equal(t, uint64(300), contributions[1].BlockNumber)
	assert.Equal(t, "10", contributions[0].BigIntParam("_amount").String())
	assert.Equal(t, "20", contributions[1].BigIntParam("_amount").String())
}

func TestNormalizeAll_FailsOnAnyUnknownEvent(t *testing.T) {
	raw := []RawOccurrence{
		{Name: markettypes.EventTaskCreated, Values: map[string]string{"_taskID": "1"}},
		{Name: "Bogus", Values: map[string]string{}},
	}
	_, err := NormalizeAll(raw)
	assert.ErrorIs(t, err, markettypes.ErrUnrecognizedEvent)
}
