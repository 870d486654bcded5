// Package events normalizes raw escrow-contract event occurrences into
// typed records. It is a pure transformation: occurrences come in block
// order from the log source and leave in the same order, with no
// de-duplication.
package events

import (
	"fmt"
	"strconv"
	"time"

	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// RawOccurrence is one event occurrence as delivered by the chain reader.
// Values are keyed by the contract's parameter names; numeric fields and
// unix timestamps arrive as decimal strings.
type RawOccurrence struct {
	Name        string            `json:"name"`
	BlockNumber uint64            `json:"block_number"`
	TxHash      string            `json:"tx_hash"`
	Values      map[string]string `json:"values"`
}

type fieldKind uint8

const (
	bigIntField fieldKind = iota
	timeField
	stringField
)

// fieldMaps declares, per event name, which payload fields get converted
// and which pass through unchanged. Fields absent from the payload are
// simply skipped; extra payload fields pass through as strings.
var fieldMaps = map[string]map[string]fieldKind{
	markettypes.EventTaskCreated: {
		"_taskID":    bigIntField,
		"_requester": stringField,
		"_timestamp": timeField,
	},
	markettypes.EventTaskAssigned: {
		"_taskID":     bigIntField,
		"_translator": stringField,
		"_price":      bigIntField,
		"_timestamp":  timeField,
	},
	markettypes.EventTranslationSubmitted: {
		"_taskID":         bigIntField,
		"_translator":     stringField,
		"_translatedText": stringField,
		"_timestamp":      timeField,
	},
	markettypes.EventTranslationChallenged: {
		"_taskID":     bigIntField,
		"_challenger": stringField,
		"_timestamp":  timeField,
	},
	markettypes.EventTaskResolved: {
		"_taskID":    bigIntField,
		"_reason":    stringField,
		"_timestamp": timeField,
	},
	markettypes.EventDispute: {
		"_arbitrator":      stringField,
		"_disputeID":       bigIntField,
		"_metaEvidenceID":  bigIntField,
		"_evidenceGroupID": bigIntField,
	},
	markettypes.EventMetaEvidence: {
		"_metaEvidenceID": bigIntField,
		"_evidence":       stringField,
	},
	markettypes.EventAppealContribution: {
		"_taskID":      bigIntField,
		"_party":       bigIntField,
		"_contributor": stringField,
		"_amount":      bigIntField,
	},
	markettypes.EventHasPaidAppealFee: {
		"_taskID": bigIntField,
		"_party":  bigIntField,
	},
}

// Normalize converts one raw occurrence into a typed record. Unknown event
// names fail with ErrUnrecognizedEvent.
func Normalize(raw RawOccurrence) (markettypes.EventRecord, error) {
	fields, ok := fieldMaps[raw.Name]
	if !ok {
		return markettypes.EventRecord{}, fmt.Errorf("%w: %q", markettypes.ErrUnrecognizedEvent, raw.Name)
	}

	rec := markettypes.EventRecord{
		Name:        raw.Name,
		BlockNumber: raw.BlockNumber,
		TxHash:      raw.TxHash,
		Params:      make(map[string]any, len(raw.Values)),
	}

	for key, value := range raw.Values {
		kind, mapped := fields[key]
		if !mapped {
			// Unmapped payload fields pass through untouched.
			rec.Params[key] = value
			continue
		}
		switch kind {
		case bigIntField:
			v, err := pkgtypes.ParseBigInt(value)
			if err != nil {
				return markettypes.EventRecord{}, fmt.Errorf("event %s field %s: %w", raw.Name, key, err)
			}
			rec.Params[key] = v
		case timeField:
			secs, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return markettypes.EventRecord{}, fmt.Errorf("event %s field %s: %w", raw.Name, key, err)
			}
			rec.Params[key] = time.Unix(secs, 0).UTC()
		default:
			rec.Params[key] = value
		}
	}

	return rec, nil
}

// NormalizeAll converts a chronological batch of raw occurrences into an
// event log keyed by event name. Order within each name is preserved as
// received.
func NormalizeAll(raw []RawOccurrence) (markettypes.EventLog, error) {
	log := make(markettypes.EventLog)
	for _, occ := range raw {
		rec, err := Normalize(occ)
		if err != nil {
			return nil, err
		}
		log[rec.Name] = append(log[rec.Name], rec)
	}
	return log, nil
}
