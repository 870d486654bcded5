package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguoexchange/linguo-backend/internal/marketplace/cache"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/dispute"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/events"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/task"
	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
)

const testContract = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

type stubEscrow struct {
	states map[uint64]task.ChainState
	events map[uint64][]events.RawOccurrence
	err    error
}

func (s *stubEscrow) TaskCount(ctx context.Context) (uint64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return uint64(len(s.states)), nil
}

func (s *stubEscrow) TaskState(ctx context.Context, taskID uint64) (task.ChainState, error) {
	state, ok := s.states[taskID]
	if !ok {
		return task.ChainState{}, errors.New("no such task")
	}
	return state, nil
}

func (s *stubEscrow) TaskEvents(ctx context.Context, taskID uint64, disputeID *big.Int, fromBlock uint64) ([]events.RawOccurrence, error) {
	return s.events[taskID], nil
}

func (s *stubEscrow) TranslatorDeposit(ctx context.Context, taskID uint64) (string, error) {
	return "500000", nil
}

type stubArbitrator struct {
	disputes map[uint64]dispute.ChainDispute
	calls    int
}

func (s *stubArbitrator) DisputeState(ctx context.Context, t markettypes.Task) (dispute.ChainDispute, error) {
	s.calls++
	raw, ok := s.disputes[t.ID]
	if !ok {
		return dispute.ChainDispute{}, errors.New("no such dispute")
	}
	return raw, nil
}

type stubFetcher struct {
	docs map[string]*task.Metadata
	err  error
}

func (s *stubFetcher) FetchTaskMetadata(ctx context.Context, pointer string) (*task.Metadata, error) {
	if s.err != nil {
		return nil, s.err
	}
	meta, ok := s.docs[pointer]
	if !ok {
		return nil, errors.New("not found")
	}
	return meta, nil
}

func createdState() task.ChainState {
	return task.ChainState{
		Status:            "0",
		Requester:         "0x1111111111111111111111111111111111111111",
		DisputeID:         "0",
		MinPrice:          "100",
		MaxPrice:          "200",
		SubmissionTimeout: "1000",
		ReviewTimeout:     "500",
		Deadline:          "1700001000",
		LastInteraction:   "1700000000",
	}
}

func newTestRefresher(escrow *stubEscrow, arbitrator *stubArbitrator, fetcher *stubFetcher, store *cache.Store) *Refresher {
	logger := &logging.NoopLogger{}
	return NewRefresher(
		escrow,
		arbitrator,
		fetcher,
		task.NewBuilder(logger, "https://ipfs.io/ipfs"),
		store,
		testContract,
		0,
		time.Minute,
		logger,
	)
}

func TestRefresher_RebuildsTaskWithMetadata(t *testing.T) {
	escrow := &stubEscrow{
		states: map[uint64]task.ChainState{0: createdState()},
		events: map[uint64][]events.RawOccurrence{
			0: {
				{
					Name:        markettypes.EventMetaEvidence,
					BlockNumber: 100,
					Values:      map[string]string{"_metaEvidenceID": "0", "_evidence": "/ipfs/QmMeta"},
				},
			},
		},
	}
	fetcher := &stubFetcher{
		docs: map[string]*task.Metadata{
			"/ipfs/QmMeta": {
				Title:          "Product brochure",
				SourceLanguage: "en-US",
				TargetLanguage: "pt-BR",
				Text:           "four words of text",
			},
		},
	}
	arbitrator := &stubArbitrator{}
	store := cache.NewStore()

	refresher := newTestRefresher(escrow, arbitrator, fetcher, store)
	refresher.refresh(context.Background())

	snapshot, ok := store.Get(0)
	require.True(t, ok)
	assert.Equal(t, "Product brochure", snapshot.Task.Title)
	assert.Equal(t, 4, snapshot.Task.WordCount)
	assert.Equal(t, markettypes.StatusCreated, snapshot.Task.Status)
	assert.Equal(t, markettypes.DisputeNone, snapshot.Dispute.Status)
	assert.Equal(t, "500000", snapshot.TranslatorDeposit.String())
	assert.Zero(t, arbitrator.calls, "no dispute means no arbitrator reads")
}

func TestRefresher_MetadataFailureDegrades(t *testing.T) {
	escrow := &stubEscrow{
		states: map[uint64]task.ChainState{0: createdState()},
		events: map[uint64][]events.RawOccurrence{
			0: {
				{
					Name:   markettypes.EventMetaEvidence,
					Values: map[string]string{"_metaEvidenceID": "0", "_evidence": "/ipfs/QmMeta"},
				},
			},
		},
	}
	fetcher := &stubFetcher{err: errors.New("gateway down")}
	store := cache.NewStore()

	refresher := newTestRefresher(escrow, &stubArbitrator{}, fetcher, store)
	refresher.refresh(context.Background())

	snapshot, ok := store.Get(0)
	require.True(t, ok)
	assert.Empty(t, snapshot.Task.Title)
	assert.Zero(t, snapshot.Task.WordCount)
	// Chain state still lands despite the dead gateway.
	assert.Equal(t, "200", snapshot.Task.MaxPrice.String())
}

func TestRefresher_DisputedTask(t *testing.T) {
	state := createdState()
	state.Status = "3"
	state.Parties = [3]string{
		"0x0000000000000000000000000000000000000000",
		"0x2222222222222222222222222222222222222222",
		"0x3333333333333333333333333333333333333333",
	}
	state.DisputeID = "9"

	escrow := &stubEscrow{
		states: map[uint64]task.ChainState{0: state},
		events: map[uint64][]events.RawOccurrence{
			0: {
				{
					Name:   markettypes.EventDispute,
					Values: map[string]string{"_arbitrator": testContract, "_disputeID": "9"},
				},
			},
		},
	}
	arbitrator := &stubArbitrator{
		disputes: map[uint64]dispute.ChainDispute{
			0: {
				ID:                    "9",
				Status:                "1",
				Ruling:                "1",
				AppealPeriodStart:     "1700000000",
				AppealPeriodEnd:       "1700001000",
				AppealCost:            "1000",
				PaidFeesTranslator:    "0",
				PaidFeesChallenger:    "0",
				FeeRewards:            "0",
				WinnerStakeMultiplier: "5000",
				LoserStakeMultiplier:  "20000",
				SharedStakeMultiplier: "5000",
				MultiplierDivisor:     "10000",
			},
		},
	}
	store := cache.NewStore()

	refresher := newTestRefresher(escrow, arbitrator, &stubFetcher{}, store)
	refresher.refresh(context.Background())

	snapshot, ok := store.Get(0)
	require.True(t, ok)
	assert.True(t, snapshot.Task.HasDispute)
	assert.Equal(t, markettypes.DisputeAppealable, snapshot.Dispute.Status)
	assert.Equal(t, markettypes.RulingTranslationApproved, snapshot.Dispute.Ruling)
	assert.Nil(t, snapshot.TranslatorDeposit, "deposit quotes only apply to biddable tasks")
	assert.Equal(t, 1, arbitrator.calls)
}

func TestRefresher_FailedTaskKeepsPreviousSnapshot(t *testing.T) {
	escrow := &stubEscrow{
		states: map[uint64]task.ChainState{0: createdState()},
		events: map[uint64][]events.RawOccurrence{},
	}
	store := cache.NewStore()

	refresher := newTestRefresher(escrow, &stubArbitrator{}, &stubFetcher{}, store)
	refresher.refresh(context.Background())
	require.Equal(t, 1, store.Len())

	// The next cycle returns malformed chain state; the cached snapshot
	// must survive.
	broken := createdState()
	broken.Status = "9"
	escrow.states[0] = broken

	refresher.refresh(context.Background())
	snapshot, ok := store.Get(0)
	require.True(t, ok)
	assert.Equal(t, markettypes.StatusCreated, snapshot.Task.Status)
}

func TestRefresher_TaskCountFailureSkipsCycle(t *testing.T) {
	escrow := &stubEscrow{err: errors.New("rpc down")}
	store := cache.NewStore()

	refresher := newTestRefresher(escrow, &stubArbitrator{}, &stubFetcher{}, store)
	refresher.refresh(context.Background())
	assert.Zero(t, store.Len())
}
