// Package task builds canonical Task snapshots from raw escrow-contract
// state, normalized event history and off-chain metadata.
package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// ChainState carries the escrow contract's current task fields exactly as
// the chain reader returns them: decimal strings for numbers and unix
// timestamps, hex strings for addresses.
type ChainState struct {
	Status            string    `json:"status"`
	Requester         string    `json:"requester"`
	Parties           [3]string `json:"parties"` // index 1 translator, index 2 challenger
	DisputeID         string    `json:"dispute_id"`
	MinPrice          string    `json:"min_price"`
	MaxPrice          string    `json:"max_price"`
	SubmissionTimeout string    `json:"submission_timeout"`
	ReviewTimeout     string    `json:"review_timeout"`
	Deadline          string    `json:"deadline"`
	LastInteraction   string    `json:"last_interaction"`
}

// Metadata is the off-chain task document fetched from the content store.
// A nil Metadata degrades to blank display fields, never to an error.
type Metadata struct {
	Title           string `json:"title"`
	SourceLanguage  string `json:"sourceLanguage"`
	TargetLanguage  string `json:"targetLanguage"`
	Quality         string `json:"quality"`
	OriginalTextURL string `json:"originalTextUrl"`
	Text            string `json:"text"`
}

// Builder assembles Task snapshots. It performs no I/O; all inputs must be
// collected by the caller before Build is invoked.
type Builder struct {
	logger logging.Logger
	// textGateway prefixes content pointers when deriving retrievable
	// URLs. Empty means pointers are used verbatim.
	textGateway string
}

func NewBuilder(logger logging.Logger, textGateway string) *Builder {
	return &Builder{logger: logger, textGateway: textGateway}
}

// Build merges the raw chain fields, the normalized event history and the
// optional metadata into one canonical snapshot.
func (b *Builder) Build(id uint64, contractAddress string, chain ChainState, log markettypes.EventLog, meta *Metadata) (markettypes.Task, error) {
	statusRaw, err := parseUint(chain.Status, "status")
	if err != nil {
		return markettypes.Task{}, err
	}
	status, err := markettypes.ParseTaskStatus(statusRaw)
	if err != nil {
		return markettypes.Task{}, fmt.Errorf("%w: %v", markettypes.ErrMalformedTaskData, err)
	}

	if !pkgtypes.IsValidEthAddress(chain.Requester) {
		return markettypes.Task{}, fmt.Errorf("%w: requester address %q", markettypes.ErrMalformedTaskData, chain.Requester)
	}

	minPrice, err := parseAmount(chain.MinPrice, "min_price")
	if err != nil {
		return markettypes.Task{}, err
	}
	maxPrice, err := parseAmount(chain.MaxPrice, "max_price")
	if err != nil {
		return markettypes.Task{}, err
	}
	submissionTimeout, err := parseUint(chain.SubmissionTimeout, "submission_timeout")
	if err != nil {
		return markettypes.Task{}, err
	}
	reviewTimeout, err := parseUint(chain.ReviewTimeout, "review_timeout")
	if err != nil {
		return markettypes.Task{}, err
	}
	lastInteraction, err := parseUnix(chain.LastInteraction, "last_interaction")
	if err != nil {
		return markettypes.Task{}, err
	}
	deadline, err := parseUnix(chain.Deadline, "deadline")
	if err != nil {
		return markettypes.Task{}, err
	}

	t := markettypes.Task{
		ID:                id,
		ContractAddress:   contractAddress,
		MinPrice:          minPrice,
		MaxPrice:          maxPrice,
		SubmissionTimeout: submissionTimeout,
		ReviewTimeout:     reviewTimeout,
		Deadline:          deadline,
		LastInteraction:   lastInteraction,
		Requester:         chain.Requester,
		Parties:           partiesFromTuple(chain.Parties),
		Status:            status,
		LifecycleEvents:   log,
	}

	if chain.DisputeID != "" {
		disputeID, err := parseAmount(chain.DisputeID, "dispute_id")
		if err != nil {
			return markettypes.Task{}, err
		}
		t.DisputeID = disputeID
	}

	if meta != nil {
		t.Title = meta.Title
		t.SourceLanguage = meta.SourceLanguage
		t.TargetLanguage = meta.TargetLanguage
		t.Quality = meta.Quality
		t.OriginalTextURL = meta.OriginalTextURL
		t.WordCount = countWords(meta.Text)
	}

	if assigned, ok := log.First(markettypes.EventTaskAssigned); ok {
		if price := assigned.BigIntParam("_price"); price != nil {
			t.AssignedPrice = price.Clone()
		}
	}

	if submitted, ok := log.First(markettypes.EventTranslationSubmitted); ok {
		if pointer := submitted.StringParam("_translatedText"); pointer != "" {
			t.TranslatedTextURL = b.resolveTextURL(pointer)
		}
	}

	t.HasDispute = log.Has(markettypes.EventDispute)

	if t.Status == markettypes.StatusResolved && !t.HasDispute {
		t.Ruling = b.rulingFromResolution(id, log)
	}

	return t, nil
}

// rulingFromResolution derives the final ruling for tasks resolved without
// a dispute, from the TaskResolved reason code.
func (b *Builder) rulingFromResolution(id uint64, log markettypes.EventLog) markettypes.Ruling {
	resolved, ok := log.First(markettypes.EventTaskResolved)
	if !ok {
		return markettypes.RulingNone
	}
	switch reason := resolved.StringParam("_reason"); reason {
	case markettypes.ReasonTranslationAccepted:
		return markettypes.RulingTranslationApproved
	case markettypes.ReasonRequesterReimbursed:
		return markettypes.RulingTranslationRejected
	default:
		// "dispute-settled" without a Dispute event means the log source
		// missed the dispute; leave the ruling unset rather than guess.
		b.logger.Warn("Unmapped task resolution reason", "task_id", id, "reason", reason)
		return markettypes.RulingNone
	}
}

func (b *Builder) resolveTextURL(pointer string) string {
	if b.textGateway == "" {
		return pointer
	}
	return strings.TrimSuffix(b.textGateway, "/") + "/" + strings.TrimPrefix(pointer, "/")
}

func partiesFromTuple(tuple [3]string) map[markettypes.TaskParty]string {
	parties := make(map[markettypes.TaskParty]string, 2)
	if !pkgtypes.IsZeroAddress(tuple[1]) {
		parties[markettypes.PartyTranslator] = tuple[1]
	}
	if !pkgtypes.IsZeroAddress(tuple[2]) {
		parties[markettypes.PartyChallenger] = tuple[2]
	}
	return parties
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

func parseAmount(raw, field string) (*pkgtypes.BigInt, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing %s", markettypes.ErrMalformedTaskData, field)
	}
	v, err := pkgtypes.ParseBigInt(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", markettypes.ErrMalformedTaskData, field, err)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s is negative", markettypes.ErrMalformedTaskData, field)
	}
	return v, nil
}

func parseUint(raw, field string) (uint64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", markettypes.ErrMalformedTaskData, field)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", markettypes.ErrMalformedTaskData, field, err)
	}
	return v, nil
}

func parseUnix(raw, field string) (time.Time, error) {
	secs, err := parseUint(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0).UTC(), nil
}
