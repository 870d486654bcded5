package types

import (
	"time"

	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// Task is the canonical read-model snapshot of one escrowed translation
// task. Snapshots are value objects: rebuilt wholesale whenever fresh chain
// data arrives, never patched in place except through the optimistic
// mutation helpers, which clone first.
type Task struct {
	ID              uint64 `json:"id"`
	ContractAddress string `json:"contract_address"`

	// Off-chain metadata; blank when the metadata fetch failed or the
	// document omitted them.
	Title          string `json:"title"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Quality        string `json:"quality"`

	OriginalTextURL   string `json:"original_text_url"`
	TranslatedTextURL string `json:"translated_text_url,omitempty"`

	MinPrice *pkgtypes.BigInt `json:"min_price"`
	MaxPrice *pkgtypes.BigInt `json:"max_price"`
	// AssignedPrice is locked from the assignment event. Once set it is
	// authoritative over the price curve and never changes again.
	AssignedPrice *pkgtypes.BigInt `json:"assigned_price,omitempty"`

	// Timeouts in seconds, as stored by the contract.
	SubmissionTimeout uint64 `json:"submission_timeout"`
	ReviewTimeout     uint64 `json:"review_timeout"`

	Deadline        time.Time `json:"deadline"`
	LastInteraction time.Time `json:"last_interaction"`

	Requester string               `json:"requester"`
	Parties   map[TaskParty]string `json:"parties"`

	Status     TaskStatus       `json:"status"`
	Ruling     Ruling           `json:"ruling"`
	HasDispute bool             `json:"has_dispute"`
	DisputeID  *pkgtypes.BigInt `json:"dispute_id,omitempty"`

	WordCount int `json:"word_count"`

	LifecycleEvents EventLog `json:"lifecycle_events"`
}

// Translator returns the assigned translator's address, or "" when the
// task is unassigned.
func (t Task) Translator() string {
	return t.Parties[PartyTranslator]
}

// Challenger returns the challenger's address, or "" when unchallenged.
func (t Task) Challenger() string {
	return t.Parties[PartyChallenger]
}

// PartyOf classifies an address relative to this task.
func (t Task) PartyOf(address string) TaskParty {
	switch {
	case pkgtypes.SameAddress(address, t.Requester):
		return PartyRequester
	case t.Translator() != "" && pkgtypes.SameAddress(address, t.Translator()):
		return PartyTranslator
	case t.Challenger() != "" && pkgtypes.SameAddress(address, t.Challenger()):
		return PartyChallenger
	}
	return PartyOther
}

// Clone deep-copies the snapshot, including big-int amounts, the parties
// map and the event history.
func (t Task) Clone() Task {
	out := t
	out.MinPrice = t.MinPrice.Clone()
	out.MaxPrice = t.MaxPrice.Clone()
	out.AssignedPrice = t.AssignedPrice.Clone()
	out.DisputeID = t.DisputeID.Clone()
	out.Parties = make(map[TaskParty]string, len(t.Parties))
	for p, addr := range t.Parties {
		out.Parties[p] = addr
	}
	out.LifecycleEvents = t.LifecycleEvents.Clone()
	return out
}
