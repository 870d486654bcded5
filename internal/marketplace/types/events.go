package types

import (
	"time"

	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// Escrow contract event names
const (
	EventTaskCreated           = "TaskCreated"
	EventTaskAssigned          = "TaskAssigned"
	EventTranslationSubmitted  = "TranslationSubmitted"
	EventTranslationChallenged = "TranslationChallenged"
	EventTaskResolved          = "TaskResolved"
	EventDispute               = "Dispute"
	EventMetaEvidence          = "MetaEvidence"
	EventAppealContribution    = "AppealContribution"
	EventHasPaidAppealFee      = "HasPaidAppealFee"
)

// TaskResolved reason codes emitted by the escrow contract
const (
	ReasonTranslationAccepted = "translation-accepted"
	ReasonRequesterReimbursed = "requester-reimbursed"
	ReasonDisputeSettled      = "dispute-settled"
)

// EventRecord is one normalized event occurrence. Params hold typed values
// keyed by the contract's parameter names: *pkgtypes.BigInt for numeric
// fields, time.Time for unix-seconds fields, string for everything else.
type EventRecord struct {
	Name        string         `json:"name"`
	BlockNumber uint64         `json:"block_number"`
	TxHash      string         `json:"tx_hash"`
	Params      map[string]any `json:"params"`
}

// BigIntParam returns the named parameter as a BigInt, or nil when absent
// or of another kind.
func (e EventRecord) BigIntParam(key string) *pkgtypes.BigInt {
	v, ok := e.Params[key].(*pkgtypes.BigInt)
	if !ok {
		return nil
	}
	return v
}

// TimeParam returns the named parameter as a time.Time; the zero time when
// absent or of another kind.
func (e EventRecord) TimeParam(key string) time.Time {
	v, ok := e.Params[key].(time.Time)
	if !ok {
		return time.Time{}
	}
	return v
}

// StringParam returns the named parameter as a string, or "" when absent
// or of another kind.
func (e EventRecord) StringParam(key string) string {
	v, ok := e.Params[key].(string)
	if !ok {
		return ""
	}
	return v
}

// Clone deep-copies the record so snapshot mutations never alias shared
// event history.
func (e EventRecord) Clone() EventRecord {
	out := e
	out.Params = make(map[string]any, len(e.Params))
	for k, v := range e.Params {
		if b, ok := v.(*pkgtypes.BigInt); ok {
			out.Params[k] = b.Clone()
			continue
		}
		out.Params[k] = v
	}
	return out
}

// EventLog is the full normalized history of a task, keyed by event name,
// ordered as received from the log source.
type EventLog map[string][]EventRecord

// First returns the first occurrence of name, if any.
func (l EventLog) First(name string) (EventRecord, bool) {
	occ := l[name]
	if len(occ) == 0 {
		return EventRecord{}, false
	}
	return occ[0], true
}

// Has reports whether at least one occurrence of name exists.
func (l EventLog) Has(name string) bool {
	return len(l[name]) > 0
}

// Clone deep-copies the log.
func (l EventLog) Clone() EventLog {
	if l == nil {
		return nil
	}
	out := make(EventLog, len(l))
	for name, occ := range l {
		cp := make([]EventRecord, len(occ))
		for i, e := range occ {
			cp[i] = e.Clone()
		}
		out[name] = cp
	}
	return out
}
