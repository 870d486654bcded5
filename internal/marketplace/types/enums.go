package types

import "fmt"

// TaskStatus mirrors the escrow contract's Status enum. Incomplete is a
// derived display state computed from deadlines, not a member here.
type TaskStatus uint8

const (
	StatusCreated TaskStatus = iota
	StatusAssigned
	StatusAwaitingReview
	StatusDisputeCreated
	StatusResolved
)

// ParseTaskStatus validates a raw chain value against the closed set.
func ParseTaskStatus(v uint64) (TaskStatus, error) {
	if v > uint64(StatusResolved) {
		return 0, fmt.Errorf("%w: task status %d", ErrInvalidEnumValue, v)
	}
	return TaskStatus(v), nil
}

func (s TaskStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusAssigned:
		return "assigned"
	case StatusAwaitingReview:
		return "awaiting-review"
	case StatusDisputeCreated:
		return "dispute-created"
	case StatusResolved:
		return "resolved"
	}
	return fmt.Sprintf("task-status(%d)", uint8(s))
}

// DisputeStatus mirrors the arbitrator's DisputeStatus enum, with an extra
// None member for "no dispute exists yet". The contract only knows
// Waiting/Appealable/Solved.
type DisputeStatus uint8

const (
	DisputeNone DisputeStatus = iota
	DisputeWaiting
	DisputeAppealable
	DisputeSolved
)

// ParseDisputeStatus validates a raw arbitrator value (0=Waiting,
// 1=Appealable, 2=Solved).
func ParseDisputeStatus(v uint64) (DisputeStatus, error) {
	switch v {
	case 0:
		return DisputeWaiting, nil
	case 1:
		return DisputeAppealable, nil
	case 2:
		return DisputeSolved, nil
	}
	return 0, fmt.Errorf("%w: dispute status %d", ErrInvalidEnumValue, v)
}

func (s DisputeStatus) String() string {
	switch s {
	case DisputeNone:
		return "none"
	case DisputeWaiting:
		return "waiting"
	case DisputeAppealable:
		return "appealable"
	case DisputeSolved:
		return "solved"
	}
	return fmt.Sprintf("dispute-status(%d)", uint8(s))
}

// Ruling mirrors the arbitrator's ruling values, with an extra None member
// for "no ruling yet".
type Ruling uint8

const (
	RulingNone Ruling = iota
	RulingRefuseToRule
	RulingTranslationApproved
	RulingTranslationRejected
)

// ParseRuling validates a raw arbitrator value (0=RefuseToRule,
// 1=TranslationApproved, 2=TranslationRejected).
func ParseRuling(v uint64) (Ruling, error) {
	switch v {
	case 0:
		return RulingRefuseToRule, nil
	case 1:
		return RulingTranslationApproved, nil
	case 2:
		return RulingTranslationRejected, nil
	}
	return 0, fmt.Errorf("%w: ruling %d", ErrInvalidEnumValue, v)
}

func (r Ruling) String() string {
	switch r {
	case RulingNone:
		return "none"
	case RulingRefuseToRule:
		return "refuse-to-rule"
	case RulingTranslationApproved:
		return "translation-approved"
	case RulingTranslationRejected:
		return "translation-rejected"
	}
	return fmt.Sprintf("ruling(%d)", uint8(r))
}

// TaskParty classifies who is looking at (or staked on) a task.
type TaskParty uint8

const (
	PartyOther TaskParty = iota
	PartyRequester
	PartyTranslator
	PartyChallenger
)

// ParseTaskParty validates a raw chain party index. The escrow contract's
// parties tuple uses 1=Translator, 2=Challenger; 0 is the unused slot.
func ParseTaskParty(v uint64) (TaskParty, error) {
	switch v {
	case 1:
		return PartyTranslator, nil
	case 2:
		return PartyChallenger, nil
	}
	return 0, fmt.Errorf("%w: task party %d", ErrInvalidEnumValue, v)
}

func (p TaskParty) String() string {
	switch p {
	case PartyRequester:
		return "requester"
	case PartyTranslator:
		return "translator"
	case PartyChallenger:
		return "challenger"
	case PartyOther:
		return "other"
	}
	return fmt.Sprintf("task-party(%d)", uint8(p))
}

// MarshalText lets parties serve as readable JSON map keys.
func (p TaskParty) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses the textual party form produced by MarshalText.
func (p *TaskParty) UnmarshalText(text []byte) error {
	switch string(text) {
	case "requester":
		*p = PartyRequester
	case "translator":
		*p = PartyTranslator
	case "challenger":
		*p = PartyChallenger
	case "other":
		*p = PartyOther
	default:
		return fmt.Errorf("%w: task party %q", ErrInvalidEnumValue, string(text))
	}
	return nil
}

// Counterparty returns the opposing staked party. Only meaningful for
// Translator and Challenger.
func (p TaskParty) Counterparty() TaskParty {
	switch p {
	case PartyTranslator:
		return PartyChallenger
	case PartyChallenger:
		return PartyTranslator
	}
	return PartyOther
}

// AppealSide frames a party relative to the current ruling. Display
// classification only, never used for money math.
type AppealSide uint8

const (
	SideNone AppealSide = iota
	SideWinner
	SideLoser
	SideTie
)

// AppealSideOf derives the side of party under ruling.
func AppealSideOf(ruling Ruling, party TaskParty) AppealSide {
	if party != PartyTranslator && party != PartyChallenger {
		return SideNone
	}
	switch ruling {
	case RulingNone, RulingRefuseToRule:
		return SideTie
	case RulingTranslationApproved:
		if party == PartyTranslator {
			return SideWinner
		}
		return SideLoser
	case RulingTranslationRejected:
		if party == PartyChallenger {
			return SideWinner
		}
		return SideLoser
	}
	return SideNone
}

// WinnerOf returns the staked party favored by ruling, or PartyOther when
// the ruling names no winner.
func WinnerOf(ruling Ruling) TaskParty {
	switch ruling {
	case RulingTranslationApproved:
		return PartyTranslator
	case RulingTranslationRejected:
		return PartyChallenger
	}
	return PartyOther
}

func (s AppealSide) String() string {
	switch s {
	case SideWinner:
		return "winner"
	case SideLoser:
		return "loser"
	case SideTie:
		return "tie"
	case SideNone:
		return "none"
	}
	return fmt.Sprintf("appeal-side(%d)", uint8(s))
}
