package task

import (
	"time"

	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// Optimistic mutation helpers. Each takes a snapshot plus the minimal data
// of a just-confirmed transaction and returns a new snapshot with the
// transition applied. They bridge the gap until the next authoritative
// refetch and must never be treated as the source of truth.

// RegisterAssignment applies a translator self-assignment.
func RegisterAssignment(t markettypes.Task, translator string, price *pkgtypes.BigInt, at time.Time) markettypes.Task {
	out := t.Clone()
	out.Status = markettypes.StatusAssigned
	out.Parties[markettypes.PartyTranslator] = translator
	out.AssignedPrice = price.Clone()
	out.LastInteraction = at
	return out
}

// RegisterSubmission applies a translation submission.
func RegisterSubmission(t markettypes.Task, translatedTextURL string, at time.Time) markettypes.Task {
	out := t.Clone()
	out.Status = markettypes.StatusAwaitingReview
	out.TranslatedTextURL = translatedTextURL
	out.LastInteraction = at
	return out
}

// RegisterChallenge applies a challenge against the submitted translation.
func RegisterChallenge(t markettypes.Task, challenger string) markettypes.Task {
	out := t.Clone()
	out.Status = markettypes.StatusDisputeCreated
	out.Parties[markettypes.PartyChallenger] = challenger
	out.HasDispute = true
	return out
}

// RegisterApproval applies an uncontested approval of the translation.
func RegisterApproval(t markettypes.Task) markettypes.Task {
	out := t.Clone()
	out.Status = markettypes.StatusResolved
	out.Ruling = markettypes.RulingTranslationApproved
	return out
}

// RegisterReimbursement applies a requester reimbursement.
func RegisterReimbursement(t markettypes.Task) markettypes.Task {
	out := t.Clone()
	out.Status = markettypes.StatusResolved
	out.Ruling = markettypes.RulingTranslationRejected
	return out
}
