package task

import (
	"time"

	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
)

// IsPending reports whether the task is still biddable or in translation.
func IsPending(t markettypes.Task) bool {
	return t.Status == markettypes.StatusCreated || t.Status == markettypes.StatusAssigned
}

// IsIncomplete reports whether the task missed its submission window. For
// resolved tasks it means no translation was ever submitted; for pending
// tasks it means the window has already lapsed.
func IsIncomplete(t markettypes.Task, now time.Time) bool {
	switch t.Status {
	case markettypes.StatusResolved:
		return !t.LifecycleEvents.Has(markettypes.EventTranslationSubmitted)
	case markettypes.StatusCreated, markettypes.StatusAssigned:
		return now.After(submissionDeadline(t))
	}
	return false
}

// RemainingTimeForSubmission returns how long the translator still has to
// submit, clamped to zero. Zero outside Created/Assigned.
func RemainingTimeForSubmission(t markettypes.Task, now time.Time) time.Duration {
	if t.Status != markettypes.StatusCreated && t.Status != markettypes.StatusAssigned {
		return 0
	}
	return clampDuration(submissionDeadline(t).Sub(now))
}

// RemainingTimeForReview returns how long the review window stays open,
// clamped to zero. Zero outside AwaitingReview.
func RemainingTimeForReview(t markettypes.Task, now time.Time) time.Duration {
	if t.Status != markettypes.StatusAwaitingReview {
		return 0
	}
	deadline := t.LastInteraction.Add(time.Duration(t.ReviewTimeout) * time.Second)
	return clampDuration(deadline.Sub(now))
}

func submissionDeadline(t markettypes.Task) time.Time {
	return t.LastInteraction.Add(time.Duration(t.SubmissionTimeout) * time.Second)
}

func clampDuration(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
