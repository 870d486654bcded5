package api

import (
	"time"

	"github.com/linguoexchange/linguo-backend/internal/marketplace/cache"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/dispute"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/pricing"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/task"
	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// TaskView is a task snapshot plus the derived fields clients poll for.
type TaskView struct {
	markettypes.Task
	IsPending                  bool             `json:"is_pending"`
	IsIncomplete               bool             `json:"is_incomplete"`
	RemainingSubmissionSeconds int64            `json:"remaining_submission_seconds"`
	RemainingReviewSeconds     int64            `json:"remaining_review_seconds"`
	CurrentPrice               *pkgtypes.BigInt `json:"current_price"`
	CurrentPricePerWord        *pkgtypes.BigInt `json:"current_price_per_word"`
}

func newTaskView(t markettypes.Task, now time.Time) TaskView {
	return TaskView{
		Task:                       t,
		IsPending:                  task.IsPending(t),
		IsIncomplete:               task.IsIncomplete(t, now),
		RemainingSubmissionSeconds: int64(task.RemainingTimeForSubmission(t, now) / time.Second),
		RemainingReviewSeconds:     int64(task.RemainingTimeForReview(t, now) / time.Second),
		CurrentPrice:               pricing.CurrentPrice(t, now),
		CurrentPricePerWord:        pricing.CurrentPricePerWord(t, now),
	}
}

// SideView is one staked party's appeal economics.
type SideView struct {
	RewardPool             *pkgtypes.BigInt `json:"reward_pool"`
	TotalAppealCost        *pkgtypes.BigInt `json:"total_appeal_cost"`
	FundingROI             float64          `json:"funding_roi"`
	RemainingAppealSeconds int64            `json:"remaining_appeal_seconds"`
	HasPaid                bool             `json:"has_paid"`
	PaidFees               *pkgtypes.BigInt `json:"paid_fees"`
}

// DisputeView is a dispute snapshot plus its computed appeal economics.
type DisputeView struct {
	markettypes.Dispute
	AppealOngoing       bool                              `json:"appeal_ongoing"`
	ExpectedFinalRuling string                            `json:"expected_final_ruling"`
	Sides               map[markettypes.TaskParty]SideView `json:"sides"`
}

func newDisputeView(snapshot cache.Snapshot, now time.Time) (DisputeView, error) {
	d := snapshot.Dispute

	expected, err := dispute.ExpectedFinalRuling(d, now)
	if err != nil {
		return DisputeView{}, err
	}

	sides := make(map[markettypes.TaskParty]SideView, 2)
	for _, party := range []markettypes.TaskParty{markettypes.PartyTranslator, markettypes.PartyChallenger} {
		sides[party] = SideView{
			RewardPool:             dispute.RewardPool(d, party),
			TotalAppealCost:        dispute.TotalAppealCost(d, party),
			FundingROI:             dispute.FundingROI(d, party),
			RemainingAppealSeconds: int64(dispute.RemainingTimeForAppeal(d, party, now) / time.Second),
			HasPaid:                d.LatestRound.HasPaid[party],
			PaidFees:               d.LatestRound.PaidFees[party],
		}
	}

	return DisputeView{
		Dispute:             d,
		AppealOngoing:       dispute.IsAppealOngoing(d, now),
		ExpectedFinalRuling: expected.String(),
		Sides:               sides,
	}, nil
}
