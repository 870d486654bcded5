package types

import (
	"time"

	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// AppealPeriod is the arbitrator's appeal window for the current round.
type AppealPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Round is the latest appeal round's funding state per staked party.
type Round struct {
	HasPaid    map[TaskParty]bool             `json:"has_paid"`
	PaidFees   map[TaskParty]*pkgtypes.BigInt `json:"paid_fees"`
	FeeRewards *pkgtypes.BigInt               `json:"fee_rewards"`
}

// Clone deep-copies the round.
func (r Round) Clone() Round {
	out := Round{
		HasPaid:    make(map[TaskParty]bool, len(r.HasPaid)),
		PaidFees:   make(map[TaskParty]*pkgtypes.BigInt, len(r.PaidFees)),
		FeeRewards: r.FeeRewards.Clone(),
	}
	for p, v := range r.HasPaid {
		out.HasPaid[p] = v
	}
	for p, v := range r.PaidFees {
		out.PaidFees[p] = v.Clone()
	}
	return out
}

// Dispute is the canonical snapshot of a task's dispute, rebuilt from raw
// arbitrator data whenever the task refreshes. Monetary queries over it
// live in the dispute package.
type Dispute struct {
	ID     *pkgtypes.BigInt `json:"id"`
	TaskID uint64           `json:"task_id"`

	Status DisputeStatus `json:"status"`
	Ruling Ruling        `json:"ruling"`

	AppealPeriod AppealPeriod     `json:"appeal_period"`
	AppealCost   *pkgtypes.BigInt `json:"appeal_cost"`

	LatestRound Round `json:"latest_round"`

	// Stake multipliers quoted by the escrow contract; all stake math is
	// value * multiplier / MultiplierDivisor, truncating.
	WinnerStakeMultiplier *pkgtypes.BigInt `json:"winner_stake_multiplier"`
	LoserStakeMultiplier  *pkgtypes.BigInt `json:"loser_stake_multiplier"`
	SharedStakeMultiplier *pkgtypes.BigInt `json:"shared_stake_multiplier"`
	MultiplierDivisor     *pkgtypes.BigInt `json:"multiplier_divisor"`
}

// Clone deep-copies the dispute snapshot.
func (d Dispute) Clone() Dispute {
	out := d
	out.ID = d.ID.Clone()
	out.AppealCost = d.AppealCost.Clone()
	out.LatestRound = d.LatestRound.Clone()
	out.WinnerStakeMultiplier = d.WinnerStakeMultiplier.Clone()
	out.LoserStakeMultiplier = d.LoserStakeMultiplier.Clone()
	out.SharedStakeMultiplier = d.SharedStakeMultiplier.Clone()
	out.MultiplierDivisor = d.MultiplierDivisor.Clone()
	return out
}
