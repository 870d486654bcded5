// Package dispute builds Dispute snapshots from raw arbitrator data and
// answers the appeal-funding economics over them. Like the task package it
// is pure: inputs are collected by the caller, outputs are value objects.
package dispute

import (
	"fmt"
	"strconv"
	"time"

	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// ChainDispute carries the raw arbitration-reader output for one dispute:
// decimal strings throughout, matching the wire shape of chain reads.
type ChainDispute struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Ruling string `json:"ruling"`

	AppealPeriodStart string `json:"appeal_period_start"`
	AppealPeriodEnd   string `json:"appeal_period_end"`
	AppealCost        string `json:"appeal_cost"`

	PaidFeesTranslator string `json:"paid_fees_translator"`
	PaidFeesChallenger string `json:"paid_fees_challenger"`
	HasPaidTranslator  bool   `json:"has_paid_translator"`
	HasPaidChallenger  bool   `json:"has_paid_challenger"`
	FeeRewards         string `json:"fee_rewards"`

	WinnerStakeMultiplier string `json:"winner_stake_multiplier"`
	LoserStakeMultiplier  string `json:"loser_stake_multiplier"`
	SharedStakeMultiplier string `json:"shared_stake_multiplier"`
	MultiplierDivisor     string `json:"multiplier_divisor"`
}

// NoDispute returns the snapshot used while a task has no dispute yet.
// Monetary fields collapse to the contract's non-payable sentinel rather
// than zero, so nothing downstream can mistake "not applicable" for
// "free".
func NoDispute(taskID uint64) markettypes.Dispute {
	return markettypes.Dispute{
		TaskID:     taskID,
		Status:     markettypes.DisputeNone,
		Ruling:     markettypes.RulingNone,
		AppealCost: pkgtypes.NonPayable(),
		LatestRound: markettypes.Round{
			HasPaid: map[markettypes.TaskParty]bool{
				markettypes.PartyTranslator: false,
				markettypes.PartyChallenger: false,
			},
			PaidFees: map[markettypes.TaskParty]*pkgtypes.BigInt{
				markettypes.PartyTranslator: pkgtypes.NonPayable(),
				markettypes.PartyChallenger: pkgtypes.NonPayable(),
			},
			FeeRewards: pkgtypes.NonPayable(),
		},
	}
}

// Build assembles a Dispute snapshot from raw arbitrator data and the
// owning task. When the task itself is already Resolved, the task's stored
// ruling overrides the raw arbitrator ruling: appeal-funding failures can
// make the contract record a divergent final ruling.
func Build(raw ChainDispute, t markettypes.Task) (markettypes.Dispute, error) {
	if !t.HasDispute {
		return NoDispute(t.ID), nil
	}

	statusRaw, err := parseDisputeUint(raw.Status, "status")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	status, err := markettypes.ParseDisputeStatus(statusRaw)
	if err != nil {
		return markettypes.Dispute{}, fmt.Errorf("%w: %v", markettypes.ErrMalformedDisputeData, err)
	}

	rulingRaw, err := parseDisputeUint(raw.Ruling, "ruling")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	ruling, err := markettypes.ParseRuling(rulingRaw)
	if err != nil {
		return markettypes.Dispute{}, fmt.Errorf("%w: %v", markettypes.ErrMalformedDisputeData, err)
	}
	if t.Status == markettypes.StatusResolved && t.Ruling != markettypes.RulingNone {
		ruling = t.Ruling
	}

	id, err := parseDisputeAmount(raw.ID, "id")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	appealCost, err := parseDisputeAmount(raw.AppealCost, "appeal_cost")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	periodStart, err := parseDisputeUnix(raw.AppealPeriodStart, "appeal_period_start")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	periodEnd, err := parseDisputeUnix(raw.AppealPeriodEnd, "appeal_period_end")
	if err != nil {
		return markettypes.Dispute{}, err
	}

	paidTranslator, err := parseDisputeAmount(raw.PaidFeesTranslator, "paid_fees_translator")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	paidChallenger, err := parseDisputeAmount(raw.PaidFeesChallenger, "paid_fees_challenger")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	feeRewards, err := parseDisputeAmount(raw.FeeRewards, "fee_rewards")
	if err != nil {
		return markettypes.Dispute{}, err
	}

	winnerMul, err := parseDisputeAmount(raw.WinnerStakeMultiplier, "winner_stake_multiplier")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	loserMul, err := parseDisputeAmount(raw.LoserStakeMultiplier, "loser_stake_multiplier")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	sharedMul, err := parseDisputeAmount(raw.SharedStakeMultiplier, "shared_stake_multiplier")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	divisor, err := parseDisputeAmount(raw.MultiplierDivisor, "multiplier_divisor")
	if err != nil {
		return markettypes.Dispute{}, err
	}
	if divisor.IsZero() {
		return markettypes.Dispute{}, fmt.Errorf("%w: multiplier_divisor is zero", markettypes.ErrMalformedDisputeData)
	}

	return markettypes.Dispute{
		ID:     id,
		TaskID: t.ID,
		Status: status,
		Ruling: ruling,
		AppealPeriod: markettypes.AppealPeriod{
			Start: periodStart,
			End:   periodEnd,
		},
		AppealCost: appealCost,
		LatestRound: markettypes.Round{
			HasPaid: map[markettypes.TaskParty]bool{
				markettypes.PartyTranslator: raw.HasPaidTranslator,
				markettypes.PartyChallenger: raw.HasPaidChallenger,
			},
			PaidFees: map[markettypes.TaskParty]*pkgtypes.BigInt{
				markettypes.PartyTranslator: paidTranslator,
				markettypes.PartyChallenger: paidChallenger,
			},
			FeeRewards: feeRewards,
		},
		WinnerStakeMultiplier: winnerMul,
		LoserStakeMultiplier:  loserMul,
		SharedStakeMultiplier: sharedMul,
		MultiplierDivisor:     divisor,
	}, nil
}

func parseDisputeAmount(raw, field string) (*pkgtypes.BigInt, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing %s", markettypes.ErrMalformedDisputeData, field)
	}
	v, err := pkgtypes.ParseBigInt(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", markettypes.ErrMalformedDisputeData, field, err)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s is negative", markettypes.ErrMalformedDisputeData, field)
	}
	return v, nil
}

func parseDisputeUint(raw, field string) (uint64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", markettypes.ErrMalformedDisputeData, field)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", markettypes.ErrMalformedDisputeData, field, err)
	}
	return v, nil
}

func parseDisputeUnix(raw, field string) (time.Time, error) {
	secs, err := parseDisputeUint(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0).UTC(), nil
}
