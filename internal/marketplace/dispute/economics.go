package dispute

import (
	"errors"
	"math/big"
	"time"

	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// ErrBothSidesFunded signals an appeal round where both sides fully paid
// after the window lapsed. Correct upstream normalization makes this
// unreachable, so it is surfaced instead of silently defaulted.
var ErrBothSidesFunded = errors.New("both sides fully funded after appeal window lapsed")

// RewardPool returns the extra stake party must post beyond the appeal
// cost, funding crowdfunder rewards if that side wins. Meaningful only
// while the dispute is Appealable; any other status collapses to the
// non-payable sentinel.
func RewardPool(d markettypes.Dispute, party markettypes.TaskParty) *pkgtypes.BigInt {
	if d.Status != markettypes.DisputeAppealable {
		return pkgtypes.NonPayable()
	}
	if party != markettypes.PartyTranslator && party != markettypes.PartyChallenger {
		return pkgtypes.NonPayable()
	}

	multiplier := d.SharedStakeMultiplier
	if winner := markettypes.WinnerOf(d.Ruling); winner != markettypes.PartyOther {
		if party == winner {
			multiplier = d.WinnerStakeMultiplier
		} else {
			multiplier = d.LoserStakeMultiplier
		}
	}

	// The min clamp mirrors the contract's non-payable guard, not a real
	// price cap.
	return pkgtypes.Min(d.AppealCost.Mul(multiplier).Div(d.MultiplierDivisor), pkgtypes.NonPayable())
}

// TotalAppealCost returns appeal cost plus the party's reward pool,
// clamped to the non-payable sentinel.
func TotalAppealCost(d markettypes.Dispute, party markettypes.TaskParty) *pkgtypes.BigInt {
	if d.Status != markettypes.DisputeAppealable {
		return pkgtypes.NonPayable()
	}
	pool := RewardPool(d, party)
	if pkgtypes.IsNonPayable(pool) {
		return pkgtypes.NonPayable()
	}
	return pkgtypes.Min(d.AppealCost.Add(pool), pkgtypes.NonPayable())
}

// FundingROI returns the return ratio for fully funding party's side, for
// "fund this side and win" framing: the counterparty's stake beyond the
// base appeal cost, over party's own total cost. The ratio can be
// negative; the sign is preserved so a mispriced round stays visible.
// Zero for parties without a stake.
func FundingROI(d markettypes.Dispute, party markettypes.TaskParty) float64 {
	if d.Status != markettypes.DisputeAppealable {
		return 0
	}
	if party != markettypes.PartyTranslator && party != markettypes.PartyChallenger {
		return 0
	}
	own := TotalAppealCost(d, party)
	counter := TotalAppealCost(d, party.Counterparty())
	if own.IsZero() || pkgtypes.IsNonPayable(own) || pkgtypes.IsNonPayable(counter) {
		return 0
	}
	gain := new(big.Int).Sub(counter.Int, d.AppealCost.Int)
	ratio, _ := new(big.Rat).SetFrac(gain, own.Int).Float64()
	return ratio
}

// RemainingTimeForAppeal returns how long party can still fund an appeal.
// The ruling's winner (and both sides under a no-winner ruling) has the
// full window; the loser only the first half, per the contract's
// asymmetric grace period.
func RemainingTimeForAppeal(d markettypes.Dispute, party markettypes.TaskParty, now time.Time) time.Duration {
	if d.Status != markettypes.DisputeAppealable {
		return 0
	}

	winner := markettypes.WinnerOf(d.Ruling)
	if winner == markettypes.PartyOther || party == winner {
		return clampDuration(d.AppealPeriod.End.Sub(now))
	}

	// Loser side: window closes at start + (end-start)/2, integer seconds.
	start := d.AppealPeriod.Start.Unix()
	half := start + (d.AppealPeriod.End.Unix()-start)/2
	return clampDuration(time.Unix(half, 0).Sub(now))
}

// IsAppealOngoing reports whether the current appeal round can still
// change the outcome. With no winner both sides share one window. With a
// winner: once the winner's window lapses the round is over; while both
// windows are open it is ongoing; and when only the winner's window
// remains, it is ongoing only if the loser already forced the appeal by
// fully paying and the winner has not yet responded.
func IsAppealOngoing(d markettypes.Dispute, now time.Time) bool {
	if d.Status != markettypes.DisputeAppealable {
		return false
	}

	winner := markettypes.WinnerOf(d.Ruling)
	if winner == markettypes.PartyOther {
		return RemainingTimeForAppeal(d, markettypes.PartyTranslator, now) > 0
	}

	loser := winner.Counterparty()
	if RemainingTimeForAppeal(d, winner, now) <= 0 {
		return false
	}
	if RemainingTimeForAppeal(d, loser, now) > 0 {
		return true
	}
	return d.LatestRound.HasPaid[loser] && !d.LatestRound.HasPaid[winner]
}

// ExpectedFinalRuling predicts the ruling the contract will enforce once
// the appeal window lapses without full funding on one side. While the
// dispute is not Appealable, or the appeal is still ongoing, the current
// ruling stands.
func ExpectedFinalRuling(d markettypes.Dispute, now time.Time) (markettypes.Ruling, error) {
	if d.Status != markettypes.DisputeAppealable || IsAppealOngoing(d, now) {
		return d.Ruling, nil
	}

	translatorPaid := d.LatestRound.HasPaid[markettypes.PartyTranslator]
	challengerPaid := d.LatestRound.HasPaid[markettypes.PartyChallenger]
	switch {
	case translatorPaid && challengerPaid:
		return markettypes.RulingNone, ErrBothSidesFunded
	case challengerPaid:
		return markettypes.RulingTranslationRejected, nil
	case translatorPaid:
		return markettypes.RulingTranslationApproved, nil
	}
	return d.Ruling, nil
}

// RegisterAppealFunding applies a confirmed appeal-fee contribution and
// returns a new snapshot. Reward pools are not stored on the snapshot, so
// nothing else needs invalidating; they are recomputed on read.
func RegisterAppealFunding(d markettypes.Dispute, party markettypes.TaskParty, deposit *pkgtypes.BigInt) markettypes.Dispute {
	out := d.Clone()
	paid := out.LatestRound.PaidFees[party].Add(deposit)
	out.LatestRound.PaidFees[party] = paid
	out.LatestRound.HasPaid[party] = paid.Cmp(TotalAppealCost(out, party)) >= 0
	return out
}

func clampDuration(v time.Duration) time.Duration {
	if v < 0 {
		return 0
	}
	return v
}
