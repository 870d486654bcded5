// Package pricing computes the escrow price curve and deposit quotes.
// All arithmetic runs on arbitrary-precision integers with truncating
// division so the results agree bit-for-bit with the contract.
package pricing

import (
	"time"

	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// DefaultDepositHorizon is how far ahead deposit quotes project to cover
// transaction confirmation latency.
const DefaultDepositHorizon = time.Hour

// CurrentPrice returns the escrow price at instant now. The price rises
// linearly from MinPrice at creation to MaxPrice at the end of the
// submission window. Once a translator is assigned, the locked assignment
// price is authoritative and the curve is bypassed.
func CurrentPrice(t markettypes.Task, now time.Time) *pkgtypes.BigInt {
	if t.AssignedPrice != nil {
		return t.AssignedPrice.Clone()
	}
	if t.Status != markettypes.StatusCreated {
		// No longer biddable.
		return pkgtypes.Zero()
	}

	elapsed := now.Unix() - t.LastInteraction.Unix()
	if elapsed < 0 {
		elapsed = 0
	}
	if t.SubmissionTimeout == 0 || uint64(elapsed) >= t.SubmissionTimeout {
		return t.MaxPrice.Clone()
	}

	spread := t.MaxPrice.Sub(t.MinPrice)
	rise := spread.Mul(pkgtypes.NewBigIntFromUint64(uint64(elapsed))).Div(pkgtypes.NewBigIntFromUint64(t.SubmissionTimeout))
	return pkgtypes.Min(t.MinPrice.Add(rise), t.MaxPrice)
}

// CurrentPricePerWord divides the current price by the task's word count,
// truncating. A zero word count returns the raw price.
func CurrentPricePerWord(t markettypes.Task, now time.Time) *pkgtypes.BigInt {
	price := CurrentPrice(t, now)
	if t.WordCount == 0 {
		return price
	}
	return price.Div(pkgtypes.NewBigIntFromUint64(uint64(t.WordCount)))
}

// ProjectedDeposit forward-projects a translator deposit quote by horizon.
// The contract's deposit formula is linear in price for fixed arbitration
// cost and multiplier divisor, so the projection adds the price slope over
// the horizon to the deposit the contract quotes right now. This assumes
// arbitration cost and divisor stay stable over the horizon; a known
// approximation, not a precision bug.
func ProjectedDeposit(t markettypes.Task, currentDeposit *pkgtypes.BigInt, horizon time.Duration) *pkgtypes.BigInt {
	if horizon <= 0 {
		horizon = DefaultDepositHorizon
	}
	if t.SubmissionTimeout == 0 {
		return currentDeposit.Clone()
	}
	slope := t.MaxPrice.Sub(t.MinPrice).Div(pkgtypes.NewBigIntFromUint64(t.SubmissionTimeout))
	return currentDeposit.Add(slope.Mul(pkgtypes.NewBigIntFromUint64(uint64(horizon / time.Second))))
}
