package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/creditline/internal/domain"
)

// executePaymentFlow applies a payment to interest payable first, then to
// advances oldest first, and banks whatever is left for future draws.
//
// With chargeToday set, a payment that reaches principal also charges one day
// of interest on the reduced advance balance.
func (e *Engine) executePaymentFlow(s State, ev domain.Event, chargeToday bool) (State, error) {
	switch s.InterestPayable.Sign() {
	case -1:
		return s, fmt.Errorf("%w: interest payable is %s before payment %d",
			domain.ErrInvariantViolation, s.InterestPayable, ev.Seq)
	case 0:
		return e.decreaseOldestActiveBalance(s, ev.Amount), nil
	}

	remaining := ev.Amount.Sub(s.InterestPayable)

	switch remaining.Sign() {
	case 0:
		s.InterestPaid = s.InterestPaid.Add(ev.Amount)
		if e.cfg.SettleExactInterest {
			s.InterestPayable = decimal.Zero
		}

	case -1:
		s.InterestPaid = s.InterestPaid.Add(ev.Amount)
		s.InterestPayable = remaining.Abs()

	case 1:
		s.InterestPaid = s.InterestPaid.Add(s.InterestPayable)
		s.InterestPayable = decimal.Zero

		s = e.decreaseOldestActiveBalance(s, remaining)
		s = reconcileCredit(s)

		if chargeToday {
			s.InterestPayable = s.InterestPayable.Add(e.DailyInterest(s))
		}
	}

	return s, nil
}

// reconcileCredit nets banked credit against any advance balance still open.
// An over-retired advance balance replaces the banked credit outright.
func reconcileCredit(s State) State {
	switch {
	case s.PaymentsForFuture.IsPositive() && s.AdvanceBalance.IsPositive():
		diff := s.AdvanceBalance.Sub(s.PaymentsForFuture)
		switch diff.Sign() {
		case 0:
			s.AdvanceBalance = decimal.Zero
			s.PaymentsForFuture = decimal.Zero
		case 1:
			s.AdvanceBalance = diff
			s.PaymentsForFuture = decimal.Zero
		default:
			s.AdvanceBalance = decimal.Zero
			s.PaymentsForFuture = diff.Abs()
		}

	case s.AdvanceBalance.IsNegative() && s.InterestPayable.IsZero():
		s.PaymentsForFuture = s.AdvanceBalance.Abs()
		s.AdvanceBalance = decimal.Zero
	}

	return s
}
