package engine

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/iho/creditline/internal/domain"
)

// createAdvance opens the next advance, funding it from banked credit first.
//
// The record is stored even when banked credit covers the whole draw. A
// truncated event stores no record; with applyToBalance set its amount still
// reaches the aggregate advance balance.
func (e *Engine) createAdvance(s State, ev domain.Event, applyToBalance bool) State {
	s.advanceCount++
	opening := ev.Amount

	if s.PaymentsForFuture.IsPositive() {
		diff := ev.Amount.Sub(s.PaymentsForFuture)
		switch diff.Sign() {
		case 1:
			opening = diff
			s.PaymentsForFuture = decimal.Zero
		case 0:
			opening = decimal.Zero
			s.PaymentsForFuture = decimal.Zero
		default:
			opening = decimal.Zero
			s.PaymentsForFuture = diff.Abs()
		}
	}

	if !ev.Truncated {
		// Clip forces append to copy so earlier states keep their own slice.
		s.advances = append(slices.Clip(s.advances), domain.Advance{
			ID:             s.advanceCount,
			Date:           ev.Date,
			InitialAmount:  ev.Amount,
			CurrentBalance: opening,
			Paid:           false,
		})
	}

	if applyToBalance {
		s.AdvanceBalance = s.AdvanceBalance.Add(opening)
	}

	return s
}
