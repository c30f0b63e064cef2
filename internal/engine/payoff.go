package engine

import (
	"slices"

	"github.com/shopspring/decimal"
)

// decreaseOldestActiveBalance applies amount to unpaid advances, oldest first.
//
// An advance that is overpaid is marked paid, the overflow replaces the banked
// credit and moves on to the next unpaid advance. When that overflow is only
// partly absorbed the banked credit drops to zero; when it is absorbed exactly
// the overflow stays banked. An amount left over after every advance is paid
// is banked as credit for future draws, unless it came from an overflow.
func (e *Engine) decreaseOldestActiveBalance(s State, amount decimal.Decimal) State {
	s.advances = slices.Clone(s.advances)

	remaining := amount
	cascading := false

	for i := range s.advances {
		adv := &s.advances[i]
		if adv.Paid {
			continue
		}

		left := adv.CurrentBalance.Sub(remaining)

		switch left.Sign() {
		case 0:
			adv.CurrentBalance = decimal.Zero
			adv.Paid = true
			s.AdvanceBalance = s.AdvanceBalance.Sub(remaining)
			return s

		case 1:
			adv.CurrentBalance = left
			s.AdvanceBalance = s.AdvanceBalance.Sub(remaining)
			if cascading {
				s.PaymentsForFuture = decimal.Zero
			}
			return s

		default:
			s.AdvanceBalance = s.AdvanceBalance.Sub(adv.CurrentBalance)
			adv.CurrentBalance = decimal.Zero
			adv.Paid = true
			remaining = left.Abs()
			s.PaymentsForFuture = remaining
			cascading = true

			e.logger.Debug().
				Int("advance_id", adv.ID).
				Str("overflow", remaining.String()).
				Msg("advance overpaid, carrying overflow")
		}
	}

	if remaining.IsPositive() && !cascading {
		s.PaymentsForFuture = s.PaymentsForFuture.Add(remaining)
	}

	return s
}
