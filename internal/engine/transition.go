package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/creditline/internal/domain"
)

// ProcessEvent applies event and charges interest up to next's date.
//
// Events sharing a date with next are applied without any interest so that a
// same-day run nets out first. Otherwise interest is charged on the post-event
// balance for every day from event's date to next's date. sameDateAsPrevious
// tells whether event shares its date with the event applied before it.
func (e *Engine) ProcessEvent(s State, event, next domain.Event, sameDateAsPrevious bool) (State, error) {
	s, err := e.apply(s, event)
	if err != nil {
		return s, err
	}

	if event.Date.Equal(next.Date) {
		return s, nil
	}

	// An advance closing a same-day run may leave the balance over-retired;
	// that surplus belongs to banked credit.
	if event.Kind == domain.EventKindAdvance && sameDateAsPrevious && s.AdvanceBalance.IsNegative() {
		s.PaymentsForFuture = s.PaymentsForFuture.Add(s.AdvanceBalance.Abs())
		s.AdvanceBalance = decimal.Zero
	}

	s.InterestPayable = s.InterestPayable.Add(e.AccruedInterest(s, next.Date, event.Date, true))

	return s, nil
}

// apply runs the balance mutation for one event without charging interest.
func (e *Engine) apply(s State, event domain.Event) (State, error) {
	switch event.Kind {
	case domain.EventKindAdvance:
		return e.createAdvance(s, event, true), nil
	case domain.EventKindPayment:
		return e.executePaymentFlow(s, event, false)
	default:
		return s, fmt.Errorf("%w: event %d has kind %q", domain.ErrInvalidEventKind, event.Seq, event.Kind)
	}
}
