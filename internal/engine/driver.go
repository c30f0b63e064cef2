package engine

import (
	"time"

	"github.com/iho/creditline/internal/domain"
)

// Boundary tells where a query end date fell relative to the events.
type Boundary string

// Boundaries
const (
	BoundaryBeforeFirst Boundary = "before_first_event"
	BoundaryExact       Boundary = "exact"
	BoundaryBetween     Boundary = "between"
	BoundaryAfterLast   Boundary = "after_last_event"
)

// Step records the balances around one transition of a replay.
type Step struct {
	Event  domain.Event
	Until  time.Time
	Before domain.Statistics
	After  domain.Statistics
}

// Result is the outcome of replaying a timeline up to an end date.
type Result struct {
	EndDate    time.Time
	Boundary   Boundary
	Statistics domain.Statistics
	State      State
	Trace      []Step
}

// cursor is the driver's per-pass view of the event being applied.
type cursor struct {
	event    domain.Event
	sameDate bool
}

// Statistics returns the position of the credit line as of end.
func (e *Engine) Statistics(events []domain.Event, end time.Time) (domain.Statistics, error) {
	res, err := e.Run(events, end)
	if err != nil {
		return domain.Statistics{}, err
	}
	return res.Statistics, nil
}

// Run replays events in order up to end and returns the resulting position.
//
// Events dated after end are ignored. When end falls strictly between two
// events a zero-amount truncated event dated end stands in for the later one,
// so interest is charged up to end and nothing beyond it is applied. The last
// event applied is charged one more day, plus every day after it up to end.
func (e *Engine) Run(events []domain.Event, end time.Time) (*Result, error) {
	if err := domain.ValidateTimeline(events); err != nil {
		return nil, err
	}

	end = domain.TruncateToDay(end)
	res := &Result{
		EndDate:    end,
		Boundary:   BoundaryBeforeFirst,
		Statistics: domain.ZeroStatistics(),
		State:      NewState(),
	}

	if len(events) == 0 || events[0].Date.After(end) {
		e.logger.Debug().
			Str("end_date", domain.FormatDate(end)).
			Int("events", len(events)).
			Msg("end date precedes all activity")
		return res, nil
	}

	state := NewState()
	cur := cursor{event: events[0]}
	terminal := events[len(events)-1]
	res.Boundary = BoundaryAfterLast

	for i := 1; i < len(events); i++ {
		next := events[i]

		if next.Date.After(end) {
			if cur.event.Date.Equal(end) {
				// end closes a same-day run; its last event is terminal.
				terminal = cur.event
				res.Boundary = BoundaryExact
				break
			}

			truncated := next.Truncate(end)
			var err error
			state, err = e.step(res, state, cur, truncated)
			if err != nil {
				return nil, err
			}
			terminal = truncated
			res.Boundary = BoundaryBetween
			break
		}

		var err error
		state, err = e.step(res, state, cur, next)
		if err != nil {
			return nil, err
		}

		cur = cursor{event: next, sameDate: cur.event.Date.Equal(next.Date)}
	}

	if res.Boundary == BoundaryAfterLast && terminal.Date.Equal(end) {
		res.Boundary = BoundaryExact
	}

	state, err := e.finalize(res, state, terminal, end)
	if err != nil {
		return nil, err
	}

	res.State = state
	res.Statistics = state.Statistics()

	e.logger.Debug().
		Str("end_date", domain.FormatDate(end)).
		Str("boundary", string(res.Boundary)).
		Str("advance_balance", res.Statistics.AdvanceBalance.String()).
		Str("interest_payable", res.Statistics.InterestPayable.String()).
		Str("interest_paid", res.Statistics.InterestPaid.String()).
		Str("payments_for_future", res.Statistics.PaymentsForFuture.String()).
		Msg("timeline replayed")

	return res, nil
}

func (e *Engine) step(res *Result, s State, cur cursor, next domain.Event) (State, error) {
	after, err := e.ProcessEvent(s, cur.event, next, cur.sameDate)
	if err != nil {
		return s, err
	}

	res.Trace = append(res.Trace, Step{
		Event:  cur.event,
		Until:  next.Date,
		Before: s.Balances(),
		After:  after.Balances(),
	})

	e.logger.Debug().
		Int("seq", cur.event.Seq).
		Str("kind", string(cur.event.Kind)).
		Str("amount", cur.event.Amount.String()).
		Str("date", domain.FormatDate(cur.event.Date)).
		Bool("same_date", cur.event.Date.Equal(next.Date)).
		Msg("event processed")

	return after, nil
}

// finalize applies the terminal event and charges its day plus any days
// after it up to end.
func (e *Engine) finalize(res *Result, s State, terminal domain.Event, end time.Time) (State, error) {
	after, err := e.apply(s, terminal)
	if err != nil {
		return s, err
	}

	after.InterestPayable = after.InterestPayable.Add(e.DailyInterest(after))
	if end.After(terminal.Date) {
		after.InterestPayable = after.InterestPayable.Add(e.AccruedInterest(after, end, terminal.Date, true))
	}

	res.Trace = append(res.Trace, Step{
		Event:  terminal,
		Until:  end,
		Before: s.Balances(),
		After:  after.Balances(),
	})

	return after, nil
}
