package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind identifies what a ledger event does to the credit line.
type EventKind string

// Event kinds
const (
	EventKindAdvance EventKind = "advance"
	EventKindPayment EventKind = "payment"
)

// IsValid reports whether k is a known event kind.
func (k EventKind) IsValid() bool {
	return k == EventKindAdvance || k == EventKindPayment
}

// Event is a single draw or payment on the credit line.
type Event struct {
	Seq    int
	Kind   EventKind
	Amount decimal.Decimal
	Date   time.Time

	// Truncated marks a zero-amount event synthesized at a query end date.
	Truncated bool
}

// NewEvent creates an event dated at the calendar day of date.
func NewEvent(seq int, kind EventKind, amount decimal.Decimal, date time.Time) Event {
	return Event{
		Seq:    seq,
		Kind:   kind,
		Amount: amount,
		Date:   TruncateToDay(date),
	}
}

// Truncate returns a zero-amount copy of e dated at.
func (e Event) Truncate(at time.Time) Event {
	return Event{
		Seq:       e.Seq,
		Kind:      e.Kind,
		Amount:    decimal.Zero,
		Date:      TruncateToDay(at),
		Truncated: true,
	}
}

// StoredEvent is an event persisted on an account timeline.
type StoredEvent struct {
	ID        string
	AccountID string
	Event
	CreatedAt time.Time
}

// Events extracts the ledger events from stored ones, keeping their order.
func Events(stored []*StoredEvent) []Event {
	events := make([]Event, 0, len(stored))
	for _, s := range stored {
		events = append(events, s.Event)
	}
	return events
}

// TruncateToDay drops the time-of-day component and normalizes to UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from `from` to `to`.
func DaysBetween(from, to time.Time) int {
	return int(TruncateToDay(to).Sub(TruncateToDay(from)) / (24 * time.Hour))
}
