package domain

import (
	"time"
)

// Account is a revolving credit line with its own event timeline.
type Account struct {
	ID         string
	Name       string
	EventCount int
	LastEvent  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanAppend checks that events continue the account timeline in date order.
func (a *Account) CanAppend(events []Event) error {
	if a.LastEvent == nil || len(events) == 0 {
		return nil
	}
	if events[0].Date.Before(*a.LastEvent) {
		return ErrEventsOutOfOrder
	}
	return nil
}
