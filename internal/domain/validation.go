package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	DateLayout           = "2006-01-02"
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxEventAmount       = "1000000000000" // 1 trillion
	MaxEventsPerRequest  = 10000
)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	// Check for SQL injection attempts
	dangerous := []string{"--", "/*", "*/", ";", "DROP", "DELETE", "INSERT", "UPDATE"}
	nameUpper := strings.ToUpper(name)
	for _, pattern := range dangerous {
		if strings.Contains(nameUpper, pattern) {
			return fmt.Errorf("%w: contains forbidden characters", ErrInvalidAccountName)
		}
	}

	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %s", ErrInvalidDate, s, DateLayout)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseAmount parses a decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateAmount validates an event amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxEventAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxEventAmount)
	}

	return nil
}

// ParseEventKind parses an event kind, ignoring case and surrounding spaces.
func ParseEventKind(s string) (EventKind, error) {
	kind := EventKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEventKind, s)
	}
	return kind, nil
}

// ParseEvent builds an event from raw row values.
func ParseEvent(seq int, kind, amount, date string) (Event, error) {
	k, err := ParseEventKind(kind)
	if err != nil {
		return Event{}, err
	}

	a, err := ParseAmount(amount)
	if err != nil {
		return Event{}, err
	}

	d, err := ParseDate(date)
	if err != nil {
		return Event{}, err
	}

	return NewEvent(seq, k, a, d), nil
}

// ValidateTimeline checks that events are valid and dated in non-decreasing order.
func ValidateTimeline(events []Event) error {
	for i, e := range events {
		if !e.Kind.IsValid() {
			return fmt.Errorf("%w: event %d has kind %q", ErrInvalidEventKind, e.Seq, e.Kind)
		}
		if err := ValidateAmount(e.Amount); err != nil {
			return fmt.Errorf("event %d: %w", e.Seq, err)
		}
		if i > 0 && e.Date.Before(events[i-1].Date) {
			return fmt.Errorf("%w: event %d on %s precedes event %d on %s",
				ErrEventsOutOfOrder, e.Seq, FormatDate(e.Date), events[i-1].Seq, FormatDate(events[i-1].Date))
		}
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
