package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance is one draw against the credit line, paid down oldest first.
type Advance struct {
	ID             int
	Date           time.Time
	InitialAmount  decimal.Decimal
	CurrentBalance decimal.Decimal
	Paid           bool
}
