package engine

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/iho/creditline/internal/domain"
)

// State is an immutable snapshot of a credit line.
//
// Balances are signed while a timeline is being replayed; callers read the
// reported position through Statistics.
type State struct {
	AdvanceBalance    decimal.Decimal
	InterestPayable   decimal.Decimal
	InterestPaid      decimal.Decimal
	PaymentsForFuture decimal.Decimal

	advances     []domain.Advance
	advanceCount int
}

// NewState returns the state of a credit line with no activity.
func NewState() State {
	return State{
		AdvanceBalance:    decimal.Zero,
		InterestPayable:   decimal.Zero,
		InterestPaid:      decimal.Zero,
		PaymentsForFuture: decimal.Zero,
	}
}

// Advances returns a copy of the stored advances in payoff order.
func (s State) Advances() []domain.Advance {
	return slices.Clone(s.advances)
}

// AdvanceCount returns the last advance identifier handed out.
func (s State) AdvanceCount() int {
	return s.advanceCount
}

// Balances returns the signed running balances.
func (s State) Balances() domain.Statistics {
	return domain.Statistics{
		AdvanceBalance:    s.AdvanceBalance,
		InterestPayable:   s.InterestPayable,
		InterestPaid:      s.InterestPaid,
		PaymentsForFuture: s.PaymentsForFuture,
	}
}

// Statistics returns the reported position: the magnitude of each balance.
func (s State) Statistics() domain.Statistics {
	return s.Balances().Abs()
}
