package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditline/internal/domain"
)

// DailyInterest returns one day of interest on the state's advance balance.
func (e *Engine) DailyInterest(s State) decimal.Decimal {
	return e.cfg.DailyRate.Mul(s.AdvanceBalance)
}

// AccruedInterest returns the interest for the days from `from` to `to`.
// With inclusive unset the last day is not charged.
func (e *Engine) AccruedInterest(s State, to, from time.Time, inclusive bool) decimal.Decimal {
	days := domain.DaysBetween(from, to)
	if !inclusive {
		days--
	}
	return decimal.NewFromInt(int64(days)).Mul(e.DailyInterest(s))
}
