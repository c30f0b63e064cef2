package domain

import "github.com/shopspring/decimal"

// Statistics is the position of a credit line as of a date.
type Statistics struct {
	AdvanceBalance    decimal.Decimal
	InterestPayable   decimal.Decimal
	InterestPaid      decimal.Decimal
	PaymentsForFuture decimal.Decimal
}

// ZeroStatistics returns a position with every balance at zero.
func ZeroStatistics() Statistics {
	return Statistics{
		AdvanceBalance:    decimal.Zero,
		InterestPayable:   decimal.Zero,
		InterestPaid:      decimal.Zero,
		PaymentsForFuture: decimal.Zero,
	}
}

// Abs returns the magnitudes of every balance.
func (s Statistics) Abs() Statistics {
	return Statistics{
		AdvanceBalance:    s.AdvanceBalance.Abs(),
		InterestPayable:   s.InterestPayable.Abs(),
		InterestPaid:      s.InterestPaid.Abs(),
		PaymentsForFuture: s.PaymentsForFuture.Abs(),
	}
}

// Equal reports whether both positions hold the same balances.
func (s Statistics) Equal(other Statistics) bool {
	return s.AdvanceBalance.Equal(other.AdvanceBalance) &&
		s.InterestPayable.Equal(other.InterestPayable) &&
		s.InterestPaid.Equal(other.InterestPaid) &&
		s.PaymentsForFuture.Equal(other.PaymentsForFuture)
}
