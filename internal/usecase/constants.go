package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultStatisticsCacheTTL is how long computed statistics are cached
	DefaultStatisticsCacheTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultPageSize and MaxPageSize bound list endpoints
	DefaultPageSize = 20
	MaxPageSize     = 100
)
