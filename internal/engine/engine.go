// Package engine computes the position of a revolving credit line from its
// advance and payment events.
//
// Every operation takes a State and returns a new one. Nothing is shared
// between calls, so one Engine can serve any number of timelines at once.
package engine

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultDailyRate is the interest charged per day on the advance balance.
var DefaultDailyRate = decimal.RequireFromString("0.00035")

// Config holds the engine's fixed parameters.
type Config struct {
	// DailyRate is multiplied by the advance balance to get one day of interest.
	DailyRate decimal.Decimal

	// SettleExactInterest zeroes interest payable when a payment matches it
	// exactly. When false the payable balance is left as it was.
	SettleExactInterest bool
}

// DefaultConfig returns the standard rate with exact interest payments settled.
func DefaultConfig() Config {
	return Config{
		DailyRate:           DefaultDailyRate,
		SettleExactInterest: true,
	}
}

// Engine applies ledger events to credit line states.
type Engine struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates a new Engine.
func New(cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "engine").Logger(),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
