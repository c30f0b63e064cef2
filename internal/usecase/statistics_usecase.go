package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/engine"
	"github.com/iho/creditline/internal/infrastructure/metrics"
)

// Statistics sources
const (
	SourceStateless = "stateless"
	SourceAccount   = "account"
)

// StatisticsUseCase replays timelines through the engine.
type StatisticsUseCase struct {
	engine      *engine.Engine
	accountRepo AccountRepository
	eventRepo   EventRepository
	cache       Cache
	cacheTTL    time.Duration
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewStatisticsUseCase creates a new StatisticsUseCase.
func NewStatisticsUseCase(
	eng *engine.Engine,
	accountRepo AccountRepository,
	eventRepo EventRepository,
	cache Cache,
	cacheTTL time.Duration,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *StatisticsUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultStatisticsCacheTTL
	}

	return &StatisticsUseCase{
		engine:      eng,
		accountRepo: accountRepo,
		eventRepo:   eventRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		logger:      logger.With().Str("component", "statistics_usecase").Logger(),
	}
}

// StatisticsReport is the position of a timeline as of an end date.
type StatisticsReport struct {
	AccountID  string
	EndDate    time.Time
	Boundary   engine.Boundary
	Statistics domain.Statistics
	Advances   []domain.Advance
	Trace      []engine.Step
	Cached     bool
}

// ComputeInput is a caller-supplied timeline.
type ComputeInput struct {
	Events  []domain.Event
	EndDate time.Time
	Trace   bool
}

// Compute replays a timeline that is not stored anywhere.
func (uc *StatisticsUseCase) Compute(ctx context.Context, input ComputeInput) (*StatisticsReport, error) {
	if len(input.Events) > domain.MaxEventsPerRequest {
		return nil, fmt.Errorf("%w: at most %d events per request", domain.ErrTooManyEvents, domain.MaxEventsPerRequest)
	}

	res, err := uc.run(input.Events, input.EndDate, SourceStateless)
	if err != nil {
		return nil, err
	}

	return newReport("", res, input.Trace), nil
}

// AccountStatisticsInput selects a stored timeline and end date.
type AccountStatisticsInput struct {
	AccountID string
	EndDate   time.Time
	Trace     bool
}

// AccountStatistics replays an account's stored timeline.
//
// Reports without a trace are cached under the account's event count, so an
// append makes earlier entries unreachable instead of stale.
func (uc *StatisticsUseCase) AccountStatistics(ctx context.Context, input AccountStatisticsInput) (*StatisticsReport, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	endDate := domain.TruncateToDay(input.EndDate)
	key := statisticsCacheKey(account, endDate)

	if !input.Trace {
		if report, ok := uc.cached(ctx, key); ok {
			report.AccountID = account.ID
			return report, nil
		}
	}

	stored, err := uc.eventRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	res, err := uc.run(domain.Events(stored), endDate, SourceAccount)
	if err != nil {
		return nil, err
	}

	report := newReport(account.ID, res, input.Trace)

	// An append that landed after the account was read would not match the key.
	if !input.Trace && len(stored) == account.EventCount {
		uc.store(ctx, key, report)
	}

	return report, nil
}

func (uc *StatisticsUseCase) run(events []domain.Event, endDate time.Time, source string) (*engine.Result, error) {
	start := time.Now()

	res, err := uc.engine.Run(events, endDate)

	if uc.metrics != nil {
		uc.metrics.StatisticsDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		if errors.Is(err, domain.ErrInvariantViolation) {
			if uc.metrics != nil {
				uc.metrics.InvariantViolations.Inc()
			}
			uc.logger.Error().Err(err).Str("source", source).Msg("timeline replay aborted")
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.StatisticsComputed.WithLabelValues(source).Inc()
	}

	return res, nil
}

func newReport(accountID string, res *engine.Result, trace bool) *StatisticsReport {
	report := &StatisticsReport{
		AccountID:  accountID,
		EndDate:    res.EndDate,
		Boundary:   res.Boundary,
		Statistics: res.Statistics,
		Advances:   res.State.Advances(),
	}
	if trace {
		report.Trace = res.Trace
	}
	return report
}

func statisticsCacheKey(account *domain.Account, endDate time.Time) string {
	return fmt.Sprintf("statistics:%s:%s:%d", account.ID, domain.FormatDate(endDate), account.EventCount)
}

// cachedReport is the cache representation of a report without a trace.
type cachedReport struct {
	EndDate           string          `json:"end_date"`
	Boundary          string          `json:"boundary"`
	AdvanceBalance    decimal.Decimal `json:"advance_balance"`
	InterestPayable   decimal.Decimal `json:"interest_payable"`
	InterestPaid      decimal.Decimal `json:"interest_paid"`
	PaymentsForFuture decimal.Decimal `json:"payments_for_future"`
	Advances          []cachedAdvance `json:"advances"`
}

type cachedAdvance struct {
	ID             int             `json:"id"`
	Date           string          `json:"date"`
	InitialAmount  decimal.Decimal `json:"initial_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Paid           bool            `json:"paid"`
}

func (uc *StatisticsUseCase) cached(ctx context.Context, key string) (*StatisticsReport, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("statistics cache read failed")
		}
		uc.countCache("miss")
		return nil, false
	}

	var c cachedReport
	if err := json.Unmarshal(data, &c); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached statistics")
		if err := uc.cache.Delete(ctx, key); err != nil {
			uc.logger.Warn().Err(err).Str("key", key).Msg("statistics cache delete failed")
		}
		uc.countCache("miss")
		return nil, false
	}

	endDate, err := domain.ParseDate(c.EndDate)
	if err != nil {
		uc.countCache("miss")
		return nil, false
	}

	report := &StatisticsReport{
		EndDate:  endDate,
		Boundary: engine.Boundary(c.Boundary),
		Statistics: domain.Statistics{
			AdvanceBalance:    c.AdvanceBalance,
			InterestPayable:   c.InterestPayable,
			InterestPaid:      c.InterestPaid,
			PaymentsForFuture: c.PaymentsForFuture,
		},
		Cached: true,
	}
	for _, a := range c.Advances {
		date, _ := domain.ParseDate(a.Date)
		report.Advances = append(report.Advances, domain.Advance{
			ID:             a.ID,
			Date:           date,
			InitialAmount:  a.InitialAmount,
			CurrentBalance: a.CurrentBalance,
			Paid:           a.Paid,
		})
	}

	uc.countCache("hit")
	return report, true
}

func (uc *StatisticsUseCase) store(ctx context.Context, key string, report *StatisticsReport) {
	if uc.cache == nil {
		return
	}

	c := cachedReport{
		EndDate:           domain.FormatDate(report.EndDate),
		Boundary:          string(report.Boundary),
		AdvanceBalance:    report.Statistics.AdvanceBalance,
		InterestPayable:   report.Statistics.InterestPayable,
		InterestPaid:      report.Statistics.InterestPaid,
		PaymentsForFuture: report.Statistics.PaymentsForFuture,
		Advances:          make([]cachedAdvance, 0, len(report.Advances)),
	}
	for _, a := range report.Advances {
		c.Advances = append(c.Advances, cachedAdvance{
			ID:             a.ID,
			Date:           domain.FormatDate(a.Date),
			InitialAmount:  a.InitialAmount,
			CurrentBalance: a.CurrentBalance,
			Paid:           a.Paid,
		})
	}

	data, err := json.Marshal(c)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("failed to encode statistics for cache")
		return
	}

	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("statistics cache write failed")
	}
}

func (uc *StatisticsUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheRequests.WithLabelValues(result).Inc()
	}
}
