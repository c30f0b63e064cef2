package postgres_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditline/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/creditline/internal/adapter/repository/redis"
	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/engine"
	infrapg "github.com/iho/creditline/internal/infrastructure/postgres"
	"github.com/iho/creditline/internal/usecase"
)

const migrationsPath = "../../../../migrations"

type integrationEnv struct {
	pool       *pgxpool.Pool
	accounts   *usecase.AccountUseCase
	events     *usecase.EventUseCase
	statistics *usecase.StatisticsUseCase
}

// newIntegrationEnv connects to DATABASE_URL, migrates it and empties the tables.
func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, infrapg.NewMigrator(dbURL, migrationsPath, zerolog.Nop()).Up())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPool(ctx, dbURL, 20, 2)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE TABLE events, accounts CASCADE`)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	accountRepo := postgres.NewAccountRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	idGen := postgres.NewULIDGenerator()
	log := zerolog.Nop()

	return &integrationEnv{
		pool:     pool,
		accounts: usecase.NewAccountUseCase(accountRepo, idGen, nil, nil, log),
		events: usecase.NewEventUseCase(
			postgres.NewTxManager(pool), accountRepo, eventRepo, idGen, postgres.NewRetrier(log), nil, nil, log),
		statistics: usecase.NewStatisticsUseCase(
			engine.New(engine.DefaultConfig(), log), accountRepo, eventRepo, redisRepo.NewCache(client), time.Minute, nil, log),
	}
}

func day(month time.Month, d int) time.Time {
	return time.Date(2023, month, d, 0, 0, 0, 0, time.UTC)
}

func TestIntegration_TimelineStatistics(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	account, err := env.accounts.CreateAccount(ctx, usecase.CreateAccountInput{Name: "working capital"})
	require.NoError(t, err)

	_, err = env.events.AppendEvents(ctx, usecase.AppendEventsInput{
		AccountID: account.ID,
		Events: []domain.Event{
			domain.NewEvent(0, domain.EventKindAdvance, decimal.NewFromInt(1000), day(1, 1)),
		},
	})
	require.NoError(t, err)

	input := usecase.AccountStatisticsInput{AccountID: account.ID, EndDate: day(1, 11)}

	first, err := env.statistics.AccountStatistics(ctx, input)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.True(t, first.Statistics.InterestPayable.Equal(decimal.RequireFromString("3.85")))

	second, err := env.statistics.AccountStatistics(ctx, input)
	require.NoError(t, err)
	assert.True(t, second.Cached)

	// Appending moves the account to a new cache key.
	_, err = env.events.AppendEvents(ctx, usecase.AppendEventsInput{
		AccountID: account.ID,
		Events: []domain.Event{
			domain.NewEvent(0, domain.EventKindPayment, decimal.RequireFromString("3.85"), day(1, 11)),
		},
	})
	require.NoError(t, err)

	third, err := env.statistics.AccountStatistics(ctx, input)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.True(t, third.Statistics.InterestPaid.IsPositive())

	stored, err := env.events.ListEvents(ctx, usecase.ListEventsInput{AccountID: account.ID})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 1, stored[0].Seq)
	assert.Equal(t, 2, stored[1].Seq)

	reloaded, err := env.accounts.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.EventCount)
	require.NotNil(t, reloaded.LastEvent)
	assert.True(t, reloaded.LastEvent.Equal(day(1, 11)))
}

func TestIntegration_AppendRejectsEarlierDate(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	account, err := env.accounts.CreateAccount(ctx, usecase.CreateAccountInput{Name: "line"})
	require.NoError(t, err)

	_, err = env.events.AppendEvents(ctx, usecase.AppendEventsInput{
		AccountID: account.ID,
		Events:    []domain.Event{domain.NewEvent(0, domain.EventKindAdvance, decimal.NewFromInt(10), day(2, 1))},
	})
	require.NoError(t, err)

	_, err = env.events.AppendEvents(ctx, usecase.AppendEventsInput{
		AccountID: account.ID,
		Events:    []domain.Event{domain.NewEvent(0, domain.EventKindAdvance, decimal.NewFromInt(10), day(1, 31))},
	})
	require.ErrorIs(t, err, domain.ErrEventsOutOfOrder)

	_, err = env.events.AppendEvents(ctx, usecase.AppendEventsInput{
		AccountID: "missing",
		Events:    []domain.Event{domain.NewEvent(0, domain.EventKindAdvance, decimal.NewFromInt(10), day(3, 1))},
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestIntegration_ConcurrentAppends(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	account, err := env.accounts.CreateAccount(ctx, usecase.CreateAccountInput{Name: "busy line"})
	require.NoError(t, err)

	const appends = 50

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		failures  = make(chan error, appends)
	)

	wg.Add(appends)
	for range appends {
		go func() {
			defer wg.Done()

			_, err := env.events.AppendEvents(ctx, usecase.AppendEventsInput{
				AccountID: account.ID,
				Events:    []domain.Event{domain.NewEvent(0, domain.EventKindAdvance, decimal.NewFromInt(10), day(4, 1))},
			})
			if err != nil {
				failures <- err
				return
			}
			succeeded.Add(1)
		}()
	}
	wg.Wait()
	close(failures)

	for err := range failures {
		t.Errorf("append failed: %v", err)
	}
	require.EqualValues(t, appends, succeeded.Load())

	// Every append got its own sequence number.
	stored, err := env.events.ListEvents(ctx, usecase.ListEventsInput{AccountID: account.ID, Limit: appends * 2})
	require.NoError(t, err)
	require.Len(t, stored, appends)
	for i, ev := range stored {
		assert.Equal(t, i+1, ev.Seq)
	}

	report, err := env.statistics.AccountStatistics(ctx, usecase.AccountStatisticsInput{AccountID: account.ID, EndDate: day(4, 1)})
	require.NoError(t, err)
	assert.True(t, report.Statistics.AdvanceBalance.Equal(decimal.NewFromInt(10*appends)))
}
