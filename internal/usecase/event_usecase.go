package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/infrastructure/metrics"
)

// EventUseCase records advances and payments on account timelines.
type EventUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	eventRepo   EventRepository
	idGen       IDGenerator
	retrier     Retrier
	publisher   EventPublisher
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewEventUseCase creates a new EventUseCase.
func NewEventUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	eventRepo EventRepository,
	idGen IDGenerator,
	retrier Retrier,
	publisher EventPublisher,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *EventUseCase {
	return &EventUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		eventRepo:   eventRepo,
		idGen:       idGen,
		retrier:     retrier,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger.With().Str("component", "event_usecase").Logger(),
	}
}

// AppendEventsInput represents a batch of events for one account.
// Sequence numbers on the events are ignored and reassigned.
type AppendEventsInput struct {
	AccountID string
	Events    []domain.Event
}

// AppendEvents appends events to the end of an account timeline atomically.
func (uc *EventUseCase) AppendEvents(ctx context.Context, input AppendEventsInput) ([]*domain.StoredEvent, error) {
	// 0. Validate inputs before starting transaction
	if len(input.Events) == 0 {
		return nil, domain.ErrNoEvents
	}
	if len(input.Events) > domain.MaxEventsPerRequest {
		return nil, fmt.Errorf("%w: at most %d events per request", domain.ErrTooManyEvents, domain.MaxEventsPerRequest)
	}
	if err := domain.ValidateTimeline(input.Events); err != nil {
		return nil, err
	}

	var stored []*domain.StoredEvent
	attempts := 0

	operation := func() error {
		attempts++
		if attempts > 1 && uc.metrics != nil {
			uc.metrics.AppendRetries.Inc()
		}

		var err error
		stored, err = uc.appendInTx(ctx, input)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return nil, err
	}

	uc.recordMetrics(stored)
	uc.publish(ctx, stored)

	return stored, nil
}

func (uc *EventUseCase) appendInTx(ctx context.Context, input AppendEventsInput) ([]*domain.StoredEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// 1. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 2. Lock the account row so concurrent appends serialize
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := account.CanAppend(input.Events); err != nil {
		return nil, fmt.Errorf("%w: account %s already has events on %s",
			err, account.ID, domain.FormatDate(*account.LastEvent))
	}

	// 3. Continue the sequence from the last stored event
	now := time.Now().UTC()
	stored := make([]*domain.StoredEvent, 0, len(input.Events))
	for i, ev := range input.Events {
		ev.Seq = account.EventCount + i + 1
		ev.Truncated = false
		stored = append(stored, &domain.StoredEvent{
			ID:        uc.idGen.Generate(),
			AccountID: account.ID,
			Event:     ev,
			CreatedAt: now,
		})
	}

	if err := uc.eventRepo.CreateBatch(ctx, tx, stored); err != nil {
		return nil, err
	}

	last := stored[len(stored)-1]
	if err := uc.accountRepo.UpdateTimeline(ctx, tx, account.ID, last.Seq, last.Date, now); err != nil {
		return nil, err
	}

	// 4. Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return stored, nil
}

func (uc *EventUseCase) recordMetrics(stored []*domain.StoredEvent) {
	if uc.metrics == nil {
		return
	}
	for _, ev := range stored {
		uc.metrics.EventsRecorded.WithLabelValues(string(ev.Kind)).Inc()
		amount, _ := ev.Amount.Float64()
		uc.metrics.EventAmount.WithLabelValues(string(ev.Kind)).Observe(amount)
	}
}

// publish announces stored events. The append has already committed, so a
// delivery failure is logged rather than returned.
func (uc *EventUseCase) publish(ctx context.Context, stored []*domain.StoredEvent) {
	if uc.publisher == nil {
		return
	}

	messages := make([]domain.Message, 0, len(stored))
	for _, ev := range stored {
		messages = append(messages, domain.NewEventRecordedMessage(ev))
	}

	status := "ok"
	if err := uc.publisher.Publish(ctx, messages...); err != nil {
		status = "error"
		uc.logger.Warn().
			Err(err).
			Str("account_id", stored[0].AccountID).
			Int("events", len(stored)).
			Msg("failed to publish event recorded messages")
	}

	if uc.metrics != nil {
		uc.metrics.EventsPublished.WithLabelValues(status).Add(float64(len(messages)))
	}
}

// ListEventsInput represents input for listing an account's events.
type ListEventsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListEvents lists an account's events in timeline order.
func (uc *EventUseCase) ListEvents(ctx context.Context, input ListEventsInput) ([]*domain.StoredEvent, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.eventRepo.ListByAccountPage(ctx, input.AccountID, limit, offset)
}
