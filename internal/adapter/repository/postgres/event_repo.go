package postgres

import (
	"context"

	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/infrastructure/postgres/generated"
	"github.com/iho/creditline/internal/usecase"
)

// EventRepository implements usecase.EventRepository.
type EventRepository struct {
	queries *generated.Queries
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db generated.DBTX) *EventRepository {
	return &EventRepository{
		queries: generated.New(db),
	}
}

// CreateBatch inserts events inside tx in the order given.
func (r *EventRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, events []*domain.StoredEvent) error {
	queries, err := queriesFor(r.queries, tx)
	if err != nil {
		return err
	}

	for _, e := range events {
		if err := queries.CreateEvent(ctx, generated.CreateEventParams{
			ID:        e.ID,
			AccountID: e.AccountID,
			Seq:       int32(e.Seq),
			Kind:      string(e.Kind),
			Amount:    decimalToNumeric(e.Amount),
			EventDate: dateToPgDate(e.Date),
			CreatedAt: timeToPgTimestamptz(e.CreatedAt),
		}); err != nil {
			return err
		}
	}

	return nil
}

// ListByAccount returns the whole timeline of an account.
func (r *EventRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.StoredEvent, error) {
	rows, err := r.queries.ListEventsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return rowsToEvents(rows), nil
}

// ListByAccountPage returns one page of an account timeline.
func (r *EventRepository) ListByAccountPage(ctx context.Context, accountID string, limit, offset int) ([]*domain.StoredEvent, error) {
	rows, err := r.queries.ListEventsByAccountPage(ctx, generated.ListEventsByAccountPageParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEvents(rows), nil
}

func rowsToEvents(rows []generated.Event) []*domain.StoredEvent {
	events := make([]*domain.StoredEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, &domain.StoredEvent{
			ID:        row.ID,
			AccountID: row.AccountID,
			Event: domain.NewEvent(
				int(row.Seq),
				domain.EventKind(row.Kind),
				numericToDecimal(row.Amount),
				row.EventDate.Time,
			),
			CreatedAt: row.CreatedAt.Time,
		})
	}
	return events
}
