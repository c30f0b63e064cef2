
package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createEvent = `-- name: CreateEvent :exec
INSERT INTO events (id, account_id, seq, kind, amount, event_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateEventParams struct {
	ID        string             `json:"id"`
	AccountID string             `json:"account_id"`
	Seq       int32              `json:"seq"`
	Kind      string             `json:"kind"`
	Amount    pgtype.Numeric     `json:"amount"`
	EventDate pgtype.Date        `json:"event_date"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.Exec(ctx, createEvent,
		arg.ID,
		arg.AccountID,
		arg.Seq,
		arg.Kind,
		arg.Amount,
		arg.EventDate,
		arg.CreatedAt,
	)
	return err
}

const listEventsByAccount = `-- name: ListEventsByAccount :many
SELECT id, account_id, seq, kind, amount, event_date, created_at FROM events
WHERE account_id = $1
ORDER BY seq ASC
`

func (q *Queries) ListEventsByAccount(ctx context.Context, accountID string) ([]Event, error) {
	rows, err := q.db.Query(ctx, listEventsByAccount, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		var i Event
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Seq,
			&i.Kind,
			&i.Amount,
			&i.EventDate,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listEventsByAccountPage = `-- name: ListEventsByAccountPage :many
SELECT id, account_id, seq, kind, amount, event_date, created_at FROM events
WHERE account_id = $1
ORDER BY seq ASC
LIMIT $2 OFFSET $3
`

type ListEventsByAccountPageParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListEventsByAccountPage(ctx context.Context, arg ListEventsByAccountPageParams) ([]Event, error) {
	rows, err := q.db.Query(ctx, listEventsByAccountPage, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		var i Event
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Seq,
			&i.Kind,
			&i.Amount,
			&i.EventDate,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
