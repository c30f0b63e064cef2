
package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (id, name, event_count, last_event_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, name, event_count, last_event_date, created_at, updated_at
`

type CreateAccountParams struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	EventCount    int32              `json:"event_count"`
	LastEventDate pgtype.Date        `json:"last_event_date"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, createAccount,
		arg.ID,
		arg.Name,
		arg.EventCount,
		arg.LastEventDate,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.EventCount,
		&i.LastEventDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, name, event_count, last_event_date, created_at, updated_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.EventCount,
		&i.LastEventDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByIDForUpdate = `-- name: GetAccountByIDForUpdate :one
SELECT id, name, event_count, last_event_date, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetAccountByIDForUpdate(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByIDForUpdate, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.EventCount,
		&i.LastEventDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, name, event_count, last_event_date, created_at, updated_at FROM accounts
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

type ListAccountsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.EventCount,
			&i.LastEventDate,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateAccountTimeline = `-- name: UpdateAccountTimeline :exec
UPDATE accounts
SET event_count = $2, last_event_date = $3, updated_at = $4
WHERE id = $1
`

type UpdateAccountTimelineParams struct {
	ID            string             `json:"id"`
	EventCount    int32              `json:"event_count"`
	LastEventDate pgtype.Date        `json:"last_event_date"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountTimeline(ctx context.Context, arg UpdateAccountTimelineParams) error {
	_, err := q.db.Exec(ctx, updateAccountTimeline,
		arg.ID,
		arg.EventCount,
		arg.LastEventDate,
		arg.UpdatedAt,
	)
	return err
}
