
package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	EventCount    int32              `json:"event_count"`
	LastEventDate pgtype.Date        `json:"last_event_date"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type Event struct {
	ID        string             `json:"id"`
	AccountID string             `json:"account_id"`
	Seq       int32              `json:"seq"`
	Kind      string             `json:"kind"`
	Amount    pgtype.Numeric     `json:"amount"`
	EventDate pgtype.Date        `json:"event_date"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}
