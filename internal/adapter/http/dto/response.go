package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/engine"
	"github.com/iho/creditline/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	EventCount    int       `json:"event_count"`
	LastEventDate *string   `json:"last_event_date,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	resp := &AccountResponse{
		ID:         a.ID,
		Name:       a.Name,
		EventCount: a.EventCount,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.LastEvent != nil {
		last := domain.FormatDate(*a.LastEvent)
		resp.LastEventDate = &last
	}
	return resp
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EventResponse represents a stored event in API responses.
type EventResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Seq       int             `json:"seq"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventFromDomain converts a stored event to response.
func EventFromDomain(e *domain.StoredEvent) *EventResponse {
	return &EventResponse{
		ID:        e.ID,
		AccountID: e.AccountID,
		Seq:       e.Seq,
		Kind:      string(e.Kind),
		Amount:    e.Amount,
		Date:      domain.FormatDate(e.Date),
		CreatedAt: e.CreatedAt,
	}
}

// EventsFromDomain converts stored events to responses.
func EventsFromDomain(events []*domain.StoredEvent) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, e := range events {
		result[i] = EventFromDomain(e)
	}
	return result
}

// ListEventsResponse represents a page of an account timeline.
type ListEventsResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int64            `json:"total"`
}

// BalancesResponse holds the four reported balances.
type BalancesResponse struct {
	AdvanceBalance    decimal.Decimal `json:"advance_balance"`
	InterestPayable   decimal.Decimal `json:"interest_payable"`
	InterestPaid      decimal.Decimal `json:"interest_paid"`
	PaymentsForFuture decimal.Decimal `json:"payments_for_future"`
}

// BalancesFromDomain converts statistics to response.
func BalancesFromDomain(s domain.Statistics) BalancesResponse {
	return BalancesResponse{
		AdvanceBalance:    s.AdvanceBalance,
		InterestPayable:   s.InterestPayable,
		InterestPaid:      s.InterestPaid,
		PaymentsForFuture: s.PaymentsForFuture,
	}
}

// AdvanceResponse represents one advance record.
type AdvanceResponse struct {
	ID             int             `json:"id"`
	Date           string          `json:"date"`
	InitialAmount  decimal.Decimal `json:"initial_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Paid           bool            `json:"paid"`
}

// StepResponse represents one transition in a replay trace.
type StepResponse struct {
	Seq       int              `json:"seq"`
	Kind      string           `json:"kind"`
	Amount    decimal.Decimal  `json:"amount"`
	Date      string           `json:"date"`
	Until     string           `json:"until"`
	Truncated bool             `json:"truncated,omitempty"`
	Before    BalancesResponse `json:"before"`
	After     BalancesResponse `json:"after"`
}

// StatisticsResponse represents the position of a credit line as of end_date.
type StatisticsResponse struct {
	AccountID string `json:"account_id,omitempty"`
	EndDate   string `json:"end_date"`
	Boundary  string `json:"boundary"`
	BalancesResponse
	Advances []AdvanceResponse `json:"advances"`
	Trace    []StepResponse    `json:"trace,omitempty"`
	Cached   bool              `json:"cached"`
}

// StatisticsFromReport converts a use case report to response.
func StatisticsFromReport(r *usecase.StatisticsReport) *StatisticsResponse {
	resp := &StatisticsResponse{
		AccountID:        r.AccountID,
		EndDate:          domain.FormatDate(r.EndDate),
		Boundary:         string(r.Boundary),
		BalancesResponse: BalancesFromDomain(r.Statistics),
		Advances:         make([]AdvanceResponse, 0, len(r.Advances)),
		Cached:           r.Cached,
	}

	for _, a := range r.Advances {
		resp.Advances = append(resp.Advances, AdvanceResponse{
			ID:             a.ID,
			Date:           domain.FormatDate(a.Date),
			InitialAmount:  a.InitialAmount,
			CurrentBalance: a.CurrentBalance,
			Paid:           a.Paid,
		})
	}

	for _, s := range r.Trace {
		resp.Trace = append(resp.Trace, stepFromEngine(s))
	}

	return resp
}

func stepFromEngine(s engine.Step) StepResponse {
	return StepResponse{
		Seq:       s.Event.Seq,
		Kind:      string(s.Event.Kind),
		Amount:    s.Event.Amount,
		Date:      domain.FormatDate(s.Event.Date),
		Until:     domain.FormatDate(s.Until),
		Truncated: s.Event.Truncated,
		Before:    BalancesFromDomain(s.Before),
		After:     BalancesFromDomain(s.After),
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TokenResponse carries a freshly minted API token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
