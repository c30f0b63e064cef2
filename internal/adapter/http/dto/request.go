package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/usecase"
)

// CreateAccountRequest represents a request to open a credit line.
type CreateAccountRequest struct {
	Name string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{Name: r.Name}
}

// EventRequest is one advance or payment. Amount accepts a JSON number or string.
type EventRequest struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// ToDomain validates the event and numbers it seq.
func (r EventRequest) ToDomain(seq int) (domain.Event, error) {
	kind, err := domain.ParseEventKind(r.Kind)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %d: %w", seq, err)
	}

	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %d: %w", seq, err)
	}

	if err := domain.ValidateAmount(r.Amount); err != nil {
		return domain.Event{}, fmt.Errorf("event %d: %w", seq, err)
	}

	return domain.NewEvent(seq, kind, r.Amount, date), nil
}

// EventsToDomain converts events numbering them from 1 in request order.
func EventsToDomain(reqs []EventRequest) ([]domain.Event, error) {
	events := make([]domain.Event, 0, len(reqs))
	for i, r := range reqs {
		ev, err := r.ToDomain(i + 1)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// AppendEventsRequest represents events to append to an account timeline.
type AppendEventsRequest struct {
	Events []EventRequest `json:"events"`
}

// ToUseCaseInput converts to use case input.
func (r *AppendEventsRequest) ToUseCaseInput(accountID string) (usecase.AppendEventsInput, error) {
	events, err := EventsToDomain(r.Events)
	if err != nil {
		return usecase.AppendEventsInput{}, err
	}

	return usecase.AppendEventsInput{
		AccountID: accountID,
		Events:    events,
	}, nil
}

// ComputeStatisticsRequest asks for the position of a caller-supplied timeline.
type ComputeStatisticsRequest struct {
	Events  []EventRequest `json:"events"`
	EndDate string         `json:"end_date"`
	Trace   bool           `json:"trace"`
}

// ToUseCaseInput converts to use case input.
func (r *ComputeStatisticsRequest) ToUseCaseInput() (usecase.ComputeInput, error) {
	endDate, err := parseEndDate(r.EndDate)
	if err != nil {
		return usecase.ComputeInput{}, err
	}

	events, err := EventsToDomain(r.Events)
	if err != nil {
		return usecase.ComputeInput{}, err
	}

	return usecase.ComputeInput{
		Events:  events,
		EndDate: endDate,
		Trace:   r.Trace,
	}, nil
}

// AccountStatisticsQuery is parsed from the statistics query string.
type AccountStatisticsQuery struct {
	EndDate string
	Trace   bool
}

// ToUseCaseInput converts to use case input.
func (q AccountStatisticsQuery) ToUseCaseInput(accountID string) (usecase.AccountStatisticsInput, error) {
	endDate, err := parseEndDate(q.EndDate)
	if err != nil {
		return usecase.AccountStatisticsInput{}, err
	}

	return usecase.AccountStatisticsInput{
		AccountID: accountID,
		EndDate:   endDate,
		Trace:     q.Trace,
	}, nil
}

func parseEndDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: end_date is required", domain.ErrInvalidDate)
	}
	return domain.ParseDate(s)
}
