package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditline/internal/adapter/http/dto"
	"github.com/iho/creditline/internal/usecase"
)

// StatisticsService defines the behavior needed by StatisticsHandler.
type StatisticsService interface {
	Compute(ctx context.Context, input usecase.ComputeInput) (*usecase.StatisticsReport, error)
	AccountStatistics(ctx context.Context, input usecase.AccountStatisticsInput) (*usecase.StatisticsReport, error)
}

// StatisticsHandler serves credit line positions.
type StatisticsHandler struct {
	statisticsUC StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statisticsUC StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsUC: statisticsUC}
}

// Compute replays a timeline supplied in the request body.
func (h *StatisticsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req dto.ComputeStatisticsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid statistics request", err)
		return
	}

	report, err := h.statisticsUC.Compute(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to compute statistics", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatisticsFromReport(report))
}

// Account replays a stored account timeline up to the end_date query parameter.
func (h *StatisticsHandler) Account(w http.ResponseWriter, r *http.Request) {
	query := dto.AccountStatisticsQuery{
		EndDate: r.URL.Query().Get("end_date"),
		Trace:   parseBoolQuery(r, "trace"),
	}

	input, err := query.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "invalid statistics request", err)
		return
	}

	report, err := h.statisticsUC.AccountStatistics(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to compute statistics", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatisticsFromReport(report))
}
