package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditline/internal/adapter/http/dto"
	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/usecase"
)

// EventService defines the behavior needed by EventHandler.
type EventService interface {
	AppendEvents(ctx context.Context, input usecase.AppendEventsInput) ([]*domain.StoredEvent, error)
	ListEvents(ctx context.Context, input usecase.ListEventsInput) ([]*domain.StoredEvent, error)
}

// EventHandler handles account timeline requests.
type EventHandler struct {
	eventUC EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventUC EventService) *EventHandler {
	return &EventHandler{eventUC: eventUC}
}

// Append records advances and payments at the end of an account timeline.
func (h *EventHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req dto.AppendEventsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "invalid event", err)
		return
	}

	stored, err := h.eventUC.AppendEvents(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to append events", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ListEventsResponse{
		Events: dto.EventsFromDomain(stored),
		Total:  int64(len(stored)),
	})
}

// List returns a page of an account timeline in sequence order.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventUC.ListEvents(r.Context(), usecase.ListEventsInput{
		AccountID: chi.URLParam(r, "id"),
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list events", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEventsResponse{
		Events: dto.EventsFromDomain(events),
		Total:  int64(len(events)),
	})
}
