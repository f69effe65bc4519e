package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rps-matchmaker/internal/events"
	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/services/matchmaking"
)

// EventsHandler serves per-player event streams
type EventsHandler struct {
	service    *matchmaking.Service
	hubManager *events.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(service *matchmaking.Service, hubManager *events.HubManager) *EventsHandler {
	return &EventsHandler{
		service:    service,
		hubManager: hubManager,
	}
}

// Stream handles GET /api/v1/events/{player_id}
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	// Only registered players may listen; this also counts as activity
	if _, err := h.service.PlayerStatus(r.Context(), playerID); err != nil {
		WriteError(w, err)
		return
	}

	events.ServeSSE(w, r, h.hubManager, playerID)
}
