package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rps-matchmaker/internal/api/request"
	"github.com/mcoot/rps-matchmaker/internal/api/response"
	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/services/matchmaking"
)

// PlayerHandler handles player presence endpoints
type PlayerHandler struct {
	service *matchmaking.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(service *matchmaking.Service) *PlayerHandler {
	return &PlayerHandler{
		service: service,
	}
}

// Join handles POST /api/v1/join
func (h *PlayerHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.service.Join(r.Context(), model.PlayerID(req.ID), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Message{
		Message: fmt.Sprintf("Player %s added successfully", player.DisplayName),
	})
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.ListPlayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Invite handles POST /api/v1/invite_player
func (h *PlayerHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req request.InviteRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	err := h.service.InvitePlayer(r.Context(), model.PlayerID(req.InviterID), model.PlayerID(req.InviteeID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: "Invite sent"})
}

// Status handles GET /api/v1/player_status/{player_id}
func (h *PlayerHandler) Status(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	view, err := h.service.PlayerStatus(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatusFromModel(view))
}
