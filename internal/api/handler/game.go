package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rps-matchmaker/internal/api/request"
	"github.com/mcoot/rps-matchmaker/internal/api/response"
	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/services/matchmaking"
)

// GameHandler handles game endpoints
type GameHandler struct {
	service *matchmaking.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(service *matchmaking.Service) *GameHandler {
	return &GameHandler{
		service: service,
	}
}

// Start handles POST /api/v1/start_game
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req request.PairRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	game, err := h.service.StartGame(r.Context(), model.PlayerID(req.Player1ID), model.PlayerID(req.Player2ID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameCreated{GameID: string(game.ID)})
}

// Move handles POST /api/v1/make_move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req request.MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.service.MakeMove(r.Context(),
		model.PlayerID(req.PlayerID),
		model.GameID(req.GameID),
		model.Choice(req.Choice),
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	if !result.Resolved {
		response.JSON(w, http.StatusOK, response.Waiting{Status: response.StatusWaitingForOpponent})
		return
	}
	response.JSON(w, http.StatusOK, response.Winner{Winner: string(result.Winner)})
}

// Status handles GET /api/v1/game_status/{game_id}
func (h *GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	winner, err := h.service.GameStatus(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Winner{Winner: string(winner)})
}

// End handles POST /api/v1/end_game
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	var req request.PairRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.service.EndGame(r.Context(), model.PlayerID(req.Player1ID), model.PlayerID(req.Player2ID)); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: "Game ended"})
}

// Get handles GET /api/v1/game/{game_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	game, err := h.service.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}
