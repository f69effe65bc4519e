package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rps-matchmaker/internal/api/apierr"
	"github.com/mcoot/rps-matchmaker/internal/api/handler"
	"github.com/mcoot/rps-matchmaker/internal/api/middleware"
	"github.com/mcoot/rps-matchmaker/internal/api/response"
	"github.com/mcoot/rps-matchmaker/internal/events"
	"github.com/mcoot/rps-matchmaker/internal/metrics"
	"github.com/mcoot/rps-matchmaker/internal/services/matchmaking"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Service    *matchmaking.Service
	HubManager *events.HubManager
	Metrics    *metrics.Metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Service)
	gameHandler := handler.NewGameHandler(cfg.Service)
	eventsHandler := handler.NewEventsHandler(cfg.Service, cfg.HubManager)

	// API subrouter with common middleware. Recovery sits innermost so a
	// recovered panic is still logged and counted as a 500.
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Metrics(cfg.Metrics))
	api.Use(middleware.Recovery(cfg.Logger))

	// Player routes
	api.Handle("/join", only(http.MethodPost, playerHandler.Join))
	api.Handle("/players", only(http.MethodGet, playerHandler.List))
	api.Handle("/invite_player", only(http.MethodPost, playerHandler.Invite))
	api.Handle("/player_status/{player_id}", only(http.MethodGet, playerHandler.Status))

	// Game routes
	api.Handle("/start_game", only(http.MethodPost, gameHandler.Start))
	api.Handle("/make_move", only(http.MethodPost, gameHandler.Move))
	api.Handle("/game_status/{game_id}", only(http.MethodGet, gameHandler.Status))
	api.Handle("/end_game", only(http.MethodPost, gameHandler.End))
	api.Handle("/game/{game_id}", only(http.MethodGet, gameHandler.Get))

	// Push notifications
	api.Handle("/events/{player_id}", only(http.MethodGet, eventsHandler.Stream))

	api.Handle("/health", only(http.MethodGet, healthHandler))

	// Prometheus scrape endpoint lives outside the versioned API
	r.Handle("/metrics", only(http.MethodGet, cfg.Metrics.Handler().ServeHTTP))

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	api.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

// only serves h for a single method and answers anything else with a 405.
// Each path has exactly one method, so dispatch happens here rather than in
// mux route matching.
func only(method string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			apierr.WriteError(w, apierr.NewMethodNotAllowedError(r.Method))
			return
		}
		h(w, r)
	})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}
