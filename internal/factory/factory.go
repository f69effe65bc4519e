package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/api"
	"github.com/mcoot/rps-matchmaker/internal/dependencies/clock"
	"github.com/mcoot/rps-matchmaker/internal/dependencies/idgen"
	"github.com/mcoot/rps-matchmaker/internal/events"
	"github.com/mcoot/rps-matchmaker/internal/metrics"
	"github.com/mcoot/rps-matchmaker/internal/services/activity"
	"github.com/mcoot/rps-matchmaker/internal/services/game"
	"github.com/mcoot/rps-matchmaker/internal/services/matchmaking"
	"github.com/mcoot/rps-matchmaker/internal/services/player"
	"github.com/mcoot/rps-matchmaker/internal/storage"
	"github.com/mcoot/rps-matchmaker/internal/storage/memory"
	redisstorage "github.com/mcoot/rps-matchmaker/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	IDGen  idgen.IDGen
	Logger *slog.Logger

	// Services
	Activity    *activity.Tracker
	Players     *player.Controller
	Games       *game.Controller
	Matchmaking *matchmaking.Service

	// Push and observability
	HubManager  *events.HubManager
	Broadcaster *events.Broadcaster
	Metrics     *metrics.Metrics
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Matchmaking holds eviction and retention timings
	// Unset fields fall back to matchmaking.DefaultConfig()
	Matchmaking matchmaking.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), idgen.New(), cfg.Matchmaking.WithDefaults(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids idgen.IDGen, mmCfg matchmaking.Config, logger *slog.Logger) *App {
	m := metrics.New()
	hubManager := events.NewHubManager(logger)
	broadcaster := events.NewBroadcaster(hubManager, logger)

	tracker := activity.New(store, clk)
	players := player.NewController(store, tracker, clk, logger)
	games := game.NewController(store, ids, clk, logger)
	service := matchmaking.New(players, games, tracker, broadcaster, m, clk, mmCfg, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		IDGen:       ids,
		Logger:      logger,
		Activity:    tracker,
		Players:     players,
		Games:       games,
		Matchmaking: service,
		HubManager:  hubManager,
		Broadcaster: broadcaster,
		Metrics:     m,
	}
}

// Handler builds the HTTP handler serving the API and /metrics
func (a *App) Handler() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:     a.Logger,
		Service:    a.Matchmaking,
		HubManager: a.HubManager,
		Metrics:    a.Metrics,
	})
}

// Sweeper builds the background eviction loop
func (a *App) Sweeper(interval time.Duration) *matchmaking.Sweeper {
	return matchmaking.NewSweeper(a.Matchmaking, interval, a.Logger)
}

// Close releases the storage backend if it holds connections
func (a *App) Close() error {
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
