package matchmaking

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs SweepInactive on a fixed interval
type Sweeper struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a new Sweeper
func NewSweeper(service *Service, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		logger:   logger.With(slog.String("component", "sweeper")),
	}
}

// Run sweeps until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	evicted, err := s.service.SweepInactive(ctx)
	if err != nil {
		s.logger.Error("sweep failed", slog.String("error", err.Error()))
	}
	if len(evicted) > 0 {
		s.logger.Debug("sweep evicted players", slog.Int("count", len(evicted)))
	}
}
