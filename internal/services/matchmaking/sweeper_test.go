package matchmaking

import (
	"context"
	"errors"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/model"
	nop "github.com/mcoot/rps-matchmaker/internal/testutil"
)

func (s *ServiceSuite) TestSweeperEvictsInBackground() {
	s.join("p1", "Alice")
	s.clock.Advance(time.Minute)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		NewSweeper(s.service, 5*time.Millisecond, nop.NopLogger()).Run(ctx)
		close(done)
	}()

	s.Eventually(func() bool {
		_, err := s.storage.GetPlayer(s.ctx, "p1")
		return errors.Is(err, model.ErrPlayerNotFound)
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("sweeper did not stop after cancel")
	}
}
