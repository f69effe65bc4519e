package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rps-matchmaker/internal/dependencies/mocks"
	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/storage/memory"
)

type TrackerSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	tracker *Tracker
	ctx     context.Context
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.tracker = New(s.storage, s.clock)
	s.ctx = context.Background()
}

func (s *TrackerSuite) addPlayer(id string) {
	player := &model.Player{ID: model.PlayerID(id), DisplayName: id, Status: model.StatusWaiting}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player, s.clock.Now()))
}

func (s *TrackerSuite) TestTouchRefreshesLastSeen() {
	s.addPlayer("p1")
	s.clock.Advance(10 * time.Second)

	s.Require().NoError(s.tracker.Touch(s.ctx, "p1"))

	last, err := s.tracker.LastSeen(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), last)
}

func (s *TrackerSuite) TestTouchUnknownPlayer() {
	err := s.tracker.Touch(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *TrackerSuite) TestIdleFor() {
	s.addPlayer("p1")
	s.clock.Advance(7 * time.Second)

	idle, err := s.tracker.IdleFor(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(7*time.Second, idle)
}

func (s *TrackerSuite) TestStaleUsesStrictThreshold() {
	s.addPlayer("old")
	s.clock.Advance(DefaultThreshold)
	s.addPlayer("new")

	// Exactly at the threshold is not yet stale
	stale, err := s.tracker.Stale(s.ctx, s.clock.Now(), DefaultThreshold)
	s.Require().NoError(err)
	s.Empty(stale)

	s.clock.Advance(time.Millisecond)
	stale, err = s.tracker.Stale(s.ctx, s.clock.Now(), DefaultThreshold)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"old"}, stale)
}
