// Package storagetest holds a behavioural suite every storage backend must pass.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/storage"
)

// Suite exercises a storage.Storage implementation. Backends embed it and
// set NewStorage.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
	Now     time.Time
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
	// Whole milliseconds so every backend round-trips timestamps exactly
	s.Now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) newPlayer(id, name string) *model.Player {
	return &model.Player{
		ID:          model.PlayerID(id),
		DisplayName: name,
		Status:      model.StatusWaiting,
		JoinedAt:    s.Now,
		UpdatedAt:   s.Now,
	}
}

func (s *Suite) newGame(id string, createdAt time.Time) *model.Game {
	return &model.Game{
		ID:        model.GameID(id),
		Player1:   model.Participant{ID: "p1", DisplayName: "Alice"},
		Player2:   model.Participant{ID: "p2", DisplayName: "Bob"},
		Moves:     map[model.PlayerID]model.Choice{},
		Winner:    model.WinnerNone,
		CreatedAt: createdAt,
	}
}

// Player tests

func (s *Suite) TestCreateAndGetPlayer() {
	err := s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
	s.Equal(model.StatusWaiting, retrieved.Status)
}

func (s *Suite) TestCreatePlayerRecordsActivity() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)

	last, err := s.Storage.GetActivity(s.Ctx, "p1")
	s.Require().NoError(err)
	s.True(s.Now.Equal(last))
}

func (s *Suite) TestCreatePlayerTwiceFails() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)

	err := s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Impostor"), s.Now)
	s.ErrorIs(err, model.ErrPlayerExists)

	retrieved, _ := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestListPlayers() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p2", "Bob"), s.Now)

	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *Suite) TestListPlayersEmpty() {
	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestUpdatePlayer() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)

	updated, err := s.Storage.UpdatePlayer(s.Ctx, "p1", func(p *model.Player) error {
		p.SetStatus(model.StatusInGame)
		return nil
	})
	s.Require().NoError(err)
	s.Equal(model.StatusInGame, updated.Status)

	retrieved, _ := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Equal(model.StatusInGame, retrieved.Status)
}

func (s *Suite) TestUpdatePlayerAbortsOnError() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)
	errAbort := errors.New("abort")

	_, err := s.Storage.UpdatePlayer(s.Ctx, "p1", func(p *model.Player) error {
		p.SetStatus(model.StatusInGame)
		return errAbort
	})
	s.ErrorIs(err, errAbort)

	retrieved, _ := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Equal(model.StatusWaiting, retrieved.Status)
}

func (s *Suite) TestUpdatePlayerNotFound() {
	_, err := s.Storage.UpdatePlayer(s.Ctx, "nonexistent", func(p *model.Player) error { return nil })
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestReturnedPlayerIsACopy() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)

	retrieved, _ := s.Storage.GetPlayer(s.Ctx, "p1")
	retrieved.Status = model.StatusInGame

	again, _ := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Equal(model.StatusWaiting, again.Status)
}

func (s *Suite) TestConcurrentUpdatesAreSerialized() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Storage.UpdatePlayer(s.Ctx, "p1", func(p *model.Player) error {
				p.DisplayName += "x"
				return nil
			})
		}()
	}
	wg.Wait()

	retrieved, _ := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Equal("Alicexxxxx", retrieved.DisplayName)
}

func (s *Suite) TestUpdatePlayers() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p2", "Bob"), s.Now)

	updated, err := s.Storage.UpdatePlayers(s.Ctx, []model.PlayerID{"p2", "p1"}, func(players []*model.Player) error {
		s.Equal(model.PlayerID("p2"), players[0].ID)
		s.Equal(model.PlayerID("p1"), players[1].ID)
		for _, p := range players {
			p.SetStatus(model.StatusInGame)
		}
		return nil
	})
	s.Require().NoError(err)
	s.Require().Len(updated, 2)
	s.Equal(model.StatusInGame, updated[0].Status)

	for _, id := range []model.PlayerID{"p1", "p2"} {
		retrieved, _ := s.Storage.GetPlayer(s.Ctx, id)
		s.Equal(model.StatusInGame, retrieved.Status)
	}
}

func (s *Suite) TestUpdatePlayersPassesNilForMissing() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)

	updated, err := s.Storage.UpdatePlayers(s.Ctx, []model.PlayerID{"p1", "ghost"}, func(players []*model.Player) error {
		s.Require().NotNil(players[0])
		s.Nil(players[1])
		players[0].DisplayName = "Alicia"
		return nil
	})
	s.Require().NoError(err)
	s.Equal("Alicia", updated[0].DisplayName)
	s.Nil(updated[1])

	_, err = s.Storage.GetPlayer(s.Ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestUpdatePlayersAbortsOnError() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p2", "Bob"), s.Now)
	errAbort := errors.New("abort")

	_, err := s.Storage.UpdatePlayers(s.Ctx, []model.PlayerID{"p1", "p2"}, func(players []*model.Player) error {
		players[0].SetStatus(model.StatusInGame)
		return errAbort
	})
	s.ErrorIs(err, errAbort)

	for _, id := range []model.PlayerID{"p1", "p2"} {
		retrieved, _ := s.Storage.GetPlayer(s.Ctx, id)
		s.Equal(model.StatusWaiting, retrieved.Status)
	}
}

func (s *Suite) TestConcurrentPairUpdatesAreSerialized() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p2", "Bob"), s.Now)

	var wg sync.WaitGroup
	for _, ids := range [][]model.PlayerID{{"p1", "p2"}, {"p2", "p1"}, {"p1", "p2"}, {"p2", "p1"}} {
		ids := ids
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Storage.UpdatePlayers(s.Ctx, ids, func(players []*model.Player) error {
				for _, p := range players {
					p.DisplayName += "x"
				}
				return nil
			})
		}()
	}
	wg.Wait()

	p1, _ := s.Storage.GetPlayer(s.Ctx, "p1")
	p2, _ := s.Storage.GetPlayer(s.Ctx, "p2")
	s.Equal("Alicexxxx", p1.DisplayName)
	s.Equal("Bobxxxx", p2.DisplayName)
}

// Activity tests

func (s *Suite) TestTouchActivity() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now)
	later := s.Now.Add(5 * time.Second)

	err := s.Storage.TouchActivity(s.Ctx, "p1", later)
	s.Require().NoError(err)

	last, _ := s.Storage.GetActivity(s.Ctx, "p1")
	s.True(later.Equal(last))
}

func (s *Suite) TestTouchActivityUnknownPlayer() {
	err := s.Storage.TouchActivity(s.Ctx, "ghost", s.Now)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.Storage.GetActivity(s.Ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestStaleActivityIsStrictlyBeforeCutoff() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("old", "Old"), s.Now.Add(-30*time.Second))
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("edge", "Edge"), s.Now.Add(-20*time.Second))
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("fresh", "Fresh"), s.Now)

	stale, err := s.Storage.StaleActivity(s.Ctx, s.Now.Add(-20*time.Second))
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"old"}, stale)
}

func (s *Suite) TestDeletePlayerIfStale() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now.Add(-time.Minute))

	removed, err := s.Storage.DeletePlayerIfStale(s.Ctx, "p1", s.Now)
	s.Require().NoError(err)
	s.True(removed)

	_, err = s.Storage.GetPlayer(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.Storage.GetActivity(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	players, _ := s.Storage.ListPlayers(s.Ctx)
	s.Empty(players)
}

func (s *Suite) TestDeletePlayerIfStaleKeepsRefreshedPlayer() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p1", "Alice"), s.Now.Add(-time.Minute))
	cutoff := s.Now.Add(-20 * time.Second)

	// Refreshed after the sweep listed it as stale
	_ = s.Storage.TouchActivity(s.Ctx, "p1", s.Now)

	removed, err := s.Storage.DeletePlayerIfStale(s.Ctx, "p1", cutoff)
	s.Require().NoError(err)
	s.False(removed)

	_, err = s.Storage.GetPlayer(s.Ctx, "p1")
	s.NoError(err)
}

func (s *Suite) TestDeletePlayerIfStaleUnknownPlayer() {
	removed, err := s.Storage.DeletePlayerIfStale(s.Ctx, "ghost", s.Now)
	s.Require().NoError(err)
	s.False(removed)
}

// Game tests

func (s *Suite) TestSaveAndGetGame() {
	err := s.Storage.SaveGame(s.Ctx, s.newGame("g1", s.Now))
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), retrieved.Player1.ID)
	s.Equal("Bob", retrieved.Player2.DisplayName)
	s.Equal(model.WinnerNone, retrieved.Winner)
	s.NotNil(retrieved.Moves)
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Storage.GetGame(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestUpdateGame() {
	_ = s.Storage.SaveGame(s.Ctx, s.newGame("g1", s.Now))

	updated, err := s.Storage.UpdateGame(s.Ctx, "g1", func(g *model.Game) error {
		g.Moves["p1"] = model.ChoiceRock
		return nil
	})
	s.Require().NoError(err)
	s.Equal(model.ChoiceRock, updated.Moves["p1"])

	retrieved, _ := s.Storage.GetGame(s.Ctx, "g1")
	s.Equal(model.ChoiceRock, retrieved.Moves["p1"])
}

func (s *Suite) TestUpdateGameNotFound() {
	_, err := s.Storage.UpdateGame(s.Ctx, "nonexistent", func(g *model.Game) error { return nil })
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestReturnedGameIsACopy() {
	_ = s.Storage.SaveGame(s.Ctx, s.newGame("g1", s.Now))

	retrieved, _ := s.Storage.GetGame(s.Ctx, "g1")
	retrieved.Moves["p1"] = model.ChoicePaper

	again, _ := s.Storage.GetGame(s.Ctx, "g1")
	s.Empty(again.Moves)
}

func (s *Suite) TestDeleteGamesCreatedBefore() {
	_ = s.Storage.SaveGame(s.Ctx, s.newGame("old", s.Now.Add(-2*time.Hour)))
	_ = s.Storage.SaveGame(s.Ctx, s.newGame("new", s.Now))

	removed, err := s.Storage.DeleteGamesCreatedBefore(s.Ctx, s.Now.Add(-time.Hour))
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, err = s.Storage.GetGame(s.Ctx, "old")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.Storage.GetGame(s.Ctx, "new")
	s.NoError(err)
}
