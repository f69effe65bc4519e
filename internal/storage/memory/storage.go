package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// A single lock guards all maps, so every operation is atomic.
type Storage struct {
	mu sync.RWMutex

	players  map[model.PlayerID]*model.Player
	activity map[model.PlayerID]time.Time
	games    map[model.GameID]*model.Game
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:  make(map[model.PlayerID]*model.Player),
		activity: make(map[model.PlayerID]time.Time),
		games:    make(map[model.GameID]*model.Game),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player, seenAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; ok {
		return model.ErrPlayerExists
	}
	s.players[player.ID] = storage.ClonePlayer(player)
	s.activity[player.ID] = seenAt
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return storage.ClonePlayer(player), nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, storage.ClonePlayer(p))
	}
	return players, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, fn storage.PlayerUpdateFunc) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	updated := storage.ClonePlayer(current)
	if err := fn(updated); err != nil {
		return nil, err
	}
	s.players[id] = updated
	return storage.ClonePlayer(updated), nil
}

func (s *Storage) UpdatePlayers(ctx context.Context, ids []model.PlayerID, fn storage.PlayersUpdateFunc) ([]*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := make([]*model.Player, len(ids))
	for i, id := range ids {
		updated[i] = storage.ClonePlayer(s.players[id])
	}
	if err := fn(updated); err != nil {
		return nil, err
	}
	out := make([]*model.Player, len(ids))
	for i, p := range updated {
		if p == nil {
			continue
		}
		if _, ok := s.players[ids[i]]; !ok {
			continue
		}
		s.players[ids[i]] = p
		out[i] = storage.ClonePlayer(p)
	}
	return out, nil
}

func (s *Storage) DeletePlayerIfStale(ctx context.Context, id model.PlayerID, cutoff time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.activity[id]; ok && !last.Before(cutoff) {
		return false, nil
	}
	_, existed := s.players[id]
	delete(s.players, id)
	delete(s.activity, id)
	return existed, nil
}

// Activity operations

func (s *Storage) TouchActivity(ctx context.Context, id model.PlayerID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return model.ErrPlayerNotFound
	}
	s.activity[id] = at
	return nil
}

func (s *Storage) GetActivity(ctx context.Context, id model.PlayerID) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	last, ok := s.activity[id]
	if !ok {
		return time.Time{}, model.ErrPlayerNotFound
	}
	return last, nil
}

func (s *Storage) StaleActivity(ctx context.Context, cutoff time.Time) ([]model.PlayerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stale []model.PlayerID
	for id, last := range s.activity {
		if last.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i] < stale[j] })
	return stale, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = storage.CloneGame(game)
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return storage.CloneGame(game), nil
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, fn storage.GameUpdateFunc) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	updated := storage.CloneGame(current)
	if err := fn(updated); err != nil {
		return nil, err
	}
	s.games[id] = updated
	return storage.CloneGame(updated), nil
}

func (s *Storage) DeleteGamesCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, game := range s.games {
		if game.CreatedAt.Before(cutoff) {
			delete(s.games, id)
			removed++
		}
	}
	return removed, nil
}
