package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rps-matchmaker/internal/model"
	"github.com/mcoot/rps-matchmaker/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player, seenAt time.Time) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	keys := []string{playerKey(player.ID), playersIndexKey(), activityIndexKey()}
	created, err := createScript.Run(ctx, s.client, keys, string(player.ID), data, strconv.FormatInt(seenAt.UnixMilli(), 10)).Int()
	if err != nil {
		return err
	}
	if created == 0 {
		return model.ErrPlayerExists
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, v := range values {
		// Evicted between SMEMBERS and MGET
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var player model.Player
		if err := json.Unmarshal([]byte(raw), &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	return players, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, fn storage.PlayerUpdateFunc) (*model.Player, error) {
	key := playerKey(id)
	var updated *model.Player

	err := s.watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}
		if err := fn(&player); err != nil {
			return err
		}

		out, err := json.Marshal(&player)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &player
		return nil
	}, key)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Storage) UpdatePlayers(ctx context.Context, ids []model.PlayerID, fn storage.PlayersUpdateFunc) ([]*model.Player, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(id)
	}
	var updated []*model.Player

	err := s.watch(ctx, func(tx *redis.Tx) error {
		values, err := tx.MGet(ctx, keys...).Result()
		if err != nil {
			return err
		}

		players := make([]*model.Player, len(ids))
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var player model.Player
			if err := json.Unmarshal([]byte(raw), &player); err != nil {
				return err
			}
			players[i] = &player
		}
		exists := make([]bool, len(players))
		for i, p := range players {
			exists[i] = p != nil
		}

		if err := fn(players); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, p := range players {
				if p == nil || !exists[i] {
					players[i] = nil
					continue
				}
				out, err := json.Marshal(p)
				if err != nil {
					return err
				}
				pipe.Set(ctx, keys[i], out, 0)
			}
			return nil
		})
		if err != nil {
			return err
		}
		updated = players
		return nil
	}, keys...)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Storage) DeletePlayerIfStale(ctx context.Context, id model.PlayerID, cutoff time.Time) (bool, error) {
	keys := []string{playerKey(id), activityIndexKey(), playersIndexKey()}
	removed, err := evictScript.Run(ctx, s.client, keys, string(id), strconv.FormatInt(cutoff.UnixMilli(), 10)).Int()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// Activity operations

func (s *Storage) TouchActivity(ctx context.Context, id model.PlayerID, at time.Time) error {
	keys := []string{playerKey(id), activityIndexKey()}
	touched, err := touchScript.Run(ctx, s.client, keys, string(id), strconv.FormatInt(at.UnixMilli(), 10)).Int()
	if err != nil {
		return err
	}
	if touched == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) GetActivity(ctx context.Context, id model.PlayerID) (time.Time, error) {
	score, err := s.client.ZScore(ctx, activityIndexKey(), string(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, model.ErrPlayerNotFound
		}
		return time.Time{}, err
	}
	return time.UnixMilli(int64(score)).UTC(), nil
}

func (s *Storage) StaleActivity(ctx context.Context, cutoff time.Time) ([]model.PlayerID, error) {
	members, err := s.client.ZRangeByScore(ctx, activityIndexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	stale := make([]model.PlayerID, len(members))
	for i, m := range members {
		stale[i] = model.PlayerID(m)
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i] < stale[j] })
	return stale, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL)
	pipe.ZAdd(ctx, gamesIndexKey(), redis.Z{Score: unixMilli(game.CreatedAt), Member: string(game.ID)})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, fn storage.GameUpdateFunc) (*model.Game, error) {
	key := gameKey(id)
	var updated *model.Game

	err := s.watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrGameNotFound
			}
			return err
		}

		var game model.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}
		if game.Moves == nil {
			game.Moves = make(map[model.PlayerID]model.Choice)
		}
		if err := fn(&game); err != nil {
			return err
		}

		out, err := json.Marshal(&game)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &game
		return nil
	}, key)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Storage) DeleteGamesCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := s.client.ZRangeByScore(ctx, gamesIndexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, gameKey(model.GameID(id)))
		pipe.ZRem(ctx, gamesIndexKey(), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// watch runs fn inside WATCH on keys, retrying when a watched key changed
func (s *Storage) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < s.cfg.MaxTxRetries; attempt++ {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("watch %v: %w", keys, model.ErrConcurrentUpdate)
}

func unixMilli(t time.Time) float64 {
	return float64(t.UnixMilli())
}
