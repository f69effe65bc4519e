package redis

import (
	"fmt"

	"github.com/mcoot/rps-matchmaker/internal/model"
)

// Key prefix for all matchmaking data
const keyPrefix = "rps"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player IDs
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// activityIndexKey returns the Redis key for the ZSET of last activity,
// scored by unix milliseconds
func activityIndexKey() string {
	return fmt.Sprintf("%s:idx:activity", keyPrefix)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the ZSET of games scored by
// creation time in unix milliseconds
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}
