package redis

import "github.com/redis/go-redis/v9"

// createScript stores a new player and indexes it, or does nothing if the
// player key already exists.
// KEYS[1] player key, KEYS[2] players index, KEYS[3] activity index;
// ARGV[1] player id, ARGV[2] player JSON, ARGV[3] unix ms.
var createScript = redis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[2]) == 0 then
	return 0
end
redis.call('SADD', KEYS[2], ARGV[1])
redis.call('ZADD', KEYS[3], ARGV[3], ARGV[1])
return 1
`)

// touchScript refreshes activity only while the player key exists.
// KEYS[1] player key, KEYS[2] activity index; ARGV[1] player id, ARGV[2] unix ms.
var touchScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[1])
return 1
`)

// evictScript deletes a player unless its activity is at or after the cutoff.
// KEYS[1] player key, KEYS[2] activity index, KEYS[3] players index;
// ARGV[1] player id, ARGV[2] cutoff unix ms.
var evictScript = redis.NewScript(`
local score = redis.call('ZSCORE', KEYS[2], ARGV[1])
if score and tonumber(score) >= tonumber(ARGV[2]) then
	return 0
end
local removed = redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[1])
redis.call('SREM', KEYS[3], ARGV[1])
return removed
`)
