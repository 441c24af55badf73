package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	redis_models "guesshow/models/redis"
	redis_utils "guesshow/services/redis/utils"

	"github.com/redis/go-redis/v9"
)

// Cached snapshots expire on their own; every game mutation rewrites the
// key anyway, the TTL just keeps abandoned games from piling up.
const snapshotTTL = 24 * time.Hour

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(addr string, db int) (*RedisClient, error) {
	var client *redis.Client
	if addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// SaveGameSnapshot stores the read view of a game in Redis.
// Key format: "game:{gameId}"
func (rc *RedisClient) SaveGameSnapshot(snapshot *redis_models.GameSnapshot) error {
	key := redis_utils.FormatGameKey(snapshot.GameID)
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("error marshaling game snapshot: %v", err)
	}
	if err := rc.client.Set(rc.ctx, key, data, snapshotTTL).Err(); err != nil {
		// A failed rewrite must not leave an older snapshot being
		// served; drop the key so reads fall back to postgres.
		if delErr := rc.client.Del(rc.ctx, key).Err(); delErr != nil {
			log.Printf("Warning: could not drop stale snapshot %s: %v", key, delErr)
		}
		return fmt.Errorf("error saving game snapshot: %w", err)
	}
	return nil
}

// GetGameSnapshot retrieves the cached view of a game from Redis.
// Returns redis.Nil (wrapped) when the key is absent or expired.
func (rc *RedisClient) GetGameSnapshot(gameID string) (*redis_models.GameSnapshot, error) {
	key := redis_utils.FormatGameKey(gameID)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("error getting game snapshot: %w", err)
	}

	var snapshot redis_models.GameSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("error unmarshaling game snapshot: %v", err)
	}
	return &snapshot, nil
}

// DeleteGameSnapshot removes a cached game view from Redis
func (rc *RedisClient) DeleteGameSnapshot(gameID string) error {
	return rc.client.Del(rc.ctx, redis_utils.FormatGameKey(gameID)).Err()
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
