package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hostelops/reservation-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// RoomCache keeps room records in redis so capacity math does not hit the
// database for every availability read. Entries must be invalidated whenever
// a room is edited, since bed counts feed directly into capacity decisions.
// A nil RoomCache is a valid no-op cache.
type RoomCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomCache(client *redis.Client, ttl time.Duration) *RoomCache {
	if client == nil {
		return nil
	}
	return &RoomCache{client: client, ttl: ttl}
}

// NewRedisClient connects to redis and verifies the connection with a short
// ping. It returns nil on failure so callers degrade to uncached reads.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

func roomKey(id uint) string {
	return fmt.Sprintf("room:%d", id)
}

func (c *RoomCache) Get(ctx context.Context, id uint) (*models.Room, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var room models.Room
	if err := json.Unmarshal(raw, &room); err != nil {
		return nil, false
	}
	return &room, true
}

func (c *RoomCache) Set(ctx context.Context, room *models.Room) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(room)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, roomKey(room.ID), raw, c.ttl).Err()
}

func (c *RoomCache) Invalidate(ctx context.Context, id uint) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, roomKey(id)).Err()
}
