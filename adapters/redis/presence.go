package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// presenceTTL bounds how long a stale "online" flag can survive a crashed
// listener client that never toggled itself off.
const presenceTTL = 24 * time.Hour

const presenceKeyPrefix = "healspace:presence:listener:"

// PresenceStore tracks listener availability in redis so every server
// instance sees the same online set.
type PresenceStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewClient connects to redis using REDIS_ADDR (or a redis:// URL in
// REDIS_URI / REDIS_URL) and verifies the connection with a ping.
func NewClient(ctx context.Context, logger *zap.Logger) (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = os.Getenv("REDIS_URI")
	}
	if addr == "" {
		addr = os.Getenv("REDIS_URL")
	}
	if addr == "" {
		return nil, errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) environment variable is not set")
	}

	var rdb *redis.Client
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		rdb = redis.NewClient(opt)
	} else {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Connected to redis", zap.String("addr", addr))
	return rdb, nil
}

// NewPresenceStore creates a redis-backed presence store
func NewPresenceStore(rdb *redis.Client, logger *zap.Logger) *PresenceStore {
	return &PresenceStore{rdb: rdb, logger: logger}
}

// SetOnline implements repositories.PresenceStore
func (s *PresenceStore) SetOnline(ctx context.Context, listenerID string, online bool) error {
	val := "0"
	if online {
		val = "1"
	}
	if err := s.rdb.Set(ctx, presenceKeyPrefix+listenerID, val, presenceTTL).Err(); err != nil {
		return fmt.Errorf("failed to set presence for %s: %w", listenerID, err)
	}
	return nil
}

// IsOnline implements repositories.PresenceStore. A missing key reads as
// offline.
func (s *PresenceStore) IsOnline(ctx context.Context, listenerID string) (bool, error) {
	val, err := s.rdb.Get(ctx, presenceKeyPrefix+listenerID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read presence for %s: %w", listenerID, err)
	}
	return val == "1", nil
}
