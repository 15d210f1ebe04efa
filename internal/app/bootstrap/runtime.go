package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/botica-chatbot/internal/config"
	"github.com/wolfman30/botica-chatbot/internal/session"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

// sweepInterval is how often expired in-memory sessions are dropped.
const sweepInterval = 5 * time.Minute

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// SessionStore is the store selected by SESSION_STORE together with what must
// be run or closed alongside it.
type SessionStore struct {
	session.Store
	memory *session.MemoryStore
	redis  *redis.Client
}

// BuildSessionStore selects the memory or Redis session store.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*SessionStore, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.SessionStore {
	case "", "memory":
		mem := session.NewMemoryStore(session.WithMemoryTTL(cfg.SessionTTL))
		logger.Info("session store ready", "backend", "memory", "ttl", cfg.SessionTTL.String())
		return &SessionStore{Store: mem, memory: mem}, nil
	case "redis":
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, fmt.Errorf("bootstrap: redis session store requested but %q is unreachable", cfg.RedisAddr)
		}
		logger.Info("session store ready", "backend", "redis", "ttl", cfg.SessionTTL.String())
		return &SessionStore{
			Store: session.NewRedisStore(client, session.WithRedisTTL(cfg.SessionTTL)),
			redis: client,
		}, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown session store %q", cfg.SessionStore)
	}
}

// Run performs background upkeep until ctx is done. Only the memory store
// needs any.
func (s *SessionStore) Run(ctx context.Context) {
	if s == nil || s.memory == nil {
		<-ctx.Done()
		return
	}
	s.memory.RunSweeper(ctx, sweepInterval)
}

// Close releases the Redis connection, if any.
func (s *SessionStore) Close() error {
	if s == nil || s.redis == nil {
		return nil
	}
	return s.redis.Close()
}
