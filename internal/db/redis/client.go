package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/askgames/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const defaultMaxRetries = 5

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// MaxRetries bounds connection-level retries per command.
	// Application-level errors (e.g. a malformed query) are never retried.
	MaxRetries int
}

// Store implements db.Store via rueidis for Redis 8+.
type Store struct {
	client     rueidis.Client
	maxRetries int
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		DisableRetry: true, // the retry budget lives in doArbitrary
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Store{client: client, maxRetries: maxRetries}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// doArbitrary runs an arbitrary command with a bounded retry budget for
// transient connection failures. Redis server errors surface immediately:
// retrying a malformed query cannot help.
func (s *Store) doArbitrary(ctx context.Context, name string, args ...string) (rueidis.RedisResult, error) {
	delay := 100 * time.Millisecond
	var res rueidis.RedisResult

	for attempt := 0; ; attempt++ {
		cmd := s.b().Arbitrary(name).Args(args...).Build()
		res = s.do(ctx, cmd)

		err := res.Error()
		if err == nil {
			return res, nil
		}
		if !isTransient(err) || attempt >= s.maxRetries {
			return res, err
		}

		select {
		case <-ctx.Done():
			return res, err
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// isTransient reports whether an error is a connection-level failure worth
// retrying. Redis server replies and caller cancellation are not.
func isTransient(err error) bool {
	if _, isServer := rueidis.IsRedisErr(err); isServer {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// isRedisErr checks if err is a Redis server error containing substr (case-insensitive).
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
