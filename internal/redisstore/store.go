package redisstore

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	goredis "github.com/redis/go-redis/v9"

	"interior-design-backend/internal/logger"
)

type Store struct {
	log *logger.Logger
	rdb *goredis.Client
}

func New(ctx context.Context, log *logger.Logger, addr, password string, db int) (*Store, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Store{log: log.With("component", "redis"), rdb: rdb}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// Decision is the outcome of one fixed-window rate limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Allow counts one hit against key in the current window of the given length.
func (s *Store) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	now := time.Now()
	k, resetIn := windowKey(key, window, now)

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return decide(incr.Val(), limit, resetIn), nil
}

func windowKey(key string, window time.Duration, now time.Time) (string, time.Duration) {
	start := now.Truncate(window)
	return "ratelimit:" + key + ":" + strconv.FormatInt(start.Unix(), 10), start.Add(window).Sub(now)
}

func decide(count int64, limit int, resetIn time.Duration) Decision {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	d := Decision{Allowed: count <= int64(limit), Remaining: remaining}
	if !d.Allowed {
		d.RetryAfter = resetIn
	}
	return d
}

var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a held SETNX lock. Release only deletes the key if this holder still owns it.
type Lock struct {
	rdb   *goredis.Client
	key   string
	token string
}

// TryLock returns (nil, nil) when someone else holds name.
func (s *Store) TryLock(ctx context.Context, name string, ttl time.Duration) (*Lock, error) {
	token := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	key := "lock:" + name
	ok, err := s.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !ok {
		return nil, nil
	}
	return &Lock{rdb: s.rdb, key: key, token: token}, nil
}

func (l *Lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err(); err != nil && err != goredis.Nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}

// Acquire adapts TryLock to a release callback.
func (s *Store) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, bool, error) {
	lock, err := s.TryLock(ctx, name, ttl)
	if err != nil || lock == nil {
		return nil, false, err
	}
	return lock.Release, true, nil
}
