package registry

import (
	"context"
	"sync"
	"sync/atomic"

	"courier/internal/errors"

	goredis "github.com/redis/go-redis/v9"
)

// ErrSlotsExhausted is returned by a SlotCounter when the server is at capacity
var ErrSlotsExhausted = errors.New("server slots exhausted")

// SlotCounter holds the per-server connection counts. Reserve is a single atomic
// check-and-increment; Release never goes below zero.
type SlotCounter interface {
	Reserve(ctx context.Context, serverID string, capacity int) (int, error)
	Release(ctx context.Context, serverID string) (int, error)
	Count(ctx context.Context, serverID string) (int, error)
	Reset(ctx context.Context, serverID string, n int) error
	// Shared reports whether counts survive a process restart
	Shared() bool
}

type memoryCounter struct {
	counts sync.Map // serverID -> *atomic.Int64
}

// NewMemoryCounter creates an in-process counter
func NewMemoryCounter() SlotCounter {
	return &memoryCounter{}
}

func (c *memoryCounter) slot(serverID string) *atomic.Int64 {
	v, _ := c.counts.LoadOrStore(serverID, new(atomic.Int64))

	return v.(*atomic.Int64)
}

func (c *memoryCounter) Reserve(_ context.Context, serverID string, capacity int) (int, error) {
	slot := c.slot(serverID)
	for {
		cur := slot.Load()
		if cur >= int64(capacity) {
			return int(cur), ErrSlotsExhausted
		}
		if slot.CompareAndSwap(cur, cur+1) {
			return int(cur + 1), nil
		}
	}
}

func (c *memoryCounter) Release(_ context.Context, serverID string) (int, error) {
	slot := c.slot(serverID)
	for {
		cur := slot.Load()
		if cur <= 0 {
			return 0, nil
		}
		if slot.CompareAndSwap(cur, cur-1) {
			return int(cur - 1), nil
		}
	}
}

func (c *memoryCounter) Count(_ context.Context, serverID string) (int, error) {
	return int(c.slot(serverID).Load()), nil
}

func (c *memoryCounter) Reset(_ context.Context, serverID string, n int) error {
	c.slot(serverID).Store(int64(n))

	return nil
}

func (c *memoryCounter) Shared() bool {
	return false
}

var (
	reserveScript = goredis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
if cur >= tonumber(ARGV[1]) then
  return -1 - cur
end
return redis.call('INCR', KEYS[1])
`)

	releaseScript = goredis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
if cur <= 0 then
  redis.call('SET', KEYS[1], 0)
  return 0
end
return redis.call('DECR', KEYS[1])
`)
)

type redisCounter struct {
	client *goredis.Client
	prefix string
}

// NewRedisCounter creates a counter shared by every process using the same Redis
func NewRedisCounter(client *goredis.Client, prefix string) SlotCounter {
	return &redisCounter{client: client, prefix: prefix}
}

func (c *redisCounter) key(serverID string) string {
	return c.prefix + ":server:" + serverID + ":slots"
}

func (c *redisCounter) Reserve(ctx context.Context, serverID string, capacity int) (int, error) {
	n, err := reserveScript.Run(ctx, c.client, []string{c.key(serverID)}, capacity).Int()
	if err != nil {
		return 0, errors.Wrap(err, "reserve slot")
	}
	if n < 0 {
		// script encodes the current count as -1-cur when full
		return -1 - n, ErrSlotsExhausted
	}

	return n, nil
}

func (c *redisCounter) Release(ctx context.Context, serverID string) (int, error) {
	n, err := releaseScript.Run(ctx, c.client, []string{c.key(serverID)}).Int()
	if err != nil {
		return 0, errors.Wrap(err, "release slot")
	}

	return n, nil
}

func (c *redisCounter) Count(ctx context.Context, serverID string) (int, error) {
	n, err := c.client.Get(ctx, c.key(serverID)).Int()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "read slot count")
	}

	return n, nil
}

func (c *redisCounter) Reset(ctx context.Context, serverID string, n int) error {
	return errors.Wrap(c.client.Set(ctx, c.key(serverID), n, 0).Err(), "reset slot count")
}

func (c *redisCounter) Shared() bool {
	return true
}
