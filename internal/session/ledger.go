package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RotationLedger tracks the id (jti) of the one refresh token per user that
// is currently authoritative. Older refresh tokens stay cryptographically
// valid until expiry; the ledger is what makes a rotated token unusable.
type RotationLedger interface {
	// Record makes tokenID authoritative for userID, replacing any previous one.
	Record(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	// Rotate atomically swaps oldID for newID. It reports false when oldID is
	// not the authoritative id (already rotated, logged out, or expired).
	Rotate(ctx context.Context, userID, oldID, newID string, ttl time.Duration) (bool, error)
	// Forget drops the authoritative id for userID.
	Forget(ctx context.Context, userID string) error
}

const redisKeyPrefix = "auth:refresh:"

var rotateScript = redis.NewScript(`
-- KEYS[1] = ledger key
-- ARGV[1] = expected current id
-- ARGV[2] = new id
-- ARGV[3] = ttl_ms
--
-- Returns:
--  1 if rotated
--  0 if the current id does not match
local current = redis.call('GET', KEYS[1])
if current ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisLedger stores one key per user with the refresh TTL, so entries
// disappear on their own when the token would have expired anyway.
type RedisLedger struct {
	rdb *redis.Client
}

func NewRedisLedger(rdb *redis.Client) *RedisLedger {
	return &RedisLedger{rdb: rdb}
}

func (l *RedisLedger) Record(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	if userID == "" || tokenID == "" {
		return errors.New("ledger: user id and token id are required")
	}
	return l.rdb.Set(ctx, redisKeyPrefix+userID, tokenID, ttl).Err()
}

func (l *RedisLedger) Rotate(ctx context.Context, userID, oldID, newID string, ttl time.Duration) (bool, error) {
	if userID == "" || oldID == "" || newID == "" {
		return false, errors.New("ledger: user id and token ids are required")
	}
	res, err := rotateScript.Run(ctx, l.rdb, []string{redisKeyPrefix + userID}, oldID, newID, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (l *RedisLedger) Forget(ctx context.Context, userID string) error {
	return l.rdb.Del(ctx, redisKeyPrefix+userID).Err()
}

// MemoryLedger is an in-process RotationLedger for tests and single-node dev runs.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]ledgerEntry
	clock   func() time.Time
}

type ledgerEntry struct {
	id      string
	expires time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]ledgerEntry), clock: time.Now}
}

func (l *MemoryLedger) Record(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[userID] = ledgerEntry{id: tokenID, expires: l.clock().Add(ttl)}
	return nil
}

func (l *MemoryLedger) Rotate(ctx context.Context, userID, oldID, newID string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.entries[userID]
	now := l.clock()
	if !ok || cur.id != oldID || !now.Before(cur.expires) {
		return false, nil
	}
	l.entries[userID] = ledgerEntry{id: newID, expires: now.Add(ttl)}
	return true, nil
}

func (l *MemoryLedger) Forget(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, userID)
	return nil
}
