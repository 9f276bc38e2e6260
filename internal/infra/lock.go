package infra

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCommitContention is returned when another commit holds the lock for the
// whole wait window. Retryable: the caller should try again shortly.
var ErrCommitContention = errors.New("another reconciliation commit is in progress, retry shortly")

// releaseScript deletes the lock only if the stored token still matches, so a
// slow commit that outlived its TTL cannot release a successor's lock.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// CommitLock serializes reconciliation commits across processes via a Redis
// SetNX lease. Commits are short (bounded by batch size), so the wait window
// is small and contention surfaces as a retryable error instead of a hang.
type CommitLock struct {
	rdb     *redis.Client
	key     string
	ttl     time.Duration
	maxWait time.Duration
}

func NewCommitLock(rdb *redis.Client, maxWait time.Duration) *CommitLock {
	return &CommitLock{
		rdb:     rdb,
		key:     "reconcile:commit:lock",
		ttl:     30 * time.Second,
		maxWait: maxWait,
	}
}

// Acquire blocks until the lock is held, the wait window expires
// (ErrCommitContention), or ctx is cancelled. The returned func releases the
// lock; it is safe to call after TTL expiry.
func (l *CommitLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.maxWait)

	for {
		ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.rdb, []string{l.key}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrCommitContention
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}
