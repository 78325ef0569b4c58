package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates project mutations across multiple instances.
type DistributedLocker interface {
	// Lock acquires the lock for key (a project name). It blocks until the
	// lock is acquired or ctx is done. The lock expires after ttl if the
	// holder disappears.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
