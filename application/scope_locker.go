package application

import (
	"context"
	"fmt"
	"sync"

	"listkeeper/domain/lists"
)

// ScopeLocker serializes work per scope. Operations on different scopes run
// concurrently; operations on the same scope run one at a time.
type ScopeLocker struct {
	mu    sync.Mutex
	locks map[lists.Scope]*scopeLock
}

// scopeLock is held while its one-slot channel is full.
type scopeLock struct {
	sem  chan struct{}
	refs int
}

// NewScopeLocker creates an empty locker.
func NewScopeLocker() *ScopeLocker {
	return &ScopeLocker{locks: make(map[lists.Scope]*scopeLock)}
}

// Lock waits until the scope is free and returns the function that releases it.
// It gives up with lists.ErrStorageUnavailable when ctx is done first.
func (l *ScopeLocker) Lock(ctx context.Context, scope lists.Scope) (unlock func(), err error) {
	l.mu.Lock()
	lock, ok := l.locks[scope]
	if !ok {
		lock = &scopeLock{sem: make(chan struct{}, 1)}
		l.locks[scope] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(scope, lock)
		return nil, fmt.Errorf("waiting for scope %d: %w: %w", scope, lists.ErrStorageUnavailable, ctx.Err())
	}

	return func() {
		<-lock.sem
		l.release(scope, lock)
	}, nil
}

func (l *ScopeLocker) release(scope lists.Scope, lock *scopeLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, scope)
	}
}

// active reports how many scopes currently hold or wait for a lock.
func (l *ScopeLocker) active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
