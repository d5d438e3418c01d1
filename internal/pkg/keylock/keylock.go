package keylock

import (
	"context"
	"sync"
	"time"

	"expo-ledger/internal/pkg/errs"

	"golang.org/x/sync/semaphore"
)

// ErrLockTimeout is returned when a lock cannot be acquired within the
// configured bound. Safe for the caller to retry the whole operation.
var ErrLockTimeout = errs.New("timed out waiting for resource lock")

// Manager hands out per-key mutual exclusion with a bounded wait.
// A key names the narrowest resource identity an operation must serialize
// on, e.g. "checkin:<event>:<attendee>" or "raffle:<id>".
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

func NewManager(acquireTimeout time.Duration) *Manager {
	return &Manager{
		entries: make(map[string]*entry),
		timeout: acquireTimeout,
	}
}

// Acquire blocks until the key's lock is held, the context is cancelled, or
// the acquire timeout elapses. The returned release function must be called
// exactly once.
func (m *Manager) Acquire(ctx context.Context, key string) (func(), error) {
	e := m.retain(key)

	acquireCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := e.sem.Acquire(acquireCtx, 1); err != nil {
		m.release(key)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrLockTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			m.release(key)
		})
	}, nil
}

// AcquireMany acquires every key in the given order and releases them all in
// reverse order. Callers are responsible for passing keys in a globally
// deterministic order to keep the scheme deadlock-free.
func (m *Manager) AcquireMany(ctx context.Context, keys ...string) (func(), error) {
	releases := make([]func(), 0, len(keys))

	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range keys {
		release, err := m.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}

	var once sync.Once
	return func() {
		once.Do(releaseAll)
	}, nil
}

func (m *Manager) retain(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}
