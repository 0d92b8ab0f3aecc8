package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	slot chan struct{}
	refs int
}

// MemoryLocker is a key-partitioned mutex map for a single process.
// Entries are dropped once no goroutine holds or waits on them.
type MemoryLocker struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	waitTimeout time.Duration
}

// NewMemoryLocker creates a locker; waitTimeout <= 0 waits until ctx is done
func NewMemoryLocker(waitTimeout time.Duration) *MemoryLocker {
	return &MemoryLocker{
		entries:     make(map[string]*memoryEntry),
		waitTimeout: waitTimeout,
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Guard, error) {
	entry := l.ref(key)

	var timeout <-chan time.Time
	if l.waitTimeout > 0 {
		timer := time.NewTimer(l.waitTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case entry.slot <- struct{}{}:
		return &memoryGuard{locker: l, key: key, entry: entry}, nil
	case <-ctx.Done():
		l.unref(key, entry)
		return nil, fmt.Errorf("acquire lock %s: %w", key, ctx.Err())
	case <-timeout:
		l.unref(key, entry)
		return nil, fmt.Errorf("acquire lock %s: %w", key, ErrLockTimeout)
	}
}

// Held returns the number of keys currently held or waited on
func (l *MemoryLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *MemoryLocker) ref(key string) *memoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &memoryEntry{slot: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (l *MemoryLocker) unref(key string, entry *memoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}

type memoryGuard struct {
	locker *MemoryLocker
	key    string
	entry  *memoryEntry
	once   sync.Once
}

func (g *memoryGuard) Release(_ context.Context) error {
	g.once.Do(func() {
		<-g.entry.slot
		g.locker.unref(g.key, g.entry)
	})
	return nil
}
