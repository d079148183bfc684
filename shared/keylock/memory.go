package keylock

import (
	"context"
	"dogwalking/shared/failure"
	"sync"
	"time"
)

type memoryEntry struct {
	sem  chan struct{}
	refs int
}

// Memory is a keyed mutex for a single process.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	wait    time.Duration
}

func NewMemory(wait time.Duration) *Memory {
	return &Memory{
		entries: map[string]*memoryEntry{},
		wait:    wait,
	}
}

func (m *Memory) Acquire(ctx context.Context, key string) (context.Context, func(), error) {
	if held(ctx, key) {
		return ctx, noop, nil
	}

	entry := m.ref(key)

	timer := time.NewTimer(m.wait)
	defer timer.Stop()

	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		m.unref(key)

		return ctx, noop, failure.ResourceBusy("lock wait cancelled for " + key)
	case <-timer.C:
		m.unref(key)

		return ctx, noop, failure.ResourceBusy("timed out waiting for lock on " + key)
	}

	var once sync.Once

	release := func() {
		once.Do(func() {
			<-entry.sem
			m.unref(key)
		})
	}

	return withHeld(ctx, key), release, nil
}

func (m *Memory) ref(key string) *memoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		entry = &memoryEntry{sem: make(chan struct{}, 1)}
		m.entries[key] = entry
	}

	entry.refs++

	return entry
}

func (m *Memory) unref(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return
	}

	entry.refs--
	if entry.refs == 0 {
		delete(m.entries, key)
	}
}
