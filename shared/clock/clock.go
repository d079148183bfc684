// Package clock supplies wall-clock time to the engine so that deadline
// and hold-window checks can be driven deterministically in tests.
package clock

import (
	"dogwalking/shared/timezone"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// New returns a clock reading the current time in the application timezone.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return timezone.Now()
}

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

func (m *Manual) Set(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = now
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
}
