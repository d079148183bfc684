package mocks

import (
	"context"
	"dogwalking/internal/events"
	"sync"
)

// Recorder is an in-memory Emitter that keeps every emitted event.
type Recorder struct {
	mu       sync.Mutex
	events   []events.Event
	notified int
	wake     chan struct{}
	EmitErr  error
}

func NewRecorder() *Recorder {
	return &Recorder{wake: make(chan struct{}, 1)}
}

func (r *Recorder) Emit(_ context.Context, evs ...events.Event) error {
	if r.EmitErr != nil {
		return r.EmitErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, evs...)

	return nil
}

func (r *Recorder) Notify() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notified++
}

func (r *Recorder) Notifications() <-chan struct{} {
	return r.wake
}

func (r *Recorder) Relay(_ context.Context) (int, error) {
	return 0, nil
}

// Events returns a copy of everything emitted so far.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]events.Event(nil), r.events...)
}

// OfTopic returns the emitted events with the given topic.
func (r *Recorder) OfTopic(topic string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := []events.Event{}
	for _, ev := range r.events {
		if ev.Topic() == topic {
			res = append(res, ev)
		}
	}

	return res
}

func (r *Recorder) Notified() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.notified
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
	r.notified = 0
}
