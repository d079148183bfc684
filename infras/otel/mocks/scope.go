package mocks

import (
	"dogwalking/infras/otel"
	"sync"
)

// Scope is a no-op otel.Scope that remembers what was traced on it.
type Scope struct {
	mu         sync.Mutex
	Errors     []error
	Attributes map[string]any
}

func (s *Scope) AddEvent(_ string) {}

func (s *Scope) End() {}

func (s *Scope) SetAttribute(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Attributes == nil {
		s.Attributes = map[string]any{}
	}

	s.Attributes[key] = value
}

func (s *Scope) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}

func (s *Scope) TraceError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Errors = append(s.Errors, err)
}

func (s *Scope) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func NewScope() otel.Scope {
	return &Scope{}
}
