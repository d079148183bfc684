package mocks

import (
	"context"
	"dogwalking/infras/otel"
)

type otelImpl struct {
}

// NewScope implements otel.Otel.
func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

// Inject implements otel.Otel.
func (o *otelImpl) Inject(_ context.Context, _ map[string]string) {
}

// Extract implements otel.Otel.
func (o *otelImpl) Extract(ctx context.Context, _ map[string]string) context.Context {
	return ctx
}

// Shutdown implements otel.Otel.
func (o *otelImpl) Shutdown(_ context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return &otelImpl{}
}
