package mocks

import (
	"context"
	"dogwalking/shared/repository"
)

type transactorImpl struct {
}

// WithinTransaction implements repository.Transactor by running fn directly.
func (t *transactorImpl) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func NewTransactor() repository.Transactor {
	return &transactorImpl{}
}
