package events

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=./mocks/repository_mock.go -package=mocks

import (
	"context"
	"dogwalking/infras/otel"
	"dogwalking/infras/postgres"
	"dogwalking/shared/constant"
	"dogwalking/shared/logger"
	gRepo "dogwalking/shared/repository"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, model OutboxEvent) error
	// LockPending locks up to limit unpublished events, oldest first, skipping rows
	// another relay already holds. Must run inside a transaction.
	LockPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type repositoryImpl struct {
	gRepo.Repository[OutboxEvent]
	otel otel.Otel
}

func NewRepository(db *postgres.Connection, otel otel.Otel) Repository {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[OutboxEvent](EntityName, TableName, FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, model OutboxEvent) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.Insert")
	defer scope.End()

	query := fmt.Sprintf(`INSERT INTO %s (id, topic, event_key, payload, headers, attempts, created_at)
		VALUES (:id, :topic, :event_key, :payload, :headers, :attempts, :created_at)`, TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := sqlx.NamedExecContext(ctx, r.Executor(ctx), query, model); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	return nil
}

func (r *repositoryImpl) LockPending(ctx context.Context, limit int) (res []OutboxEvent, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.LockPending")
	defer scope.End()

	if _, ok := gRepo.TxFromContext(ctx); !ok {
		return nil, gRepo.ErrNoTransaction
	}

	query := fmt.Sprintf(`SELECT seq, id, topic, event_key, payload, headers, attempts, last_error, created_at, published_at
		FROM %s WHERE published_at IS NULL ORDER BY seq LIMIT $1 FOR UPDATE SKIP LOCKED`, TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res = []OutboxEvent{}
	if err = sqlx.SelectContext(ctx, r.Executor(ctx), &res, query, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to lock pending outbox events: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) MarkPublished(ctx context.Context, id string, at time.Time) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.MarkPublished")
	defer scope.End()

	query := fmt.Sprintf("UPDATE %s SET published_at = $1, attempts = attempts + 1, last_error = NULL WHERE id = $2", TableName)

	if _, err := r.Executor(ctx).ExecContext(ctx, query, at, id); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to mark outbox event published: %w", err)
	}

	return nil
}

func (r *repositoryImpl) MarkFailed(ctx context.Context, id string, reason string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.MarkFailed")
	defer scope.End()

	query := fmt.Sprintf("UPDATE %s SET attempts = attempts + 1, last_error = $1 WHERE id = $2", TableName)

	if _, err := r.Executor(ctx).ExecContext(ctx, query, reason, id); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to mark outbox event failed: %w", err)
	}

	return nil
}
