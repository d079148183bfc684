package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"dogwalking/infras/otel"
	"dogwalking/infras/postgres"
	"dogwalking/internal/domains/booking/model"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/logger"
	gRepo "dogwalking/shared/repository"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	// GetForUpdate row-locks the booking; ctx must carry a transaction.
	GetForUpdate(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	// FirstCompletedBookingID returns the owner's earliest completed booking, or empty.
	FirstCompletedBookingID(ctx context.Context, ownerID string) (string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// FirstCompletedBookingID reads from the primary: it decides a one-time reward
// right after the completion commits, before a replica may have it.
func (r *repositoryImpl) FirstCompletedBookingID(ctx context.Context, ownerID string) (id string, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FirstCompletedBookingID")
	defer scope.End()

	query := fmt.Sprintf(`SELECT id FROM %s
		WHERE owner_id = $1 AND status = $2
		ORDER BY completed_at ASC, id ASC
		LIMIT 1`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqlx.GetContext(ctx, r.Executor(ctx), &id, query, ownerID, model.StatusCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return constant.Empty, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return constant.Empty, fmt.Errorf("failed to get first completed booking: %w", err)
	}

	return id, nil
}
