package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"dogwalking/infras/otel"
	"dogwalking/infras/postgres"
	"dogwalking/internal/domains/review/model"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/logger"
	gRepo "dogwalking/shared/repository"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Review interface {
	Insert(ctx context.Context, model model.Review) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Rating(ctx context.Context, userID string) (model.Rating, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) Rating(ctx context.Context, userID string) (res model.Rating, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.Rating")
	defer scope.End()

	query := fmt.Sprintf(`SELECT COUNT(*) AS count, COALESCE(AVG(rating), 0)::float8 AS average
		FROM %s WHERE reviewed_id = $1`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sqlx.GetContext(ctx, r.Reader(ctx), &res, query, userID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return res, fmt.Errorf("failed to aggregate rating: %w", err)
	}

	return res, nil
}
