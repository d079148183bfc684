package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"dogwalking/infras/otel"
	"dogwalking/infras/postgres"
	"dogwalking/internal/domains/referral/model"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/logger"
	gRepo "dogwalking/shared/repository"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Referral stores referral grants. Partial unique indexes keep one anchor per
// referrer and per code, and one grant per referred party.
type Referral interface {
	Insert(ctx context.Context, model model.ReferralGrant) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.ReferralGrant, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ReferralGrant, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Stats(ctx context.Context, referrerID string) (model.Stats, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.ReferralGrant]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Referral {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.ReferralGrant](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) Stats(ctx context.Context, referrerID string) (res model.Stats, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".referral.Stats")
	defer scope.End()

	query := fmt.Sprintf(`SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = $2) AS completed,
			COUNT(*) FILTER (WHERE status = $3) AS pending,
			COALESCE(SUM(referrer_reward) FILTER (WHERE status = $2), 0) AS total_reward
		FROM %s
		WHERE referrer_id = $1 AND referred_id IS NOT NULL`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sqlx.GetContext(ctx, r.Reader(ctx), &res, query, referrerID, model.StatusCompleted, model.StatusPending); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return res, fmt.Errorf("failed to aggregate referral stats: %w", err)
	}

	return res, nil
}
