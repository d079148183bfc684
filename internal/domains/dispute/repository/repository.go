package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"dogwalking/infras/otel"
	"dogwalking/infras/postgres"
	"dogwalking/internal/domains/dispute/model"
	gDto "dogwalking/shared/dto"
	gRepo "dogwalking/shared/repository"
)

// Dispute stores dispute records. A partial unique index on booking_id
// over open statuses backs the one-open-dispute rule.
type Dispute interface {
	Insert(ctx context.Context, model model.Dispute) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Dispute, error)
	GetForUpdate(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Dispute, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Dispute, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type Incident interface {
	Insert(ctx context.Context, model model.Incident) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Incident, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Incident, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type disputeRepository struct {
	gRepo.Repository[model.Dispute]
}

type incidentRepository struct {
	gRepo.Repository[model.Incident]
}

func NewDispute(db *postgres.Connection, otel otel.Otel) Dispute {
	return &disputeRepository{
		Repository: gRepo.NewRepository[model.Dispute](model.EntityDispute, model.TableDisputes, model.FieldID, db, otel),
	}
}

func NewIncident(db *postgres.Connection, otel otel.Otel) Incident {
	return &incidentRepository{
		Repository: gRepo.NewRepository[model.Incident](model.EntityIncident, model.TableIncidents, model.FieldID, db, otel),
	}
}
