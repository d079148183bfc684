package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"dogwalking/config"
	"dogwalking/infras/otel"
	"dogwalking/infras/s3"
	"dogwalking/internal/domains/proof/model"
	"dogwalking/shared/constant"
	"dogwalking/shared/failure"
	"fmt"
	"path"

	"github.com/rs/zerolog/log"
)

// Registry answers whether a walker uploaded the photo evidence a transition needs.
// Upload itself happens elsewhere; the engine only reads.
type Registry interface {
	HasProof(ctx context.Context, bookingID, kind string) (bool, error)
}

type registryImpl struct {
	storage s3.S3
	cfg     *config.Config
	otel    otel.Otel
}

func New(storage s3.S3, cfg *config.Config, otel otel.Otel) Registry {
	return &registryImpl{
		storage: storage,
		cfg:     cfg,
		otel:    otel,
	}
}

// ObjectKey is where the uploader stores proof of kind for a booking.
func ObjectKey(prefix, bookingID, kind string) string {
	return path.Join(prefix, bookingID, kind)
}

// HasProof fails closed: an unreachable store is DependencyUnavailable, never "absent".
func (r *registryImpl) HasProof(ctx context.Context, bookingID, kind string) (exists bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".proof.HasProof")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !model.IsValidKind(kind) {
		return false, failure.Validation(fmt.Sprintf("unknown proof kind %q", kind))
	}

	key := ObjectKey(r.cfg.External.S3.ProofPrefix, bookingID, kind)

	exists, err = r.storage.ObjectExists(ctx, r.cfg.External.S3.ProofBucket, key)
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Str("kind", kind).Msg("proof registry unavailable")

		return false, failure.DependencyUnavailable("proof registry is unavailable, retry later")
	}

	return exists, nil
}
