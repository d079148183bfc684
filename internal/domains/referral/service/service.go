package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Referral=MockReferralService

import (
	"context"
	"dogwalking/config"
	"dogwalking/infras/otel"
	bookingRepository "dogwalking/internal/domains/booking/repository"
	"dogwalking/internal/domains/referral/model"
	"dogwalking/internal/domains/referral/model/dto"
	"dogwalking/internal/domains/referral/repository"
	"dogwalking/internal/events"
	"dogwalking/shared"
	"dogwalking/shared/cache"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/failure"
	gModel "dogwalking/shared/model"
	gRepo "dogwalking/shared/repository"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheStats = "referral:stats"

	maxCodeAttempts = 5
)

// Referral issues referral codes and credits a referral once the referred
// owner completes their first booking.
type Referral interface {
	GetOrCreateCode(ctx context.Context, referrerID string) (dto.CodeResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (dto.GrantResponse, error)
	// OnBookingCompleted is safe to call any number of times per booking.
	OnBookingCompleted(ctx context.Context, bookingID, ownerID string) error
	Stats(ctx context.Context, referrerID string) (dto.StatsResponse, error)
}

// CodeSource produces candidate referral codes.
type CodeSource func() string

// RandomCode draws a code from a random UUID.
func RandomCode() string {
	id := uuid.New()

	var sb strings.Builder

	sb.WriteString(model.CodePrefix)

	for i := range model.CodeLength {
		sb.WriteByte(model.CodeAlphabet[int(id[i])%len(model.CodeAlphabet)])
	}

	return sb.String()
}

func NewCodeSource() CodeSource {
	return RandomCode
}

type serviceImpl struct {
	repo       repository.Referral
	bookings   bookingRepository.Booking
	transactor gRepo.Transactor
	emitter    events.Emitter
	clock      clock.Clock
	codes      CodeSource
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Referral,
	bookings bookingRepository.Booking,
	transactor gRepo.Transactor,
	emitter events.Emitter,
	clk clock.Clock,
	codes CodeSource,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Referral {
	return &serviceImpl{
		repo:       repo,
		bookings:   bookings,
		transactor: transactor,
		emitter:    emitter,
		clock:      clk,
		codes:      codes,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func anchorFilter(field string, value any) gDto.FilterGroup {
	filter := shared.FilterBy(field, value, model.TableName)
	filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldReferredID, Operator: gDto.FilterIsNull, Table: model.TableName})

	return filter
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation
}

func authorize(ctx context.Context, userID string) error {
	if shared.IsPrivileged(ctx) {
		return nil
	}

	if actor, _ := shared.Actor(ctx); actor == constant.Empty || actor != userID {
		return failure.UnauthorizedActor("referrals belong to other users") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) GetOrCreateCode(ctx context.Context, referrerID string) (res dto.CodeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".referral.GetOrCreateCode")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = authorize(ctx, referrerID); err != nil {
		return res, err
	}

	res.ReferrerID = referrerID

	for range maxCodeAttempts {
		anchor, err := s.repo.Get(ctx, anchorFilter(model.FieldReferrerID, referrerID))
		if err != nil {
			log.Error().Err(err).Str("referrerID", referrerID).Msg("failed to get referral code")

			return res, fmt.Errorf("failed to get referral code: %w", err)
		}

		if anchor.ID != constant.Empty {
			res.Code = anchor.ReferralCode

			return res, nil
		}

		code := s.codes()

		taken, err := s.repo.Exist(ctx, anchorFilter(model.FieldReferralCode, code))
		if err != nil {
			log.Error().Err(err).Msg("failed to check referral code")

			return res, fmt.Errorf("failed to check referral code: %w", err)
		}

		if taken {
			log.Debug().Str("code", code).Msg("referral code collision")

			continue
		}

		err = s.repo.Insert(ctx, model.ReferralGrant{
			ID:           uuid.NewString(),
			ReferrerID:   referrerID,
			ReferralCode: code,
			Status:       model.StatusPending,
			Metadata:     gModel.NewMetadata(shared.ActorOrSystem(ctx), s.clock.Now()),
		})
		if err == nil {
			res.Code = code

			return res, nil
		}

		// Lost a race on the code or on the referrer's anchor; the next
		// round either finds the anchor or draws a new code.
		if !isUniqueViolation(err) {
			log.Error().Err(err).Str("referrerID", referrerID).Msg("failed to create referral code")

			return res, fmt.Errorf("failed to create referral code: %w", err)
		}
	}

	return res, failure.Conflict("could not allocate a unique referral code") // nolint:wrapcheck
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.GrantResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".referral.Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	referredID := req.ReferredID
	if referredID == constant.Empty {
		referredID, _ = shared.Actor(ctx)
	}

	if referredID == constant.Empty {
		return res, failure.Validation("referred party is required") // nolint:wrapcheck
	}

	if err = authorize(ctx, referredID); err != nil {
		return res, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	anchor, err := s.repo.Get(ctx, anchorFilter(model.FieldReferralCode, code))
	if err != nil {
		log.Error().Err(err).Msg("failed to get referral code")

		return res, fmt.Errorf("failed to get referral code: %w", err)
	}

	if anchor.ID == constant.Empty {
		return res, failure.NotFound("referral code not found") // nolint:wrapcheck
	}

	if anchor.ReferrerID == referredID {
		return res, failure.Validation("a referrer cannot use their own code") // nolint:wrapcheck
	}

	referred, err := s.repo.Exist(ctx, shared.FilterBy(model.FieldReferredID, referredID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check referred party")

		return res, fmt.Errorf("failed to check referred party: %w", err)
	}

	if referred {
		return res, failure.Conflict("party was already referred") // nolint:wrapcheck
	}

	grant := model.ReferralGrant{
		ID:             uuid.NewString(),
		ReferrerID:     anchor.ReferrerID,
		ReferralCode:   anchor.ReferralCode,
		ReferredID:     &referredID,
		Status:         model.StatusPending,
		ReferrerReward: s.cfg.Engine.Referral.ReferrerReward,
		ReferredReward: s.cfg.Engine.Referral.ReferredReward,
		Metadata:       gModel.NewMetadata(shared.ActorOrSystem(ctx), s.clock.Now()),
	}

	if err = s.repo.Insert(ctx, grant); err != nil {
		if isUniqueViolation(err) {
			return res, failure.Conflict("party was already referred") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to register referral")

		return res, fmt.Errorf("failed to register referral: %w", err)
	}

	s.invalidate(ctx, grant.ReferrerID)

	res.FromModel(grant)

	return res, nil
}

func (s *serviceImpl) OnBookingCompleted(ctx context.Context, bookingID, ownerID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".referral.OnBookingCompleted")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	pending := shared.FilterBy(model.FieldReferredID, ownerID, model.TableName)
	pending.Filters = append(pending.Filters, gDto.Filter{
		Field:    model.FieldStatus,
		Value:    model.StatusPending,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	var grant model.ReferralGrant

	granted := false

	// Reads inside the transaction go to the primary. The event proves the
	// completion committed, so an empty lookup is lag and must be retried.
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error

		grant, err = s.repo.Get(ctx, pending)
		if err != nil {
			return fmt.Errorf("failed to get pending referral: %w", err)
		}

		if grant.ID == constant.Empty {
			return nil
		}

		first, err := s.bookings.FirstCompletedBookingID(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to find first completed booking: %w", err)
		}

		if first == constant.Empty {
			return failure.DependencyUnavailable("completion of booking " + bookingID + " is not visible yet") // nolint:wrapcheck
		}

		if first != bookingID {
			log.Debug().Str("bookingID", bookingID).Str("first", first).Msg("booking is not the owner's first completion")

			return nil
		}

		now := s.clock.Now()

		filter := shared.FilterByID(grant.ID, model.FieldID, model.TableName)
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "current_status",
			Field:    model.FieldStatus,
			Value:    model.StatusPending,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})

		affected, err := s.repo.UpdateAffected(ctx, map[string]any{
			model.FieldStatus:             model.StatusCompleted,
			model.FieldCompletedBookingID: bookingID,
			model.FieldCompletedAt:        now,
			constant.FieldModifiedAt:      now,
			constant.FieldModifiedBy:      constant.ActorSystem,
		}, filter)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if affected == 0 {
			return nil
		}

		granted = true

		return s.emitter.Emit(ctx, events.ReferralRewardGranted{ // nolint:wrapcheck
			GrantID:        grant.ID,
			ReferrerID:     grant.ReferrerID,
			ReferredID:     ownerID,
			ReferrerAmount: int64(grant.ReferrerReward),
			ReferredAmount: int64(grant.ReferredReward),
			BookingID:      bookingID,
			Timestamp:      now,
		})
	})
	if err != nil {
		log.Error().Err(err).Str("ownerID", ownerID).Str("bookingID", bookingID).Msg("failed to complete referral")

		return fmt.Errorf("failed to complete referral: %w", err)
	}

	if granted {
		log.Info().Str("grantID", grant.ID).Str("bookingID", bookingID).Msg("referral reward granted")
		s.emitter.Notify()
		s.invalidate(ctx, grant.ReferrerID)
	}

	return nil
}

func (s *serviceImpl) Stats(ctx context.Context, referrerID string) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".referral.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = authorize(ctx, referrerID); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(cacheStats, referrerID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for referral stats")

		return res, nil
	}

	stats, err := s.repo.Stats(ctx, referrerID)
	if err != nil {
		log.Error().Err(err).Str("referrerID", referrerID).Msg("failed to get referral stats")

		return res, fmt.Errorf("failed to get referral stats: %w", err)
	}

	grants, err := s.repo.GetAll(ctx,
		gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc},
		shared.FilterBy(model.FieldReferrerID, referrerID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("referrerID", referrerID).Msg("failed to list referrals")

		return res, fmt.Errorf("failed to list referrals: %w", err)
	}

	code := constant.Empty
	referrals := make([]model.ReferralGrant, 0, len(grants))

	for _, g := range grants {
		if g.IsAnchor() {
			code = g.ReferralCode

			continue
		}

		referrals = append(referrals, g)
	}

	res.FromModel(referrerID, code, stats, referrals)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save referral stats to cache")
	}

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, referrerID string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheStats, referrerID)); err != nil {
		log.Error().Err(err).Str("referrerID", referrerID).Msg("failed to invalidate referral stats")
	}
}
