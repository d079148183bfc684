package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Review=MockReviewService

import (
	"context"
	"dogwalking/infras/otel"
	bookingModel "dogwalking/internal/domains/booking/model"
	bookingRepository "dogwalking/internal/domains/booking/repository"
	"dogwalking/internal/domains/review/model"
	"dogwalking/internal/domains/review/model/dto"
	"dogwalking/internal/domains/review/repository"
	"dogwalking/shared"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/failure"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type Review interface {
	Submit(ctx context.Context, req dto.SubmitReviewRequest) (dto.ReviewResponse, error)
	ListForUser(ctx context.Context, userID string, params gDto.QueryParams) (dto.UserReviewsResponse, error)
}

type serviceImpl struct {
	repo     repository.Review
	bookings bookingRepository.Booking
	clock    clock.Clock
	otel     otel.Otel
}

func New(repo repository.Review, bookings bookingRepository.Booking, clk clock.Clock, otel otel.Otel) Review {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		clock:    clk,
		otel:     otel,
	}
}

func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Submit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Rating < model.MinRating || req.Rating > model.MaxRating {
		return res, failure.Validation("rating must be between 1 and 5") // nolint:wrapcheck
	}

	booking, err := s.bookings.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("bookingID", req.BookingID).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	reviewer, _ := shared.Actor(ctx)
	if !booking.IsParty(reviewer) {
		return res, failure.UnauthorizedActor("only a party of the booking may review it") // nolint:wrapcheck
	}

	if booking.Status != bookingModel.StatusCompleted {
		return res, failure.Validation("only completed bookings can be reviewed") // nolint:wrapcheck
	}

	filter := shared.FilterBy(model.FieldBookingID, booking.ID, model.TableName)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldReviewerID,
		Value:    reviewer,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	exists, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing review")

		return res, fmt.Errorf("failed to check existing review: %w", err)
	}

	if exists {
		return res, failure.Conflict("booking was already reviewed") // nolint:wrapcheck
	}

	review := req.ToModel(reviewer, booking.Counterparty(reviewer), s.clock.Now())

	if err = s.repo.Insert(ctx, review); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation {
			return res, failure.Conflict("booking was already reviewed") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to submit review")

		return res, fmt.Errorf("failed to submit review: %w", err)
	}

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) ListForUser(ctx context.Context, userID string, params gDto.QueryParams) (res dto.UserReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.ListForUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rating, err := s.repo.Rating(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("failed to get rating")

		return res, fmt.Errorf("failed to get rating: %w", err)
	}

	if params.SortBy == constant.Empty {
		params.SortBy = constant.FieldCreatedAt
		params.SortDir = gDto.SortDirDesc
	}

	models, err := s.repo.GetAll(ctx, params, shared.FilterBy(model.FieldReviewedID, userID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("failed to list reviews")

		return res, fmt.Errorf("failed to list reviews: %w", err)
	}

	res.FromModels(userID, rating, models)

	return res, nil
}
