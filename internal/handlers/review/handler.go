package review

import (
	"dogwalking/infras/otel"
	"dogwalking/internal/domains/review/model/dto"
	"dogwalking/internal/domains/review/service"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/validator"
	"dogwalking/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reviews", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SubmitReview)
		routerGroup.Get("/users/{id}", handler.GetUserReviews)
	})
}

// SubmitReview rates the other party of a completed booking.
// @Summary Submit a review
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.SubmitReviewRequest true "Submit Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse] "Review"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error "Already reviewed"
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitReview")
	defer scope.End()

	req := dto.SubmitReviewRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	review, err := handler.service.Submit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit review")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, review)
}

// GetUserReviews lists the reviews a user received with their average rating.
// @Summary Get reviews of a user
// @Tags Review
// @Produce json
// @Param id path string true "User ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.UserReviewsResponse] "Reviews"
// @Router /v1/reviews/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reviews, err := handler.service.ListForUser(ctx, chi.URLParam(r, constant.RequestParamID), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list reviews")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reviews)
}
