package dto

import (
	"dogwalking/internal/domains/review/model"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	gModel "dogwalking/shared/model"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required,notblank"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
	Comment   string `json:"comment"    validate:"omitempty,max=2000"`
}

func (r *SubmitReviewRequest) ToModel(reviewer, reviewed string, now time.Time) model.Review {
	review := model.Review{
		ID:         uuid.NewString(),
		BookingID:  r.BookingID,
		ReviewerID: reviewer,
		ReviewedID: reviewed,
		Rating:     r.Rating,
		Metadata:   gModel.NewMetadata(reviewer, now),
	}

	if comment := strings.TrimSpace(r.Comment); comment != constant.Empty {
		review.Comment = &comment
	}

	return review
}

type ReviewResponse struct {
	ID         string `json:"id"`
	BookingID  string `json:"booking_id"`
	ReviewerID string `json:"reviewer_id"`
	ReviewedID string `json:"reviewed_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(m model.Review) {
	r.ID = m.ID
	r.BookingID = m.BookingID
	r.ReviewerID = m.ReviewerID
	r.ReviewedID = m.ReviewedID
	r.Rating = m.Rating

	if m.Comment != nil {
		r.Comment = *m.Comment
	}

	r.Metadata.FromModel(m.Metadata)
}

type UserReviewsResponse struct {
	UserID        string           `json:"user_id"`
	Count         int              `json:"count"`
	AverageRating float64          `json:"average_rating"`
	Reviews       []ReviewResponse `json:"reviews"`
}

// FromModels rounds the average to one decimal.
func (r *UserReviewsResponse) FromModels(userID string, rating model.Rating, models []model.Review) {
	r.UserID = userID
	r.Count = rating.Count
	r.AverageRating = math.Round(rating.Average*10) / 10

	r.Reviews = make([]ReviewResponse, len(models))
	for i, m := range models {
		r.Reviews[i].FromModel(m)
	}
}
