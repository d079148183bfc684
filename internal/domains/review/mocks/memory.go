package mocks

import (
	"context"
	"dogwalking/internal/domains/review/model"
	"dogwalking/internal/domains/review/repository"
	repoMocks "dogwalking/shared/repository/mocks"
)

var _ repository.Review = (*MemoryReview)(nil)

// MemoryReview keeps reviews in memory with the (booking, reviewer) unique key.
type MemoryReview struct {
	*repoMocks.Table[model.Review]
}

func NewMemoryReview() *MemoryReview {
	return &MemoryReview{Table: repoMocks.NewTable[model.Review](model.FieldID)}
}

func (m *MemoryReview) Insert(ctx context.Context, review model.Review) error {
	for _, row := range m.Rows() {
		if row.BookingID == review.BookingID && row.ReviewerID == review.ReviewerID {
			return repoMocks.UniqueViolation("reviews_booking_id_reviewer_id_key")
		}
	}

	return m.Table.Insert(ctx, review)
}

func (m *MemoryReview) Rating(_ context.Context, userID string) (model.Rating, error) {
	var (
		res model.Rating
		sum int
	)

	for _, row := range m.Rows() {
		if row.ReviewedID == userID {
			res.Count++
			sum += row.Rating
		}
	}

	if res.Count > 0 {
		res.Average = float64(sum) / float64(res.Count)
	}

	return res, nil
}
