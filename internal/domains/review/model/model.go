package model

import "dogwalking/shared/model"

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID         = "id"
	FieldBookingID  = "booking_id"
	FieldReviewerID = "reviewer_id"
	FieldReviewedID = "reviewed_id"

	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         string  `db:"id"`
	BookingID  string  `db:"booking_id"`
	ReviewerID string  `db:"reviewer_id"`
	ReviewedID string  `db:"reviewed_id"`
	Rating     int     `db:"rating"`
	Comment    *string `db:"comment"`
	model.Metadata
}

type Rating struct {
	Count   int     `db:"count"`
	Average float64 `db:"average"`
}
