package model

import (
	"dogwalking/shared/model"
	"dogwalking/shared/money"
	"time"
)

const (
	TableName  = "referral_grants"
	EntityName = "referral grant"

	FieldID                 = "id"
	FieldReferrerID         = "referrer_id"
	FieldReferralCode       = "referral_code"
	FieldReferredID         = "referred_id"
	FieldStatus             = "status"
	FieldCompletedBookingID = "completed_booking_id"
	FieldCompletedAt        = "completed_at"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

const (
	CodePrefix   = "DW"
	CodeLength   = 6
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ReferralGrant is one referred party of a referrer. The row of a referrer
// without a referred party anchors the referrer's code.
type ReferralGrant struct {
	ID                 string       `db:"id"`
	ReferrerID         string       `db:"referrer_id"`
	ReferralCode       string       `db:"referral_code"`
	ReferredID         *string      `db:"referred_id"`
	Status             string       `db:"status"`
	ReferrerReward     money.Amount `db:"referrer_reward"`
	ReferredReward     money.Amount `db:"referred_reward"`
	CompletedBookingID *string      `db:"completed_booking_id"`
	CompletedAt        *time.Time   `db:"completed_at"`
	model.Metadata
}

func (g ReferralGrant) IsAnchor() bool {
	return g.ReferredID == nil
}

type Stats struct {
	Total       int          `db:"total"`
	Completed   int          `db:"completed"`
	Pending     int          `db:"pending"`
	TotalReward money.Amount `db:"total_reward"`
}
