package dto

import (
	"dogwalking/internal/domains/referral/model"
	"dogwalking/shared/constant"
	"dogwalking/shared/timezone"
)

type RegisterRequest struct {
	Code       string `json:"code"        validate:"required,len=8,alphanum"`
	ReferredID string `json:"referred_id" validate:"omitempty"`
}

type CodeResponse struct {
	ReferrerID string `json:"referrer_id"`
	Code       string `json:"code"`
}

type GrantResponse struct {
	ID             string `json:"id"`
	ReferrerID     string `json:"referrer_id"`
	ReferralCode   string `json:"referral_code"`
	ReferredID     string `json:"referred_id"`
	Status         string `json:"status"`
	ReferrerReward string `json:"referrer_reward"`
	ReferredReward string `json:"referred_reward"`
	BookingID      string `json:"booking_id,omitempty"`
	CompletedAt    string `json:"completed_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}

func (r *GrantResponse) FromModel(m model.ReferralGrant) {
	r.ID = m.ID
	r.ReferrerID = m.ReferrerID
	r.ReferralCode = m.ReferralCode
	r.Status = m.Status
	r.ReferrerReward = m.ReferrerReward.String()
	r.ReferredReward = m.ReferredReward.String()
	r.CreatedAt = timezone.Format(m.CreatedAt, constant.DateFormat)

	if m.ReferredID != nil {
		r.ReferredID = *m.ReferredID
	}

	if m.CompletedBookingID != nil {
		r.BookingID = *m.CompletedBookingID
	}

	if m.CompletedAt != nil {
		r.CompletedAt = timezone.Format(*m.CompletedAt, constant.DateFormat)
	}
}

type StatsResponse struct {
	ReferrerID  string          `json:"referrer_id"`
	Code        string          `json:"code,omitempty"`
	Total       int             `json:"total"`
	Completed   int             `json:"completed"`
	Pending     int             `json:"pending"`
	TotalReward string          `json:"total_reward"`
	Referrals   []GrantResponse `json:"referrals"`
}

func (r *StatsResponse) FromModel(referrerID, code string, stats model.Stats, grants []model.ReferralGrant) {
	r.ReferrerID = referrerID
	r.Code = code
	r.Total = stats.Total
	r.Completed = stats.Completed
	r.Pending = stats.Pending
	r.TotalReward = stats.TotalReward.String()

	r.Referrals = make([]GrantResponse, len(grants))
	for i, g := range grants {
		r.Referrals[i].FromModel(g)
	}
}
