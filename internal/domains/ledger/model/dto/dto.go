package dto

import (
	"dogwalking/internal/domains/ledger/model"
	"dogwalking/shared"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/money"
	"dogwalking/shared/timezone"
)

type AdjustmentResponse struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
	DisputeID string `json:"dispute_id"`
	CreatedAt string `json:"created_at"`
}

type EntryResponse struct {
	BookingID        string               `json:"booking_id"`
	WalkerID         string               `json:"walker_id"`
	GrossAmount      string               `json:"gross_amount"`
	CommissionRate   string               `json:"commission_rate"`
	CommissionAmount string               `json:"commission_amount"`
	NetAmount        string               `json:"net_amount"`
	AdjustmentAmount string               `json:"adjustment_amount"`
	PayableAmount    string               `json:"payable_amount"`
	Bucket           string               `json:"bucket"`
	HoldUntil        string               `json:"hold_until,omitempty"`
	Frozen           bool                 `json:"frozen"`
	ReversalReason   string               `json:"reversal_reason,omitempty"`
	PayoutID         string               `json:"payout_id,omitempty"`
	PaidAt           string               `json:"paid_at,omitempty"`
	ReversedAt       string               `json:"reversed_at,omitempty"`
	CompletedAt      string               `json:"completed_at,omitempty"`
	Adjustments      []AdjustmentResponse `json:"adjustments,omitempty"`
	gDto.Metadata
}

func (r *EntryResponse) FromModel(m model.LedgerEntry) {
	r.BookingID = m.BookingID
	r.WalkerID = m.WalkerID
	r.GrossAmount = m.GrossAmount.String()
	r.CommissionRate = m.CommissionRate
	r.CommissionAmount = m.CommissionAmount.String()
	r.NetAmount = m.NetAmount.String()
	r.AdjustmentAmount = m.AdjustmentAmount.String()
	r.PayableAmount = m.Payable().String()
	r.Bucket = m.Bucket
	r.HoldUntil = timezone.FormatPtr(m.HoldUntil, constant.DateFormat)
	r.Frozen = m.Frozen
	r.PaidAt = timezone.FormatPtr(m.PaidAt, constant.DateFormat)
	r.ReversedAt = timezone.FormatPtr(m.ReversedAt, constant.DateFormat)
	r.CompletedAt = timezone.FormatPtr(m.CompletedAt, constant.DateFormat)

	if m.ReversalReason != nil {
		r.ReversalReason = *m.ReversalReason
	}

	if m.PayoutID != nil {
		r.PayoutID = *m.PayoutID
	}

	r.Metadata.FromModel(m.Metadata)
}

func (r *EntryResponse) WithAdjustments(adjustments []model.LedgerAdjustment) {
	r.Adjustments = make([]AdjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		r.Adjustments[i] = AdjustmentResponse{
			ID:        a.ID,
			Amount:    a.Amount.String(),
			Reason:    a.Reason,
			DisputeID: a.DisputeID,
			CreatedAt: timezone.Format(a.CreatedAt, constant.DateFormat),
		}
	}
}

type GetEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetEntriesResponse) FromModels(models []model.LedgerEntry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Entries = make([]EntryResponse, len(models))
	for i, mod := range models {
		r.Entries[i].FromModel(mod)
	}
}

type PayoutResponse struct {
	PayoutID    string `json:"payout_id,omitempty"`
	WalkerID    string `json:"walker_id"`
	TotalAmount string `json:"total_amount"`
	EntryCount  int    `json:"entry_count"`
}

type MonthlyEarningResponse struct {
	Month string `json:"month"`
	Net   string `json:"net"`
}

type SummaryResponse struct {
	WalkerID  string                   `json:"walker_id"`
	Available string                   `json:"available"`
	Pending   string                   `json:"pending"`
	Paid      string                   `json:"paid"`
	Reversed  string                   `json:"reversed"`
	Monthly   []MonthlyEarningResponse `json:"monthly"`
}

// FromModel lays the aggregate out over months, oldest first, filling gaps with zero.
func (r *SummaryResponse) FromModel(walkerID string, summary model.Summary, months []string) {
	totals := map[string]money.Amount{}
	for _, b := range summary.Buckets {
		totals[b.Bucket] += b.Total
	}

	r.WalkerID = walkerID
	r.Available = totals[model.BucketAvailable].String()
	r.Pending = totals[model.BucketPending].String()
	r.Paid = totals[model.BucketPaid].String()
	r.Reversed = totals[model.BucketReversed].String()

	byMonth := map[string]money.Amount{}
	for _, m := range summary.Monthly {
		byMonth[m.Month] += m.Net
	}

	r.Monthly = make([]MonthlyEarningResponse, len(months))
	for i, month := range months {
		r.Monthly[i] = MonthlyEarningResponse{Month: month, Net: byMonth[month].String()}
	}
}

type BackfillResponse struct {
	Created int `json:"created"`
}

type SweepResponse struct {
	Promoted int `json:"promoted"`
	Payouts  int `json:"payouts"`
	Relayed  int `json:"relayed"`
}
