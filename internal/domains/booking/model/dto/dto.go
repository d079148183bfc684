package dto

import (
	"dogwalking/internal/domains/booking/model"
	"dogwalking/shared"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	gModel "dogwalking/shared/model"
	"dogwalking/shared/money"
	"dogwalking/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	WalkerID        string `json:"walker_id"        validate:"required,notblank"`
	ScheduledAt     string `json:"scheduled_at"     validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0,lte=10080"`
	ServiceKind     string `json:"service_kind"     validate:"required,oneof=walk boarding home_visit vet_escort"`
	GrossAmount     string `json:"gross_amount"     validate:"required,amount"`
	Notes           string `json:"notes"            validate:"omitempty,max=1000"`
}

func (c *CreateBookingRequest) ToModel(owner string, now time.Time) (model.Booking, error) {
	scheduledAt, err := time.Parse(constant.DateFormat, c.ScheduledAt)
	if err != nil {
		return model.Booking{}, err
	}

	gross, err := money.ParseAmount(c.GrossAmount)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:              uuid.NewString(),
		OwnerID:         owner,
		WalkerID:        strings.TrimSpace(c.WalkerID),
		ScheduledAt:     scheduledAt,
		DurationMinutes: c.DurationMinutes,
		ServiceKind:     c.ServiceKind,
		GrossAmount:     gross,
		Notes:           c.Notes,
		Status:          model.StatusPending,
		Metadata:        gModel.NewMetadata(owner, now),
	}, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,oneof=schedule_conflict health_issue emergency weather found_alternative other"`
	Detail string `json:"detail" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID                 string `json:"id"`
	OwnerID            string `json:"owner_id"`
	WalkerID           string `json:"walker_id"`
	ScheduledAt        string `json:"scheduled_at"`
	DurationMinutes    int    `json:"duration_minutes"`
	ServiceKind        string `json:"service_kind"`
	GrossAmount        string `json:"gross_amount"`
	Notes              string `json:"notes,omitempty"`
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	CancellationDetail string `json:"cancellation_detail,omitempty"`
	CancelledBy        string `json:"cancelled_by,omitempty"`
	LateCancellation   bool   `json:"late_cancellation"`
	ConfirmedAt        string `json:"confirmed_at,omitempty"`
	StartedAt          string `json:"started_at,omitempty"`
	CompletedAt        string `json:"completed_at,omitempty"`
	CancelledAt        string `json:"cancelled_at,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.OwnerID = m.OwnerID
	r.WalkerID = m.WalkerID
	r.ScheduledAt = timezone.Format(m.ScheduledAt, constant.DateFormat)
	r.DurationMinutes = m.DurationMinutes
	r.ServiceKind = m.ServiceKind
	r.GrossAmount = m.GrossAmount.String()
	r.Notes = m.Notes
	r.Status = m.Status
	r.CancellationReason = deref(m.CancellationReason)
	r.CancellationDetail = deref(m.CancellationDetail)
	r.CancelledBy = deref(m.CancelledBy)
	r.LateCancellation = m.LateCancellation
	r.ConfirmedAt = timezone.FormatPtr(m.ConfirmedAt, constant.DateFormat)
	r.StartedAt = timezone.FormatPtr(m.StartedAt, constant.DateFormat)
	r.CompletedAt = timezone.FormatPtr(m.CompletedAt, constant.DateFormat)
	r.CancelledAt = timezone.FormatPtr(m.CancelledAt, constant.DateFormat)
	r.Metadata.FromModel(m.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

const (
	InvoiceStatusPaid    = "paid"
	InvoiceStatusPending = "pending"
)

type InvoiceResponse struct {
	BookingID   string `json:"booking_id"`
	WalkerID    string `json:"walker_id"`
	ServiceKind string `json:"service_kind"`
	ScheduledAt string `json:"scheduled_at"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
}

type InvoicesResponse struct {
	Invoices     []InvoiceResponse `json:"invoices"`
	TotalPaid    string            `json:"total_paid"`
	TotalPending string            `json:"total_pending"`
}

// FromModels treats completed bookings as paid and confirmed or running ones as pending.
func (r *InvoicesResponse) FromModels(models []model.Booking) {
	var paid, pending money.Amount

	r.Invoices = make([]InvoiceResponse, 0, len(models))

	for _, m := range models {
		status := InvoiceStatusPending
		if m.Status == model.StatusCompleted {
			status = InvoiceStatusPaid
			paid += m.GrossAmount
		} else {
			pending += m.GrossAmount
		}

		r.Invoices = append(r.Invoices, InvoiceResponse{
			BookingID:   m.ID,
			WalkerID:    m.WalkerID,
			ServiceKind: m.ServiceKind,
			ScheduledAt: timezone.Format(m.ScheduledAt, constant.DateFormat),
			Amount:      m.GrossAmount.String(),
			Status:      status,
		})
	}

	r.TotalPaid = paid.String()
	r.TotalPending = pending.String()
}

func deref(s *string) string {
	if s == nil {
		return constant.Empty
	}

	return *s
}
