package dto

import (
	"dogwalking/internal/domains/dispute/model"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	gModel "dogwalking/shared/model"
	"dogwalking/shared/money"
	"dogwalking/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OpenDisputeRequest struct {
	BookingID   string `json:"booking_id"  validate:"required,notblank"`
	ReportedID  string `json:"reported_id" validate:"omitempty"`
	Type        string `json:"type"        validate:"required,oneof=payment service_quality damage misconduct other"`
	Remedy      string `json:"remedy"      validate:"required,oneof=refund partial_refund compensation warning mediation"`
	Description string `json:"description" validate:"required,notblank,max=2000"`
}

func (r *OpenDisputeRequest) ToModel(reporter, reported string, now time.Time) model.Dispute {
	return model.Dispute{
		ID:          uuid.NewString(),
		BookingID:   r.BookingID,
		ReporterID:  reporter,
		ReportedID:  reported,
		Type:        r.Type,
		Remedy:      r.Remedy,
		Description: strings.TrimSpace(r.Description),
		Status:      model.StatusOpen,
		Metadata:    gModel.NewMetadata(reporter, now),
	}
}

type ResolveDisputeRequest struct {
	Outcome      string `json:"outcome"       validate:"required,oneof=refund partial_refund no_action warning_issued"`
	RefundAmount string `json:"refund_amount" validate:"omitempty,amount"`
}

type OpenIncidentRequest struct {
	BookingID   string `json:"booking_id"  validate:"required,notblank"`
	Type        string `json:"type"        validate:"required,oneof=late no_show early_end behavior other"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

func (r *OpenIncidentRequest) ToModel(reporter string, now time.Time) model.Incident {
	incident := model.Incident{
		ID:         uuid.NewString(),
		BookingID:  r.BookingID,
		ReporterID: reporter,
		Type:       r.Type,
		Status:     model.StatusOpen,
		Metadata:   gModel.NewMetadata(reporter, now),
	}

	if description := strings.TrimSpace(r.Description); description != constant.Empty {
		incident.Description = &description
	}

	return incident
}

type DisputeResponse struct {
	ID           string `json:"id"`
	BookingID    string `json:"booking_id"`
	ReporterID   string `json:"reporter_id"`
	ReportedID   string `json:"reported_id"`
	Type         string `json:"type"`
	Remedy       string `json:"remedy"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Outcome      string `json:"outcome,omitempty"`
	RefundAmount string `json:"refund_amount,omitempty"`
	ResolvedBy   string `json:"resolved_by,omitempty"`
	ResolvedAt   string `json:"resolved_at,omitempty"`
	gDto.Metadata
}

func (r *DisputeResponse) FromModel(m model.Dispute) {
	r.ID = m.ID
	r.BookingID = m.BookingID
	r.ReporterID = m.ReporterID
	r.ReportedID = m.ReportedID
	r.Type = m.Type
	r.Remedy = m.Remedy
	r.Description = m.Description
	r.Status = m.Status

	if m.Outcome != nil {
		r.Outcome = *m.Outcome
	}

	if m.RefundAmount != nil {
		r.RefundAmount = m.RefundAmount.String()
	}

	if m.ResolvedBy != nil {
		r.ResolvedBy = *m.ResolvedBy
	}

	if m.ResolvedAt != nil {
		r.ResolvedAt = timezone.Format(*m.ResolvedAt, constant.DateFormat)
	}

	r.Metadata.FromModel(m.Metadata)
}

type DisputesResponse struct {
	Disputes []DisputeResponse `json:"disputes"`
}

func (r *DisputesResponse) FromModels(models []model.Dispute) {
	r.Disputes = make([]DisputeResponse, len(models))
	for i, m := range models {
		r.Disputes[i].FromModel(m)
	}
}

type IncidentResponse struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	ReporterID  string `json:"reporter_id"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	gDto.Metadata
}

func (r *IncidentResponse) FromModel(m model.Incident) {
	r.ID = m.ID
	r.BookingID = m.BookingID
	r.ReporterID = m.ReporterID
	r.Type = m.Type
	r.Status = m.Status

	if m.Description != nil {
		r.Description = *m.Description
	}

	r.Metadata.FromModel(m.Metadata)
}

type IncidentsResponse struct {
	Incidents []IncidentResponse `json:"incidents"`
}

func (r *IncidentsResponse) FromModels(models []model.Incident) {
	r.Incidents = make([]IncidentResponse, len(models))
	for i, m := range models {
		r.Incidents[i].FromModel(m)
	}
}

// ParseRefund reads the refund amount of a partial refund. Other outcomes carry none.
func (r *ResolveDisputeRequest) ParseRefund() (money.Amount, error) {
	if r.Outcome != model.OutcomePartialRefund {
		return 0, nil
	}

	return money.ParseAmount(r.RefundAmount) // nolint:wrapcheck
}
