package model

import (
	"dogwalking/shared/model"
	"dogwalking/shared/money"
	"slices"
	"time"
)

const (
	TableDisputes  = "disputes"
	TableIncidents = "incidents"

	EntityDispute  = "dispute"
	EntityIncident = "incident"

	FieldID           = "id"
	FieldBookingID    = "booking_id"
	FieldReporterID   = "reporter_id"
	FieldReportedID   = "reported_id"
	FieldType         = "type"
	FieldStatus       = "status"
	FieldOutcome      = "outcome"
	FieldRefundAmount = "refund_amount"
	FieldResolvedBy   = "resolved_by"
	FieldResolvedAt   = "resolved_at"
)

const (
	StatusOpen        = "open"
	StatusUnderReview = "under_review"
	StatusResolved    = "resolved"
)

const (
	DisputePayment        = "payment"
	DisputeServiceQuality = "service_quality"
	DisputeDamage         = "damage"
	DisputeMisconduct     = "misconduct"
	DisputeOther          = "other"
)

const (
	RemedyRefund        = "refund"
	RemedyPartialRefund = "partial_refund"
	RemedyCompensation  = "compensation"
	RemedyWarning       = "warning"
	RemedyMediation     = "mediation"
)

const (
	OutcomeRefund        = "refund"
	OutcomePartialRefund = "partial_refund"
	OutcomeNoAction      = "no_action"
	OutcomeWarningIssued = "warning_issued"
)

const (
	IncidentLate     = "late"
	IncidentNoShow   = "no_show"
	IncidentEarlyEnd = "early_end"
	IncidentBehavior = "behavior"
	IncidentOther    = "other"
)

// OpenStatuses are the statuses that keep a booking's ledger entry frozen.
var OpenStatuses = []string{StatusOpen, StatusUnderReview}

type Dispute struct {
	ID           string        `db:"id"`
	BookingID    string        `db:"booking_id"`
	ReporterID   string        `db:"reporter_id"`
	ReportedID   string        `db:"reported_id"`
	Type         string        `db:"type"`
	Remedy       string        `db:"remedy"`
	Description  string        `db:"description"`
	Status       string        `db:"status"`
	Outcome      *string       `db:"outcome"`
	RefundAmount *money.Amount `db:"refund_amount"`
	ResolvedBy   *string       `db:"resolved_by"`
	ResolvedAt   *time.Time    `db:"resolved_at"`
	model.Metadata
}

func (d Dispute) IsOpen() bool {
	return slices.Contains(OpenStatuses, d.Status)
}

type Incident struct {
	ID          string  `db:"id"`
	BookingID   string  `db:"booking_id"`
	ReporterID  string  `db:"reporter_id"`
	Type        string  `db:"type"`
	Description *string `db:"description"`
	Status      string  `db:"status"`
	model.Metadata
}

func IsValidDisputeType(t string) bool {
	return slices.Contains([]string{DisputePayment, DisputeServiceQuality, DisputeDamage, DisputeMisconduct, DisputeOther}, t)
}

func IsValidRemedy(r string) bool {
	return slices.Contains([]string{RemedyRefund, RemedyPartialRefund, RemedyCompensation, RemedyWarning, RemedyMediation}, r)
}

func IsValidOutcome(o string) bool {
	return slices.Contains([]string{OutcomeRefund, OutcomePartialRefund, OutcomeNoAction, OutcomeWarningIssued}, o)
}

func IsValidIncidentType(t string) bool {
	return slices.Contains([]string{IncidentLate, IncidentNoShow, IncidentEarlyEnd, IncidentBehavior, IncidentOther}, t)
}
