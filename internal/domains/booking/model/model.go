package model

import (
	"dogwalking/shared/model"
	"dogwalking/shared/money"
	"slices"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                  = "id"
	FieldOwnerID             = "owner_id"
	FieldWalkerID            = "walker_id"
	FieldScheduledAt         = "scheduled_at"
	FieldServiceKind         = "service_kind"
	FieldStatus              = "status"
	FieldStatusBeforeDispute = "status_before_dispute"
	FieldCancellationReason  = "cancellation_reason"
	FieldCancellationDetail  = "cancellation_detail"
	FieldCancelledBy         = "cancelled_by"
	FieldLateCancellation    = "late_cancellation"
	FieldConfirmedAt         = "confirmed_at"
	FieldStartedAt           = "started_at"
	FieldCompletedAt         = "completed_at"
	FieldCancelledAt         = "cancelled_at"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusDisputed   = "disputed"
)

const (
	ServiceWalk      = "walk"
	ServiceBoarding  = "boarding"
	ServiceHomeVisit = "home_visit"
	ServiceVetEscort = "vet_escort"
)

const (
	ReasonScheduleConflict = "schedule_conflict"
	ReasonHealthIssue      = "health_issue"
	ReasonEmergency        = "emergency"
	ReasonWeather          = "weather"
	ReasonFoundAlternative = "found_alternative"
	ReasonOther            = "other"
	// ReasonDisputeRefund is set by the engine when a refunded dispute cancels the booking.
	ReasonDisputeRefund = "dispute_refund"
)

// transitions lists the moves callers can request. Leaving disputed is only
// possible through dispute resolution and is not part of this table.
var transitions = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusDisputed},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusDisputed},
	StatusInProgress: {StatusCompleted, StatusDisputed},
}

// restorable are the statuses a resolved dispute may return a booking to.
var restorable = []string{StatusPending, StatusConfirmed, StatusInProgress}

type Booking struct {
	ID                  string       `db:"id"`
	OwnerID             string       `db:"owner_id"`
	WalkerID            string       `db:"walker_id"`
	ScheduledAt         time.Time    `db:"scheduled_at"`
	DurationMinutes     int          `db:"duration_minutes"`
	ServiceKind         string       `db:"service_kind"`
	GrossAmount         money.Amount `db:"gross_amount"`
	Notes               string       `db:"notes"`
	Status              string       `db:"status"`
	StatusBeforeDispute *string      `db:"status_before_dispute"`
	CancellationReason  *string      `db:"cancellation_reason"`
	CancellationDetail  *string      `db:"cancellation_detail"`
	CancelledBy         *string      `db:"cancelled_by"`
	LateCancellation    bool         `db:"late_cancellation"`
	ConfirmedAt         *time.Time   `db:"confirmed_at"`
	StartedAt           *time.Time   `db:"started_at"`
	CompletedAt         *time.Time   `db:"completed_at"`
	CancelledAt         *time.Time   `db:"cancelled_at"`
	model.Metadata
}

func (b Booking) IsTerminal() bool {
	return IsTerminal(b.Status)
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

func (b Booking) CanTransitionTo(to string) bool {
	return slices.Contains(transitions[b.Status], to)
}

// RestoreTarget is where a dispute resolved without refund returns the booking.
func (b Booking) RestoreTarget() string {
	if b.StatusBeforeDispute != nil && slices.Contains(restorable, *b.StatusBeforeDispute) {
		return *b.StatusBeforeDispute
	}

	return StatusPending
}

// HasStarted reports whether the walk began, which is when the ledger opens an entry.
func (b Booking) HasStarted() bool {
	return b.StartedAt != nil
}

func (b Booking) IsParty(userID string) bool {
	return userID != "" && (userID == b.OwnerID || userID == b.WalkerID)
}

// Counterparty returns the other side of the booking for a party, or empty.
func (b Booking) Counterparty(userID string) string {
	switch userID {
	case b.OwnerID:
		return b.WalkerID
	case b.WalkerID:
		return b.OwnerID
	default:
		return ""
	}
}

func IsValidServiceKind(kind string) bool {
	return slices.Contains([]string{ServiceWalk, ServiceBoarding, ServiceHomeVisit, ServiceVetEscort}, kind)
}

// IsValidCancellationReason accepts the reasons a user can pick.
func IsValidCancellationReason(reason string) bool {
	return slices.Contains([]string{
		ReasonScheduleConflict,
		ReasonHealthIssue,
		ReasonEmergency,
		ReasonWeather,
		ReasonFoundAlternative,
		ReasonOther,
	}, reason)
}
