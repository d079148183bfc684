// Package model holds the settlement ledger records. One entry exists per
// booking that reached in_progress; its bucket says where the walker's money is.
package model

import (
	"dogwalking/shared/model"
	"dogwalking/shared/money"
	"fmt"
	"time"
)

const (
	TableName  = "ledger_entries"
	EntityName = "ledger entry"

	AdjustmentTableName  = "ledger_adjustments"
	AdjustmentEntityName = "ledger adjustment"

	PayoutTableName  = "payouts"
	PayoutEntityName = "payout"

	FieldID               = "id"
	FieldBookingID        = "booking_id"
	FieldWalkerID         = "walker_id"
	FieldGrossAmount      = "gross_amount"
	FieldCommissionRate   = "commission_rate"
	FieldCommissionAmount = "commission_amount"
	FieldNetAmount        = "net_amount"
	FieldAdjustmentAmount = "adjustment_amount"
	FieldBucket           = "bucket"
	FieldHoldUntil        = "hold_until"
	FieldFrozen           = "frozen"
	FieldReversalReason   = "reversal_reason"
	FieldPayoutID         = "payout_id"
	FieldPaidAt           = "paid_at"
	FieldReversedAt       = "reversed_at"
	FieldCompletedAt      = "completed_at"

	FieldTotalAmount = "total_amount"
	FieldEntryCount  = "entry_count"
)

const (
	BucketNone      = "none"
	BucketPending   = "pending"
	BucketAvailable = "available"
	BucketPaid      = "paid"
	BucketReversed  = "reversed"
)

type LedgerEntry struct {
	BookingID        string       `db:"booking_id"`
	WalkerID         string       `db:"walker_id"`
	GrossAmount      money.Amount `db:"gross_amount"`
	CommissionRate   string       `db:"commission_rate"`
	CommissionAmount money.Amount `db:"commission_amount"`
	NetAmount        money.Amount `db:"net_amount"`
	AdjustmentAmount money.Amount `db:"adjustment_amount"`
	Bucket           string       `db:"bucket"`
	HoldUntil        *time.Time   `db:"hold_until"`
	Frozen           bool         `db:"frozen"`
	ReversalReason   *string      `db:"reversal_reason"`
	PayoutID         *string      `db:"payout_id"`
	PaidAt           *time.Time   `db:"paid_at"`
	ReversedAt       *time.Time   `db:"reversed_at"`
	CompletedAt      *time.Time   `db:"completed_at"`
	model.Metadata
}

// Payable is what the walker receives for the entry after partial refunds.
func (e LedgerEntry) Payable() money.Amount {
	return e.NetAmount + e.AdjustmentAmount
}

// Settle fills commission and net for gross at rate. A refund recorded while
// the booking was running is capped at the new net. It panics if the split
// would not balance.
func (e *LedgerEntry) Settle(rate money.Rate) {
	e.CommissionAmount, e.NetAmount = rate.Split(e.GrossAmount)
	e.CommissionRate = rate.String()

	if e.Payable() < 0 {
		e.AdjustmentAmount = -e.NetAmount
	}

	e.MustBalance()
}

// ProjectedPayable is what the walker would receive if the entry settled at rate now.
func (e LedgerEntry) ProjectedPayable(rate money.Rate) money.Amount {
	if e.Bucket != BucketNone {
		return e.Payable()
	}

	_, net := rate.Split(e.GrossAmount)

	return net + e.AdjustmentAmount
}

// MustBalance panics when the entry breaks the ledger arithmetic. Reaching it
// means a code path is wrong, not that input was bad.
func (e LedgerEntry) MustBalance() {
	if e.Bucket == BucketNone {
		return
	}

	if e.CommissionAmount+e.NetAmount != e.GrossAmount {
		panic(fmt.Sprintf("ledger: entry %s gross %d != commission %d + net %d", e.BookingID, e.GrossAmount, e.CommissionAmount, e.NetAmount))
	}

	if e.NetAmount < 0 {
		panic(fmt.Sprintf("ledger: entry %s has negative net %d", e.BookingID, e.NetAmount))
	}

	if e.AdjustmentAmount > 0 || e.Payable() < 0 {
		panic(fmt.Sprintf("ledger: entry %s adjustment %d outside [-%d, 0]", e.BookingID, e.AdjustmentAmount, e.NetAmount))
	}
}

// Matured reports whether a pending entry may move to available at now.
func (e LedgerEntry) Matured(now time.Time) bool {
	return e.Bucket == BucketPending && !e.Frozen && e.HoldUntil != nil && !e.HoldUntil.After(now)
}

type LedgerAdjustment struct {
	ID        string       `db:"id"`
	BookingID string       `db:"booking_id"`
	WalkerID  string       `db:"walker_id"`
	Amount    money.Amount `db:"amount"`
	Reason    string       `db:"reason"`
	DisputeID string       `db:"dispute_id"`
	CreatedAt time.Time    `db:"created_at"`
}

type Payout struct {
	ID          string       `db:"id"`
	WalkerID    string       `db:"walker_id"`
	TotalAmount money.Amount `db:"total_amount"`
	EntryCount  int          `db:"entry_count"`
	CreatedAt   time.Time    `db:"created_at"`
}

// BucketTotal is one row of the per-bucket earnings aggregate.
type BucketTotal struct {
	Bucket string       `db:"bucket"`
	Total  money.Amount `db:"total"`
}

// MonthlyEarning is the payable total of entries completed in a month (YYYY-MM).
type MonthlyEarning struct {
	Month string       `db:"month"`
	Net   money.Amount `db:"net"`
}

type Summary struct {
	Buckets []BucketTotal
	Monthly []MonthlyEarning
}

// BackfillCandidate is a completed booking that has no ledger entry.
type BackfillCandidate struct {
	BookingID   string       `db:"booking_id"`
	WalkerID    string       `db:"walker_id"`
	GrossAmount money.Amount `db:"gross_amount"`
	CompletedAt time.Time    `db:"completed_at"`
}
