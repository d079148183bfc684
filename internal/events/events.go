// Package events defines the engine's outbound events and delivers them through a
// transactional outbox: events are stored with the state change that caused them
// and relayed to the broker after commit. Delivery is at-least-once.
package events

import "time"

const (
	TopicBookingStatusChanged     = "booking.status_changed"
	TopicLedgerEntryBucketChanged = "ledger.bucket_changed"
	TopicReferralRewardGranted    = "referral.reward_granted"
)

type Event interface {
	Topic() string
	// Key orders events of the same aggregate on one partition.
	Key() string
}

type BookingStatusChanged struct {
	BookingID        string    `json:"booking_id"`
	OwnerID          string    `json:"owner_id"`
	WalkerID         string    `json:"walker_id"`
	From             string    `json:"from"`
	To               string    `json:"to"`
	ActorID          string    `json:"actor_id"`
	Reason           string    `json:"reason,omitempty"`
	LateCancellation bool      `json:"late_cancellation,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

func (BookingStatusChanged) Topic() string { return TopicBookingStatusChanged }

func (e BookingStatusChanged) Key() string { return e.BookingID }

type LedgerEntryBucketChanged struct {
	BookingID string    `json:"booking_id"`
	WalkerID  string    `json:"walker_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

func (LedgerEntryBucketChanged) Topic() string { return TopicLedgerEntryBucketChanged }

func (e LedgerEntryBucketChanged) Key() string { return e.BookingID }

// ReferralRewardGranted carries reward amounts in minor units.
type ReferralRewardGranted struct {
	GrantID        string    `json:"grant_id"`
	ReferrerID     string    `json:"referrer_id"`
	ReferredID     string    `json:"referred_id"`
	ReferrerAmount int64     `json:"referrer_amount"`
	ReferredAmount int64     `json:"referred_amount"`
	BookingID      string    `json:"booking_id"`
	Timestamp      time.Time `json:"timestamp"`
}

func (ReferralRewardGranted) Topic() string { return TopicReferralRewardGranted }

func (e ReferralRewardGranted) Key() string { return e.ReferredID }
