package model_test

import (
	"dogwalking/internal/domains/ledger/model"
	"dogwalking/shared/money"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLedgerEntry_Settle(t *testing.T) {
	tests := []struct {
		name       string
		gross      string
		rate       string
		commission string
		net        string
	}{
		{name: "hundred at thirteen percent", gross: "100.00", rate: "0.13", commission: "13.00", net: "87.00"},
		{name: "half cent rounds up", gross: "0.50", rate: "0.13", commission: "0.07", net: "0.43"},
		{name: "below half cent rounds down", gross: "0.03", rate: "0.13", commission: "0.00", net: "0.03"},
		{name: "zero rate", gross: "42.10", rate: "0", commission: "0.00", net: "42.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := model.LedgerEntry{BookingID: "b-1", GrossAmount: money.MustParseAmount(tt.gross), Bucket: model.BucketPending}
			entry.Settle(money.MustParseRate(tt.rate))

			assert.Equal(t, money.MustParseAmount(tt.commission), entry.CommissionAmount)
			assert.Equal(t, money.MustParseAmount(tt.net), entry.NetAmount)
			assert.Equal(t, entry.GrossAmount, entry.CommissionAmount+entry.NetAmount)
			assert.Equal(t, tt.rate, entry.CommissionRate)
		})
	}
}

func TestLedgerEntry_MustBalancePanics(t *testing.T) {
	unbalanced := model.LedgerEntry{
		BookingID:        "b-1",
		GrossAmount:      10000,
		CommissionAmount: 1300,
		NetAmount:        8600,
		Bucket:           model.BucketPending,
	}
	assert.Panics(t, unbalanced.MustBalance)

	overRefunded := model.LedgerEntry{
		BookingID:        "b-2",
		GrossAmount:      10000,
		CommissionAmount: 1300,
		NetAmount:        8700,
		AdjustmentAmount: -8701,
		Bucket:           model.BucketAvailable,
	}
	assert.Panics(t, overRefunded.MustBalance)

	started := model.LedgerEntry{BookingID: "b-3", GrossAmount: 10000, Bucket: model.BucketNone}
	assert.NotPanics(t, started.MustBalance)
}

func TestLedgerEntry_Matured(t *testing.T) {
	completed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hold := completed.Add(48 * time.Hour)

	entry := model.LedgerEntry{Bucket: model.BucketPending, HoldUntil: &hold}

	assert.False(t, entry.Matured(completed.Add(47*time.Hour)))
	assert.True(t, entry.Matured(completed.Add(48*time.Hour)))
	assert.True(t, entry.Matured(completed.Add(49*time.Hour)))

	entry.Frozen = true
	assert.False(t, entry.Matured(completed.Add(49*time.Hour)))

	entry.Frozen = false
	entry.Bucket = model.BucketAvailable
	assert.False(t, entry.Matured(completed.Add(49*time.Hour)))
}

func TestLedgerEntry_Payable(t *testing.T) {
	entry := model.LedgerEntry{NetAmount: 8700, AdjustmentAmount: -2000}

	assert.Equal(t, money.Amount(6700), entry.Payable())
}
