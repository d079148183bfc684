package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"dogwalking/config"
	otelMocks "dogwalking/infras/otel/mocks"
	ledgerMocks "dogwalking/internal/domains/ledger/mocks"
	"dogwalking/internal/domains/ledger/model"
	"dogwalking/internal/domains/ledger/model/dto"
	"dogwalking/internal/domains/ledger/service"
	"dogwalking/internal/events"
	eventMocks "dogwalking/internal/events/mocks"
	cacheMocks "dogwalking/shared/cache/mocks"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/failure"
	"dogwalking/shared/keylock"
	"dogwalking/shared/money"
	repoMocks "dogwalking/shared/repository/mocks"
)

var start = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc      service.Ledger
	repo     *ledgerMocks.MemoryLedger
	recorder *eventMocks.Recorder
	clock    *clock.Manual
	cache    *cacheMocks.MockRedisCache
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Engine.CommissionRate = money.MustParseRate("0.13")
	cfg.Engine.SettlementHold = 48 * time.Hour
	cfg.Cache.TTL = 60

	return cfg
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     ledgerMocks.NewMemoryLedger(),
		recorder: eventMocks.NewRecorder(),
		clock:    clock.NewManual(start),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, keylock.NewMemory(time.Second), repoMocks.NewTransactor(), f.recorder, f.clock, testConfig(), f.cache, otelMocks.NewOtel())

	return f
}

func asUser(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
}

func asAdmin() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func bucketEvents(r *eventMocks.Recorder) []events.LedgerEntryBucketChanged {
	var res []events.LedgerEntryBucketChanged

	for _, ev := range r.OfTopic(events.TopicLedgerEntryBucketChanged) {
		res = append(res, ev.(events.LedgerEntryBucketChanged))
	}

	return res
}

// settle walks a booking through start and completion at the current clock.
func (f fixture) settle(t *testing.T, bookingID, walkerID, gross string) {
	t.Helper()

	ctx := asUser(walkerID)
	amount := money.MustParseAmount(gross)

	require.NoError(t, f.svc.OnBookingStarted(ctx, bookingID, walkerID, amount))
	require.NoError(t, f.svc.OnBookingCompleted(ctx, bookingID, walkerID, amount))
}

func TestLedger_HoldWindowScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.OnBookingStarted(ctx, "b-1", "walker-1", money.MustParseAmount("100.00")))

	entry, ok := f.repo.Entry("b-1")
	require.True(t, ok)
	assert.Equal(t, model.BucketNone, entry.Bucket)

	require.NoError(t, f.svc.OnBookingCompleted(ctx, "b-1", "walker-1", money.MustParseAmount("100.00")))

	entry, _ = f.repo.Entry("b-1")
	assert.Equal(t, model.BucketPending, entry.Bucket)
	assert.Equal(t, money.MustParseAmount("13.00"), entry.CommissionAmount)
	assert.Equal(t, money.MustParseAmount("87.00"), entry.NetAmount)
	assert.Equal(t, "0.13", entry.CommissionRate)
	require.NotNil(t, entry.HoldUntil)
	assert.True(t, entry.HoldUntil.Equal(start.Add(48*time.Hour)))

	promoted, err := f.svc.PromoteMatured(ctx, start.Add(47*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, promoted)

	entry, _ = f.repo.Entry("b-1")
	assert.Equal(t, model.BucketPending, entry.Bucket)

	promoted, err = f.svc.PromoteMatured(ctx, start.Add(49*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	entry, _ = f.repo.Entry("b-1")
	assert.Equal(t, model.BucketAvailable, entry.Bucket)

	evs := bucketEvents(f.recorder)
	require.Len(t, evs, 2)
	assert.Equal(t, model.BucketNone, evs[0].From)
	assert.Equal(t, model.BucketPending, evs[0].To)
	assert.Equal(t, model.BucketPending, evs[1].From)
	assert.Equal(t, model.BucketAvailable, evs[1].To)
}

func TestLedger_OnBookingCompletedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for range 2 {
		require.NoError(t, f.svc.OnBookingCompleted(ctx, "b-1", "walker-1", money.MustParseAmount("100.00")))
		f.clock.Advance(time.Hour)
	}

	assert.Len(t, f.repo.Rows(), 1)
	assert.Len(t, bucketEvents(f.recorder), 1)

	entry, _ := f.repo.Entry("b-1")
	assert.True(t, entry.HoldUntil.Equal(start.Add(48*time.Hour)), "replay must not move the hold window")
}

func TestLedger_OnBookingStartedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.OnBookingStarted(ctx, "b-1", "walker-1", 10000))
	require.NoError(t, f.svc.OnBookingStarted(ctx, "b-1", "walker-1", 10000))

	assert.Len(t, f.repo.Rows(), 1)
	assert.Empty(t, bucketEvents(f.recorder))
}

func TestLedger_PromoteSkipsFrozen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.settle(t, "b-1", "walker-1", "100.00")
	f.settle(t, "b-2", "walker-1", "50.00")

	require.NoError(t, f.svc.MarkFrozen(ctx, "b-1"))

	promoted, err := f.svc.PromoteMatured(ctx, start.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	frozen, _ := f.repo.Entry("b-1")
	assert.Equal(t, model.BucketPending, frozen.Bucket)
	assert.True(t, frozen.Frozen)

	released, _ := f.repo.Entry("b-2")
	assert.Equal(t, model.BucketAvailable, released.Bucket)

	require.NoError(t, f.svc.UnmarkFrozen(ctx, "b-1"))

	promoted, err = f.svc.PromoteMatured(ctx, start.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)
}

func TestLedger_FreezeWithoutEntry(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.svc.MarkFrozen(context.Background(), "missing"))
	assert.NoError(t, f.svc.UnmarkFrozen(context.Background(), "missing"))
	assert.Empty(t, f.repo.Rows())
}

func TestLedger_Reverse(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, f fixture)
		wantKind string
		bucket   string
	}{
		{
			name:   "started entry",
			setup:  func(t *testing.T, f fixture) { require.NoError(t, f.svc.OnBookingStarted(context.Background(), "b-1", "walker-1", 10000)) },
			bucket: model.BucketReversed,
		},
		{
			name:   "pending entry",
			setup:  func(t *testing.T, f fixture) { f.settle(t, "b-1", "walker-1", "100.00") },
			bucket: model.BucketReversed,
		},
		{
			name: "paid entry",
			setup: func(t *testing.T, f fixture) {
				f.settle(t, "b-1", "walker-1", "100.00")
				_, err := f.svc.PromoteMatured(context.Background(), start.Add(49*time.Hour))
				require.NoError(t, err)
				_, err = f.svc.RequestPayout(asUser("walker-1"), "walker-1")
				require.NoError(t, err)
			},
			wantKind: failure.KindConflict,
			bucket:   model.BucketPaid,
		},
		{
			name: "already reversed",
			setup: func(t *testing.T, f fixture) {
				f.settle(t, "b-1", "walker-1", "100.00")
				require.NoError(t, f.svc.Reverse(context.Background(), "b-1", "refund"))
			},
			bucket: model.BucketReversed,
		},
		{
			name:  "no entry",
			setup: func(*testing.T, fixture) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(t, f)

			err := f.svc.Reverse(context.Background(), "b-1", "refund")
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				require.NoError(t, err)
			}

			entry, ok := f.repo.Entry("b-1")
			if tt.bucket == "" {
				assert.False(t, ok)

				return
			}

			assert.Equal(t, tt.bucket, entry.Bucket)
		})
	}
}

func TestLedger_ReverseEmitsOnce(t *testing.T) {
	f := newFixture(t)
	f.settle(t, "b-1", "walker-1", "100.00")

	require.NoError(t, f.svc.Reverse(context.Background(), "b-1", "refund"))
	require.NoError(t, f.svc.Reverse(context.Background(), "b-1", "refund"))

	evs := bucketEvents(f.recorder)
	require.Len(t, evs, 2)
	assert.Equal(t, model.BucketReversed, evs[1].To)

	entry, _ := f.repo.Entry("b-1")
	require.NotNil(t, entry.ReversalReason)
	assert.Equal(t, "refund", *entry.ReversalReason)
}

func TestLedger_ReverseRunningEntryEmitsFromNone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.OnBookingStarted(context.Background(), "b-1", "walker-1", 10000))

	require.NoError(t, f.svc.Reverse(context.Background(), "b-1", "refund"))

	evs := bucketEvents(f.recorder)
	require.Len(t, evs, 1)
	assert.Equal(t, model.BucketNone, evs[0].From)
	assert.Equal(t, model.BucketReversed, evs[0].To)
	assert.Equal(t, "walker-1", evs[0].WalkerID)
}

func TestLedger_Adjust(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		wantKind    string
		wantPayable string
	}{
		{name: "partial refund", amount: "20.00", wantPayable: "67.00"},
		{name: "full net", amount: "87.00", wantPayable: "0.00"},
		{name: "more than payable", amount: "87.01", wantKind: failure.KindValidation, wantPayable: "87.00"},
		{name: "zero", amount: "0", wantKind: failure.KindValidation, wantPayable: "87.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.settle(t, "b-1", "walker-1", "100.00")

			err := f.svc.Adjust(context.Background(), "b-1", "d-1", money.MustParseAmount(tt.amount), "partial refund")
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
				assert.Empty(t, f.repo.AdjustmentRows.Rows())
			} else {
				require.NoError(t, err)
				require.Len(t, f.repo.AdjustmentRows.Rows(), 1)
				assert.Equal(t, -money.MustParseAmount(tt.amount), f.repo.AdjustmentRows.Rows()[0].Amount)
			}

			entry, _ := f.repo.Entry("b-1")
			assert.Equal(t, tt.wantPayable, entry.Payable().String())
		})
	}
}

func TestLedger_AdjustRunningEntryCarriesIntoSettle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gross := money.MustParseAmount("100.00")

	require.NoError(t, f.svc.OnBookingStarted(ctx, "b-1", "walker-1", gross))

	require.NoError(t, f.svc.Adjust(ctx, "b-1", "d-1", money.MustParseAmount("10.00"), "partial refund"))

	err := f.svc.Adjust(ctx, "b-1", "d-2", money.MustParseAmount("80.00"), "partial refund")
	require.Error(t, err)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))

	entry, _ := f.repo.Entry("b-1")
	assert.Equal(t, model.BucketNone, entry.Bucket)
	assert.Equal(t, money.MustParseAmount("-10.00"), entry.AdjustmentAmount)

	require.NoError(t, f.svc.OnBookingCompleted(ctx, "b-1", "walker-1", gross))

	entry, _ = f.repo.Entry("b-1")
	assert.Equal(t, model.BucketPending, entry.Bucket)
	assert.Equal(t, money.MustParseAmount("87.00"), entry.NetAmount)
	assert.Equal(t, money.MustParseAmount("77.00"), entry.Payable())
}

func TestLedgerEntry_SettleCapsEarlyRefund(t *testing.T) {
	entry := model.LedgerEntry{
		BookingID:        "b-1",
		GrossAmount:      money.MustParseAmount("50.00"),
		AdjustmentAmount: money.MustParseAmount("-60.00"),
		Bucket:           model.BucketPending,
	}

	assert.NotPanics(t, func() { entry.Settle(money.MustParseRate("0.13")) })
	assert.Equal(t, money.MustParseAmount("43.50"), entry.NetAmount)
	assert.Zero(t, entry.Payable())
}

func TestLedger_AdjustRequiresEntry(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Adjust(context.Background(), "missing", "d-1", 100, "partial refund")
	assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
}

func TestLedger_RequestPayout(t *testing.T) {
	f := newFixture(t)

	f.settle(t, "b-1", "walker-1", "100.00")
	f.settle(t, "b-2", "walker-1", "50.00")
	f.settle(t, "b-3", "walker-1", "10.00")
	f.settle(t, "b-4", "walker-2", "80.00")

	_, err := f.svc.PromoteMatured(context.Background(), start.Add(49*time.Hour))
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkFrozen(context.Background(), "b-3"))
	require.NoError(t, f.svc.Adjust(context.Background(), "b-2", "d-1", money.MustParseAmount("5.00"), "partial refund"))

	res, err := f.svc.RequestPayout(asUser("walker-1"), "walker-1")
	require.NoError(t, err)

	// 87.00 + (43.50 - 5.00)
	assert.Equal(t, "125.50", res.TotalAmount)
	assert.Equal(t, 2, res.EntryCount)
	assert.NotEmpty(t, res.PayoutID)

	require.Len(t, f.repo.PayoutRows.Rows(), 1)
	assert.Equal(t, money.MustParseAmount("125.50"), f.repo.PayoutRows.Rows()[0].TotalAmount)

	frozen, _ := f.repo.Entry("b-3")
	assert.Equal(t, model.BucketAvailable, frozen.Bucket)

	other, _ := f.repo.Entry("b-4")
	assert.Equal(t, model.BucketAvailable, other.Bucket)

	again, err := f.svc.RequestPayout(asUser("walker-1"), "walker-1")
	require.NoError(t, err)
	assert.Equal(t, dto.PayoutResponse{WalkerID: "walker-1", TotalAmount: "0.00"}, again)
	assert.Len(t, f.repo.PayoutRows.Rows(), 1)
}

func TestLedger_PayoutRowWrittenBeforeEntries(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := ledgerMocks.NewMockLedger(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)
	recorder := eventMocks.NewRecorder()

	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(repo, keylock.NewMemory(time.Second), repoMocks.NewTransactor(), recorder, clock.NewManual(start), testConfig(), cache, otelMocks.NewOtel())

	paid := []model.LedgerEntry{
		{BookingID: "b-1", WalkerID: "walker-1", GrossAmount: 10000, CommissionAmount: 1300, NetAmount: 8700, Bucket: model.BucketPaid},
		{BookingID: "b-2", WalkerID: "walker-1", GrossAmount: 5000, CommissionAmount: 650, NetAmount: 4350, AdjustmentAmount: -500, Bucket: model.BucketPaid},
	}

	var payoutID string

	gomock.InOrder(
		repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil),
		repo.EXPECT().InsertPayout(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p model.Payout) error {
			payoutID = p.ID
			assert.Equal(t, "walker-1", p.WalkerID)
			assert.Zero(t, p.TotalAmount)

			return nil
		}),
		repo.EXPECT().MarkPaid(gomock.Any(), "walker-1", gomock.Any(), "walker-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, id, _ string, _ time.Time) ([]model.LedgerEntry, error) {
				assert.Equal(t, payoutID, id)

				return paid, nil
			}),
		repo.EXPECT().SettlePayout(gomock.Any(), gomock.Any(), money.MustParseAmount("125.50"), 2).Return(nil),
	)

	res, err := svc.RequestPayout(asUser("walker-1"), "walker-1")
	require.NoError(t, err)
	assert.Equal(t, payoutID, res.PayoutID)
	assert.Equal(t, "125.50", res.TotalAmount)
	assert.Len(t, bucketEvents(recorder), 2)
}

func TestLedger_PayoutLosesEntriesToConcurrentRun(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := ledgerMocks.NewMockLedger(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)
	recorder := eventMocks.NewRecorder()

	svc := service.New(repo, keylock.NewMemory(time.Second), repoMocks.NewTransactor(), recorder, clock.NewManual(start), testConfig(), cache, otelMocks.NewOtel())

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	repo.EXPECT().InsertPayout(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().MarkPaid(gomock.Any(), "walker-1", gomock.Any(), "walker-1", gomock.Any()).Return([]model.LedgerEntry{}, nil)

	res, err := svc.RequestPayout(asUser("walker-1"), "walker-1")
	require.NoError(t, err)
	assert.Equal(t, dto.PayoutResponse{WalkerID: "walker-1", TotalAmount: "0.00"}, res)
	assert.Empty(t, recorder.Events())
}

func TestLedger_RequestPayoutAuthorization(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RequestPayout(asUser("walker-2"), "walker-1")
	assert.Equal(t, failure.KindUnauthorizedActor, failure.GetKind(err))

	_, err = f.svc.RequestPayout(asAdmin(), "walker-1")
	assert.NoError(t, err)
}

func TestLedger_PayoutAll(t *testing.T) {
	f := newFixture(t)

	f.settle(t, "b-1", "walker-1", "100.00")
	f.settle(t, "b-2", "walker-2", "80.00")
	f.clock.Advance(24 * time.Hour)
	f.settle(t, "b-3", "walker-3", "30.00")

	_, err := f.svc.PromoteMatured(context.Background(), start.Add(49*time.Hour))
	require.NoError(t, err)

	count, err := f.svc.PayoutAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pending, _ := f.repo.Entry("b-3")
	assert.Equal(t, model.BucketPending, pending.Bucket)
}

func TestLedger_GetEntry(t *testing.T) {
	f := newFixture(t)
	f.settle(t, "b-1", "walker-1", "100.00")
	require.NoError(t, f.svc.Adjust(context.Background(), "b-1", "d-1", money.MustParseAmount("10.00"), "partial refund"))

	res, err := f.svc.GetEntry(asUser("walker-1"), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "77.00", res.PayableAmount)
	assert.Equal(t, model.BucketPending, res.Bucket)
	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, "-10.00", res.Adjustments[0].Amount)

	_, err = f.svc.GetEntry(asUser("owner-1"), "b-1")
	assert.Equal(t, failure.KindUnauthorizedActor, failure.GetKind(err))

	_, err = f.svc.GetEntry(asUser("walker-1"), "missing")
	assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
}

func TestLedger_ListEntries(t *testing.T) {
	f := newFixture(t)
	f.settle(t, "b-1", "walker-1", "100.00")
	f.settle(t, "b-2", "walker-1", "50.00")
	f.settle(t, "b-3", "walker-2", "50.00")

	res, err := f.svc.ListEntries(asUser("walker-1"), "walker-1", gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Len(t, res.Entries, 2)

	filter := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldBookingID, Value: "b-2", Operator: gDto.FilterOperatorEq},
	}}

	res, err = f.svc.ListEntries(asUser("walker-1"), "walker-1", gDto.QueryParams{}, filter)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "b-2", res.Entries[0].BookingID)
}

func TestLedger_Summary(t *testing.T) {
	f := newFixture(t)

	f.clock.Set(start.AddDate(0, -2, 0))
	f.settle(t, "b-old", "walker-1", "100.00")

	f.clock.Set(start)
	f.settle(t, "b-1", "walker-1", "50.00")
	f.settle(t, "b-2", "walker-1", "20.00")
	require.NoError(t, f.svc.Reverse(context.Background(), "b-2", "refund"))

	_, err := f.svc.PromoteMatured(context.Background(), start.AddDate(0, -1, 0))
	require.NoError(t, err)

	f.cache.EXPECT().Get(gomock.Any(), "ledger:summary:walker-1", gomock.Any()).Return(errors.New("cache miss"))
	f.cache.EXPECT().Save(gomock.Any(), "ledger:summary:walker-1", gomock.Any(), 60).Return(nil)

	res, err := f.svc.Summary(asUser("walker-1"), "walker-1")
	require.NoError(t, err)

	assert.Equal(t, "87.00", res.Available)
	assert.Equal(t, "43.50", res.Pending)
	assert.Equal(t, "0.00", res.Paid)
	assert.Equal(t, "17.40", res.Reversed)

	require.Len(t, res.Monthly, 6)
	assert.Equal(t, "2025-10", res.Monthly[0].Month)
	assert.Equal(t, dto.MonthlyEarningResponse{Month: "2026-01", Net: "87.00"}, res.Monthly[3])
	assert.Equal(t, dto.MonthlyEarningResponse{Month: "2026-02", Net: "0.00"}, res.Monthly[4])
	assert.Equal(t, dto.MonthlyEarningResponse{Month: "2026-03", Net: "43.50"}, res.Monthly[5])
}

func TestLedger_SummaryCacheHit(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "ledger:summary:walker-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			*value.(*dto.SummaryResponse) = dto.SummaryResponse{WalkerID: "walker-1", Available: "1.00"}

			return nil
		})

	res, err := f.svc.Summary(asUser("walker-1"), "walker-1")
	require.NoError(t, err)
	assert.Equal(t, "1.00", res.Available)
}

func TestLedger_Backfill(t *testing.T) {
	f := newFixture(t)
	f.settle(t, "b-1", "walker-1", "100.00")

	completed := start.Add(-72 * time.Hour)
	f.repo.BackfillSource = func() []model.BackfillCandidate {
		return []model.BackfillCandidate{
			{BookingID: "b-1", WalkerID: "walker-1", GrossAmount: 10000, CompletedAt: start},
			{BookingID: "b-old", WalkerID: "walker-1", GrossAmount: 5000, CompletedAt: completed},
		}
	}

	created, err := f.svc.Backfill(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	entry, ok := f.repo.Entry("b-old")
	require.True(t, ok)
	assert.Equal(t, model.BucketPending, entry.Bucket)
	assert.Equal(t, money.Amount(650), entry.CommissionAmount)
	assert.True(t, entry.HoldUntil.Equal(completed.Add(48*time.Hour)))

	created, err = f.svc.Backfill(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)

	promoted, err := f.svc.PromoteMatured(context.Background(), start)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)
}

func TestLedger_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := ledgerMocks.NewMockLedger(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)
	recorder := eventMocks.NewRecorder()

	svc := service.New(repo, keylock.NewMemory(time.Second), repoMocks.NewTransactor(), recorder, clock.NewManual(start), testConfig(), cache, otelMocks.NewOtel())

	tests := []struct {
		name      string
		setupMock func()
		call      func() error
	}{
		{
			name: "completion lookup fails",
			setupMock: func() {
				repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any()).Return(model.LedgerEntry{}, errors.New("connection reset"))
			},
			call: func() error {
				return svc.OnBookingCompleted(context.Background(), "b-1", "walker-1", 10000)
			},
		},
		{
			name: "matured listing fails",
			setupMock: func() {
				repo.EXPECT().MaturedCandidates(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			call: func() error {
				_, err := svc.PromoteMatured(context.Background(), start)

				return err
			},
		},
		{
			name: "payout update fails",
			setupMock: func() {
				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				repo.EXPECT().InsertPayout(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().MarkPaid(gomock.Any(), "walker-1", gomock.Any(), "walker-1", gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			call: func() error {
				_, err := svc.RequestPayout(asUser("walker-1"), "walker-1")

				return err
			},
		},
		{
			name: "concurrent completion loses the conditional update",
			setupMock: func() {
				repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any()).
					Return(model.LedgerEntry{BookingID: "b-1", WalkerID: "walker-1", GrossAmount: 10000, Bucket: model.BucketNone}, nil)
				repo.EXPECT().UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			call: func() error {
				return svc.OnBookingCompleted(context.Background(), "b-1", "walker-1", 10000)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			assert.Error(t, tt.call())
			assert.Empty(t, recorder.Events())
		})
	}
}
