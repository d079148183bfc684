package service_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"dogwalking/config"
	otelMocks "dogwalking/infras/otel/mocks"
	bookingMocks "dogwalking/internal/domains/booking/mocks"
	bookingModel "dogwalking/internal/domains/booking/model"
	referralMocks "dogwalking/internal/domains/referral/mocks"
	"dogwalking/internal/domains/referral/model"
	"dogwalking/internal/domains/referral/model/dto"
	"dogwalking/internal/domains/referral/service"
	"dogwalking/internal/events"
	eventMocks "dogwalking/internal/events/mocks"
	cacheMocks "dogwalking/shared/cache/mocks"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	"dogwalking/shared/failure"
	"dogwalking/shared/money"
	repoMocks "dogwalking/shared/repository/mocks"
)

var start = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc      service.Referral
	repo     *referralMocks.MemoryReferral
	bookings *bookingMocks.MemoryBooking
	recorder *eventMocks.Recorder
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Engine.Referral.ReferrerReward = money.MustParseAmount("15.00")
	cfg.Engine.Referral.ReferredReward = money.MustParseAmount("10.00")
	cfg.Cache.TTL = 60

	return cfg
}

// sequence returns the given codes in order, then repeats the last one.
func sequence(codes ...string) service.CodeSource {
	i := 0

	return func() string {
		code := codes[min(i, len(codes)-1)]
		i++

		return code
	}
}

func newFixture(t *testing.T, codes service.CodeSource) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := fixture{
		repo:     referralMocks.NewMemoryReferral(),
		bookings: bookingMocks.NewMemoryBooking(),
		recorder: eventMocks.NewRecorder(),
	}

	f.svc = service.New(f.repo, f.bookings, repoMocks.NewTransactor(), f.recorder, clock.NewManual(start), codes, testConfig(), cache, otelMocks.NewOtel())

	return f
}

func as(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func asUser(id string) context.Context {
	return as(id, constant.RoleUser)
}

func (f fixture) complete(id, ownerID string, at time.Time) {
	f.bookings.Put(bookingModel.Booking{
		ID:          id,
		OwnerID:     ownerID,
		WalkerID:    "walker-1",
		Status:      bookingModel.StatusCompleted,
		CompletedAt: &at,
	})
}

func TestRandomCode(t *testing.T) {
	pattern := regexp.MustCompile(`^DW[A-Z0-9]{6}$`)

	for range 100 {
		assert.Regexp(t, pattern, service.RandomCode())
	}
}

func TestReferral_GetOrCreateCode(t *testing.T) {
	f := newFixture(t, sequence("DWAAAAAA"))
	ctx := asUser("referrer-1")

	first, err := f.svc.GetOrCreateCode(ctx, "referrer-1")
	require.NoError(t, err)
	assert.Equal(t, "DWAAAAAA", first.Code)

	again, err := f.svc.GetOrCreateCode(ctx, "referrer-1")
	require.NoError(t, err)
	assert.Equal(t, first.Code, again.Code)
	assert.Len(t, f.repo.Rows(), 1)

	_, err = f.svc.GetOrCreateCode(asUser("someone-else"), "referrer-1")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindUnauthorizedActor))
}

func TestReferral_GetOrCreateCodeRetriesOnCollision(t *testing.T) {
	f := newFixture(t, sequence("DWTAKEN1", "DWTAKEN1", "DWFRESH1"))

	_, err := f.svc.GetOrCreateCode(asUser("referrer-1"), "referrer-1")
	require.NoError(t, err)

	res, err := f.svc.GetOrCreateCode(asUser("referrer-2"), "referrer-2")
	require.NoError(t, err)
	assert.Equal(t, "DWFRESH1", res.Code)
}

func TestReferral_GetOrCreateCodeGivesUp(t *testing.T) {
	f := newFixture(t, sequence("DWTAKEN1"))

	_, err := f.svc.GetOrCreateCode(asUser("referrer-1"), "referrer-1")
	require.NoError(t, err)

	_, err = f.svc.GetOrCreateCode(asUser("referrer-2"), "referrer-2")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindConflict))
}

func TestReferral_Register(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		req      dto.RegisterRequest
		wantKind string
	}{
		{name: "referred party registers", ctx: asUser("owner-1"), req: dto.RegisterRequest{Code: "dwaaaaaa"}},
		{name: "unknown code", ctx: asUser("owner-1"), req: dto.RegisterRequest{Code: "DWZZZZZZ"}, wantKind: failure.KindNotFound},
		{name: "self referral", ctx: asUser("referrer-1"), req: dto.RegisterRequest{Code: "DWAAAAAA"}, wantKind: failure.KindValidation},
		{name: "already referred", ctx: asUser("owner-2"), req: dto.RegisterRequest{Code: "DWAAAAAA"}, wantKind: failure.KindConflict},
		{
			name:     "on behalf of someone else",
			ctx:      asUser("owner-1"),
			req:      dto.RegisterRequest{Code: "DWAAAAAA", ReferredID: "owner-3"},
			wantKind: failure.KindUnauthorizedActor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, sequence("DWAAAAAA"))

			_, err := f.svc.GetOrCreateCode(asUser("referrer-1"), "referrer-1")
			require.NoError(t, err)

			_, err = f.svc.Register(asUser("owner-2"), dto.RegisterRequest{Code: "DWAAAAAA"})
			require.NoError(t, err)

			res, err := f.svc.Register(tt.ctx, tt.req)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, failure.Is(err, tt.wantKind), "got %v", err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "referrer-1", res.ReferrerID)
			assert.Equal(t, "owner-1", res.ReferredID)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, "15.00", res.ReferrerReward)
			assert.Equal(t, "10.00", res.ReferredReward)
		})
	}
}

func TestReferral_DoubleDeliveryGrantsOnce(t *testing.T) {
	f := newFixture(t, sequence("DWAAAAAA"))
	ctx := context.Background()

	_, err := f.svc.GetOrCreateCode(asUser("referrer-1"), "referrer-1")
	require.NoError(t, err)

	_, err = f.svc.Register(asUser("owner-1"), dto.RegisterRequest{Code: "DWAAAAAA"})
	require.NoError(t, err)

	f.complete("b-1", "owner-1", start)

	require.NoError(t, f.svc.OnBookingCompleted(ctx, "b-1", "owner-1"))
	require.NoError(t, f.svc.OnBookingCompleted(ctx, "b-1", "owner-1"))

	granted := f.recorder.OfTopic(events.TopicReferralRewardGranted)
	require.Len(t, granted, 1)

	ev := granted[0].(events.ReferralRewardGranted)
	assert.Equal(t, "referrer-1", ev.ReferrerID)
	assert.Equal(t, "owner-1", ev.ReferredID)
	assert.Equal(t, int64(1500), ev.ReferrerAmount)
	assert.Equal(t, int64(1000), ev.ReferredAmount)
	assert.Equal(t, "b-1", ev.BookingID)

	stats, err := f.svc.Stats(asUser("referrer-1"), "referrer-1")
	require.NoError(t, err)
	assert.Equal(t, "DWAAAAAA", stats.Code)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, "15.00", stats.TotalReward)
	require.Len(t, stats.Referrals, 1)
	assert.Equal(t, "b-1", stats.Referrals[0].BookingID)
}

func TestReferral_OnlyFirstCompletionCounts(t *testing.T) {
	f := newFixture(t, sequence("DWAAAAAA"))
	ctx := context.Background()

	_, err := f.svc.GetOrCreateCode(asUser("referrer-1"), "referrer-1")
	require.NoError(t, err)

	_, err = f.svc.Register(asUser("owner-1"), dto.RegisterRequest{Code: "DWAAAAAA"})
	require.NoError(t, err)

	f.complete("b-1", "owner-1", start)
	f.complete("b-2", "owner-1", start.Add(time.Hour))

	require.NoError(t, f.svc.OnBookingCompleted(ctx, "b-2", "owner-1"))
	assert.Empty(t, f.recorder.Events())

	require.NoError(t, f.svc.OnBookingCompleted(ctx, "b-1", "owner-1"))
	assert.Len(t, f.recorder.OfTopic(events.TopicReferralRewardGranted), 1)
}

func TestReferral_CompletionNotVisibleIsRetried(t *testing.T) {
	f := newFixture(t, sequence("DWAAAAAA"))
	ctx := context.Background()

	_, err := f.svc.GetOrCreateCode(asUser("referrer-1"), "referrer-1")
	require.NoError(t, err)

	_, err = f.svc.Register(asUser("owner-1"), dto.RegisterRequest{Code: "DWAAAAAA"})
	require.NoError(t, err)

	err = f.svc.OnBookingCompleted(ctx, "b-1", "owner-1")
	require.Error(t, err)
	assert.True(t, failure.IsRetryable(err), "got %v", err)
	assert.Equal(t, failure.KindDependencyUnavailable, failure.GetKind(err))
	assert.Empty(t, f.recorder.Events())

	f.complete("b-1", "owner-1", start)

	require.NoError(t, f.svc.OnBookingCompleted(ctx, "b-1", "owner-1"))
	assert.Len(t, f.recorder.OfTopic(events.TopicReferralRewardGranted), 1)
}

func TestReferral_OwnerWithoutGrant(t *testing.T) {
	f := newFixture(t, sequence("DWAAAAAA"))
	f.complete("b-1", "owner-1", start)

	require.NoError(t, f.svc.OnBookingCompleted(context.Background(), "b-1", "owner-1"))
	assert.Empty(t, f.recorder.Events())
}

func TestReferral_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := referralMocks.NewMockReferral(ctrl)
	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ReferralGrant{}, errors.New("connection reset"))

	svc := service.New(repo, bookingMocks.NewMemoryBooking(), repoMocks.NewTransactor(), eventMocks.NewRecorder(),
		clock.NewManual(start), service.RandomCode, testConfig(), cacheMocks.NewMockRedisCache(ctrl), otelMocks.NewOtel())

	err := svc.OnBookingCompleted(context.Background(), "b-1", "owner-1")
	require.Error(t, err)
	assert.Equal(t, failure.KindInternal, failure.GetKind(err))
}
