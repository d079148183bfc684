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
	bookingMocks "dogwalking/internal/domains/booking/mocks"
	"dogwalking/internal/domains/booking/model"
	"dogwalking/internal/domains/booking/model/dto"
	"dogwalking/internal/domains/booking/service"
	ledgerMocks "dogwalking/internal/domains/ledger/mocks"
	proofMocks "dogwalking/internal/domains/proof/mocks"
	proofModel "dogwalking/internal/domains/proof/model"
	"dogwalking/internal/events"
	eventMocks "dogwalking/internal/events/mocks"
	cacheMocks "dogwalking/shared/cache/mocks"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/failure"
	"dogwalking/shared/keylock"
	gModel "dogwalking/shared/model"
	"dogwalking/shared/money"
	repoMocks "dogwalking/shared/repository/mocks"
)

const (
	owner  = "owner-1"
	walker = "walker-1"
)

var start = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc      service.Booking
	repo     *bookingMocks.MemoryBooking
	proofs   *proofMocks.MockRegistry
	ledger   *ledgerMocks.MockLedgerService
	recorder *eventMocks.Recorder
	clock    *clock.Manual
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Engine.LateCancellationThreshold = 24 * time.Hour
	cfg.Cache.TTL = 60

	return cfg
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     bookingMocks.NewMemoryBooking(),
		proofs:   proofMocks.NewMockRegistry(ctrl),
		ledger:   ledgerMocks.NewMockLedgerService(ctrl),
		recorder: eventMocks.NewRecorder(),
		clock:    clock.NewManual(start),
	}

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := testConfig()

	f.svc = service.New(
		f.repo,
		f.proofs,
		f.ledger,
		keylock.NewMemory(time.Second),
		repoMocks.NewTransactor(),
		f.recorder,
		f.clock,
		service.NewCancellationPolicy(cfg),
		cfg,
		cache,
		otelMocks.NewOtel(),
	)

	return f
}

func as(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func asUser(id string) context.Context {
	return as(id, constant.RoleUser)
}

// seed stores a booking scheduled in from now with the given status.
func (f fixture) seed(id, status string, in time.Duration) model.Booking {
	b := model.Booking{
		ID:              id,
		OwnerID:         owner,
		WalkerID:        walker,
		ScheduledAt:     f.clock.Now().Add(in),
		DurationMinutes: 30,
		ServiceKind:     model.ServiceWalk,
		GrossAmount:     money.MustParseAmount("40.00"),
		Status:          status,
		Metadata:        gModel.NewMetadata(owner, f.clock.Now()),
	}
	f.repo.Put(b)

	return b
}

func (f fixture) status(t *testing.T, id string) string {
	t.Helper()

	b, ok := f.repo.Booking(id)
	require.True(t, ok)

	return b.Status
}

func statusEvents(r *eventMocks.Recorder) []events.BookingStatusChanged {
	var res []events.BookingStatusChanged

	for _, ev := range r.OfTopic(events.TopicBookingStatusChanged) {
		res = append(res, ev.(events.BookingStatusChanged))
	}

	return res
}

func TestBooking_Create(t *testing.T) {
	valid := func() dto.CreateBookingRequest {
		return dto.CreateBookingRequest{
			WalkerID:        walker,
			ScheduledAt:     start.Add(72 * time.Hour).Format(time.RFC3339),
			DurationMinutes: 45,
			ServiceKind:     model.ServiceWalk,
			GrossAmount:     "35.50",
		}
	}

	tests := []struct {
		name     string
		ctx      context.Context
		mutate   func(r *dto.CreateBookingRequest)
		wantKind string
	}{
		{name: "valid request", ctx: asUser(owner)},
		{name: "no actor", ctx: context.Background(), wantKind: failure.KindUnauthenticated},
		{
			name:     "walker books themselves",
			ctx:      asUser(walker),
			wantKind: failure.KindValidation,
		},
		{
			name:     "zero amount",
			ctx:      asUser(owner),
			mutate:   func(r *dto.CreateBookingRequest) { r.GrossAmount = "0.00" },
			wantKind: failure.KindValidation,
		},
		{
			name:     "scheduled in the past",
			ctx:      asUser(owner),
			mutate:   func(r *dto.CreateBookingRequest) { r.ScheduledAt = start.Add(-time.Hour).Format(time.RFC3339) },
			wantKind: failure.KindValidation,
		},
		{
			name:     "unknown service",
			ctx:      asUser(owner),
			mutate:   func(r *dto.CreateBookingRequest) { r.ServiceKind = "grooming" },
			wantKind: failure.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := valid()
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			res, err := f.svc.Create(tt.ctx, req)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, failure.Is(err, tt.wantKind), "got %v", err)
				assert.Empty(t, f.recorder.Events())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, owner, res.OwnerID)
			assert.Equal(t, "35.50", res.GrossAmount)

			evs := statusEvents(f.recorder)
			require.Len(t, evs, 1)
			assert.Empty(t, evs[0].From)
			assert.Equal(t, model.StatusPending, evs[0].To)
			assert.Equal(t, 1, f.recorder.Notified())
		})
	}
}

func TestBooking_MissingPickupProofThenSuccess(t *testing.T) {
	f := newFixture(t)
	f.seed("b-1", model.StatusConfirmed, 2*time.Hour)
	ctx := asUser(walker)

	gomock.InOrder(
		f.proofs.EXPECT().HasProof(gomock.Any(), "b-1", proofModel.KindPickup).Return(false, nil),
		f.proofs.EXPECT().HasProof(gomock.Any(), "b-1", proofModel.KindPickup).Return(true, nil),
	)
	f.ledger.EXPECT().OnBookingStarted(gomock.Any(), "b-1", walker, money.MustParseAmount("40.00")).Return(nil)

	_, err := f.svc.Start(ctx, "b-1")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindMissingProof))
	assert.Equal(t, model.StatusConfirmed, f.status(t, "b-1"))
	assert.Empty(t, f.recorder.Events())

	res, err := f.svc.Start(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, res.Status)
	assert.NotEmpty(t, res.StartedAt)

	evs := statusEvents(f.recorder)
	require.Len(t, evs, 1)
	assert.Equal(t, model.StatusConfirmed, evs[0].From)
	assert.Equal(t, model.StatusInProgress, evs[0].To)
	assert.Equal(t, walker, evs[0].ActorID)
}

func TestBooking_ProofRegistryUnavailable(t *testing.T) {
	f := newFixture(t)
	f.seed("b-1", model.StatusInProgress, -time.Hour)

	f.proofs.EXPECT().HasProof(gomock.Any(), "b-1", proofModel.KindCompletion).
		Return(false, failure.DependencyUnavailable("proof storage unreachable"))

	_, err := f.svc.Complete(asUser(walker), "b-1")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindDependencyUnavailable))
	assert.True(t, failure.IsRetryable(err))
	assert.Equal(t, model.StatusInProgress, f.status(t, "b-1"))
}

func TestBooking_CompleteSettles(t *testing.T) {
	f := newFixture(t)
	f.seed("b-1", model.StatusInProgress, -time.Hour)

	f.proofs.EXPECT().HasProof(gomock.Any(), "b-1", proofModel.KindCompletion).Return(true, nil)
	f.ledger.EXPECT().OnBookingCompleted(gomock.Any(), "b-1", walker, money.MustParseAmount("40.00")).Return(nil)

	res, err := f.svc.Complete(asUser(walker), "b-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, res.Status)

	stored, _ := f.repo.Booking("b-1")
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.CompletedAt.Equal(start))
}

func TestBooking_LedgerFailureRollsBackTransition(t *testing.T) {
	f := newFixture(t)
	f.seed("b-1", model.StatusInProgress, -time.Hour)

	f.proofs.EXPECT().HasProof(gomock.Any(), "b-1", proofModel.KindCompletion).Return(true, nil)
	f.ledger.EXPECT().OnBookingCompleted(gomock.Any(), "b-1", walker, gomock.Any()).
		Return(failure.Conflict("ledger entry already reversed"))

	_, err := f.svc.Complete(asUser(walker), "b-1")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindConflict))
	assert.Equal(t, model.StatusInProgress, f.status(t, "b-1"))
}

func TestBooking_LateCancellation(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Duration
		wantLate bool
	}{
		{name: "ten hours before the walk", in: 10 * time.Hour, wantLate: true},
		{name: "seventy two hours before the walk", in: 72 * time.Hour, wantLate: false},
		{name: "exactly at the threshold", in: 24 * time.Hour, wantLate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed("b-1", model.StatusConfirmed, tt.in)

			res, err := f.svc.Cancel(asUser(owner), "b-1", dto.CancelBookingRequest{Reason: model.ReasonWeather})
			require.NoError(t, err)
			assert.Equal(t, model.StatusCancelled, res.Status)
			assert.Equal(t, tt.wantLate, res.LateCancellation)
			assert.Equal(t, model.ReasonWeather, res.CancellationReason)
			assert.Equal(t, owner, res.CancelledBy)

			stored, _ := f.repo.Booking("b-1")
			assert.Equal(t, tt.wantLate, stored.LateCancellation)

			evs := statusEvents(f.recorder)
			require.Len(t, evs, 1)
			assert.Equal(t, tt.wantLate, evs[0].LateCancellation)
			assert.Equal(t, model.ReasonWeather, evs[0].Reason)
		})
	}
}

func TestBooking_CancelValidation(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		req      dto.CancelBookingRequest
		wantKind string
	}{
		{
			name:     "unknown reason",
			ctx:      asUser(owner),
			req:      dto.CancelBookingRequest{Reason: "bored"},
			wantKind: failure.KindValidation,
		},
		{
			name:     "engine-only reason",
			ctx:      asUser(owner),
			req:      dto.CancelBookingRequest{Reason: model.ReasonDisputeRefund},
			wantKind: failure.KindValidation,
		},
		{
			name:     "other without detail",
			ctx:      asUser(owner),
			req:      dto.CancelBookingRequest{Reason: model.ReasonOther, Detail: "  "},
			wantKind: failure.KindValidation,
		},
		{
			name:     "stranger",
			ctx:      asUser("someone-else"),
			req:      dto.CancelBookingRequest{Reason: model.ReasonEmergency},
			wantKind: failure.KindUnauthorizedActor,
		},
		{
			name: "walker with detail",
			ctx:  asUser(walker),
			req:  dto.CancelBookingRequest{Reason: model.ReasonOther, Detail: "van broke down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed("b-1", model.StatusPending, 72*time.Hour)

			res, err := f.svc.Cancel(tt.ctx, "b-1", tt.req)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, failure.Is(err, tt.wantKind), "got %v", err)
				assert.Equal(t, model.StatusPending, f.status(t, "b-1"))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "van broke down", res.CancellationDetail)
			assert.Equal(t, walker, res.CancelledBy)
		})
	}
}

func TestBooking_TransitionGuards(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		call     func(svc service.Booking) error
		wantKind string
	}{
		{
			name:   "confirm completed booking",
			status: model.StatusCompleted,
			call: func(svc service.Booking) error {
				_, err := svc.Confirm(asUser(walker), "b-1")

				return err
			},
			wantKind: failure.KindTerminalState,
		},
		{
			name:   "cancel cancelled booking",
			status: model.StatusCancelled,
			call: func(svc service.Booking) error {
				_, err := svc.Cancel(asUser(owner), "b-1", dto.CancelBookingRequest{Reason: model.ReasonWeather})

				return err
			},
			wantKind: failure.KindTerminalState,
		},
		{
			name:   "complete pending booking",
			status: model.StatusPending,
			call: func(svc service.Booking) error {
				_, err := svc.Complete(asUser(walker), "b-1")

				return err
			},
			wantKind: failure.KindInvalidTransition,
		},
		{
			name:   "cancel in-progress booking",
			status: model.StatusInProgress,
			call: func(svc service.Booking) error {
				_, err := svc.Cancel(asUser(owner), "b-1", dto.CancelBookingRequest{Reason: model.ReasonWeather})

				return err
			},
			wantKind: failure.KindInvalidTransition,
		},
		{
			name:   "confirm disputed booking",
			status: model.StatusDisputed,
			call: func(svc service.Booking) error {
				_, err := svc.Confirm(asUser(walker), "b-1")

				return err
			},
			wantKind: failure.KindInvalidTransition,
		},
		{
			name:   "owner confirms",
			status: model.StatusPending,
			call: func(svc service.Booking) error {
				_, err := svc.Confirm(asUser(owner), "b-1")

				return err
			},
			wantKind: failure.KindUnauthorizedActor,
		},
		{
			name:   "unknown booking",
			status: model.StatusPending,
			call: func(svc service.Booking) error {
				_, err := svc.Confirm(asUser(walker), "missing")

				return err
			},
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed("b-1", tt.status, 72*time.Hour)

			err := tt.call(f.svc)
			require.Error(t, err)
			assert.True(t, failure.Is(err, tt.wantKind), "got %v", err)
			assert.Equal(t, tt.status, f.status(t, "b-1"))
			assert.Empty(t, f.recorder.Events())
		})
	}
}

func TestBooking_ConfirmReplayIsNoop(t *testing.T) {
	f := newFixture(t)
	f.seed("b-1", model.StatusPending, 72*time.Hour)
	ctx := asUser(walker)

	first, err := f.svc.Confirm(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, first.Status)

	second, err := f.svc.Confirm(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, second.Status)
	assert.Equal(t, first.ConfirmedAt, second.ConfirmedAt)

	assert.Len(t, statusEvents(f.recorder), 1)
}

func TestBooking_AdminActsForWalker(t *testing.T) {
	f := newFixture(t)
	f.seed("b-1", model.StatusPending, 72*time.Hour)

	res, err := f.svc.Confirm(as("admin-1", constant.RoleAdmin), "b-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.Equal(t, "admin-1", statusEvents(f.recorder)[0].ActorID)
}

func TestBooking_DisputeRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		refunded   bool
		wantStatus string
	}{
		{name: "restore confirmed", status: model.StatusConfirmed, wantStatus: model.StatusConfirmed},
		{name: "restore in progress", status: model.StatusInProgress, wantStatus: model.StatusInProgress},
		{name: "refund cancels", status: model.StatusConfirmed, refunded: true, wantStatus: model.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed("b-1", tt.status, time.Hour)
			ctx := context.Background()

			require.NoError(t, f.svc.MarkDisputed(ctx, "b-1"))

			stored, _ := f.repo.Booking("b-1")
			assert.Equal(t, model.StatusDisputed, stored.Status)
			require.NotNil(t, stored.StatusBeforeDispute)
			assert.Equal(t, tt.status, *stored.StatusBeforeDispute)

			require.NoError(t, f.svc.MarkDisputed(ctx, "b-1"))

			require.NoError(t, f.svc.ResolveDisputed(ctx, "b-1", tt.refunded))

			stored, _ = f.repo.Booking("b-1")
			assert.Equal(t, tt.wantStatus, stored.Status)
			assert.Nil(t, stored.StatusBeforeDispute)

			if tt.refunded {
				require.NotNil(t, stored.CancellationReason)
				assert.Equal(t, model.ReasonDisputeRefund, *stored.CancellationReason)
				require.NotNil(t, stored.CancelledBy)
				assert.Equal(t, constant.ActorSystem, *stored.CancelledBy)
			}

			evs := statusEvents(f.recorder)
			require.Len(t, evs, 2)
			assert.Equal(t, model.StatusDisputed, evs[0].To)
			assert.Equal(t, model.StatusDisputed, evs[1].From)
			assert.Equal(t, tt.wantStatus, evs[1].To)
		})
	}
}

func TestBooking_MarkDisputedTerminal(t *testing.T) {
	f := newFixture(t)
	f.seed("b-1", model.StatusCompleted, -time.Hour)

	err := f.svc.MarkDisputed(context.Background(), "b-1")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindTerminalState))
}

func TestBooking_Get(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		id       string
		wantKind string
	}{
		{name: "owner", ctx: asUser(owner), id: "b-1"},
		{name: "walker", ctx: asUser(walker), id: "b-1"},
		{name: "admin", ctx: as("admin-1", constant.RoleAdmin), id: "b-1"},
		{name: "stranger", ctx: asUser("someone-else"), id: "b-1", wantKind: failure.KindUnauthorizedActor},
		{name: "missing", ctx: asUser(owner), id: "nope", wantKind: failure.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed("b-1", model.StatusPending, time.Hour)

			res, err := f.svc.Get(tt.ctx, tt.id)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, failure.Is(err, tt.wantKind), "got %v", err)
				assert.Empty(t, res.ID)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "b-1", res.ID)
		})
	}
}

func TestBooking_GetAllScopesToParty(t *testing.T) {
	f := newFixture(t)
	f.seed("b-1", model.StatusPending, time.Hour)
	f.repo.Put(model.Booking{ID: "b-2", OwnerID: "owner-2", WalkerID: "walker-2", Status: model.StatusPending})
	f.repo.Put(model.Booking{ID: "b-3", OwnerID: "owner-3", WalkerID: walker, Status: model.StatusConfirmed})

	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: model.FieldID, SortDir: gDto.SortDirAsc}

	res, err := f.svc.GetAll(asUser(walker), params, gDto.FilterGroup{})
	require.NoError(t, err)
	require.Len(t, res.Bookings, 2)
	assert.Equal(t, "b-1", res.Bookings[0].ID)
	assert.Equal(t, "b-3", res.Bookings[1].ID)

	filtered, err := f.svc.GetAll(asUser(walker), params, statusFilter(model.StatusConfirmed))
	require.NoError(t, err)
	require.Len(t, filtered.Bookings, 1)
	assert.Equal(t, "b-3", filtered.Bookings[0].ID)

	all, err := f.svc.Count(as("admin-1", constant.RoleAdmin), params, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 3, all)
}

func statusFilter(status string) gDto.FilterGroup {
	return gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldStatus, Value: status, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}}
}

func TestBooking_Invoices(t *testing.T) {
	f := newFixture(t)
	f.seed("b-1", model.StatusCompleted, -48*time.Hour)
	f.seed("b-2", model.StatusConfirmed, 24*time.Hour)
	f.seed("b-3", model.StatusCancelled, 24*time.Hour)

	res, err := f.svc.Invoices(asUser(owner), owner)
	require.NoError(t, err)
	require.Len(t, res.Invoices, 2)
	assert.Equal(t, "40.00", res.TotalPaid)
	assert.Equal(t, "40.00", res.TotalPending)

	_, err = f.svc.Invoices(asUser(walker), owner)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindUnauthorizedActor))
}
