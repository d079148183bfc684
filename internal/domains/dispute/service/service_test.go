package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "dogwalking/infras/otel/mocks"
	bookingMocks "dogwalking/internal/domains/booking/mocks"
	bookingModel "dogwalking/internal/domains/booking/model"
	"dogwalking/internal/domains/dispute/model"
	"dogwalking/internal/domains/dispute/model/dto"
	"dogwalking/internal/domains/dispute/service"
	ledgerMocks "dogwalking/internal/domains/ledger/mocks"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	"dogwalking/shared/failure"
	"dogwalking/shared/keylock"
	"dogwalking/shared/money"
	repoMocks "dogwalking/shared/repository/mocks"
)

const (
	owner  = "owner-1"
	walker = "walker-1"
)

var start = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc       service.Dispute
	disputes  *repoMocks.Table[model.Dispute]
	incidents *repoMocks.Table[model.Incident]
	bookings  *bookingMocks.MemoryBooking
	booking   *bookingMocks.MockBookingService
	ledger    *ledgerMocks.MockLedgerService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		disputes:  repoMocks.NewTable[model.Dispute](model.FieldID),
		incidents: repoMocks.NewTable[model.Incident](model.FieldID),
		bookings:  bookingMocks.NewMemoryBooking(),
		booking:   bookingMocks.NewMockBookingService(ctrl),
		ledger:    ledgerMocks.NewMockLedgerService(ctrl),
	}

	f.svc = service.New(
		f.disputes,
		f.incidents,
		f.bookings,
		f.booking,
		f.ledger,
		keylock.NewMemory(time.Second),
		repoMocks.NewTransactor(),
		clock.NewManual(start),
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

func asAdmin() context.Context {
	return as("admin-1", constant.RoleAdmin)
}

// seedBooking stores a booking; anything past confirmed counts as started.
func (f fixture) seedBooking(id, status string) {
	booking := bookingModel.Booking{
		ID:          id,
		OwnerID:     owner,
		WalkerID:    walker,
		Status:      status,
		GrossAmount: money.MustParseAmount("100.00"),
	}

	if status != bookingModel.StatusPending && status != bookingModel.StatusConfirmed {
		booking.StartedAt = &start
	}

	f.bookings.Put(booking)
}

func (f fixture) seedDispute(id, bookingID, status string) {
	f.disputes.Put(model.Dispute{
		ID:          id,
		BookingID:   bookingID,
		ReporterID:  owner,
		ReportedID:  walker,
		Type:        model.DisputeServiceQuality,
		Remedy:      model.RemedyRefund,
		Description: "walk cut short",
		Status:      status,
	})
}

func disputeRequest() dto.OpenDisputeRequest {
	return dto.OpenDisputeRequest{
		BookingID:   "b-1",
		Type:        model.DisputeServiceQuality,
		Remedy:      model.RemedyPartialRefund,
		Description: "walk was 10 minutes instead of 30",
	}
}

func TestDispute_OpenDispute(t *testing.T) {
	f := newFixture(t)
	f.seedBooking("b-1", bookingModel.StatusConfirmed)

	f.ledger.EXPECT().MarkFrozen(gomock.Any(), "b-1").Return(nil)
	f.booking.EXPECT().MarkDisputed(gomock.Any(), "b-1").Return(nil)

	res, err := f.svc.OpenDispute(asUser(owner), disputeRequest())
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, res.Status)
	assert.Equal(t, owner, res.ReporterID)
	assert.Equal(t, walker, res.ReportedID)
	assert.Len(t, f.disputes.Rows(), 1)
}

func TestDispute_OpenDisputeOnCompletedBookingOnlyFreezes(t *testing.T) {
	f := newFixture(t)
	f.seedBooking("b-1", bookingModel.StatusCompleted)

	f.ledger.EXPECT().MarkFrozen(gomock.Any(), "b-1").Return(nil)

	_, err := f.svc.OpenDispute(asUser(walker), disputeRequest())
	require.NoError(t, err)
}

func TestDispute_OpenDisputeRejections(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		mutate   func(r *dto.OpenDisputeRequest)
		setup    func(f fixture)
		wantKind string
	}{
		{
			name:     "blank description",
			ctx:      asUser(owner),
			mutate:   func(r *dto.OpenDisputeRequest) { r.Description = "   " },
			wantKind: failure.KindValidation,
		},
		{
			name:     "unknown type",
			ctx:      asUser(owner),
			mutate:   func(r *dto.OpenDisputeRequest) { r.Type = "noise" },
			wantKind: failure.KindValidation,
		},
		{
			name:     "unknown remedy",
			ctx:      asUser(owner),
			mutate:   func(r *dto.OpenDisputeRequest) { r.Remedy = "apology" },
			wantKind: failure.KindValidation,
		},
		{
			name:     "stranger",
			ctx:      asUser("someone-else"),
			wantKind: failure.KindUnauthorizedActor,
		},
		{
			name:     "reported party is not the counterparty",
			ctx:      asUser(owner),
			mutate:   func(r *dto.OpenDisputeRequest) { r.ReportedID = "someone-else" },
			wantKind: failure.KindValidation,
		},
		{
			name:     "missing booking",
			ctx:      asUser(owner),
			mutate:   func(r *dto.OpenDisputeRequest) { r.BookingID = "nope" },
			wantKind: failure.KindNotFound,
		},
		{
			name:     "second open dispute",
			ctx:      asUser(owner),
			setup:    func(f fixture) { f.seedDispute("d-0", "b-1", model.StatusUnderReview) },
			wantKind: failure.KindDuplicateDispute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedBooking("b-1", bookingModel.StatusConfirmed)

			if tt.setup != nil {
				tt.setup(f)
			}

			req := disputeRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			_, err := f.svc.OpenDispute(tt.ctx, req)
			require.Error(t, err)
			assert.True(t, failure.Is(err, tt.wantKind), "got %v", err)
		})
	}
}

func TestDispute_OpenDisputeAfterResolvedOne(t *testing.T) {
	f := newFixture(t)
	f.seedBooking("b-1", bookingModel.StatusInProgress)
	f.seedDispute("d-0", "b-1", model.StatusResolved)

	f.ledger.EXPECT().MarkFrozen(gomock.Any(), "b-1").Return(nil)
	f.booking.EXPECT().MarkDisputed(gomock.Any(), "b-1").Return(nil)

	_, err := f.svc.OpenDispute(asUser(owner), disputeRequest())
	require.NoError(t, err)
}

func TestDispute_MarkUnderReview(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		status   string
		wantKind string
	}{
		{name: "open", ctx: asAdmin(), status: model.StatusOpen},
		{name: "already under review", ctx: asAdmin(), status: model.StatusUnderReview},
		{name: "resolved", ctx: asAdmin(), status: model.StatusResolved, wantKind: failure.KindTerminalState},
		{name: "party", ctx: asUser(owner), status: model.StatusOpen, wantKind: failure.KindUnauthorizedActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedDispute("d-1", "b-1", tt.status)

			res, err := f.svc.MarkUnderReview(tt.ctx, "d-1")
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, failure.Is(err, tt.wantKind), "got %v", err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusUnderReview, res.Status)
		})
	}
}

func TestDispute_ResolveDispute(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.ResolveDisputeRequest
		expect     func(f fixture)
		wantRefund string
	}{
		{
			name: "refund reverses and cancels",
			req:  dto.ResolveDisputeRequest{Outcome: model.OutcomeRefund},
			expect: func(f fixture) {
				gomock.InOrder(
					f.ledger.EXPECT().Reverse(gomock.Any(), "b-1", gomock.Any()).Return(nil),
					f.ledger.EXPECT().UnmarkFrozen(gomock.Any(), "b-1").Return(nil),
					f.booking.EXPECT().ResolveDisputed(gomock.Any(), "b-1", true).Return(nil),
				)
			},
		},
		{
			name: "partial refund adjusts",
			req:  dto.ResolveDisputeRequest{Outcome: model.OutcomePartialRefund, RefundAmount: "20.00"},
			expect: func(f fixture) {
				gomock.InOrder(
					f.ledger.EXPECT().Adjust(gomock.Any(), "b-1", "d-1", money.MustParseAmount("20.00"), gomock.Any()).Return(nil),
					f.ledger.EXPECT().UnmarkFrozen(gomock.Any(), "b-1").Return(nil),
					f.booking.EXPECT().ResolveDisputed(gomock.Any(), "b-1", false).Return(nil),
				)
			},
			wantRefund: "20.00",
		},
		{
			name: "no action only unfreezes",
			req:  dto.ResolveDisputeRequest{Outcome: model.OutcomeNoAction},
			expect: func(f fixture) {
				f.ledger.EXPECT().UnmarkFrozen(gomock.Any(), "b-1").Return(nil)
				f.booking.EXPECT().ResolveDisputed(gomock.Any(), "b-1", false).Return(nil)
			},
		},
		{
			name: "warning issued only unfreezes",
			req:  dto.ResolveDisputeRequest{Outcome: model.OutcomeWarningIssued},
			expect: func(f fixture) {
				f.ledger.EXPECT().UnmarkFrozen(gomock.Any(), "b-1").Return(nil)
				f.booking.EXPECT().ResolveDisputed(gomock.Any(), "b-1", false).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedBooking("b-1", bookingModel.StatusDisputed)
			f.seedDispute("d-1", "b-1", model.StatusOpen)
			tt.expect(f)

			res, err := f.svc.ResolveDispute(asAdmin(), "d-1", tt.req)
			require.NoError(t, err)
			assert.Equal(t, model.StatusResolved, res.Status)
			assert.Equal(t, tt.req.Outcome, res.Outcome)
			assert.Equal(t, "admin-1", res.ResolvedBy)
			assert.Equal(t, tt.wantRefund, res.RefundAmount)

			stored := f.disputes.Rows()[0]
			assert.Equal(t, model.StatusResolved, stored.Status)
			require.NotNil(t, stored.ResolvedAt)
		})
	}
}

func TestDispute_ResolveOnTerminalBookingLeavesStatus(t *testing.T) {
	f := newFixture(t)
	f.seedBooking("b-1", bookingModel.StatusCompleted)
	f.seedDispute("d-1", "b-1", model.StatusUnderReview)

	f.ledger.EXPECT().UnmarkFrozen(gomock.Any(), "b-1").Return(nil)

	_, err := f.svc.ResolveDispute(asAdmin(), "d-1", dto.ResolveDisputeRequest{Outcome: model.OutcomeNoAction})
	require.NoError(t, err)
}

func TestDispute_ResolveDisputeRejections(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		id       string
		status   string
		req      dto.ResolveDisputeRequest
		wantKind string
	}{
		{
			name:     "already resolved",
			ctx:      asAdmin(),
			id:       "d-1",
			status:   model.StatusResolved,
			req:      dto.ResolveDisputeRequest{Outcome: model.OutcomeNoAction},
			wantKind: failure.KindTerminalState,
		},
		{
			name:     "party resolves",
			ctx:      asUser(owner),
			id:       "d-1",
			status:   model.StatusOpen,
			req:      dto.ResolveDisputeRequest{Outcome: model.OutcomeNoAction},
			wantKind: failure.KindUnauthorizedActor,
		},
		{
			name:     "unknown outcome",
			ctx:      asAdmin(),
			id:       "d-1",
			status:   model.StatusOpen,
			req:      dto.ResolveDisputeRequest{Outcome: "shrug"},
			wantKind: failure.KindValidation,
		},
		{
			name:     "partial refund without amount",
			ctx:      asAdmin(),
			id:       "d-1",
			status:   model.StatusOpen,
			req:      dto.ResolveDisputeRequest{Outcome: model.OutcomePartialRefund},
			wantKind: failure.KindValidation,
		},
		{
			name:     "missing dispute",
			ctx:      asAdmin(),
			id:       "nope",
			status:   model.StatusOpen,
			req:      dto.ResolveDisputeRequest{Outcome: model.OutcomeNoAction},
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedBooking("b-1", bookingModel.StatusDisputed)
			f.seedDispute("d-1", "b-1", tt.status)

			_, err := f.svc.ResolveDispute(tt.ctx, tt.id, tt.req)
			require.Error(t, err)
			assert.True(t, failure.Is(err, tt.wantKind), "got %v", err)
		})
	}
}

func TestDispute_PartialRefundNeedsStartedBooking(t *testing.T) {
	f := newFixture(t)
	f.bookings.Put(bookingModel.Booking{
		ID:          "b-1",
		OwnerID:     owner,
		WalkerID:    walker,
		Status:      bookingModel.StatusDisputed,
		GrossAmount: money.MustParseAmount("100.00"),
	})
	f.seedDispute("d-1", "b-1", model.StatusOpen)

	_, err := f.svc.ResolveDispute(asAdmin(), "d-1", dto.ResolveDisputeRequest{
		Outcome:      model.OutcomePartialRefund,
		RefundAmount: "10.00",
	})
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindInvalidTransition), "got %v", err)
	assert.Equal(t, model.StatusOpen, f.disputes.Rows()[0].Status)
}

func TestDispute_ResolveRollsBackOnLedgerConflict(t *testing.T) {
	f := newFixture(t)
	f.seedBooking("b-1", bookingModel.StatusDisputed)
	f.seedDispute("d-1", "b-1", model.StatusOpen)

	f.ledger.EXPECT().Reverse(gomock.Any(), "b-1", gomock.Any()).Return(failure.Conflict("ledger entry was already paid out"))

	_, err := f.svc.ResolveDispute(asAdmin(), "d-1", dto.ResolveDisputeRequest{Outcome: model.OutcomeRefund})
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindConflict))
	assert.Equal(t, model.StatusOpen, f.disputes.Rows()[0].Status)
}

func TestDispute_Incidents(t *testing.T) {
	f := newFixture(t)
	f.seedBooking("b-1", bookingModel.StatusInProgress)

	first, err := f.svc.OpenIncident(asUser(owner), dto.OpenIncidentRequest{BookingID: "b-1", Type: model.IncidentLate})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, first.Status)
	assert.Empty(t, first.Description)

	_, err = f.svc.OpenIncident(asUser(walker), dto.OpenIncidentRequest{BookingID: "b-1", Type: model.IncidentBehavior, Description: "dog was aggressive"})
	require.NoError(t, err)

	_, err = f.svc.OpenIncident(asUser(owner), dto.OpenIncidentRequest{BookingID: "b-1", Type: "rain"})
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindValidation))

	_, err = f.svc.OpenIncident(asUser("someone-else"), dto.OpenIncidentRequest{BookingID: "b-1", Type: model.IncidentLate})
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindUnauthorizedActor))

	list, err := f.svc.ListIncidents(asUser(walker), "b-1")
	require.NoError(t, err)
	assert.Len(t, list.Incidents, 2)

	resolved, err := f.svc.ResolveIncident(asAdmin(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, resolved.Status)

	_, err = f.svc.ResolveIncident(asAdmin(), first.ID)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindTerminalState))
}

func TestDispute_ListDisputes(t *testing.T) {
	f := newFixture(t)
	f.seedBooking("b-1", bookingModel.StatusCompleted)
	f.seedDispute("d-1", "b-1", model.StatusResolved)
	f.seedDispute("d-2", "b-1", model.StatusOpen)
	f.seedDispute("d-3", "b-2", model.StatusOpen)

	res, err := f.svc.ListDisputes(asUser(owner), "b-1")
	require.NoError(t, err)
	assert.Len(t, res.Disputes, 2)

	_, err = f.svc.ListDisputes(asUser("someone-else"), "b-1")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindUnauthorizedActor))

	res, err = f.svc.ListDisputes(asAdmin(), "b-2")
	require.NoError(t, err)
	assert.Len(t, res.Disputes, 1)
}

func TestDispute_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	bookings := bookingMocks.NewMockBooking(ctrl)
	bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, errors.New("connection reset"))

	svc := service.New(
		repoMocks.NewTable[model.Dispute](model.FieldID),
		repoMocks.NewTable[model.Incident](model.FieldID),
		bookings,
		bookingMocks.NewMockBookingService(ctrl),
		ledgerMocks.NewMockLedgerService(ctrl),
		keylock.NewMemory(time.Second),
		repoMocks.NewTransactor(),
		clock.NewManual(start),
		otelMocks.NewOtel(),
	)

	_, err := svc.OpenIncident(asUser(owner), dto.OpenIncidentRequest{BookingID: "b-1", Type: model.IncidentLate})
	require.Error(t, err)
	assert.Equal(t, failure.KindInternal, failure.GetKind(err))
}
