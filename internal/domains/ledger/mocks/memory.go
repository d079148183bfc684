package mocks

import (
	"cmp"
	"context"
	"dogwalking/internal/domains/ledger/model"
	"dogwalking/internal/domains/ledger/repository"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/money"
	repoMocks "dogwalking/shared/repository/mocks"
	"errors"
	"slices"
	"time"

	"github.com/lib/pq"
)

var _ repository.Ledger = (*MemoryLedger)(nil)

// MemoryLedger keeps ledger rows in memory. BackfillSource supplies the
// completed bookings a backfill run would find in the bookings table.
type MemoryLedger struct {
	*repoMocks.Table[model.LedgerEntry]
	AdjustmentRows *repoMocks.Table[model.LedgerAdjustment]
	PayoutRows     *repoMocks.Table[model.Payout]
	BackfillSource func() []model.BackfillCandidate
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		Table:          repoMocks.NewTable[model.LedgerEntry](model.FieldBookingID),
		AdjustmentRows: repoMocks.NewTable[model.LedgerAdjustment](model.FieldID),
		PayoutRows:     repoMocks.NewTable[model.Payout](model.FieldID),
	}
}

// Entry returns the entry of a booking, or false.
func (m *MemoryLedger) Entry(bookingID string) (model.LedgerEntry, bool) {
	rows := m.Select(func(e model.LedgerEntry) bool { return e.BookingID == bookingID })
	if len(rows) == 0 {
		return model.LedgerEntry{}, false
	}

	return rows[0], true
}

func (m *MemoryLedger) InsertIfAbsent(ctx context.Context, entry model.LedgerEntry) (bool, error) {
	err := m.Insert(ctx, entry)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation {
		return false, nil
	}

	return err == nil, err
}

func (m *MemoryLedger) MaturedCandidates(_ context.Context, now time.Time, limit int) ([]model.LedgerEntry, error) {
	rows := m.Select(func(e model.LedgerEntry) bool { return e.Matured(now) })
	slices.SortFunc(rows, func(a, b model.LedgerEntry) int { return a.HoldUntil.Compare(*b.HoldUntil) })

	return rows[:min(limit, len(rows))], nil
}

func (m *MemoryLedger) MarkPaid(ctx context.Context, walkerID, payoutID, actor string, now time.Time) ([]model.LedgerEntry, error) {
	if len(m.PayoutRows.Select(func(p model.Payout) bool { return p.ID == payoutID })) == 0 {
		return nil, repoMocks.ForeignKeyViolation("ledger_entries_payout_id_fkey")
	}

	filter := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldWalkerID, Value: walkerID, Operator: gDto.FilterOperatorEq},
		gDto.Filter{Field: model.FieldBucket, Value: model.BucketAvailable, Operator: gDto.FilterOperatorEq},
		gDto.Filter{Field: model.FieldFrozen, Value: false, Operator: gDto.FilterOperatorEq},
	}}

	_, err := m.UpdateAffected(ctx, map[string]any{
		model.FieldBucket:        model.BucketPaid,
		model.FieldPayoutID:      payoutID,
		model.FieldPaidAt:        now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}, filter)
	if err != nil {
		return nil, err
	}

	rows := m.Select(func(e model.LedgerEntry) bool { return e.PayoutID != nil && *e.PayoutID == payoutID })
	if rows == nil {
		rows = []model.LedgerEntry{}
	}

	return rows, nil
}

func (m *MemoryLedger) WalkersWithAvailable(_ context.Context, limit int) ([]string, error) {
	walkers := []string{}

	for _, e := range m.Rows() {
		if e.Bucket == model.BucketAvailable && !e.Frozen && !slices.Contains(walkers, e.WalkerID) {
			walkers = append(walkers, e.WalkerID)
		}
	}

	slices.Sort(walkers)

	return walkers[:min(limit, len(walkers))], nil
}

func (m *MemoryLedger) InsertAdjustment(ctx context.Context, adjustment model.LedgerAdjustment) error {
	return m.AdjustmentRows.Insert(ctx, adjustment)
}

func (m *MemoryLedger) Adjustments(_ context.Context, bookingID string) ([]model.LedgerAdjustment, error) {
	rows := m.AdjustmentRows.Select(func(a model.LedgerAdjustment) bool { return a.BookingID == bookingID })
	if rows == nil {
		rows = []model.LedgerAdjustment{}
	}

	return rows, nil
}

func (m *MemoryLedger) InsertPayout(ctx context.Context, payout model.Payout) error {
	return m.PayoutRows.Insert(ctx, payout)
}

func (m *MemoryLedger) SettlePayout(ctx context.Context, payoutID string, total money.Amount, entryCount int) error {
	filter := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldID, Value: payoutID, Operator: gDto.FilterOperatorEq},
	}}

	affected, err := m.PayoutRows.UpdateAffected(ctx, map[string]any{
		model.FieldTotalAmount: total,
		model.FieldEntryCount:  entryCount,
	}, filter)
	if err != nil {
		return err
	}

	if affected == 0 {
		return errors.New("payout not found")
	}

	return nil
}

func (m *MemoryLedger) BucketTotals(_ context.Context, walkerID string) ([]model.BucketTotal, error) {
	totals := map[string]money.Amount{}

	for _, e := range m.Rows() {
		if e.WalkerID == walkerID && e.Bucket != model.BucketNone {
			totals[e.Bucket] += e.Payable()
		}
	}

	res := []model.BucketTotal{}
	for bucket, total := range totals {
		res = append(res, model.BucketTotal{Bucket: bucket, Total: total})
	}

	slices.SortFunc(res, func(a, b model.BucketTotal) int { return cmp.Compare(a.Bucket, b.Bucket) })

	return res, nil
}

func (m *MemoryLedger) MonthlyEarnings(_ context.Context, walkerID string, since time.Time) ([]model.MonthlyEarning, error) {
	totals := map[string]money.Amount{}

	for _, e := range m.Rows() {
		if e.WalkerID != walkerID || e.CompletedAt == nil || e.CompletedAt.Before(since) {
			continue
		}

		if slices.Contains([]string{model.BucketPending, model.BucketAvailable, model.BucketPaid}, e.Bucket) {
			totals[e.CompletedAt.Format(constant.MonthFormat)] += e.Payable()
		}
	}

	res := []model.MonthlyEarning{}
	for month, net := range totals {
		res = append(res, model.MonthlyEarning{Month: month, Net: net})
	}

	slices.SortFunc(res, func(a, b model.MonthlyEarning) int { return cmp.Compare(a.Month, b.Month) })

	return res, nil
}

func (m *MemoryLedger) BackfillCandidates(_ context.Context, limit int) ([]model.BackfillCandidate, error) {
	res := []model.BackfillCandidate{}
	if m.BackfillSource == nil {
		return res, nil
	}

	for _, c := range m.BackfillSource() {
		if _, ok := m.Entry(c.BookingID); !ok {
			res = append(res, c)
		}
	}

	return res[:min(limit, len(res))], nil
}
