package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"dogwalking/infras/otel"
	"dogwalking/infras/postgres"
	bookingModel "dogwalking/internal/domains/booking/model"
	"dogwalking/internal/domains/ledger/model"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/logger"
	"dogwalking/shared/money"
	gRepo "dogwalking/shared/repository"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type Ledger interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.LedgerEntry, error)
	GetForUpdate(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.LedgerEntry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.LedgerEntry, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	// InsertIfAbsent creates the entry unless the booking already has one.
	InsertIfAbsent(ctx context.Context, entry model.LedgerEntry) (bool, error)
	MaturedCandidates(ctx context.Context, now time.Time, limit int) ([]model.LedgerEntry, error)
	// MarkPaid moves every available, unfrozen entry of the walker to paid and returns them.
	MarkPaid(ctx context.Context, walkerID, payoutID, actor string, now time.Time) ([]model.LedgerEntry, error)
	WalkersWithAvailable(ctx context.Context, limit int) ([]string, error)
	InsertAdjustment(ctx context.Context, adjustment model.LedgerAdjustment) error
	Adjustments(ctx context.Context, bookingID string) ([]model.LedgerAdjustment, error)
	// InsertPayout must run before MarkPaid: entries reference the payout row.
	InsertPayout(ctx context.Context, payout model.Payout) error
	SettlePayout(ctx context.Context, payoutID string, total money.Amount, entryCount int) error
	BucketTotals(ctx context.Context, walkerID string) ([]model.BucketTotal, error)
	MonthlyEarnings(ctx context.Context, walkerID string, since time.Time) ([]model.MonthlyEarning, error)
	BackfillCandidates(ctx context.Context, limit int) ([]model.BackfillCandidate, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.LedgerEntry]
	adjustments gRepo.Repository[model.LedgerAdjustment]
	payouts     gRepo.Repository[model.Payout]
	otel        otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Ledger {
	return &repositoryImpl{
		Repository:  gRepo.NewRepository[model.LedgerEntry](model.EntityName, model.TableName, model.FieldBookingID, db, otel),
		adjustments: gRepo.NewRepository[model.LedgerAdjustment](model.AdjustmentEntityName, model.AdjustmentTableName, model.FieldID, db, otel),
		payouts:     gRepo.NewRepository[model.Payout](model.PayoutEntityName, model.PayoutTableName, model.FieldID, db, otel),
		otel:        otel,
	}
}

func (r *repositoryImpl) InsertIfAbsent(ctx context.Context, entry model.LedgerEntry) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.InsertIfAbsent")
	defer scope.End()

	placeholders := make([]string, 0, len(r.InsertColumns))
	for _, col := range r.InsertColumns {
		placeholders = append(placeholders, ":"+col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		model.TableName, strings.Join(r.InsertColumns, ", "), strings.Join(placeholders, ", "), model.FieldBookingID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := sqlx.NamedExecContext(ctx, r.Executor(ctx), query, entry)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

func (r *repositoryImpl) MaturedCandidates(ctx context.Context, now time.Time, limit int) (res []model.LedgerEntry, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.MaturedCandidates")
	defer scope.End()

	query := fmt.Sprintf(`SELECT * FROM %s
		WHERE bucket = $1 AND frozen = FALSE AND hold_until <= $2
		ORDER BY hold_until ASC, booking_id ASC
		LIMIT $3`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res = []model.LedgerEntry{}
	if err = sqlx.SelectContext(ctx, r.Reader(ctx), &res, query, model.BucketPending, now, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list matured ledger entries: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) MarkPaid(ctx context.Context, walkerID, payoutID, actor string, now time.Time) (res []model.LedgerEntry, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.MarkPaid")
	defer scope.End()

	query := fmt.Sprintf(`UPDATE %s
		SET bucket = $1, payout_id = $2, paid_at = $3, modified_at = $3, modified_by = $4
		WHERE walker_id = $5 AND bucket = $6 AND frozen = FALSE
		RETURNING *`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res = []model.LedgerEntry{}

	err = sqlx.SelectContext(ctx, r.Executor(ctx), &res, query,
		model.BucketPaid, payoutID, now, actor, walkerID, model.BucketAvailable)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to mark ledger entries paid: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) WalkersWithAvailable(ctx context.Context, limit int) (res []string, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.WalkersWithAvailable")
	defer scope.End()

	query := fmt.Sprintf(`SELECT DISTINCT walker_id FROM %s
		WHERE bucket = $1 AND frozen = FALSE
		ORDER BY walker_id
		LIMIT $2`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res = []string{}
	if err = sqlx.SelectContext(ctx, r.Reader(ctx), &res, query, model.BucketAvailable, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list walkers with available earnings: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) InsertAdjustment(ctx context.Context, adjustment model.LedgerAdjustment) error {
	return r.adjustments.Insert(ctx, adjustment)
}

func (r *repositoryImpl) Adjustments(ctx context.Context, bookingID string) ([]model.LedgerAdjustment, error) {
	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}
	filter := gDto.FilterGroup{Filters: []any{gDto.Filter{
		Field:    model.FieldBookingID,
		Value:    bookingID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.AdjustmentTableName,
	}}}

	return r.adjustments.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) InsertPayout(ctx context.Context, payout model.Payout) error {
	return r.payouts.Insert(ctx, payout)
}

func (r *repositoryImpl) SettlePayout(ctx context.Context, payoutID string, total money.Amount, entryCount int) error {
	filter := gDto.FilterGroup{Filters: []any{gDto.Filter{
		Field:    model.FieldID,
		Value:    payoutID,
		Operator: gDto.FilterOperatorEq,
	}}}

	return r.payouts.Update(ctx, map[string]any{
		model.FieldTotalAmount: total,
		model.FieldEntryCount:  entryCount,
	}, filter)
}

func (r *repositoryImpl) BucketTotals(ctx context.Context, walkerID string) (res []model.BucketTotal, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.BucketTotals")
	defer scope.End()

	query := fmt.Sprintf(`SELECT bucket, COALESCE(SUM(net_amount + adjustment_amount), 0) AS total
		FROM %s
		WHERE walker_id = $1 AND bucket <> $2
		GROUP BY bucket`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res = []model.BucketTotal{}
	if err = sqlx.SelectContext(ctx, r.Reader(ctx), &res, query, walkerID, model.BucketNone); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to aggregate ledger buckets: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) MonthlyEarnings(ctx context.Context, walkerID string, since time.Time) (res []model.MonthlyEarning, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.MonthlyEarnings")
	defer scope.End()

	query := fmt.Sprintf(`SELECT to_char(date_trunc('month', completed_at), 'YYYY-MM') AS month,
			COALESCE(SUM(net_amount + adjustment_amount), 0) AS net
		FROM %s
		WHERE walker_id = $1 AND completed_at >= $2 AND bucket IN ($3, $4, $5)
		GROUP BY 1
		ORDER BY 1`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res = []model.MonthlyEarning{}

	err = sqlx.SelectContext(ctx, r.Reader(ctx), &res, query,
		walkerID, since, model.BucketPending, model.BucketAvailable, model.BucketPaid)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to aggregate monthly earnings: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) BackfillCandidates(ctx context.Context, limit int) (res []model.BackfillCandidate, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.BackfillCandidates")
	defer scope.End()

	query := fmt.Sprintf(`SELECT b.id AS booking_id, b.walker_id, b.gross_amount, b.completed_at
		FROM %s b
		LEFT JOIN %s l ON l.booking_id = b.id
		WHERE b.status = $1 AND b.completed_at IS NOT NULL AND l.booking_id IS NULL
		ORDER BY b.completed_at ASC, b.id ASC
		LIMIT $2`, bookingModel.TableName, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res = []model.BackfillCandidate{}
	if err = sqlx.SelectContext(ctx, r.Reader(ctx), &res, query, bookingModel.StatusCompleted, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list backfill candidates: %w", err)
	}

	return res, nil
}
