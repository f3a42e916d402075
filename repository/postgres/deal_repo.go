package postgres

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealdesk/backend/domain"
	"github.com/dealdesk/backend/repository"
)

const dealsTable = "deals"

var dialect = goqu.Dialect("postgres")

var dealColumns = []any{
	repository.ColID,
	repository.ColName,
	repository.ColContactName,
	repository.ColCompany,
	repository.ColStage,
	repository.ColValue,
	repository.ColCreatedAt,
	repository.ColCloseDate,
	repository.ColDescription,
}

type dealRepository struct {
	pool *pgxpool.Pool
}

// NewDealRepository returns a Postgres-backed implementation of DealRepository.
func NewDealRepository(pool *pgxpool.Pool) repository.DealRepository {
	return &dealRepository{pool: pool}
}

func (r *dealRepository) Insert(ctx context.Context, draft domain.DealDraft) (*domain.Deal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	sqlStr, args, err := dialect.Insert(dealsTable).
		Prepared(true).
		Rows(draftRecord(draft)).
		Returning(dealColumns...).
		ToSQL()
	if err != nil {
		return nil, classify(err)
	}

	deal, err := scanDeal(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, classify(err)
	}
	return deal, nil
}

func (r *dealRepository) Get(ctx context.Context, id int64) (*domain.Deal, error) {
	sqlStr, args, err := dialect.From(dealsTable).
		Prepared(true).
		Select(dealColumns...).
		Where(goqu.C(repository.ColID).Eq(id)).
		ToSQL()
	if err != nil {
		return nil, classify(err)
	}

	deal, err := scanDeal(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, classify(err)
	}
	return deal, nil
}

func (r *dealRepository) Update(ctx context.Context, id int64, draft domain.DealDraft) (*domain.Deal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// A single UPDATE ... RETURNING both replaces the mutable fields and
	// distinguishes a missing row from a silent no-op. id and created_at
	// are never part of the SET list.
	sqlStr, args, err := dialect.Update(dealsTable).
		Prepared(true).
		Set(draftRecord(draft)).
		Where(goqu.C(repository.ColID).Eq(id)).
		Returning(dealColumns...).
		ToSQL()
	if err != nil {
		return nil, classify(err)
	}

	deal, err := scanDeal(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, classify(err)
	}
	return deal, nil
}

func (r *dealRepository) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := dialect.Delete(dealsTable).
		Prepared(true).
		Where(goqu.C(repository.ColID).Eq(id)).
		ToSQL()
	if err != nil {
		return classify(err)
	}

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

func (r *dealRepository) Page(ctx context.Context, pred repository.Predicate, sort repository.Sort, offset, limit int) ([]domain.Deal, error) {
	ds := dialect.From(dealsTable).
		Prepared(true).
		Select(dealColumns...)

	ds, err := applyPredicate(ds, pred)
	if err != nil {
		return nil, classify(err)
	}

	sqlStr, args, err := ds.
		Order(orderExpressions(sort)...).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, classify(err)
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0, limit)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, classify(err)
		}
		deals = append(deals, *deal)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return deals, nil
}

func (r *dealRepository) Count(ctx context.Context, pred repository.Predicate) (int64, error) {
	ds := dialect.From(dealsTable).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star()))

	ds, err := applyPredicate(ds, pred)
	if err != nil {
		return 0, classify(err)
	}

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return 0, classify(err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (r *dealRepository) Aggregate(ctx context.Context, pred repository.Predicate) (*domain.Stats, error) {
	// All value arithmetic stays in NUMERIC; the average is rounded to the
	// two fractional digits the column carries.
	ds := dialect.From(dealsTable).
		Prepared(true).
		Select(
			goqu.COUNT(goqu.Star()),
			goqu.COALESCE(goqu.SUM(stageCase(domain.StageNew)), goqu.V(0)),
			goqu.COALESCE(goqu.SUM(stageCase(domain.StageInProgress)), goqu.V(0)),
			goqu.COALESCE(goqu.SUM(stageCase(domain.StageWon)), goqu.V(0)),
			goqu.COALESCE(goqu.SUM(stageCase(domain.StageLost)), goqu.V(0)),
			goqu.COALESCE(goqu.SUM(goqu.C(repository.ColValue)), goqu.V(0)),
			goqu.L(`ROUND(AVG("value"), 2)`),
			goqu.MIN(goqu.C(repository.ColValue)),
			goqu.MAX(goqu.C(repository.ColValue)),
		)

	ds, err := applyPredicate(ds, pred)
	if err != nil {
		return nil, classify(err)
	}

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, classify(err)
	}

	var stats domain.Stats
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&stats.TotalDeals,
		&stats.NewDeals,
		&stats.InProgressDeals,
		&stats.WonDeals,
		&stats.LostDeals,
		&stats.TotalValue,
		&stats.AvgValue,
		&stats.MinValue,
		&stats.MaxValue,
	); err != nil {
		return nil, classify(err)
	}
	return &stats, nil
}

func applyPredicate(ds *goqu.SelectDataset, pred repository.Predicate) (*goqu.SelectDataset, error) {
	if pred.IsTrue() {
		return ds, nil
	}
	expr, err := renderPredicate(pred)
	if err != nil {
		return nil, err
	}
	return ds.Where(expr), nil
}

func stageCase(stage domain.Stage) exp.CaseExpression {
	return goqu.Case().
		When(goqu.C(repository.ColStage).Eq(string(stage)), goqu.V(1)).
		Else(goqu.V(0))
}

func draftRecord(draft domain.DealDraft) goqu.Record {
	var closeDate any
	if draft.CloseDate != nil {
		closeDate = draft.CloseDate.Time
	}
	var description any
	if draft.Description != nil {
		description = *draft.Description
	}
	return goqu.Record{
		repository.ColName:        draft.Name,
		repository.ColContactName: draft.ContactName,
		repository.ColCompany:     draft.Company,
		repository.ColStage:       string(draft.Stage),
		repository.ColValue:       draft.Value,
		repository.ColCloseDate:   closeDate,
		repository.ColDescription: description,
	}
}

func scanDeal(row interface {
	Scan(dest ...any) error
}) (*domain.Deal, error) {
	var (
		deal        domain.Deal
		stage       string
		closeDate   *time.Time
		description *string
	)

	if err := row.Scan(
		&deal.ID,
		&deal.Name,
		&deal.ContactName,
		&deal.Company,
		&stage,
		&deal.Value,
		&deal.CreatedAt,
		&closeDate,
		&description,
	); err != nil {
		return nil, err
	}

	deal.Stage = domain.Stage(stage)
	if closeDate != nil {
		deal.CloseDate = &domain.Date{Time: *closeDate}
	}
	deal.Description = description
	return &deal, nil
}
