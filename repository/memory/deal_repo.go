// Package memory provides an in-memory DealRepository with the same
// observable semantics as the Postgres implementation. It backs the
// coordinator property tests and local development without a store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealdesk/backend/domain"
	"github.com/dealdesk/backend/repository"
)

type DealRepository struct {
	mu    sync.RWMutex
	seq   int64
	deals map[int64]domain.Deal
}

func NewDealRepository() *DealRepository {
	return &DealRepository{deals: make(map[int64]domain.Deal)}
}

func (r *DealRepository) Insert(ctx context.Context, draft domain.DealDraft) (*domain.Deal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	deal := domain.Deal{
		ID:          r.seq,
		Name:        draft.Name,
		ContactName: draft.ContactName,
		Company:     draft.Company,
		Stage:       draft.Stage,
		Value:       draft.Value,
		CreatedAt:   time.Now().UTC(),
		CloseDate:   draft.CloseDate,
		Description: draft.Description,
	}
	r.deals[deal.ID] = deal
	return &deal, nil
}

func (r *DealRepository) Get(ctx context.Context, id int64) (*domain.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deal, ok := r.deals[id]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	return &deal, nil
}

func (r *DealRepository) Update(ctx context.Context, id int64, draft domain.DealDraft) (*domain.Deal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.deals[id]
	if !ok {
		return nil, domain.ErrDealNotFound
	}

	updated := domain.Deal{
		ID:          existing.ID,
		Name:        draft.Name,
		ContactName: draft.ContactName,
		Company:     draft.Company,
		Stage:       draft.Stage,
		Value:       draft.Value,
		CreatedAt:   existing.CreatedAt,
		CloseDate:   draft.CloseDate,
		Description: draft.Description,
	}
	r.deals[id] = updated
	return &updated, nil
}

func (r *DealRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.deals[id]; !ok {
		return domain.ErrDealNotFound
	}
	delete(r.deals, id)
	return nil
}

func (r *DealRepository) Page(ctx context.Context, pred repository.Predicate, s repository.Sort, offset, limit int) ([]domain.Deal, error) {
	matched, err := r.matched(pred)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], s)
	})

	if offset >= len(matched) {
		return []domain.Deal{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *DealRepository) Count(ctx context.Context, pred repository.Predicate) (int64, error) {
	matched, err := r.matched(pred)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *DealRepository) Aggregate(ctx context.Context, pred repository.Predicate) (*domain.Stats, error) {
	matched, err := r.matched(pred)
	if err != nil {
		return nil, err
	}

	stats := domain.Stats{TotalDeals: int64(len(matched))}
	for i, deal := range matched {
		switch deal.Stage {
		case domain.StageNew:
			stats.NewDeals++
		case domain.StageInProgress:
			stats.InProgressDeals++
		case domain.StageWon:
			stats.WonDeals++
		case domain.StageLost:
			stats.LostDeals++
		}
		stats.TotalValue = stats.TotalValue.Add(deal.Value)
		if i == 0 || deal.Value.LessThan(stats.MinValue.Decimal) {
			stats.MinValue = decimal.NullDecimal{Decimal: deal.Value, Valid: true}
		}
		if i == 0 || deal.Value.GreaterThan(stats.MaxValue.Decimal) {
			stats.MaxValue = decimal.NullDecimal{Decimal: deal.Value, Valid: true}
		}
	}
	if stats.TotalDeals > 0 {
		avg := stats.TotalValue.Div(decimal.NewFromInt(stats.TotalDeals)).Round(2)
		stats.AvgValue = decimal.NullDecimal{Decimal: avg, Valid: true}
	}
	return &stats, nil
}

func (r *DealRepository) matched(pred repository.Predicate) ([]domain.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Deal, 0, len(r.deals))
	for _, deal := range r.deals {
		ok, err := eval(pred, deal)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, deal)
		}
	}
	return matched, nil
}

func eval(p repository.Predicate, deal domain.Deal) (bool, error) {
	switch p.Op {
	case repository.OpTrue:
		return true, nil
	case repository.OpAnd:
		for _, child := range p.Args {
			ok, err := eval(child, deal)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case repository.OpOr:
		for _, child := range p.Args {
			ok, err := eval(child, deal)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case repository.OpEq, repository.OpGe, repository.OpLe:
		cmp, err := compareColumn(p.Column, p.Value, deal)
		if err != nil {
			return false, err
		}
		switch p.Op {
		case repository.OpEq:
			return cmp == 0, nil
		case repository.OpGe:
			return cmp >= 0, nil
		default:
			return cmp <= 0, nil
		}
	case repository.OpLike:
		term, ok := p.Value.(string)
		if !ok {
			return false, fmt.Errorf("like predicate on %s: value is %T, not string", p.Column, p.Value)
		}
		field, err := textColumn(p.Column, deal)
		if err != nil {
			return false, err
		}
		return strings.Contains(strings.ToLower(field), strings.ToLower(term)), nil
	default:
		return false, fmt.Errorf("unknown predicate op %d", p.Op)
	}
}

// compareColumn returns the sign of column <=> bound value.
func compareColumn(column string, bound any, deal domain.Deal) (int, error) {
	switch column {
	case repository.ColStage:
		want, ok := bound.(string)
		if !ok {
			return 0, fmt.Errorf("stage predicate: value is %T, not string", bound)
		}
		return strings.Compare(string(deal.Stage), want), nil
	case repository.ColValue:
		want, ok := bound.(decimal.Decimal)
		if !ok {
			return 0, fmt.Errorf("value predicate: value is %T, not decimal", bound)
		}
		return deal.Value.Cmp(want), nil
	case repository.ColCreatedAt:
		want, ok := bound.(time.Time)
		if !ok {
			return 0, fmt.Errorf("created_at predicate: value is %T, not time", bound)
		}
		return deal.CreatedAt.Compare(want), nil
	default:
		field, err := textColumn(column, deal)
		if err != nil {
			return 0, err
		}
		want, ok := bound.(string)
		if !ok {
			return 0, fmt.Errorf("%s predicate: value is %T, not string", column, bound)
		}
		return strings.Compare(field, want), nil
	}
}

func textColumn(column string, deal domain.Deal) (string, error) {
	switch column {
	case repository.ColName:
		return deal.Name, nil
	case repository.ColContactName:
		return deal.ContactName, nil
	case repository.ColCompany:
		return deal.Company, nil
	case repository.ColStage:
		return string(deal.Stage), nil
	default:
		return "", fmt.Errorf("column %s is not text", column)
	}
}

// less orders deals by the sort key with an id ASC tiebreak. NULL close
// dates sort as the largest value, matching Postgres defaults.
func less(a, b domain.Deal, s repository.Sort) bool {
	cmp := compareByKey(a, b, s.Key)
	if s.Direction == repository.SortDesc {
		cmp = -cmp
	}
	if cmp != 0 {
		return cmp < 0
	}
	return a.ID < b.ID
}

func compareByKey(a, b domain.Deal, key string) int {
	switch key {
	case repository.ColName:
		return strings.Compare(a.Name, b.Name)
	case repository.ColContactName:
		return strings.Compare(a.ContactName, b.ContactName)
	case repository.ColCompany:
		return strings.Compare(a.Company, b.Company)
	case repository.ColStage:
		return strings.Compare(string(a.Stage), string(b.Stage))
	case repository.ColValue:
		return a.Value.Cmp(b.Value)
	case repository.ColCloseDate:
		return compareCloseDates(a.CloseDate, b.CloseDate)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareCloseDates(a, b *domain.Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Time.Compare(b.Time)
	}
}
