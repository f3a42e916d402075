package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealdesk/backend/domain"
)

// Column names of the deals table, referenced by predicates and sorting.
// User input never reaches these identifiers; it is matched against them.
const (
	ColID          = "id"
	ColName        = "name"
	ColContactName = "contact_name"
	ColCompany     = "company"
	ColStage       = "stage"
	ColValue       = "value"
	ColCreatedAt   = "created_at"
	ColCloseDate   = "close_date"
	ColDescription = "description"
)

// ListQuery is a validated filter/sort/paginate request. Date bounds are
// already resolved to instants (start-of-day / end-of-day).
type ListQuery struct {
	Search    string
	Stage     domain.Stage // empty means no stage constraint
	MinValue  *decimal.Decimal
	MaxValue  *decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	Sort      Sort
	Page      PageRequest
}

// DealRepository is the persistence contract for deals. Every method borrows
// one pooled connection for exactly one statement and honors context
// cancellation by abandoning the in-flight call.
type DealRepository interface {
	Insert(ctx context.Context, draft domain.DealDraft) (*domain.Deal, error)
	Get(ctx context.Context, id int64) (*domain.Deal, error)
	Update(ctx context.Context, id int64, draft domain.DealDraft) (*domain.Deal, error)
	Delete(ctx context.Context, id int64) error

	Page(ctx context.Context, pred Predicate, sort Sort, offset, limit int) ([]domain.Deal, error)
	Count(ctx context.Context, pred Predicate) (int64, error)
	Aggregate(ctx context.Context, pred Predicate) (*domain.Stats, error)
}
