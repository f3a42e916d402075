// Package deals coordinates list-queries and CRUD over the deal repository.
package deals

import (
	"context"

	"go.uber.org/zap"

	"github.com/dealdesk/backend/domain"
	"github.com/dealdesk/backend/repository"
)

type UseCase struct {
	deals  repository.DealRepository
	logger *zap.Logger
}

func New(deals repository.DealRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		deals:  deals,
		logger: logger,
	}
}

// ListResult is the compound answer to a list-query: the page of deals, the
// pagination envelope and the statistics of the whole filtered set.
type ListResult struct {
	Deals      []domain.Deal         `json:"deals"`
	Pagination repository.Pagination `json:"pagination"`
	Filters    Filters               `json:"filters"`
	Sorting    Sorting               `json:"sorting"`
	Statistics domain.Stats          `json:"statistics"`
}

// List answers a list-query with a consistent page + envelope + stats triple
// for one predicate. The three reads are not wrapped in a transaction;
// concurrent writers can skew them by at most the writes committed between
// the reads.
func (uc *UseCase) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	query, err := req.toQuery()
	if err != nil {
		return nil, err
	}
	pred := repository.BuildPredicate(query)

	total, err := uc.deals.Count(ctx, pred)
	if err != nil {
		return nil, err
	}
	pagination := repository.NewPagination(query.Page, total)

	page, err := uc.deals.Page(ctx, pred, query.Sort, query.Page.Offset(), query.Page.Limit)
	if err != nil {
		return nil, err
	}

	// Statistics cover the filtered set, not just the returned page.
	stats, err := uc.deals.Aggregate(ctx, pred)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Deals:      page,
		Pagination: pagination,
		Filters:    req.filters(),
		Sorting: Sorting{
			SortBy:    query.Sort.Key,
			SortOrder: string(query.Sort.Direction),
		},
		Statistics: *stats,
	}, nil
}

func (uc *UseCase) Get(ctx context.Context, id int64) (*domain.Deal, error) {
	return uc.deals.Get(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, draft domain.DealDraft) (*domain.Deal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	created, err := uc.deals.Insert(ctx, draft)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("deal created", zap.Int64("id", created.ID), zap.String("stage", string(created.Stage)))
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, id int64, draft domain.DealDraft) (*domain.Deal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	updated, err := uc.deals.Update(ctx, id, draft)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("deal updated", zap.Int64("id", id))
	return updated, nil
}

func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.deals.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("deal deleted", zap.Int64("id", id))
	return nil
}

// Summary computes the unfiltered statistics, the trivially-true special
// case of a list-query.
func (uc *UseCase) Summary(ctx context.Context) (*domain.Stats, error) {
	return uc.deals.Aggregate(ctx, repository.True())
}
