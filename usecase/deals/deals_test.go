package deals

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealdesk/backend/domain"
	"github.com/dealdesk/backend/repository"
	"github.com/dealdesk/backend/repository/memory"
)

func newUseCase(t *testing.T) *UseCase {
	t.Helper()

	repo := memory.NewDealRepository()
	uc := New(repo, zap.NewNop())
	ctx := context.Background()

	seeds := []domain.DealDraft{
		{Name: "Enterprise License", ContactName: "John Smith", Company: "TechCorp", Stage: domain.StageWon, Value: decimal.NewFromInt(50000)},
		{Name: "Cloud Migration", ContactName: "Sarah Johnson", Company: "Global Solutions", Stage: domain.StageInProgress, Value: decimal.NewFromInt(125000)},
		{Name: "Mobile App", ContactName: "Mike Chen", Company: "StartupXYZ", Stage: domain.StageNew, Value: decimal.NewFromInt(75000)},
		{Name: "Analytics Platform", ContactName: "Emily Davis", Company: "DataFlow", Stage: domain.StageLost, Value: decimal.NewFromInt(200000)},
		{Name: "Security Audit", ContactName: "Robert Wilson", Company: "SecureNet", Stage: domain.StageInProgress, Value: decimal.NewFromInt(45000)},
	}
	for _, d := range seeds {
		_, err := uc.Create(ctx, d)
		require.NoError(t, err)
	}
	return uc
}

func TestListDefaults(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{})
	require.NoError(t, err)

	assert.Len(t, result.Deals, 5)
	assert.Equal(t, 1, result.Pagination.CurrentPage)
	assert.Equal(t, repository.DefaultLimit, result.Pagination.Limit)
	assert.Equal(t, int64(5), result.Pagination.TotalRecords)
	assert.Equal(t, repository.ColCreatedAt, result.Sorting.SortBy)
	assert.Equal(t, "DESC", result.Sorting.SortOrder)
	assert.Equal(t, int64(5), result.Statistics.TotalDeals)
}

func TestListSearchFiltersAcrossColumns(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{Search: "johnson"})
	require.NoError(t, err)

	require.Len(t, result.Deals, 1)
	assert.Equal(t, "Cloud Migration", result.Deals[0].Name)
	assert.Equal(t, "johnson", result.Filters.Search)
}

func TestListStageFilter(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{Stage: "In Progress"})
	require.NoError(t, err)

	assert.Len(t, result.Deals, 2)
	assert.Equal(t, int64(2), result.Statistics.TotalDeals)
	assert.Equal(t, int64(2), result.Statistics.InProgressDeals)
}

func TestListStageAllMeansNoConstraint(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{Stage: "all"})
	require.NoError(t, err)
	assert.Len(t, result.Deals, 5)
}

func TestListInvalidStage(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.List(context.Background(), ListRequest{Stage: "Closed"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
}

func TestListInvalidNumericFilter(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.List(context.Background(), ListRequest{MinValue: "lots"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))

	_, err = uc.List(context.Background(), ListRequest{MaxValue: "1e"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
}

func TestListInvalidDateFilter(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.List(context.Background(), ListRequest{StartDate: "01/02/2024"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))

	_, err = uc.List(context.Background(), ListRequest{EndDate: "yesterday"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
}

func TestListValueRange(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{MinValue: "50000", MaxValue: "130000"})
	require.NoError(t, err)

	assert.Len(t, result.Deals, 3)
	assert.Equal(t, int64(3), result.Statistics.TotalDeals)
}

func TestListEndDateIsInclusive(t *testing.T) {
	uc := newUseCase(t)
	today := time.Now().Format("2006-01-02")

	// Rows created today fall inside an endDate of today.
	result, err := uc.List(context.Background(), ListRequest{EndDate: today})
	require.NoError(t, err)
	assert.Len(t, result.Deals, 5)

	// A startDate after today excludes everything.
	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02")
	result, err = uc.List(context.Background(), ListRequest{StartDate: tomorrow})
	require.NoError(t, err)
	assert.Empty(t, result.Deals)
	assert.Equal(t, int64(0), result.Pagination.TotalRecords)
}

func TestListPagination(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{Page: "2", Limit: "2", SortBy: "value", SortOrder: "asc"})
	require.NoError(t, err)

	assert.Len(t, result.Deals, 2)
	assert.Equal(t, 2, result.Pagination.CurrentPage)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.Equal(t, int64(5), result.Pagination.TotalRecords)
	assert.True(t, result.Pagination.HasNext)
	assert.True(t, result.Pagination.HasPrev)

	// Stats keep covering the whole filtered set, not the returned page.
	assert.Equal(t, int64(5), result.Statistics.TotalDeals)
}

func TestListPagePastEnd(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{Page: "9", Limit: "10"})
	require.NoError(t, err)

	assert.Empty(t, result.Deals)
	assert.Equal(t, 9, result.Pagination.CurrentPage)
	assert.Equal(t, int64(5), result.Pagination.TotalRecords)
	assert.False(t, result.Pagination.HasNext)
}

func TestListMalformedPagingFallsBack(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{Page: "abc", Limit: "-3"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pagination.CurrentPage)
	assert.Equal(t, repository.DefaultLimit, result.Pagination.Limit)
}

func TestListSortWhitelist(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{SortBy: "value; DROP TABLE deals", SortOrder: "up"})
	require.NoError(t, err)

	assert.Equal(t, repository.ColCreatedAt, result.Sorting.SortBy)
	assert.Equal(t, "DESC", result.Sorting.SortOrder)
}

func TestListSortByValueAscending(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), ListRequest{SortBy: "value", SortOrder: "asc", Limit: "100"})
	require.NoError(t, err)

	require.Len(t, result.Deals, 5)
	for i := 1; i < len(result.Deals); i++ {
		assert.True(t, result.Deals[i-1].Value.LessThanOrEqual(result.Deals[i].Value))
	}
}

func TestCreateValidatesDraft(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Create(context.Background(), domain.DealDraft{
		Name:  "No contact",
		Stage: domain.StageNew,
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))

	_, err = uc.Create(context.Background(), domain.DealDraft{
		Name:        "Negative",
		ContactName: "Ann",
		Company:     "Acme",
		Stage:       domain.StageNew,
		Value:       decimal.NewFromInt(-1),
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
}

func TestGetUpdateDeleteRoundTrip(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	deal, err := uc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Enterprise License", deal.Name)

	updated, err := uc.Update(ctx, 1, domain.DealDraft{
		Name:        "Enterprise License v2",
		ContactName: "John Smith",
		Company:     "TechCorp",
		Stage:       domain.StageWon,
		Value:       decimal.NewFromInt(55000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Enterprise License v2", updated.Name)
	assert.Equal(t, deal.CreatedAt, updated.CreatedAt)

	require.NoError(t, uc.Delete(ctx, 1))
	_, err = uc.Get(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrDealNotFound)
}

func TestUpdateMissingDeal(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Update(context.Background(), 999, domain.DealDraft{
		Name:        "Ghost",
		ContactName: "Nobody",
		Company:     "Nowhere",
		Stage:       domain.StageNew,
	})
	assert.ErrorIs(t, err, domain.ErrDealNotFound)
}

func TestSummaryCoversEverything(t *testing.T) {
	uc := newUseCase(t)

	stats, err := uc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalDeals)
	assert.True(t, stats.StageCountsConsistent())
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(495000)))
	require.True(t, stats.AvgValue.Valid)
	assert.True(t, stats.AvgValue.Decimal.Equal(decimal.NewFromInt(99000)))
}
