package deals

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealdesk/backend/domain"
	"github.com/dealdesk/backend/repository"
)

const dateLayout = "2006-01-02"

// ListRequest carries the raw query-string values of a list-query. Parsing
// and validation happen here so handlers stay thin and the coordinator is
// testable without HTTP.
type ListRequest struct {
	Search    string
	Stage     string
	MinValue  string
	MaxValue  string
	StartDate string
	EndDate   string
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
}

// Filters echoes the client-supplied filter values back in the response.
type Filters struct {
	Search    string `json:"search,omitempty"`
	Stage     string `json:"stage,omitempty"`
	MinValue  string `json:"minValue,omitempty"`
	MaxValue  string `json:"maxValue,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Sorting reports the ordering actually applied, after whitelisting.
type Sorting struct {
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

func (r ListRequest) filters() Filters {
	return Filters{
		Search:    r.Search,
		Stage:     r.Stage,
		MinValue:  r.MinValue,
		MaxValue:  r.MaxValue,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// toQuery validates the request and produces the typed query. Malformed
// numeric or date filters are VALIDATION errors; page and limit are merely
// clamped, matching the tolerant behavior of the dashboard.
func (r ListRequest) toQuery() (repository.ListQuery, error) {
	q := repository.ListQuery{
		Search: r.Search,
		Sort:   repository.NewSort(r.SortBy, r.SortOrder),
		Page: repository.NewPageRequest(
			atoiOr(r.Page, repository.DefaultPage),
			atoiOr(r.Limit, repository.DefaultLimit),
		),
	}

	if r.Stage != "" && r.Stage != "all" {
		stage := domain.Stage(r.Stage)
		if !stage.Valid() {
			return q, domain.NewValidationError("stage", "must be one of New, In Progress, Won, Lost, all")
		}
		q.Stage = stage
	}

	var err error
	if q.MinValue, err = parseDecimal("minValue", r.MinValue); err != nil {
		return q, err
	}
	if q.MaxValue, err = parseDecimal("maxValue", r.MaxValue); err != nil {
		return q, err
	}

	if r.StartDate != "" {
		day, err := parseDay("startDate", r.StartDate)
		if err != nil {
			return q, err
		}
		q.StartDate = &day
	}
	if r.EndDate != "" {
		day, err := parseDay("endDate", r.EndDate)
		if err != nil {
			return q, err
		}
		// Inclusive upper bound: end of that day in the server's local zone.
		end := day.Add(24*time.Hour - time.Millisecond)
		q.EndDate = &end
	}

	return q, nil
}

func parseDecimal(field, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a decimal number")
	}
	return &parsed, nil
}

func parseDay(field, value string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return day, nil
}

func atoiOr(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
