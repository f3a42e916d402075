package repository

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest is a normalized page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page and limit into their valid ranges.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Offset derives the row offset of the requested page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the envelope returned with every paged read.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalRecords int64 `json:"total_records"`
	Limit        int   `json:"limit"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// NewPagination derives the envelope from a page request and the total count.
// A page past the end is not an error; it simply has no next page. An empty
// result set still reports one (empty) page.
func NewPagination(req PageRequest, total int64) Pagination {
	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Pagination{
		CurrentPage:  req.Page,
		TotalPages:   totalPages,
		TotalRecords: total,
		Limit:        req.Limit,
		HasNext:      req.Page < totalPages,
		HasPrev:      req.Page > 1,
	}
}
