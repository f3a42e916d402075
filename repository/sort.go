package repository

import "strings"

// SortDirection is a whitelisted ordering direction.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Sort is a safe ordering clause. Key is always one of the whitelisted
// column literals, never text echoed from the client. Renderers append an
// id ASC tiebreak so pagination stays stable across equal keys.
type Sort struct {
	Key       string
	Direction SortDirection
}

var sortableColumns = map[string]string{
	ColName:        ColName,
	ColContactName: ColContactName,
	ColCompany:     ColCompany,
	ColStage:       ColStage,
	ColValue:       ColValue,
	ColCreatedAt:   ColCreatedAt,
	ColCloseDate:   ColCloseDate,
}

// NewSort maps client-supplied sort parameters onto the whitelist. Unknown
// keys fall back to created_at, unknown directions to DESC.
func NewSort(key, direction string) Sort {
	col, ok := sortableColumns[key]
	if !ok {
		col = ColCreatedAt
	}

	dir := SortDesc
	if strings.EqualFold(direction, string(SortAsc)) {
		dir = SortAsc
	}

	return Sort{Key: col, Direction: dir}
}

// DefaultSort orders by creation time, newest first.
func DefaultSort() Sort {
	return Sort{Key: ColCreatedAt, Direction: SortDesc}
}
