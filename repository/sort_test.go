package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSortWhitelistsKeys(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		direction string
		want      Sort
	}{
		{"known key asc", "value", "asc", Sort{Key: ColValue, Direction: SortAsc}},
		{"known key upper asc", "name", "ASC", Sort{Key: ColName, Direction: SortAsc}},
		{"known key desc", "company", "desc", Sort{Key: ColCompany, Direction: SortDesc}},
		{"unknown key falls back", "evil; DROP TABLE deals", "asc", Sort{Key: ColCreatedAt, Direction: SortAsc}},
		{"unknown direction falls back", "stage", "sideways", Sort{Key: ColStage, Direction: SortDesc}},
		{"empty input", "", "", Sort{Key: ColCreatedAt, Direction: SortDesc}},
		{"id is not sortable", "id", "asc", Sort{Key: ColCreatedAt, Direction: SortAsc}},
		{"description is not sortable", "description", "asc", Sort{Key: ColCreatedAt, Direction: SortAsc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSort(tt.key, tt.direction))
		})
	}
}

func TestDefaultSort(t *testing.T) {
	assert.Equal(t, Sort{Key: ColCreatedAt, Direction: SortDesc}, DefaultSort())
}
