package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequestClamps(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        PageRequest
	}{
		{"valid", 3, 25, PageRequest{Page: 3, Limit: 25}},
		{"zero page", 0, 10, PageRequest{Page: 1, Limit: 10}},
		{"negative page", -5, 10, PageRequest{Page: 1, Limit: 10}},
		{"zero limit", 2, 0, PageRequest{Page: 2, Limit: DefaultLimit}},
		{"limit over cap", 1, 5000, PageRequest{Page: 1, Limit: MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPageRequest(tt.page, tt.limit))
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, PageRequest{Page: 5, Limit: 10}.Offset())
	assert.Equal(t, 50, PageRequest{Page: 3, Limit: 25}.Offset())
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		req   PageRequest
		total int64
		want  Pagination
	}{
		{
			"first of many",
			PageRequest{Page: 1, Limit: 10}, 35,
			Pagination{CurrentPage: 1, TotalPages: 4, TotalRecords: 35, Limit: 10, HasNext: true, HasPrev: false},
		},
		{
			"middle page",
			PageRequest{Page: 2, Limit: 10}, 35,
			Pagination{CurrentPage: 2, TotalPages: 4, TotalRecords: 35, Limit: 10, HasNext: true, HasPrev: true},
		},
		{
			"last page",
			PageRequest{Page: 4, Limit: 10}, 35,
			Pagination{CurrentPage: 4, TotalPages: 4, TotalRecords: 35, Limit: 10, HasNext: false, HasPrev: true},
		},
		{
			"exact multiple",
			PageRequest{Page: 1, Limit: 10}, 30,
			Pagination{CurrentPage: 1, TotalPages: 3, TotalRecords: 30, Limit: 10, HasNext: true, HasPrev: false},
		},
		{
			"empty set still has one page",
			PageRequest{Page: 1, Limit: 10}, 0,
			Pagination{CurrentPage: 1, TotalPages: 1, TotalRecords: 0, Limit: 10, HasNext: false, HasPrev: false},
		},
		{
			"page past the end",
			PageRequest{Page: 9, Limit: 10}, 35,
			Pagination{CurrentPage: 9, TotalPages: 4, TotalRecords: 35, Limit: 10, HasNext: false, HasPrev: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.req, tt.total))
		})
	}
}
