package query_test

import (
	"math"
	"strconv"
	"testing"

	"catalog/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Defaults(t *testing.T) {
	q := query.Build(query.Params{})

	assert.True(t, q.Filter.IsZero())
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, query.SortNewest, q.Sort)
}

func TestBuild_Offset(t *testing.T) {
	q := query.Build(query.Params{Page: "2", Limit: "10"})

	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 10, q.Offset)

	q = query.Build(query.Params{Page: "3", Limit: "7"})
	assert.Equal(t, 14, q.Offset)
}

func TestBuild_InvalidPaginationFallsBack(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"abc", "xyz", 1, 10},
		{"0", "0", 1, 10},
		{"-3", "-1", 1, 10},
		{"2.5", "1e3", 1, 10},
		{" 4 ", "5", 4, 5},
		{"1", "1000", 1, query.MaxLimit},
	}
	for _, tt := range tests {
		q := query.Build(query.Params{Page: tt.page, Limit: tt.limit})
		assert.Equal(t, tt.wantPage, q.Page, "page %q", tt.page)
		assert.Equal(t, tt.wantLimit, q.Limit, "limit %q", tt.limit)
		assert.Equal(t, (q.Page-1)*q.Limit, q.Offset)
	}
}

func TestBuild_HugePageFallsBack(t *testing.T) {
	q := query.Build(query.Params{Page: "922337203685477581", Limit: "100"})

	assert.Equal(t, query.DefaultPage, q.Page)
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, 0, q.Offset)

	maxPage := strconv.Itoa(math.MaxInt / 100)
	q = query.Build(query.Params{Page: maxPage, Limit: "100"})
	assert.Equal(t, math.MaxInt/100, q.Page)
	assert.GreaterOrEqual(t, q.Offset, 0)

	q = query.Build(query.Params{Page: strconv.Itoa(math.MaxInt)})
	assert.Equal(t, query.DefaultPage, q.Page)
	assert.Equal(t, 0, q.Offset)
}

func TestBuild_InStock(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"false", false},
		{"TRUE", false},
		{"1", false},
		{"", false},
	}
	for _, tt := range tests {
		raw := tt.raw
		q := query.Build(query.Params{InStock: &raw})
		require.NotNil(t, q.Filter.InStock, "inStock %q", tt.raw)
		assert.Equal(t, tt.want, *q.Filter.InStock, "inStock %q", tt.raw)
	}
}

func TestBuild_CategoryAndSearch(t *testing.T) {
	q := query.Build(query.Params{Category: "Books", Search: "  go programming "})

	assert.Equal(t, "Books", q.Filter.Category)
	assert.Equal(t, "go programming", q.Filter.Search)
	assert.Nil(t, q.Filter.InStock)
	assert.Equal(t, query.SortRelevance, q.Sort)
}

func TestParamsFromMap(t *testing.T) {
	p := query.ParamsFromMap(map[string]string{"category": "Books", "inStock": "", "page": "2"})

	assert.Equal(t, "Books", p.Category)
	require.NotNil(t, p.InStock)
	assert.Equal(t, "", *p.InStock)
	assert.Equal(t, "2", p.Page)

	assert.Nil(t, query.ParamsFromMap(map[string]string{}).InStock)
}

func TestPages(t *testing.T) {
	q := query.Build(query.Params{Limit: "2"})
	assert.Equal(t, 3, q.Pages(5))
	assert.Equal(t, 0, q.Pages(0))
	assert.Equal(t, 1, q.Pages(2))

	q = query.Build(query.Params{Limit: "10"})
	assert.Equal(t, 11, q.Pages(101))
}
