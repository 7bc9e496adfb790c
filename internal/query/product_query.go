package query

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortOrder selects how a product listing is ordered.
type SortOrder int

const (
	// SortNewest orders by creation time, newest first.
	SortNewest SortOrder = iota
	// SortRelevance orders by descending text relevance.
	SortRelevance
)

func (s SortOrder) String() string {
	if s == SortRelevance {
		return "relevance"
	}
	return "createdAt desc"
}

// Filter selects products. Zero fields do not constrain the result.
type Filter struct {
	Category string
	InStock  *bool
	Search   string
}

// IsZero reports whether the filter matches every product.
func (f Filter) IsZero() bool {
	return f.Category == "" && f.InStock == nil && f.Search == ""
}

// ProductQuery is a filtered, sorted and paginated product listing.
type ProductQuery struct {
	Filter Filter
	Page   int
	Limit  int
	Offset int
	Sort   SortOrder
}

// Pages is the number of pages needed to show total items.
func (q ProductQuery) Pages(total int64) int {
	if q.Limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(q.Limit)))
}

// Params are the raw listing query parameters. InStock is nil when the
// parameter was absent.
type Params struct {
	Category string
	InStock  *string
	Search   string
	Page     string
	Limit    string
}

// ParamsFromMap reads listing parameters from a decoded query string.
func ParamsFromMap(values map[string]string) Params {
	p := Params{
		Category: values["category"],
		Search:   values["search"],
		Page:     values["page"],
		Limit:    values["limit"],
	}
	if v, ok := values["inStock"]; ok {
		p.InStock = &v
	}
	return p
}

// Build turns listing parameters into a ProductQuery. Missing, non-numeric
// or non-positive page and limit fall back to the defaults; limit is capped
// at MaxLimit. A page whose offset would overflow int also falls back.
func Build(p Params) ProductQuery {
	var f Filter
	if p.Category != "" {
		f.Category = p.Category
	}
	if p.InStock != nil {
		inStock := *p.InStock == "true"
		f.InStock = &inStock
	}
	f.Search = strings.TrimSpace(p.Search)

	page := positiveInt(p.Page, DefaultPage)
	limit := positiveInt(p.Limit, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page > math.MaxInt/limit {
		page = DefaultPage
	}

	sort := SortNewest
	if f.Search != "" {
		sort = SortRelevance
	}

	return ProductQuery{
		Filter: f,
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Sort:   sort,
	}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
