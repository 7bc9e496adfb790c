package models

import "encoding/json"

// CategoryGroup is the raw per-category aggregation returned by storage.
type CategoryGroup struct {
	Category     string  `bson:"_id"`
	Count        int64   `bson:"count"`
	PriceSum     float64 `bson:"priceSum"`
	InStockCount int64   `bson:"inStockCount"`
}

// SummaryGroup is the raw aggregation over the whole collection.
type SummaryGroup struct {
	TotalProducts   int64   `bson:"totalProducts"`
	TotalValue      float64 `bson:"totalValue"`
	InStockProducts int64   `bson:"inStockProducts"`
}

// CategoryStats is one row of the by-category breakdown.
type CategoryStats struct {
	Category        string  `json:"category"`
	Count           int64   `json:"count"`
	AveragePrice    float64 `json:"averagePrice"`
	TotalValue      float64 `json:"totalValue"`
	InStockCount    int64   `json:"inStockCount"`
	OutOfStockCount int64   `json:"outOfStockCount"`
}

// Summary is the global view across all products.
type Summary struct {
	TotalProducts   int64   `json:"totalProducts"`
	TotalValue      float64 `json:"totalValue"`
	InStockProducts int64   `json:"inStockProducts"`
}

// MarshalJSON encodes an empty collection's summary as {}.
func (s Summary) MarshalJSON() ([]byte, error) {
	if s == (Summary{}) {
		return []byte("{}"), nil
	}
	type plain Summary
	return json.Marshal(plain(s))
}

// Stats is the response body of the statistics endpoint.
type Stats struct {
	ByCategory []CategoryStats `json:"byCategory"`
	Summary    Summary         `json:"summary"`
}
