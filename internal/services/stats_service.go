package services

import (
	"context"
	"sort"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// StatsService computes catalog statistics from two storage aggregations.
type StatsService struct {
	repo repositories.ProductRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(repo repositories.ProductRepository) *StatsService {
	return &StatsService{repo: repo}
}

// Stats returns the by-category breakdown and the global summary.
func (s *StatsService) Stats(ctx context.Context) (*models.Stats, error) {
	var (
		groups  []models.CategoryGroup
		summary *models.SummaryGroup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.repo.GroupByCategory(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.repo.Summarize(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := Aggregate(groups, summary)
	return &stats, nil
}

// Aggregate shapes raw aggregation rows. Per-category averages and totals are
// rounded to 2 decimals half-to-even and rows are ordered by count descending
// then name. The summary carries the raw sums.
func Aggregate(groups []models.CategoryGroup, summary *models.SummaryGroup) models.Stats {
	rows := make([]models.CategoryStats, 0, len(groups))
	for _, g := range groups {
		var avg float64
		if g.Count > 0 {
			avg = g.PriceSum / float64(g.Count)
		}
		rows = append(rows, models.CategoryStats{
			Category:        g.Category,
			Count:           g.Count,
			AveragePrice:    round2(avg),
			TotalValue:      round2(g.PriceSum),
			InStockCount:    g.InStockCount,
			OutOfStockCount: g.Count - g.InStockCount,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Category < rows[j].Category
	})

	var out models.Summary
	if summary != nil {
		out = models.Summary{
			TotalProducts:   summary.TotalProducts,
			TotalValue:      summary.TotalValue,
			InStockProducts: summary.InStockProducts,
		}
	}
	return models.Stats{ByCategory: rows, Summary: out}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
}
