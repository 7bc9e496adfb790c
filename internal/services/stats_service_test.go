package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	groups := []models.CategoryGroup{
		{Category: "Sports", Count: 1, PriceSum: 100, InStockCount: 1},
		{Category: "Books", Count: 3, PriceSum: 10, InStockCount: 2},
		{Category: "Clothing", Count: 1, PriceSum: 19.999, InStockCount: 0},
	}
	summary := &models.SummaryGroup{TotalProducts: 5, TotalValue: 129.999, InStockProducts: 3}

	stats := services.Aggregate(groups, summary)

	require.Len(t, stats.ByCategory, 3)
	assert.Equal(t, models.CategoryStats{
		Category: "Books", Count: 3, AveragePrice: 3.33, TotalValue: 10, InStockCount: 2, OutOfStockCount: 1,
	}, stats.ByCategory[0])
	// Equal counts fall back to name order.
	assert.Equal(t, "Clothing", stats.ByCategory[1].Category)
	assert.Equal(t, 20.0, stats.ByCategory[1].TotalValue)
	assert.EqualValues(t, 1, stats.ByCategory[1].OutOfStockCount)
	assert.Equal(t, "Sports", stats.ByCategory[2].Category)

	// The summary keeps the raw sum.
	assert.Equal(t, models.Summary{TotalProducts: 5, TotalValue: 129.999, InStockProducts: 3}, stats.Summary)
}

func TestAggregate_RoundsHalfToEven(t *testing.T) {
	stats := services.Aggregate([]models.CategoryGroup{
		{Category: "Other", Count: 2, PriceSum: 0.25, InStockCount: 2},
	}, nil)

	assert.Equal(t, 0.12, stats.ByCategory[0].AveragePrice)
}

func TestAggregate_EmptyCollection(t *testing.T) {
	stats := services.Aggregate(nil, nil)

	assert.NotNil(t, stats.ByCategory)
	assert.Empty(t, stats.ByCategory)

	body, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"byCategory":[],"summary":{}}`, string(body))
}

func TestStatsService_Stats(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStatsService(mockRepo)

	mockRepo.On("GroupByCategory", mock.Anything).Return([]models.CategoryGroup{
		{Category: "Books", Count: 2, PriceSum: 15.5, InStockCount: 1},
	}, nil).Once()
	mockRepo.On("Summarize", mock.Anything).Return(&models.SummaryGroup{TotalProducts: 2, TotalValue: 15.5, InStockProducts: 1}, nil).Once()

	stats, err := service.Stats(context.Background())

	require.NoError(t, err)
	require.Len(t, stats.ByCategory, 1)
	assert.Equal(t, 7.75, stats.ByCategory[0].AveragePrice)
	assert.EqualValues(t, 2, stats.Summary.TotalProducts)
	mockRepo.AssertExpectations(t)
}

func TestStatsService_Stats_Error(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStatsService(mockRepo)

	mockRepo.On("GroupByCategory", mock.Anything).Return(nil, fmt.Errorf("aggregation failed")).Once()
	mockRepo.On("Summarize", mock.Anything).Return(nil, nil).Maybe()

	_, err := service.Stats(context.Background())
	assert.EqualError(t, err, "aggregation failed")
}
