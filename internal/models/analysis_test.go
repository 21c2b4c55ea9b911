package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToolResultOK(t *testing.T) {
	var nilResult *ToolResult
	assert.False(t, nilResult.OK())
	assert.False(t, FailedResult(ToolPriceHistory, "AAPL", "down").OK())
	assert.False(t, SkippedResult(ToolRiskMetrics, "AAPL", "dep").OK())
	assert.True(t, (&ToolResult{Status: StatusOK}).OK())
}

func TestClosePrices(t *testing.T) {
	bars := []*MarketData{
		{Close: decimal.NewFromFloat(101.5)},
		{Close: decimal.NewFromFloat(99.25)},
	}
	assert.Equal(t, []float64{101.5, 99.25}, ClosePrices(bars))
	assert.Empty(t, ClosePrices(nil))
}
