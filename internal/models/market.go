package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData represents one daily price bar for a symbol.
type MarketData struct {
	Symbol   string          `json:"symbol"`
	Date     time.Time       `json:"date"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	AdjClose decimal.Decimal `json:"adj_close"`
	Volume   int64           `json:"volume"`
}

// NewsArticle represents a news article used as sentiment input.
type NewsArticle struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// ClosePrices extracts the close column as float64 in bar order.
func ClosePrices(bars []*MarketData) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		v, _ := b.Close.Float64()
		out = append(out, v)
	}
	return out
}
