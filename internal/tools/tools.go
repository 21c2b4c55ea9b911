package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/ryanwei/FolioGo/internal/config"
	"github.com/ryanwei/FolioGo/internal/engine"
	"github.com/ryanwei/FolioGo/internal/models"
)

// NewRegistry wires the four analysis tools against the given providers.
func NewRegistry(cfg *config.Config, prices PriceProvider, news NewsProvider) *Registry {
	r := &Registry{
		order: []models.ToolKind{
			models.ToolPriceHistory,
			models.ToolRiskMetrics,
			models.ToolForecastEnsemble,
			models.ToolSentimentScore,
		},
		tools: map[models.ToolKind]*Tool{},
	}

	r.tools[models.ToolPriceHistory] = &Tool{
		Kind: models.ToolPriceHistory,
		Desc: "Fetch daily price history for a ticker.",
		run: func(ctx context.Context, ticker string, _ StateView) *models.ToolResult {
			bars, err := prices.Window(ctx, ticker, cfg.LookbackDays)
			if err != nil {
				return models.FailedResult(models.ToolPriceHistory, ticker, err.Error())
			}
			return &models.ToolResult{
				Kind:     models.ToolPriceHistory,
				Ticker:   ticker,
				Status:   models.StatusOK,
				Prices:   bars,
				Produced: time.Now(),
			}
		},
	}

	r.tools[models.ToolRiskMetrics] = &Tool{
		Kind:      models.ToolRiskMetrics,
		Desc:      "Compute Sharpe ratio, beta, volatility and value-at-risk from price history.",
		DependsOn: []models.ToolKind{models.ToolPriceHistory},
		run: func(ctx context.Context, ticker string, view StateView) *models.ToolResult {
			history, _ := view.Result(ticker, models.ToolPriceHistory)

			bench, err := prices.Window(ctx, cfg.BenchmarkSymbol, cfg.LookbackDays)
			if err != nil {
				return models.FailedResult(models.ToolRiskMetrics, ticker,
					fmt.Sprintf("benchmark %s unavailable: %v", cfg.BenchmarkSymbol, err))
			}

			risk, err := engine.ComputeRisk(models.ClosePrices(history.Prices), models.ClosePrices(bench))
			if err != nil {
				return models.FailedResult(models.ToolRiskMetrics, ticker, err.Error())
			}
			return &models.ToolResult{
				Kind:     models.ToolRiskMetrics,
				Ticker:   ticker,
				Status:   models.StatusOK,
				Risk:     risk,
				Produced: time.Now(),
			}
		},
	}

	r.tools[models.ToolForecastEnsemble] = &Tool{
		Kind:      models.ToolForecastEnsemble,
		Desc:      "Produce an ensemble price forecast with confidence bounds from price history.",
		DependsOn: []models.ToolKind{models.ToolPriceHistory},
		run: func(ctx context.Context, ticker string, view StateView) *models.ToolResult {
			history, _ := view.Result(ticker, models.ToolPriceHistory)

			forecast, err := engine.Forecast(models.ClosePrices(history.Prices), cfg.ForecastDays)
			if err != nil {
				return models.FailedResult(models.ToolForecastEnsemble, ticker, err.Error())
			}
			return &models.ToolResult{
				Kind:     models.ToolForecastEnsemble,
				Ticker:   ticker,
				Status:   models.StatusOK,
				Forecast: forecast,
				Produced: time.Now(),
			}
		},
	}

	r.tools[models.ToolSentimentScore] = &Tool{
		Kind: models.ToolSentimentScore,
		Desc: "Score recent news sentiment for a ticker.",
		run: func(ctx context.Context, ticker string, _ StateView) *models.ToolResult {
			articles, err := news.CompanyNews(ctx, ticker, cfg.SentimentWindowDays, cfg.MaxNewsArticles)
			if err != nil {
				return models.FailedResult(models.ToolSentimentScore, ticker, err.Error())
			}
			return &models.ToolResult{
				Kind:      models.ToolSentimentScore,
				Ticker:    ticker,
				Status:    models.StatusOK,
				Sentiment: engine.ScoreHeadlines(articles),
				Produced:  time.Now(),
			}
		},
	}

	return r
}
