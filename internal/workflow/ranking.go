package workflow

import (
	"fmt"
	"sort"

	"github.com/ryanwei/FolioGo/internal/models"
)

// Scoring weights. Sharpe carries the risk-adjusted return signal, the
// forecast contributes its percentage move, sentiment its polarity.
const (
	weightSharpe    = 0.5
	weightForecast  = 0.1
	weightSentiment = 0.5
)

// Rank builds the ordered recommendation from whatever results the run
// gathered. Tickers without usable risk metrics are listed but excluded
// from scoring. Entries sort by descending score, ties broken by ticker.
func Rank(st *AnalysisState) models.Ranking {
	entries := make([]models.RankedEntry, 0, len(st.Tickers))

	for _, ticker := range st.Tickers {
		entry := models.RankedEntry{Ticker: ticker}

		risk, _ := st.Result(ticker, models.ToolRiskMetrics)
		forecast, _ := st.Result(ticker, models.ToolForecastEnsemble)
		sentiment, _ := st.Result(ticker, models.ToolSentimentScore)

		if risk.OK() {
			entry.Scored = true
			entry.Score = weightSharpe * risk.Risk.Sharpe
			entry.Rationale = append(entry.Rationale,
				fmt.Sprintf("Sharpe %.2f, beta %.2f, volatility %.1f%%",
					risk.Risk.Sharpe, risk.Risk.Beta, risk.Risk.Volatility*100))
		} else {
			entry.Rationale = append(entry.Rationale, unusableReason(st, ticker, risk))
		}

		if forecast.OK() {
			if entry.Scored {
				entry.Score += weightForecast * forecast.Forecast.ChangePct
			}
			entry.Rationale = append(entry.Rationale,
				fmt.Sprintf("%dd forecast %+.2f%%", forecast.Forecast.HorizonDays, forecast.Forecast.ChangePct))
		}

		if sentiment.OK() {
			if entry.Scored {
				entry.Score += weightSentiment * sentiment.Sentiment.Polarity
			}
			entry.Rationale = append(entry.Rationale,
				fmt.Sprintf("sentiment %s (%.2f) from %d articles",
					sentiment.Sentiment.Label, sentiment.Sentiment.Polarity, sentiment.Sentiment.ArticleCount))
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Scored != b.Scored {
			return a.Scored
		}
		if !a.Scored {
			return a.Ticker < b.Ticker
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Ticker < b.Ticker
	})

	return models.Ranking{Entries: entries, Partial: st.Partial}
}

func unusableReason(st *AnalysisState, ticker string, risk *models.ToolResult) string {
	if risk != nil && risk.Reason != "" {
		return fmt.Sprintf("excluded from scoring: %s", risk.Reason)
	}
	if history, ok := st.Result(ticker, models.ToolPriceHistory); ok && !history.OK() {
		return fmt.Sprintf("excluded from scoring: %s", history.Reason)
	}
	return "excluded from scoring: risk metrics unavailable"
}
