// Package engine holds the deterministic analytics behind the tools:
// risk scalars, ensemble forecasting and headline sentiment scoring.
package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/ryanwei/FolioGo/internal/models"
)

const (
	riskFreeRate = 0.02
	tradingDays  = 252
	minReturns   = 30
)

// DailyReturns computes simple day-over-day returns from a close series.
func DailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, prices[i]/prices[i-1]-1)
	}
	return returns
}

// ComputeRisk derives Sharpe ratio, beta against the benchmark close series,
// annualized volatility and 95% value-at-risk from daily closes.
func ComputeRisk(prices, benchmark []float64) (*models.RiskMetrics, error) {
	returns := DailyReturns(prices)
	if len(returns) < minReturns {
		return nil, fmt.Errorf("insufficient data: %d returns, need %d", len(returns), minReturns)
	}

	benchReturns := DailyReturns(benchmark)

	stdDev := stddev(returns)
	sharpe := 0.0
	if stdDev > 0 {
		excess := mean(returns) - riskFreeRate/tradingDays
		sharpe = math.Sqrt(tradingDays) * excess / stdDev
	}

	// Align the series on their most recent observations for beta.
	beta := 1.0
	if n := min(len(returns), len(benchReturns)); n > 1 {
		a := returns[len(returns)-n:]
		b := benchReturns[len(benchReturns)-n:]
		if mv := variance(b); mv > 0 {
			beta = covariance(a, b) / mv
		}
	}

	return &models.RiskMetrics{
		Sharpe:     sharpe,
		Beta:       beta,
		Volatility: stdDev * math.Sqrt(tradingDays),
		VaR95:      percentile(returns, 5),
	}, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance is the sample variance (n-1 denominator).
func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

func stddev(xs []float64) float64 {
	return math.Sqrt(variance(xs))
}

func covariance(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n < 2 {
		return 0
	}
	ma, mb := mean(a[:n]), mean(b[:n])
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += (a[i] - ma) * (b[i] - mb)
	}
	return sum / float64(n-1)
}

// percentile uses linear interpolation between closest ranks.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
