package engine

import (
	"fmt"
	"math"

	"github.com/ryanwei/FolioGo/internal/models"
)

const (
	minHistory = 30
	// Blend weights for the two component models. The adaptive drift model
	// carries most of the weight, the raw linear trend acts as a stabilizer.
	driftWeight = 0.7
	trendWeight = 0.3
	// Smoothing span for the exponentially weighted drift.
	driftSpan = 20

	confidenceLevel = 0.95
	zScore95        = 1.96
)

// Forecast blends a least-squares linear trend with an exponentially
// weighted drift projection over horizonDays, with symmetric bounds at 95%
// confidence. Output is deterministic for identical inputs.
func Forecast(prices []float64, horizonDays int) (*models.ForecastEnsemble, error) {
	if len(prices) < minHistory {
		return nil, fmt.Errorf("insufficient history: %d points, need %d", len(prices), minHistory)
	}
	if horizonDays <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizonDays)
	}

	current := prices[len(prices)-1]
	slope, intercept := linearFit(prices)
	drift := ewmDrift(prices, driftSpan)
	sigma := stddev(dailyChanges(prices))

	points := make([]float64, horizonDays)
	lower := make([]float64, horizonDays)
	upper := make([]float64, horizonDays)
	for h := 1; h <= horizonDays; h++ {
		trend := intercept + slope*float64(len(prices)-1+h)
		adaptive := current + drift*float64(h)
		point := driftWeight*adaptive + trendWeight*trend

		band := zScore95 * sigma * math.Sqrt(float64(h))
		points[h-1] = point
		lower[h-1] = point - band
		upper[h-1] = point + band
	}

	predicted := points[horizonDays-1]
	changePct := 0.0
	if current != 0 {
		changePct = (predicted - current) / current * 100
	}

	return &models.ForecastEnsemble{
		PointEstimates:  points,
		LowerBound:      lower,
		UpperBound:      upper,
		ConfidenceLevel: confidenceLevel,
		CurrentPrice:    current,
		PredictedPrice:  predicted,
		ChangePct:       changePct,
		HorizonDays:     horizonDays,
	}, nil
}

// linearFit returns the least-squares slope and intercept of prices over
// their index.
func linearFit(prices []float64) (slope, intercept float64) {
	n := float64(len(prices))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range prices {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, mean(prices)
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func dailyChanges(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	changes := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		changes = append(changes, prices[i]-prices[i-1])
	}
	return changes
}

// ewmDrift is the exponentially weighted mean of daily price changes,
// alpha = 2/(span+1).
func ewmDrift(prices []float64, span int) float64 {
	changes := dailyChanges(prices)
	if len(changes) == 0 {
		return 0
	}
	alpha := 2.0 / (float64(span) + 1)
	drift := changes[0]
	for _, c := range changes[1:] {
		drift = alpha*c + (1-alpha)*drift
	}
	return drift
}
