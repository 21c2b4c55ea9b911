package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampSeries builds a deterministic close series with a mild trend and an
// alternating wiggle so returns have nonzero variance.
func rampSeries(n int, start, step, wiggle float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		sign := 1.0
		if i%2 == 1 {
			sign = -1.0
		}
		out[i] = start + step*float64(i) + sign*wiggle
	}
	return out
}

func TestDailyReturns(t *testing.T) {
	returns := DailyReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)
}

func TestDailyReturnsShortSeries(t *testing.T) {
	assert.Nil(t, DailyReturns(nil))
	assert.Nil(t, DailyReturns([]float64{100}))
}

func TestDailyReturnsZeroPrice(t *testing.T) {
	returns := DailyReturns([]float64{0, 50, 55})
	require.Len(t, returns, 2)
	assert.Zero(t, returns[0])
	assert.InDelta(t, 0.10, returns[1], 1e-9)
}

func TestComputeRiskInsufficientData(t *testing.T) {
	_, err := ComputeRisk(rampSeries(10, 100, 0.5, 0.3), rampSeries(10, 100, 0.5, 0.3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient data")
}

func TestComputeRiskBetaAgainstItself(t *testing.T) {
	series := rampSeries(60, 100, 0.5, 0.8)
	risk, err := ComputeRisk(series, series)
	require.NoError(t, err)

	// A series is perfectly correlated with itself.
	assert.InDelta(t, 1.0, risk.Beta, 1e-9)
	assert.Greater(t, risk.Volatility, 0.0)
	assert.Greater(t, risk.Sharpe, 0.0) // upward trend beats the risk-free rate
	assert.Less(t, risk.VaR95, 0.0)     // the wiggle produces down days
}

func TestComputeRiskConstantPrices(t *testing.T) {
	flat := make([]float64, 60)
	for i := range flat {
		flat[i] = 100
	}
	risk, err := ComputeRisk(flat, rampSeries(60, 100, 0.5, 0.8))
	require.NoError(t, err)

	assert.Zero(t, risk.Sharpe)
	assert.Zero(t, risk.Volatility)
	assert.Zero(t, risk.VaR95)
}

func TestComputeRiskFlatBenchmarkDefaultsBeta(t *testing.T) {
	flat := make([]float64, 60)
	for i := range flat {
		flat[i] = 100
	}
	risk, err := ComputeRisk(rampSeries(60, 100, 0.5, 0.8), flat)
	require.NoError(t, err)
	assert.Equal(t, 1.0, risk.Beta)
}

func TestComputeRiskDeterministic(t *testing.T) {
	series := rampSeries(80, 100, 0.4, 0.6)
	bench := rampSeries(80, 400, 1.0, 1.5)

	a, err := ComputeRisk(series, bench)
	require.NoError(t, err)
	b, err := ComputeRisk(series, bench)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPercentile(t *testing.T) {
	xs := []float64{5, 1, 3, 2, 4}

	assert.InDelta(t, 3.0, percentile(xs, 50), 1e-9)
	assert.InDelta(t, 1.0, percentile(xs, 0), 1e-9)
	assert.InDelta(t, 5.0, percentile(xs, 100), 1e-9)
	// rank 0.05*4 = 0.2 interpolates between 1 and 2.
	assert.InDelta(t, 1.2, percentile(xs, 5), 1e-9)
	assert.Zero(t, percentile(nil, 50))
}

func TestVarianceIsSampleVariance(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	// Sum of squared deviations is 32; n-1 = 7.
	assert.InDelta(t, 32.0/7.0, variance(xs), 1e-9)
	assert.InDelta(t, math.Sqrt(32.0/7.0), stddev(xs), 1e-9)
}
