package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanwei/FolioGo/internal/models"
)

func TestPipelineWithoutSentiment(t *testing.T) {
	st := NewAnalysisState(ModeManual, []string{"AAPL", "MSFT"}, 0, "")
	NewDeterministicPipeline(testRegistry(), false, false).Run(context.Background(), st)

	// Three tools per ticker, in ticker-major order.
	assert.Equal(t, []models.ToolKind{
		models.ToolPriceHistory, models.ToolRiskMetrics, models.ToolForecastEnsemble,
		models.ToolPriceHistory, models.ToolRiskMetrics, models.ToolForecastEnsemble,
	}, callKinds(st.CallLog))
	assert.Zero(t, totalCost(st.CallLog))
	assert.False(t, st.Partial)

	for _, ticker := range st.Tickers {
		assert.False(t, st.Seen(ticker, models.ToolSentimentScore))
	}
}

func TestPipelineWithSentiment(t *testing.T) {
	st := NewAnalysisState(ModeManual, []string{"AAPL", "MSFT"}, 0, "")
	NewDeterministicPipeline(testRegistry(), true, false).Run(context.Background(), st)

	assert.Len(t, st.CallLog, 8)
	for _, ticker := range st.Tickers {
		res, ok := st.Result(ticker, models.ToolSentimentScore)
		require.True(t, ok)
		assert.Equal(t, models.StatusOK, res.Status)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	run := func() *AnalysisState {
		st := NewAnalysisState(ModeManual, []string{"MSFT", "AAPL"}, 0, "")
		NewDeterministicPipeline(testRegistry(), true, false).Run(context.Background(), st)
		return st
	}

	a, b := run(), run()

	require.Equal(t, len(a.CallLog), len(b.CallLog))
	for i := range a.CallLog {
		assert.Equal(t, a.CallLog[i].Kind, b.CallLog[i].Kind)
		assert.Equal(t, a.CallLog[i].Ticker, b.CallLog[i].Ticker)
		assert.Equal(t, a.CallLog[i].Status, b.CallLog[i].Status)
	}

	for _, ticker := range a.Tickers {
		ra, _ := a.Result(ticker, models.ToolRiskMetrics)
		rb, _ := b.Result(ticker, models.ToolRiskMetrics)
		assert.Equal(t, ra.Risk, rb.Risk)

		fa, _ := a.Result(ticker, models.ToolForecastEnsemble)
		fb, _ := b.Result(ticker, models.ToolForecastEnsemble)
		assert.Equal(t, fa.Forecast, fb.Forecast)
	}
}

func TestPipelineFailureIsolation(t *testing.T) {
	st := NewAnalysisState(ModeManual, []string{"AAPL", "GONE"}, 0, "")
	NewDeterministicPipeline(testRegistry(), true, false).Run(context.Background(), st)

	// The healthy ticker is unaffected.
	risk, ok := st.Result("AAPL", models.ToolRiskMetrics)
	require.True(t, ok)
	assert.Equal(t, models.StatusOK, risk.Status)

	// The broken ticker degrades: its history fails and dependents skip.
	history, _ := st.Result("GONE", models.ToolPriceHistory)
	assert.Equal(t, models.StatusFailed, history.Status)
	for _, kind := range []models.ToolKind{models.ToolRiskMetrics, models.ToolForecastEnsemble} {
		res, ok := st.Result("GONE", kind)
		require.True(t, ok)
		assert.Equal(t, models.StatusSkipped, res.Status)
	}

	// Per-run failures never mark the run partial.
	assert.False(t, st.Partial)
	assert.Len(t, st.CallLog, 8)
}

func TestPipelineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := NewAnalysisState(ModeManual, []string{"AAPL"}, 0, "")
	NewDeterministicPipeline(testRegistry(), true, false).Run(ctx, st)

	assert.True(t, st.Partial)
	assert.Equal(t, "cancelled", st.AbortReason)
}
