package models

import "time"

// ToolKind identifies one analysis tool.
type ToolKind string

const (
	ToolPriceHistory     ToolKind = "price_history"
	ToolRiskMetrics      ToolKind = "risk_metrics"
	ToolForecastEnsemble ToolKind = "forecast_ensemble"
	ToolSentimentScore   ToolKind = "sentiment_score"

	// Call-log-only kinds. These never appear in results; they record
	// language-model usage for cost reporting.
	OpPlannerDecision ToolKind = "planner_decision"
	OpSynthesis       ToolKind = "synthesis"
)

// ToolStatus is the outcome of one tool invocation.
type ToolStatus string

const (
	StatusOK      ToolStatus = "ok"
	StatusFailed  ToolStatus = "failed"
	StatusSkipped ToolStatus = "skipped"
)

// RiskMetrics holds the risk scalars for one ticker.
type RiskMetrics struct {
	Sharpe     float64 `json:"sharpe"`
	Beta       float64 `json:"beta"`
	Volatility float64 `json:"volatility"`
	VaR95      float64 `json:"var_95"`
}

// ForecastEnsemble holds a blended price forecast with confidence bounds.
type ForecastEnsemble struct {
	PointEstimates  []float64 `json:"point_estimates"`
	LowerBound      []float64 `json:"lower_bound"`
	UpperBound      []float64 `json:"upper_bound"`
	ConfidenceLevel float64   `json:"confidence_level"`
	CurrentPrice    float64   `json:"current_price"`
	PredictedPrice  float64   `json:"predicted_price"`
	ChangePct       float64   `json:"change_pct"`
	HorizonDays     int       `json:"horizon_days"`
}

// SentimentScore holds news sentiment for one ticker.
type SentimentScore struct {
	Polarity     float64 `json:"polarity"` // in [-1, 1]
	ArticleCount int     `json:"article_count"`
	Label        string  `json:"label"` // POSITIVE, NEGATIVE or NEUTRAL
}

// ToolResult is the immutable output of one tool invocation for one ticker.
// Exactly one payload field is set when Status is ok; Reason explains a
// failed or skipped status.
type ToolResult struct {
	Kind      ToolKind          `json:"kind"`
	Ticker    string            `json:"ticker"`
	Status    ToolStatus        `json:"status"`
	Reason    string            `json:"reason,omitempty"`
	Prices    []*MarketData     `json:"prices,omitempty"`
	Risk      *RiskMetrics      `json:"risk,omitempty"`
	Forecast  *ForecastEnsemble `json:"forecast,omitempty"`
	Sentiment *SentimentScore   `json:"sentiment,omitempty"`
	Produced  time.Time         `json:"produced"`
}

// OK reports whether the invocation produced usable data.
func (r *ToolResult) OK() bool {
	return r != nil && r.Status == StatusOK
}

// FailedResult builds a failed ToolResult with the given reason.
func FailedResult(kind ToolKind, ticker, reason string) *ToolResult {
	return &ToolResult{Kind: kind, Ticker: ticker, Status: StatusFailed, Reason: reason, Produced: time.Now()}
}

// SkippedResult builds a skipped ToolResult with the given reason.
func SkippedResult(kind ToolKind, ticker, reason string) *ToolResult {
	return &ToolResult{Kind: kind, Ticker: ticker, Status: StatusSkipped, Reason: reason, Produced: time.Now()}
}
