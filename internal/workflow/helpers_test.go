package workflow

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/shopspring/decimal"

	"github.com/ryanwei/FolioGo/internal/config"
	"github.com/ryanwei/FolioGo/internal/dataflows"
	"github.com/ryanwei/FolioGo/internal/models"
	"github.com/ryanwei/FolioGo/internal/tools"
)

type fakePrices struct {
	closes map[string][]float64
	errs   map[string]error
}

func (f *fakePrices) Window(_ context.Context, symbol string, _ int) ([]*models.MarketData, error) {
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	closes, ok := f.closes[symbol]
	if !ok {
		return nil, dataflows.ErrDataUnavailable
	}
	bars := make([]*models.MarketData, 0, len(closes))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars = append(bars, &models.MarketData{
			Symbol: symbol,
			Date:   day.AddDate(0, 0, i),
			Close:  decimal.NewFromFloat(c),
		})
	}
	return bars, nil
}

type fakeNews struct {
	articles map[string][]*models.NewsArticle
	errs     map[string]error
}

func (f *fakeNews) CompanyNews(_ context.Context, symbol string, _, _ int) ([]*models.NewsArticle, error) {
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	return f.articles[symbol], nil
}

// fakeChatModel replays scripted responses and captures every prompt it was
// given.
type fakeChatModel struct {
	responses []*schema.Message
	err       error
	calls     [][]*schema.Message
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls = append(m.calls, input)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return textMessage("done"), nil
	}
	msg := m.responses[0]
	m.responses = m.responses[1:]
	return msg, nil
}

func textMessage(content string) *schema.Message {
	return &schema.Message{Role: schema.Assistant, Content: content}
}

func toolCallMessage(name, tickers string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{
				ID: "call-1",
				Function: schema.FunctionCall{
					Name:      name,
					Arguments: `{"tickers":"` + tickers + `"}`,
				},
			},
		},
	}
}

func series(n int, start, step, wiggle float64) []float64 {
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

func testConfig() *config.Config {
	return &config.Config{
		BenchmarkSymbol:     "SPY",
		LookbackDays:        120,
		ForecastDays:        30,
		SentimentWindowDays: 7,
		MaxNewsArticles:     10,
		PlannerBudget:       8,
		IterationCap:        24,
		LLMTimeout:          time.Second,
		EnableSentiment:     true,
	}
}

// testRegistry serves AAPL, MSFT and the SPY benchmark; any other symbol
// fails with data unavailable.
func testRegistry() *tools.Registry {
	prices := &fakePrices{closes: map[string][]float64{
		"AAPL": series(60, 150, 0.4, 0.7),
		"MSFT": series(60, 300, 0.5, 1.0),
		"SPY":  series(60, 420, 0.6, 1.1),
	}}
	news := &fakeNews{articles: map[string][]*models.NewsArticle{
		"AAPL": {{Title: "Shares surge on strong results"}},
		"MSFT": {{Title: "Outlook weak after downgrade"}},
	}}
	return tools.NewRegistry(testConfig(), prices, news)
}

func callKinds(log []models.CallRecord) []models.ToolKind {
	out := make([]models.ToolKind, 0, len(log))
	for _, rec := range log {
		out = append(out, rec.Kind)
	}
	return out
}

func totalCost(log []models.CallRecord) int {
	total := 0
	for _, rec := range log {
		total += rec.CostUnits
	}
	return total
}
