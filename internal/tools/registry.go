// Package tools declares the fixed set of analysis tools, their dependency
// contracts and cost estimates, and adapts them to eino tool schemas for the
// autonomous planner.
package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/ryanwei/FolioGo/internal/models"
)

// PriceProvider supplies daily price history for a symbol.
type PriceProvider interface {
	Window(ctx context.Context, symbol string, days int) ([]*models.MarketData, error)
}

// NewsProvider supplies recent news articles for a symbol.
type NewsProvider interface {
	CompanyNews(ctx context.Context, symbol string, windowDays, limit int) ([]*models.NewsArticle, error)
}

// StateView is the read-only view of a run's results a tool may consult.
// Tools never mutate state; the caller records their results.
type StateView interface {
	Result(ticker string, kind models.ToolKind) (*models.ToolResult, bool)
}

// Tool describes one analysis tool: its dependency contract, its
// language-model cost estimate and its invocation function.
type Tool struct {
	Kind      models.ToolKind
	Desc      string
	DependsOn []models.ToolKind
	// CostUnits is the number of language-model calls one invocation
	// consumes. All four analysis tools are local or data-API computations,
	// so they cost 0.
	CostUnits int

	run func(ctx context.Context, ticker string, view StateView) *models.ToolResult
}

// Registry holds the tool set in its fixed pipeline order.
type Registry struct {
	order []models.ToolKind
	tools map[models.ToolKind]*Tool
}

// Order returns the fixed execution order used by the deterministic pipeline.
func (r *Registry) Order() []models.ToolKind {
	return append([]models.ToolKind(nil), r.order...)
}

// Lookup returns the tool for a kind.
func (r *Registry) Lookup(kind models.ToolKind) (*Tool, bool) {
	t, ok := r.tools[kind]
	return t, ok
}

// Dependencies returns the declared prerequisites of a kind, empty for
// unknown kinds.
func (r *Registry) Dependencies(kind models.ToolKind) []models.ToolKind {
	if t, ok := r.tools[kind]; ok {
		return append([]models.ToolKind(nil), t.DependsOn...)
	}
	return nil
}

// Invoke runs one tool for one ticker. It never returns an error: unknown
// kinds and unsatisfied dependencies resolve to failed/skipped results, and
// tool failures are encoded in the result status.
func (r *Registry) Invoke(ctx context.Context, kind models.ToolKind, ticker string, view StateView) *models.ToolResult {
	t, ok := r.tools[kind]
	if !ok {
		return models.FailedResult(kind, ticker, fmt.Sprintf("unknown tool: %s", kind))
	}

	for _, dep := range t.DependsOn {
		res, found := view.Result(ticker, dep)
		if !found {
			return models.SkippedResult(kind, ticker, fmt.Sprintf("dependency %s not satisfied", dep))
		}
		if !res.OK() {
			return models.SkippedResult(kind, ticker, fmt.Sprintf("dependency %s is %s: %s", dep, res.Status, res.Reason))
		}
	}

	if err := ctx.Err(); err != nil {
		return models.FailedResult(kind, ticker, fmt.Sprintf("cancelled: %v", err))
	}

	return t.run(ctx, ticker, view)
}

// ToolInfos exposes the tool contracts as eino schemas for the planner's
// chat model.
func (r *Registry) ToolInfos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, kind := range r.order {
		t := r.tools[kind]
		desc := t.Desc
		if len(t.DependsOn) > 0 {
			desc += fmt.Sprintf(" Requires %s to have succeeded for the ticker first.", t.DependsOn)
		}
		infos = append(infos, &schema.ToolInfo{
			Name: string(t.Kind),
			Desc: desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"tickers": {
					Type:     schema.String,
					Desc:     "Comma-separated ticker symbols, e.g. AAPL,MSFT",
					Required: true,
				},
			}),
		})
	}
	return infos
}
