package workflow

import (
	"context"
	"log"
	"sync"

	"github.com/ryanwei/FolioGo/internal/models"
	"github.com/ryanwei/FolioGo/internal/tools"
)

// DeterministicPipeline runs every enabled tool once per ticker in the
// registry's fixed order. It is used by manual and hybrid modes and never
// touches the language model.
type DeterministicPipeline struct {
	registry         *tools.Registry
	includeSentiment bool
	debug            bool
}

func NewDeterministicPipeline(registry *tools.Registry, includeSentiment, debug bool) *DeterministicPipeline {
	return &DeterministicPipeline{
		registry:         registry,
		includeSentiment: includeSentiment,
		debug:            debug,
	}
}

// scratchView accumulates one ticker's results before they are merged into
// the shared state. It keeps tool invocations for different tickers isolated
// from each other.
type scratchView struct {
	byKind  map[models.ToolKind]*models.ToolResult
	ordered []*models.ToolResult
}

func newScratchView() *scratchView {
	return &scratchView{byKind: make(map[models.ToolKind]*models.ToolResult)}
}

func (v *scratchView) Result(_ string, kind models.ToolKind) (*models.ToolResult, bool) {
	res, ok := v.byKind[kind]
	return res, ok
}

func (v *scratchView) put(res *models.ToolResult) {
	v.byKind[res.Kind] = res
	v.ordered = append(v.ordered, res)
}

// Run executes the pipeline over st.Tickers. Tickers run concurrently; the
// per-ticker tool order is strictly sequential and results are merged in
// ticker order, so the results mapping and call log are identical across
// runs for fixed tool outputs. Cancellation leaves a valid partial state.
func (p *DeterministicPipeline) Run(ctx context.Context, st *AnalysisState) {
	order := p.enabledOrder()

	outs := make([]*scratchView, len(st.Tickers))
	var wg sync.WaitGroup
	for i, ticker := range st.Tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			scratch := newScratchView()
			for _, kind := range order {
				if ctx.Err() != nil {
					break
				}
				res := p.registry.Invoke(ctx, kind, ticker, scratch)
				scratch.put(res)
				if p.debug {
					log.Printf("[Pipeline] %s %s -> %s", kind, ticker, res.Status)
				}
			}
			outs[i] = scratch
		}(i, ticker)
	}
	wg.Wait()

	for _, scratch := range outs {
		if scratch == nil {
			continue
		}
		for _, res := range scratch.ordered {
			cost := 0
			if t, ok := p.registry.Lookup(res.Kind); ok {
				cost = t.CostUnits
			}
			if err := st.Record(res, cost); err != nil {
				// Cannot happen for distinct tickers; guards the invariant.
				log.Printf("[Pipeline] dropping duplicate result: %v", err)
			}
		}
	}

	if ctx.Err() != nil {
		st.Partial = true
		st.AbortReason = "cancelled"
	}
}

func (p *DeterministicPipeline) enabledOrder() []models.ToolKind {
	order := p.registry.Order()
	if p.includeSentiment {
		return order
	}
	enabled := order[:0]
	for _, kind := range order {
		if kind == models.ToolSentimentScore {
			continue
		}
		enabled = append(enabled, kind)
	}
	return enabled
}
