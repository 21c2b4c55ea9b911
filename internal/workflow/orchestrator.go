package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/ryanwei/FolioGo/internal/config"
	"github.com/ryanwei/FolioGo/internal/dataflows"
	"github.com/ryanwei/FolioGo/internal/models"
	"github.com/ryanwei/FolioGo/internal/tools"
)

// ErrInvalidInput rejects a request before any tool runs. It is the only
// error the orchestrator surfaces; everything else degrades into the report.
var ErrInvalidInput = errors.New("invalid input")

// Request describes one analysis run.
type Request struct {
	Mode    Mode
	Tickers []string
	// Goal is the free-text objective, autonomous mode only.
	Goal string
	// IncludeSentiment toggles the sentiment tool in manual mode; hybrid
	// mode always enables every tool.
	IncludeSentiment bool
}

// Orchestrator is the public entry point. It validates input, allocates the
// run's budget, drives the mode's executor and hands the state to the
// synthesizer. It performs no I/O itself; a fresh AnalysisState is created
// per call and never reused.
type Orchestrator struct {
	cfg      *config.Config
	registry *tools.Registry
	model    ChatModel
	synth    *Synthesizer
}

// NewOrchestrator builds an orchestrator. model may be nil for offline use;
// hybrid and autonomous runs then degrade to templated narratives, and
// autonomous mode is unavailable.
func NewOrchestrator(cfg *config.Config, registry *tools.Registry, model ChatModel) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		registry: registry,
		model:    model,
		synth:    NewSynthesizer(model, registry, cfg.LLMTimeout, cfg.Debug),
	}
}

// Run executes one analysis run and always returns a report for valid input.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*models.Report, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
	}

	tickers, err := normalizeTickers(req.Tickers)
	if err != nil {
		return nil, err
	}
	if len(tickers) == 0 && !(req.Mode == ModeAutonomous && req.Goal != "") {
		return nil, fmt.Errorf("%w: no tickers provided", ErrInvalidInput)
	}
	if req.Mode == ModeAutonomous && o.model == nil {
		return nil, fmt.Errorf("%w: autonomous mode requires a configured language model", ErrInvalidInput)
	}

	st := NewAnalysisState(req.Mode, tickers, o.budget(req.Mode), req.Goal)

	switch req.Mode {
	case ModeManual:
		pipeline := NewDeterministicPipeline(o.registry, req.IncludeSentiment && o.cfg.EnableSentiment, o.cfg.Debug)
		pipeline.Run(ctx, st)
	case ModeHybrid:
		pipeline := NewDeterministicPipeline(o.registry, o.cfg.EnableSentiment, o.cfg.Debug)
		pipeline.Run(ctx, st)
	case ModeAutonomous:
		planner := NewAutonomousPlanner(o.model, o.registry, o.cfg.IterationCap, o.cfg.LLMTimeout, o.cfg.Debug)
		planner.Run(ctx, st)
	}

	ranking := Rank(st)
	narrative := o.synth.Compose(ctx, st, ranking)

	return &models.Report{
		Ranking:   ranking,
		Narrative: narrative,
		CallLog:   st.CallLog,
		Partial:   st.Partial,
	}, nil
}

// RunManual runs the deterministic pipeline with no language-model budget.
func (o *Orchestrator) RunManual(ctx context.Context, tickers []string, includeSentiment bool) (*models.Report, error) {
	return o.Run(ctx, Request{Mode: ModeManual, Tickers: tickers, IncludeSentiment: includeSentiment})
}

// RunHybrid runs the full pipeline plus one synthesis model call.
func (o *Orchestrator) RunHybrid(ctx context.Context, tickers []string) (*models.Report, error) {
	return o.Run(ctx, Request{Mode: ModeHybrid, Tickers: tickers})
}

// RunAutonomous lets the model plan the analysis from a free-text goal.
func (o *Orchestrator) RunAutonomous(ctx context.Context, query string) (*models.Report, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}
	return o.Run(ctx, Request{Mode: ModeAutonomous, Goal: query})
}

// budget assigns the mode's language-model call cap. Manual mode never
// allocates budget; hybrid reserves exactly one call for synthesis.
func (o *Orchestrator) budget(mode Mode) int {
	switch mode {
	case ModeHybrid:
		return 1
	case ModeAutonomous:
		return o.cfg.PlannerBudget
	default:
		return 0
	}
}

// normalizeTickers validates, uppercases and deduplicates tickers,
// preserving first-occurrence order.
func normalizeTickers(tickers []string) ([]string, error) {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = dataflows.NormalizeSymbol(t)
		if t == "" {
			continue
		}
		if err := dataflows.ValidateSymbol(t); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}
