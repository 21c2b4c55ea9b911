// Package workflow contains the orchestration core: the run-scoped analysis
// state, the deterministic pipeline, the autonomous planner state machine,
// ranking and narrative synthesis.
package workflow

import (
	"fmt"
	"time"

	"github.com/ryanwei/FolioGo/internal/models"
)

// Mode selects the execution strategy for one run.
type Mode string

const (
	ModeManual     Mode = "manual"
	ModeHybrid     Mode = "hybrid"
	ModeAutonomous Mode = "autonomous"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeManual, ModeHybrid, ModeAutonomous:
		return true
	}
	return false
}

type resultKey struct {
	ticker string
	kind   models.ToolKind
}

// AnalysisState is the mutable record threaded through one run. It is owned
// exclusively by a single Orchestrator.Run invocation and is never shared
// across runs; only pipeline and planner steps mutate it.
type AnalysisState struct {
	Tickers []string
	Mode    Mode
	Goal    string

	// Budget is the remaining allowed language-model calls, monotonically
	// non-increasing over the run.
	Budget int

	// Partial marks a run that stopped early (abort or cancellation).
	Partial bool
	// AbortReason names the safety stop that ended an autonomous run.
	AbortReason string
	// FinalAnswer carries the planner's own stop message, if any.
	FinalAnswer string

	results map[resultKey]*models.ToolResult
	CallLog []models.CallRecord

	seen map[string]bool // ticker membership for order-preserving dedupe
}

// NewAnalysisState creates the empty state for one run. Tickers are
// deduplicated preserving first occurrence.
func NewAnalysisState(mode Mode, tickers []string, budget int, goal string) *AnalysisState {
	st := &AnalysisState{
		Mode:    mode,
		Goal:    goal,
		Budget:  budget,
		results: make(map[resultKey]*models.ToolResult),
		seen:    make(map[string]bool),
	}
	for _, t := range tickers {
		st.AddTicker(t)
	}
	return st
}

// AddTicker appends a ticker unless already present. Reports whether the
// ticker was added.
func (s *AnalysisState) AddTicker(ticker string) bool {
	if s.seen[ticker] {
		return false
	}
	s.seen[ticker] = true
	s.Tickers = append(s.Tickers, ticker)
	return true
}

// Result returns the recorded result for (ticker, kind).
func (s *AnalysisState) Result(ticker string, kind models.ToolKind) (*models.ToolResult, bool) {
	res, ok := s.results[resultKey{ticker, kind}]
	return res, ok
}

// Seen reports whether (ticker, kind) already has a recorded result.
func (s *AnalysisState) Seen(ticker string, kind models.ToolKind) bool {
	_, ok := s.results[resultKey{ticker, kind}]
	return ok
}

// Record stores a tool result and extends the call log. A given
// (ticker, kind) is written at most once per run; a second write is rejected.
func (s *AnalysisState) Record(res *models.ToolResult, costUnits int) error {
	key := resultKey{res.Ticker, res.Kind}
	if _, ok := s.results[key]; ok {
		return fmt.Errorf("result for (%s, %s) already recorded", res.Ticker, res.Kind)
	}
	s.results[key] = res
	s.Budget -= costUnits
	s.CallLog = append(s.CallLog, models.CallRecord{
		Kind:      res.Kind,
		Ticker:    res.Ticker,
		At:        res.Produced,
		CostUnits: costUnits,
		Status:    res.Status,
	})
	return nil
}

// LogModelCall records a language-model call (planner decision or synthesis)
// in the call log. Only successful calls consume budget.
func (s *AnalysisState) LogModelCall(kind models.ToolKind, status models.ToolStatus) {
	cost := 0
	if status == models.StatusOK {
		cost = 1
		s.Budget--
	}
	s.CallLog = append(s.CallLog, models.CallRecord{
		Kind:      kind,
		At:        time.Now(),
		CostUnits: cost,
		Status:    status,
	})
}

// ResultsFor returns the recorded results for one ticker in the given kind
// order, missing kinds omitted.
func (s *AnalysisState) ResultsFor(ticker string, kinds []models.ToolKind) []*models.ToolResult {
	out := make([]*models.ToolResult, 0, len(kinds))
	for _, k := range kinds {
		if res, ok := s.Result(ticker, k); ok {
			out = append(out, res)
		}
	}
	return out
}
