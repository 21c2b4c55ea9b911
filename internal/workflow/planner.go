package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/ryanwei/FolioGo/internal/dataflows"
	"github.com/ryanwei/FolioGo/internal/models"
	"github.com/ryanwei/FolioGo/internal/tools"
)

// plannerPhase enumerates the planner's state machine.
type plannerPhase int

const (
	phasePlanning plannerPhase = iota
	phaseAwaitingDecision
	phaseExecuting
	phaseDone
	phaseAborted
)

// ToolCall is one (kind, ticker) invocation proposed by the model.
type ToolCall struct {
	Kind   models.ToolKind
	Ticker string
}

// PlannerDecision is the mechanically parsed outcome of one model turn:
// either a list of tool calls in the model's order, or a stop with a final
// answer. Legality (dependencies, idempotence, budget) is enforced outside
// the model's response, never trusted from it.
type PlannerDecision struct {
	Stop        bool
	FinalAnswer string
	Calls       []ToolCall
}

// AutonomousPlanner drives the bounded decision loop of autonomous mode.
// Each iteration is strictly sequential: one model decision, then its tool
// calls in the listed order.
type AutonomousPlanner struct {
	model           ChatModel
	registry        *tools.Registry
	iterationCap    int
	decisionTimeout time.Duration
	debug           bool
}

func NewAutonomousPlanner(model ChatModel, registry *tools.Registry, iterationCap int, decisionTimeout time.Duration, debug bool) *AutonomousPlanner {
	return &AutonomousPlanner{
		model:           model,
		registry:        registry,
		iterationCap:    iterationCap,
		decisionTimeout: decisionTimeout,
		debug:           debug,
	}
}

// Run executes the loop until the model stops, the budget or iteration cap
// is reached, a repeat proposal triggers the idempotence stop, or the
// context is cancelled. Abnormal endings mark the state partial; the state
// is always left valid for best-effort ranking.
func (p *AutonomousPlanner) Run(ctx context.Context, st *AnalysisState) {
	phase := phasePlanning
	var decision PlannerDecision

	for {
		switch phase {
		case phasePlanning:
			if ctx.Err() != nil {
				p.abort(st, "cancelled")
				return
			}
			if st.Budget <= 0 {
				p.abort(st, "budget exhausted")
				return
			}
			if len(st.CallLog) >= p.iterationCap {
				p.abort(st, "iteration cap reached")
				return
			}
			phase = phaseAwaitingDecision

		case phaseAwaitingDecision:
			msg, err := p.decide(ctx, st)
			if err != nil {
				// A failed decision call consumes no budget.
				st.LogModelCall(models.OpPlannerDecision, models.StatusFailed)
				p.abort(st, fmt.Sprintf("planner decision failed: %v", err))
				return
			}
			st.LogModelCall(models.OpPlannerDecision, models.StatusOK)
			decision = parseDecision(msg)
			if p.debug {
				log.Printf("[Planner] decision: stop=%v calls=%d", decision.Stop, len(decision.Calls))
			}
			phase = phaseExecuting

		case phaseExecuting:
			if decision.Stop {
				st.FinalAnswer = decision.FinalAnswer
				phase = phaseDone
				break
			}
			if p.execute(ctx, st, decision.Calls) {
				// Repeat proposal: results already hold the answer, treat
				// as an implicit stop.
				phase = phaseDone
				break
			}
			if ctx.Err() != nil {
				p.abort(st, "cancelled")
				return
			}
			phase = phasePlanning

		case phaseDone:
			return

		case phaseAborted:
			return
		}
	}
}

func (p *AutonomousPlanner) abort(st *AnalysisState, reason string) {
	st.Partial = true
	st.AbortReason = reason
	if p.debug {
		log.Printf("[Planner] aborted: %s", reason)
	}
}

// decide issues one model call under the per-call timeout.
func (p *AutonomousPlanner) decide(ctx context.Context, st *AnalysisState) (*schema.Message, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.decisionTimeout)
	defer cancel()
	return p.model.Generate(callCtx, p.messages(st))
}

func (p *AutonomousPlanner) messages(st *AnalysisState) []*schema.Message {
	var sb strings.Builder
	sb.WriteString("You are a senior portfolio manager comparing equity tickers.\n")
	sb.WriteString("Call one of the provided analysis tools to gather data, or, when you have enough, reply with plain text containing your final recommendation.\n")
	sb.WriteString("Work ticker by ticker; fetch price history before risk or forecast analysis.\n\n")
	sb.WriteString("Progress so far:\n")
	sb.WriteString(p.summary(st))

	return []*schema.Message{
		schema.SystemMessage(sb.String()),
		schema.UserMessage(st.Goal),
	}
}

// summary renders results and call log compactly so the model sees the
// current state each turn.
func (p *AutonomousPlanner) summary(st *AnalysisState) string {
	if len(st.CallLog) == 0 {
		return "(no tools executed yet)\n"
	}
	var sb strings.Builder
	for _, ticker := range st.Tickers {
		for _, res := range st.ResultsFor(ticker, p.registry.Order()) {
			sb.WriteString(fmt.Sprintf("- %s %s: %s", res.Kind, res.Ticker, res.Status))
			switch {
			case res.Risk != nil:
				sb.WriteString(fmt.Sprintf(" (sharpe %.2f, beta %.2f, vol %.1f%%, VaR95 %.2f%%)",
					res.Risk.Sharpe, res.Risk.Beta, res.Risk.Volatility*100, res.Risk.VaR95*100))
			case res.Forecast != nil:
				sb.WriteString(fmt.Sprintf(" (%dd forecast %+.2f%%)", res.Forecast.HorizonDays, res.Forecast.ChangePct))
			case res.Sentiment != nil:
				sb.WriteString(fmt.Sprintf(" (%s %.2f from %d articles)",
					res.Sentiment.Label, res.Sentiment.Polarity, res.Sentiment.ArticleCount))
			case res.Prices != nil:
				sb.WriteString(fmt.Sprintf(" (%d bars)", len(res.Prices)))
			case res.Reason != "":
				sb.WriteString(" (" + res.Reason + ")")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString(fmt.Sprintf("Remaining model-call budget: %d\n", st.Budget))
	return sb.String()
}

// execute runs the proposed calls in the model's order, auto-inserting
// unmet prerequisites ahead of each call. It reports whether a repeat
// proposal triggered the idempotence stop.
func (p *AutonomousPlanner) execute(ctx context.Context, st *AnalysisState, calls []ToolCall) (stopped bool) {
	for _, call := range calls {
		if ctx.Err() != nil {
			return false
		}
		if _, known := p.registry.Lookup(call.Kind); !known {
			continue
		}
		if err := dataflows.ValidateSymbol(call.Ticker); err != nil {
			if p.debug {
				log.Printf("[Planner] rejecting proposal: %v", err)
			}
			continue
		}
		st.AddTicker(call.Ticker)

		if st.Seen(call.Ticker, call.Kind) {
			return true
		}

		for _, c := range p.withPrerequisites(st, call) {
			res := p.registry.Invoke(ctx, c.Kind, c.Ticker, st)
			cost := 0
			if t, ok := p.registry.Lookup(c.Kind); ok {
				cost = t.CostUnits
			}
			if err := st.Record(res, cost); err != nil {
				log.Printf("[Planner] dropping duplicate result: %v", err)
			}
		}
	}
	return false
}

// withPrerequisites prepends the call's unmet dependencies, dependency-first.
// Dependency resolution is mechanical, not delegated to the model.
func (p *AutonomousPlanner) withPrerequisites(st *AnalysisState, call ToolCall) []ToolCall {
	var seq []ToolCall
	for _, dep := range p.registry.Dependencies(call.Kind) {
		if !st.Seen(call.Ticker, dep) {
			seq = append(seq, p.withPrerequisites(st, ToolCall{Kind: dep, Ticker: call.Ticker})...)
		}
	}
	return append(seq, call)
}

// parseDecision turns a model message into a PlannerDecision. Tool calls are
// taken in the listed order; a message without tool calls is a stop.
func parseDecision(msg *schema.Message) PlannerDecision {
	if msg == nil || len(msg.ToolCalls) == 0 {
		var answer string
		if msg != nil {
			answer = msg.Content
		}
		return PlannerDecision{Stop: true, FinalAnswer: answer}
	}

	var calls []ToolCall
	for _, tc := range msg.ToolCalls {
		kind := models.ToolKind(tc.Function.Name)

		var args struct {
			Tickers string `json:"tickers"`
			Ticker  string `json:"ticker"`
		}
		_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
		raw := args.Tickers
		if raw == "" {
			raw = args.Ticker
		}

		for _, t := range strings.Split(raw, ",") {
			t = dataflows.NormalizeSymbol(t)
			if t == "" {
				continue
			}
			calls = append(calls, ToolCall{Kind: kind, Ticker: t})
		}
	}

	if len(calls) == 0 {
		return PlannerDecision{Stop: true, FinalAnswer: msg.Content}
	}
	return PlannerDecision{Calls: calls}
}
