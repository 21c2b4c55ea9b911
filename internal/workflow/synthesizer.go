package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/ryanwei/FolioGo/internal/models"
	"github.com/ryanwei/FolioGo/internal/tools"
)

// Synthesizer produces the final narrative. Manual mode renders a template;
// hybrid and autonomous modes spend exactly one language-model call, falling
// back to the template when the model is unavailable. The narrative is
// advisory — the numeric ranking is attached verbatim and never altered.
type Synthesizer struct {
	model    ChatModel
	registry *tools.Registry
	timeout  time.Duration
	debug    bool
}

func NewSynthesizer(model ChatModel, registry *tools.Registry, timeout time.Duration, debug bool) *Synthesizer {
	return &Synthesizer{model: model, registry: registry, timeout: timeout, debug: debug}
}

// Compose returns the narrative for a completed or aborted run.
func (s *Synthesizer) Compose(ctx context.Context, st *AnalysisState, ranking models.Ranking) string {
	if st.Mode == ModeManual || s.model == nil {
		return s.template(st, ranking)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, err := s.model.Generate(callCtx, []*schema.Message{
		schema.SystemMessage("You are a senior financial analyst. Based on the analysis data below, write an executive summary with a top pick, key risks and an outlook. Do not restate the numeric ranking; it is reported separately and is authoritative."),
		schema.UserMessage(s.prompt(st, ranking)),
	})
	if err != nil || msg == nil || strings.TrimSpace(msg.Content) == "" {
		// Degrade to the deterministic summary; a failed call consumes no
		// budget.
		st.LogModelCall(models.OpSynthesis, models.StatusFailed)
		if s.debug {
			log.Printf("[Synthesizer] model call failed, using template: %v", err)
		}
		return s.template(st, ranking) + "\n(Language model unavailable; deterministic summary shown.)"
	}

	st.LogModelCall(models.OpSynthesis, models.StatusOK)
	return msg.Content
}

// prompt serializes the structured results and ranking as model context.
func (s *Synthesizer) prompt(st *AnalysisState, ranking models.Ranking) string {
	var sb strings.Builder
	if st.Goal != "" {
		sb.WriteString("Objective: " + st.Goal + "\n\n")
	}
	sb.WriteString("Per-ticker analysis results:\n")
	for _, ticker := range st.Tickers {
		for _, res := range st.ResultsFor(ticker, s.registry.Order()) {
			sb.WriteString(fmt.Sprintf("%s %s: %s", ticker, res.Kind, res.Status))
			switch {
			case res.Risk != nil:
				sb.WriteString(fmt.Sprintf(" sharpe=%.2f beta=%.2f volatility=%.1f%% var95=%.2f%%",
					res.Risk.Sharpe, res.Risk.Beta, res.Risk.Volatility*100, res.Risk.VaR95*100))
			case res.Forecast != nil:
				sb.WriteString(fmt.Sprintf(" current=%.2f predicted=%.2f change=%+.2f%% horizon=%dd",
					res.Forecast.CurrentPrice, res.Forecast.PredictedPrice, res.Forecast.ChangePct, res.Forecast.HorizonDays))
			case res.Sentiment != nil:
				sb.WriteString(fmt.Sprintf(" polarity=%.2f label=%s articles=%d",
					res.Sentiment.Polarity, res.Sentiment.Label, res.Sentiment.ArticleCount))
			case res.Prices != nil:
				sb.WriteString(fmt.Sprintf(" bars=%d", len(res.Prices)))
			}
			if res.Reason != "" {
				sb.WriteString(" reason=" + res.Reason)
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nRanking (authoritative):\n")
	sb.WriteString(renderRanking(ranking))
	if st.Partial {
		sb.WriteString(fmt.Sprintf("\nNote: the run ended early (%s); results are partial.\n", st.AbortReason))
	}
	return sb.String()
}

// template is the deterministic narrative used by manual mode and as the
// degraded path when the model call fails.
func (s *Synthesizer) template(st *AnalysisState, ranking models.Ranking) string {
	var sb strings.Builder
	sb.WriteString("Portfolio comparison\n")
	sb.WriteString(renderRanking(ranking))

	var failures []string
	for _, ticker := range st.Tickers {
		for _, res := range st.ResultsFor(ticker, s.registry.Order()) {
			if res.Status == models.StatusFailed {
				failures = append(failures, fmt.Sprintf("%s %s: %s", ticker, res.Kind, res.Reason))
			}
		}
	}
	if len(failures) > 0 {
		sb.WriteString("Failures during analysis:\n")
		for _, f := range failures {
			sb.WriteString("  - " + f + "\n")
		}
	}
	if st.Partial {
		sb.WriteString(fmt.Sprintf("Run ended early (%s); results are partial.\n", st.AbortReason))
	}
	return sb.String()
}

func renderRanking(ranking models.Ranking) string {
	var sb strings.Builder
	pos := 1
	for _, e := range ranking.Entries {
		if e.Scored {
			sb.WriteString(fmt.Sprintf("%d. %s (score %.2f): %s\n", pos, e.Ticker, e.Score, strings.Join(e.Rationale, "; ")))
			pos++
			continue
		}
		sb.WriteString(fmt.Sprintf("-. %s (not scored): %s\n", e.Ticker, strings.Join(e.Rationale, "; ")))
	}
	if len(ranking.Entries) == 0 {
		sb.WriteString("(no tickers analyzed)\n")
	}
	return sb.String()
}
