// Package display renders analysis reports for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ryanwei/FolioGo/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			MarginBottom(1)

	rankBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(80)

	narrativeStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 2).
			Width(80)

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// Render formats a full report for the terminal.
func Render(report *models.Report) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("FolioGo — Portfolio Comparison"))
	sb.WriteString("\n")

	if report.Partial {
		sb.WriteString(warnStyle.Render("⚠ Partial results: the run ended before all analysis completed."))
		sb.WriteString("\n\n")
	}

	sb.WriteString(rankBoxStyle.Render(renderRanking(report.Ranking)))
	sb.WriteString("\n")
	sb.WriteString(narrativeStyle.Render(report.Narrative))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(renderCallLog(report.CallLog)))
	sb.WriteString("\n")

	return sb.String()
}

func renderRanking(ranking models.Ranking) string {
	var sb strings.Builder
	sb.WriteString("Ranking\n\n")
	pos := 1
	for _, e := range ranking.Entries {
		if e.Scored {
			sb.WriteString(fmt.Sprintf("%2d. %-8s %8.2f  %s\n", pos, e.Ticker, e.Score, strings.Join(e.Rationale, "; ")))
			pos++
		} else {
			sb.WriteString(fmt.Sprintf(" -. %-8s %8s  %s\n", e.Ticker, "n/a", strings.Join(e.Rationale, "; ")))
		}
	}
	if len(ranking.Entries) == 0 {
		sb.WriteString("(no tickers analyzed)\n")
	}
	return sb.String()
}

func renderCallLog(log []models.CallRecord) string {
	var sb strings.Builder
	totalCost := 0
	for _, rec := range log {
		totalCost += rec.CostUnits
	}
	sb.WriteString(fmt.Sprintf("Call log: %d entries, %d language-model call(s)\n", len(log), totalCost))
	for _, rec := range log {
		ticker := rec.Ticker
		if ticker == "" {
			ticker = "-"
		}
		sb.WriteString(fmt.Sprintf("  %s  %-18s %-8s %s\n",
			rec.At.Format("15:04:05"), rec.Kind, ticker, rec.Status))
	}
	return sb.String()
}
