package cli

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/ryanwei/FolioGo/internal/config"
	"github.com/ryanwei/FolioGo/internal/display"
)

// runInteractiveMode prompts for a mode and its inputs, then runs once.
func runInteractiveMode(ctx context.Context, cfg *config.Config) error {
	var mode string
	if err := survey.AskOne(&survey.Select{
		Message: "Analysis mode:",
		Options: []string{"manual", "hybrid", "autonomous"},
		Default: "hybrid",
	}, &mode); err != nil {
		return err
	}

	if mode == "autonomous" {
		var goal string
		if err := survey.AskOne(&survey.Input{
			Message: "What should the analysis figure out?",
			Help:    `e.g. "compare AAPL and MSFT for a conservative portfolio"`,
		}, &goal, survey.WithValidator(survey.Required)); err != nil {
			return err
		}

		orch, err := buildOrchestrator(ctx, cfg, true)
		if err != nil {
			return err
		}
		report, err := orch.RunAutonomous(ctx, goal)
		if err != nil {
			return err
		}
		fmt.Println(display.Render(report))
		return nil
	}

	var tickers string
	if err := survey.AskOne(&survey.Input{
		Message: "Tickers (comma-separated):",
		Default: "AAPL,MSFT",
	}, &tickers, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	includeSentiment := true
	if mode == "manual" {
		if err := survey.AskOne(&survey.Confirm{
			Message: "Include news sentiment?",
			Default: true,
		}, &includeSentiment); err != nil {
			return err
		}
	}

	orch, err := buildOrchestrator(ctx, cfg, mode == "hybrid")
	if err != nil {
		return err
	}

	if mode == "manual" {
		report, err := orch.RunManual(ctx, splitTickers(tickers), includeSentiment)
		if err != nil {
			return err
		}
		fmt.Println(display.Render(report))
		return nil
	}

	report, err := orch.RunHybrid(ctx, splitTickers(tickers))
	if err != nil {
		return err
	}
	fmt.Println(display.Render(report))
	return nil
}
