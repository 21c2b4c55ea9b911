// Package cli provides the command-line interface for FolioGo.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryanwei/FolioGo/internal/config"
	"github.com/ryanwei/FolioGo/internal/dataflows"
	"github.com/ryanwei/FolioGo/internal/debug"
	"github.com/ryanwei/FolioGo/internal/display"
	"github.com/ryanwei/FolioGo/internal/models"
	"github.com/ryanwei/FolioGo/internal/tools"
	"github.com/ryanwei/FolioGo/internal/workflow"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "foliogo",
		Short: "FolioGo - AI-Powered Portfolio Comparison",
		Long: `FolioGo compares equity tickers by combining deterministic forecasting,
risk analytics and news sentiment, with an optional language-model narrative.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
				cfg.Debug = true
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return debug.NewEinoDebugger(cfg).Initialize()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(newManualCmd(cfg))
	rootCmd.AddCommand(newHybridCmd(cfg))
	rootCmd.AddCommand(newAutoCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

func newManualCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manual TICKERS",
		Short: "Run the deterministic pipeline without any language-model calls",
		Long: `Run the fixed analysis pipeline over a comma-separated ticker list.
Example: foliogo manual AAPL,MSFT,GOOGL --sentiment=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sentiment, _ := cmd.Flags().GetBool("sentiment")
			applyDays(cfg, cmd)

			orch, err := buildOrchestrator(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			report, err := orch.RunManual(cmd.Context(), splitTickers(args[0]), sentiment)
			if err != nil {
				return err
			}
			return printReport(cmd, report)
		},
	}
	cmd.Flags().Bool("sentiment", true, "Include news sentiment analysis")
	cmd.Flags().Int("days", 0, "Forecast horizon in days (config default if unset)")
	return cmd
}

func newHybridCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hybrid TICKERS",
		Short: "Run the deterministic pipeline plus one language-model synthesis call",
		Long: `Run the full analysis pipeline and synthesize the narrative with a single
language-model call. Example: foliogo hybrid AAPL,MSFT --days=90`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyDays(cfg, cmd)

			orch, err := buildOrchestrator(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			report, err := orch.RunHybrid(cmd.Context(), splitTickers(args[0]))
			if err != nil {
				return err
			}
			return printReport(cmd, report)
		},
	}
	cmd.Flags().Int("days", 0, "Forecast horizon in days (config default if unset)")
	return cmd
}

func newAutoCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "auto GOAL",
		Short: "Let the language model plan the analysis from a free-text goal",
		Long: `Run autonomous mode: the model chooses which tools to invoke, bounded by
the configured budget and iteration cap.
Example: foliogo auto "compare AAPL and MSFT for a conservative portfolio"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := buildOrchestrator(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			report, err := orch.RunAutonomous(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printReport(cmd, report)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("FolioGo v1.0.0")
			fmt.Println("Portfolio Intelligence, Built with Go")
		},
	}
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// buildOrchestrator assembles providers, registry and model from config.
// needModel requires a usable language model (hybrid still works without
// one, autonomous does not).
func buildOrchestrator(ctx context.Context, cfg *config.Config, needModel bool) (*workflow.Orchestrator, error) {
	var prices tools.PriceProvider
	if lp, err := dataflows.NewLongportClient(cfg); err == nil {
		prices = lp
	} else {
		prices = dataflows.NewYahooClient(cfg)
	}

	var news tools.NewsProvider
	if cfg.FinnhubAPIKey != "" {
		news = dataflows.NewFinnhubClient(cfg)
	} else {
		news = dataflows.NewNewsScraper(cfg)
	}

	registry := tools.NewRegistry(cfg, prices, news)

	var bound workflow.ChatModel
	if needModel && cfg.LLMAPIKey() != "" {
		base, err := workflow.NewChatModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		bound, err = workflow.BindTools(base, registry.ToolInfos())
		if err != nil {
			return nil, err
		}
	}

	return workflow.NewOrchestrator(cfg, registry, bound), nil
}

func splitTickers(arg string) []string {
	parts := strings.Split(arg, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tickers = append(tickers, p)
		}
	}
	return tickers
}

func applyDays(cfg *config.Config, cmd *cobra.Command) {
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		cfg.ForecastDays = days
	}
}

func printReport(cmd *cobra.Command, report *models.Report) error {
	fmt.Fprintln(cmd.OutOrStdout(), display.Render(report))
	return nil
}

func showConfig(cfg *config.Config) {
	fmt.Printf("LLM provider:        %s (%s)\n", cfg.LLMProvider, cfg.LLMModel)
	fmt.Printf("Benchmark symbol:    %s\n", cfg.BenchmarkSymbol)
	fmt.Printf("Lookback days:       %d\n", cfg.LookbackDays)
	fmt.Printf("Forecast days:       %d\n", cfg.ForecastDays)
	fmt.Printf("Sentiment window:    %d days (enabled: %t)\n", cfg.SentimentWindowDays, cfg.EnableSentiment)
	fmt.Printf("Planner budget:      %d calls\n", cfg.PlannerBudget)
	fmt.Printf("Iteration cap:       %d\n", cfg.IterationCap)
	fmt.Printf("Cache enabled:       %t\n", cfg.CacheEnabled)
	fmt.Printf("Finnhub key set:     %t\n", cfg.FinnhubAPIKey != "")
	fmt.Printf("Longport configured: %t\n", cfg.LongportAppKey != "")
}

func validateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.LLMAPIKey() == "" {
		fmt.Println("⚠ No API key for the configured LLM provider; hybrid narratives degrade to templates and autonomous mode is unavailable.")
	}
	if cfg.EnableSentiment && cfg.FinnhubAPIKey == "" {
		fmt.Println("⚠ Sentiment enabled without FINNHUB_API_KEY; falling back to the Google News scraper.")
	}
	fmt.Println("Configuration OK")
	return nil
}
