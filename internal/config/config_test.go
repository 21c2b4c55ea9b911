package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "SPY", cfg.BenchmarkSymbol)
	assert.Equal(t, 504, cfg.LookbackDays)
	assert.Equal(t, 60, cfg.ForecastDays)
	assert.Equal(t, 8, cfg.PlannerBudget)
	assert.Equal(t, 24, cfg.IterationCap)
	assert.Equal(t, 90*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.EnableSentiment)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BENCHMARK_SYMBOL", "QQQ")
	t.Setenv("LOOKBACK_DAYS", "252")
	t.Setenv("PLANNER_BUDGET", "3")
	t.Setenv("LLM_TIMEOUT_SECONDS", "15")
	t.Setenv("ENABLE_SENTIMENT", "false")

	cfg := DefaultConfig()

	assert.Equal(t, "QQQ", cfg.BenchmarkSymbol)
	assert.Equal(t, 252, cfg.LookbackDays)
	assert.Equal(t, 3, cfg.PlannerBudget)
	assert.Equal(t, 15*time.Second, cfg.LLMTimeout)
	assert.False(t, cfg.EnableSentiment)
}

func TestEnvOverridesIgnoreInvalidValues(t *testing.T) {
	t.Setenv("LOOKBACK_DAYS", "not-a-number")
	t.Setenv("PLANNER_BUDGET", "-4")

	cfg := DefaultConfig()

	assert.Equal(t, 504, cfg.LookbackDays)
	assert.Equal(t, 8, cfg.PlannerBudget)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLMProvider = "mystery"
	assert.ErrorContains(t, cfg.Validate(), "unsupported llm provider")

	cfg = DefaultConfig()
	cfg.PlannerBudget = 0
	assert.ErrorContains(t, cfg.Validate(), "planner budget")

	cfg = DefaultConfig()
	cfg.IterationCap = -1
	assert.ErrorContains(t, cfg.Validate(), "iteration cap")
}

func TestLLMAPIKeyFollowsProvider(t *testing.T) {
	cfg := &Config{
		LLMProvider:    "openai",
		OpenAIAPIKey:   "sk-openai",
		DeepSeekAPIKey: "sk-deepseek",
	}
	assert.Equal(t, "sk-openai", cfg.LLMAPIKey())

	cfg.LLMProvider = "deepseek"
	assert.Equal(t, "sk-deepseek", cfg.LLMAPIKey())
}
