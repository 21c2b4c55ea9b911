package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	LLMProvider    string `json:"llm_provider"` // "openai" or "deepseek"
	LLMModel       string `json:"llm_model"`
	BackendURL     string `json:"backend_url"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`

	FinnhubAPIKey string `json:"finnhub_api_key"`

	// Longport API configuration; when all three are set the Longport
	// candlestick feed replaces Yahoo Finance as the price source.
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`

	BenchmarkSymbol     string `json:"benchmark_symbol"`
	LookbackDays        int    `json:"lookback_days"`
	ForecastDays        int    `json:"forecast_days"`
	SentimentWindowDays int    `json:"sentiment_window_days"`
	MaxNewsArticles     int    `json:"max_news_articles"`

	PlannerBudget int `json:"planner_budget"` // language-model calls per autonomous run
	IterationCap  int `json:"iteration_cap"`  // hard cap on call-log length in autonomous mode

	LLMTimeout  time.Duration `json:"llm_timeout"`
	HTTPTimeout time.Duration `json:"http_timeout"`

	EnableSentiment bool `json:"enable_sentiment"`
	CacheEnabled    bool `json:"cache_enabled"`
	Debug           bool `json:"debug"`

	// Eino debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		LLMProvider: "deepseek",
		LLMModel:    "deepseek-chat",
		BackendURL:  "",

		BenchmarkSymbol:     "SPY",
		LookbackDays:        504, // roughly two trading years
		ForecastDays:        60,
		SentimentWindowDays: 7,
		MaxNewsArticles:     10,

		PlannerBudget: 8,
		IterationCap:  24,

		LLMTimeout:  90 * time.Second,
		HTTPTimeout: 30 * time.Second,

		EnableSentiment: true,
		CacheEnabled:    true,
		Debug:           false,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}
	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}
	if val := os.Getenv("BENCHMARK_SYMBOL"); val != "" {
		c.BenchmarkSymbol = val
	}
	if val := os.Getenv("LOOKBACK_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.LookbackDays = n
		}
	}
	if val := os.Getenv("FORECAST_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.ForecastDays = n
		}
	}
	if val := os.Getenv("SENTIMENT_WINDOW_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.SentimentWindowDays = n
		}
	}
	if val := os.Getenv("MAX_NEWS_ARTICLES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.MaxNewsArticles = n
		}
	}
	if val := os.Getenv("PLANNER_BUDGET"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.PlannerBudget = n
		}
	}
	if val := os.Getenv("ITERATION_CAP"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.IterationCap = n
		}
	}
	if val := os.Getenv("LLM_TIMEOUT_SECONDS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.LLMTimeout = time.Duration(n) * time.Second
		}
	}
	if val := os.Getenv("HTTP_TIMEOUT_SECONDS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if val := os.Getenv("ENABLE_SENTIMENT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.EnableSentiment = b
		}
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = b
		}
	}
	if val := os.Getenv("DEBUG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		}
	}
	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = b
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.EinoDebugPort = n
		}
	}
}

// LLMAPIKey returns the API key matching the configured provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.DeepSeekAPIKey
}

// Validate checks provider settings and reports configuration problems.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "openai", "deepseek":
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.LLMProvider)
	}
	if c.PlannerBudget <= 0 {
		return fmt.Errorf("planner budget must be positive, got %d", c.PlannerBudget)
	}
	if c.IterationCap <= 0 {
		return fmt.Errorf("iteration cap must be positive, got %d", c.IterationCap)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.DataCacheDir, 0755); err != nil {
		return err
	}
	return nil
}
