package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ryanwei/FolioGo/internal/config"
	"github.com/ryanwei/FolioGo/internal/models"
)

// FinnhubClient fetches company news headlines from the Finnhub API.
type FinnhubClient struct {
	client *resty.Client
	cache  *CacheManager
	apiKey string
}

// NewFinnhubClient creates a new Finnhub client
func NewFinnhubClient(cfg *config.Config) *FinnhubClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "finnhub")
	cache := NewCacheManager(cacheDir, 6*time.Hour, cfg.CacheEnabled)

	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(cfg.HTTPTimeout)

	return &FinnhubClient{
		client: client,
		cache:  cache,
		apiKey: cfg.FinnhubAPIKey,
	}
}

type finnhubNews struct {
	Category string `json:"category"`
	DateTime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// CompanyNews returns up to limit articles for symbol published within the
// last windowDays.
func (fc *FinnhubClient) CompanyNews(ctx context.Context, symbol string, windowDays, limit int) ([]*models.NewsArticle, error) {
	if fc.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	symbol = NormalizeSymbol(symbol)
	to := time.Now()
	from := to.AddDate(0, 0, -windowDays)

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}

	var cached []*models.NewsArticle
	if fc.cache.Get("finnhub", "company_news", cacheKey, &cached) {
		return clipArticles(cached, limit), nil
	}

	var result []*models.NewsArticle
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := fc.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"symbol": symbol,
				"from":   from.Format("2006-01-02"),
				"to":     to.Format("2006-01-02"),
				"token":  fc.apiKey,
			}).
			Get("/company-news")

		if err != nil {
			return fmt.Errorf("failed to fetch news for %s: %w", symbol, err)
		}

		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		var news []finnhubNews
		if err := json.Unmarshal(resp.Body(), &news); err != nil {
			return fmt.Errorf("failed to parse news response: %w", err)
		}

		result = make([]*models.NewsArticle, 0, len(news))
		for _, n := range news {
			result = append(result, &models.NewsArticle{
				Title:       n.Headline,
				Summary:     n.Summary,
				URL:         n.URL,
				Source:      n.Source,
				PublishedAt: time.Unix(n.DateTime, 0),
			})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	fc.cache.Set("finnhub", "company_news", cacheKey, result)

	return clipArticles(result, limit), nil
}

func clipArticles(articles []*models.NewsArticle, limit int) []*models.NewsArticle {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}
