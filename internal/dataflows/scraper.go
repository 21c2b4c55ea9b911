package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/ryanwei/FolioGo/internal/config"
	"github.com/ryanwei/FolioGo/internal/models"
)

// NewsScraper scrapes Google News search results. It is the fallback news
// source when no Finnhub API key is configured.
type NewsScraper struct {
	client *resty.Client
	cache  *CacheManager
}

// NewNewsScraper creates a new news scraper client
func NewNewsScraper(cfg *config.Config) *NewsScraper {
	cacheDir := filepath.Join(cfg.DataCacheDir, "news_scraper")
	cache := NewCacheManager(cacheDir, 2*time.Hour, cfg.CacheEnabled)

	client := resty.New()
	client.SetTimeout(cfg.HTTPTimeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; FolioGo/1.0)")

	return &NewsScraper{
		client: client,
		cache:  cache,
	}
}

// CompanyNews searches Google News for articles mentioning the symbol within
// the last windowDays.
func (ns *NewsScraper) CompanyNews(ctx context.Context, symbol string, windowDays, limit int) ([]*models.NewsArticle, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	symbol = NormalizeSymbol(symbol)
	end := time.Now()
	start := end.AddDate(0, 0, -windowDays)

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
		"limit":  limit,
	}

	var cached []*models.NewsArticle
	if ns.cache.Get("google_news", "search", cacheKey, &cached) {
		return cached, nil
	}

	searchURL := ns.buildSearchURL(symbol+" stock", start, end)

	var result []*models.NewsArticle
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := ns.client.R().SetContext(ctx).Get(searchURL)
		if err != nil {
			return fmt.Errorf("failed to fetch Google News: %w", err)
		}

		if resp.StatusCode() != 200 {
			return fmt.Errorf("HTTP error %d when fetching Google News", resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return fmt.Errorf("failed to parse HTML: %w", err)
		}

		result = parseArticles(doc)
		if len(result) > limit {
			result = result[:limit]
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	ns.cache.Set("google_news", "search", cacheKey, result)

	return result, nil
}

func (ns *NewsScraper) buildSearchURL(query string, start, end time.Time) string {
	q := url.QueryEscape(fmt.Sprintf("%s after:%s before:%s",
		query, start.Format("2006-01-02"), end.Format("2006-01-02")))
	return fmt.Sprintf("https://news.google.com/search?q=%s&hl=en&gl=US&ceid=US:en", q)
}

func parseArticles(doc *goquery.Document) []*models.NewsArticle {
	var articles []*models.NewsArticle

	doc.Find("article").Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").Text())
		}
		if title == "" {
			return
		}

		href, _ := s.Find("a").First().Attr("href")

		source := strings.TrimSpace(s.Find("div[data-n-tid]").Text())
		if source == "" {
			source = "Google News"
		}

		articles = append(articles, &models.NewsArticle{
			Title:       title,
			URL:         strings.TrimPrefix(href, "."),
			Source:      source,
			PublishedAt: time.Now(),
		})
	})

	return articles
}
