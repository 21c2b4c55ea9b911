package engine

import (
	"strings"

	"github.com/ryanwei/FolioGo/internal/models"
)

var positiveWords = map[string]bool{
	"beat": true, "beats": true, "boost": true, "bullish": true, "buy": true,
	"exceed": true, "exceeds": true, "gain": true, "gains": true, "growth": true,
	"jump": true, "jumps": true, "optimistic": true, "outperform": true,
	"profit": true, "rally": true, "rallies": true, "record": true, "rise": true,
	"rises": true, "soar": true, "soars": true, "strong": true, "surge": true,
	"surges": true, "top": true, "tops": true, "upgrade": true, "upgraded": true,
	"win": true, "wins": true,
}

var negativeWords = map[string]bool{
	"bearish": true, "crash": true, "cut": true, "cuts": true, "decline": true,
	"declines": true, "downgrade": true, "downgraded": true, "drop": true,
	"drops": true, "fall": true, "falls": true, "fear": true, "fears": true,
	"lawsuit": true, "layoff": true, "layoffs": true, "loss": true, "losses": true,
	"miss": true, "misses": true, "plunge": true, "plunges": true, "probe": true,
	"recall": true, "risk": true, "sell": true, "selloff": true, "slump": true,
	"warn": true, "warns": true, "warning": true, "weak": true,
}

const neutralBand = 0.05

// ScoreHeadlines computes a lexicon polarity over article titles and
// summaries, averaged across articles and clamped to [-1, 1].
func ScoreHeadlines(articles []*models.NewsArticle) *models.SentimentScore {
	if len(articles) == 0 {
		return &models.SentimentScore{Polarity: 0, ArticleCount: 0, Label: "NEUTRAL"}
	}

	total := 0.0
	for _, a := range articles {
		total += scoreText(a.Title + " " + a.Summary)
	}
	polarity := clamp(total/float64(len(articles)), -1, 1)

	label := "NEUTRAL"
	switch {
	case polarity > neutralBand:
		label = "POSITIVE"
	case polarity < -neutralBand:
		label = "NEGATIVE"
	}

	return &models.SentimentScore{
		Polarity:     polarity,
		ArticleCount: len(articles),
		Label:        label,
	}
}

// scoreText is (positive - negative) / matched for one article's text,
// zero when no lexicon words match.
func scoreText(text string) float64 {
	var pos, neg int
	for _, tok := range tokenize(text) {
		if positiveWords[tok] {
			pos++
		} else if negativeWords[tok] {
			neg++
		}
	}
	matched := pos + neg
	if matched == 0 {
		return 0
	}
	return float64(pos-neg) / float64(matched)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
