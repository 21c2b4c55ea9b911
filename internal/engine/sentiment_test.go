package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanwei/FolioGo/internal/models"
)

func articles(titles ...string) []*models.NewsArticle {
	out := make([]*models.NewsArticle, 0, len(titles))
	for _, title := range titles {
		out = append(out, &models.NewsArticle{Title: title})
	}
	return out
}

func TestScoreHeadlinesEmpty(t *testing.T) {
	score := ScoreHeadlines(nil)
	require.NotNil(t, score)
	assert.Zero(t, score.Polarity)
	assert.Zero(t, score.ArticleCount)
	assert.Equal(t, "NEUTRAL", score.Label)
}

func TestScoreHeadlinesPositive(t *testing.T) {
	score := ScoreHeadlines(articles("Shares surge on record profit"))
	assert.Equal(t, 1, score.ArticleCount)
	assert.InDelta(t, 1.0, score.Polarity, 1e-9)
	assert.Equal(t, "POSITIVE", score.Label)
}

func TestScoreHeadlinesNegative(t *testing.T) {
	score := ScoreHeadlines(articles("Lawsuit fears trigger selloff"))
	assert.InDelta(t, -1.0, score.Polarity, 1e-9)
	assert.Equal(t, "NEGATIVE", score.Label)
}

func TestScoreHeadlinesMixedIsNeutral(t *testing.T) {
	score := ScoreHeadlines(articles("Revenue beats estimates but guidance misses"))
	assert.Zero(t, score.Polarity)
	assert.Equal(t, "NEUTRAL", score.Label)
}

func TestScoreHeadlinesAveragesAcrossArticles(t *testing.T) {
	score := ScoreHeadlines(articles(
		"Stock rallies to record",         // +1
		"Analyst downgrade sparks decline", // -1
		"Quarterly results announced",      // unmatched, 0
	))
	assert.Equal(t, 3, score.ArticleCount)
	assert.Zero(t, score.Polarity)
	assert.Equal(t, "NEUTRAL", score.Label)
}

func TestScoreHeadlinesUsesSummary(t *testing.T) {
	score := ScoreHeadlines([]*models.NewsArticle{
		{Title: "Company update", Summary: "Earnings beat expectations, shares jump"},
	})
	assert.InDelta(t, 1.0, score.Polarity, 1e-9)
	assert.Equal(t, "POSITIVE", score.Label)
}

func TestScoreTextNoLexiconMatches(t *testing.T) {
	assert.Zero(t, scoreText("completely unrelated wording"))
}

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	assert.Equal(t, []string{"apple", "s", "rally", "tops"}, tokenize("Apple's RALLY tops 5%"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, -1.0, clamp(-3, -1, 1))
	assert.Equal(t, 1.0, clamp(3, -1, 1))
	assert.Equal(t, 0.5, clamp(0.5, -1, 1))
}
