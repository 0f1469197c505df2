package repository

import (
	"context"
	"strings"

	"golang-chart-predictor/internal/predictor/config"
	"golang-chart-predictor/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// MarketHeadlinesRepository provides recent market headlines used as
// optional context for the external-model vote.
type MarketHeadlinesRepository interface {
	GetTopHeadlines(ctx context.Context, limit int) ([]string, error)
}

type marketHeadlinesRepository struct {
	cfg    *config.Config
	logger *logger.Logger
	parser *gofeed.Parser
}

// NewMarketHeadlinesRepository creates a new MarketHeadlinesRepository
// backed by the configured RSS feed.
func NewMarketHeadlinesRepository(cfg *config.Config, log *logger.Logger) MarketHeadlinesRepository {
	return &marketHeadlinesRepository{
		cfg:    cfg,
		logger: log,
		parser: gofeed.NewParser(),
	}
}

func (r *marketHeadlinesRepository) GetTopHeadlines(ctx context.Context, limit int) ([]string, error) {
	feed, err := r.parser.ParseURLWithContext(r.cfg.Headlines.FeedURL, ctx)
	if err != nil {
		return nil, err
	}

	headlines := make([]string, 0, limit)
	for _, item := range feed.Items {
		if len(headlines) >= limit {
			break
		}
		headline := strings.TrimSpace(item.Title)
		if headline == "" {
			// Some feeds only populate the HTML description.
			headline = stripHTML(item.Description)
		}
		if headline != "" {
			headlines = append(headlines, headline)
		}
	}

	return headlines, nil
}

func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
