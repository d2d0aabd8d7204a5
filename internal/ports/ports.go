package ports

import (
	"context"
	"time"

	"StockNews/internal/domain"
)

// NewsSource loads the raw article records produced by the crawler
// collaborators. Missing source files are skipped, not fatal.
type NewsSource interface {
	Load(ctx context.Context) ([]domain.RawArticle, error)
}

// ChatClient sends a single user-role prompt to the generation service and
// returns its free-text response.
type ChatClient interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// TextClassifier is the independent, deterministic secondary sentiment
// classifier operating on translated text.
type TextClassifier interface {
	Classify(text string) (domain.Label, float64)
}

// CrawlerRunner executes the configured site crawlers for a time window and
// returns the CSV files they produced.
type CrawlerRunner interface {
	Run(ctx context.Context, start, end time.Time) ([]string, error)
}

// ArticleRepository persists scored articles for audit and later inspection.
type ArticleRepository interface {
	SaveScored(ctx context.Context, articles []domain.Article) error
}

// Notifier delivers the final digest to the configured channel.
type Notifier interface {
	PublishDigest(ctx context.Context, subject, body string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
