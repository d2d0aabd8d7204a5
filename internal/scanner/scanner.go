package scanner

import (
	"context"
	"fmt"
	"time"

	"StockNews/internal/domain"
)

// Request carries all parameters required to execute one site crawl.
type Request struct {
	Start    time.Time
	End      time.Time
	SiteName string
	Options  map[string]string
}

// Crawler captures a single site strategy (cnyes, udn, etc.). Results are
// already filtered to the requested window.
type Crawler interface {
	Name() string
	Crawl(ctx context.Context, req Request) ([]domain.CrawledArticle, error)
}

// Registry keeps a mapping from crawler names to their implementations.
type Registry struct {
	crawlers map[string]Crawler
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{crawlers: map[string]Crawler{}}
}

// Register adds or replaces a crawler implementation.
func (r *Registry) Register(crawler Crawler) {
	if r.crawlers == nil {
		r.crawlers = map[string]Crawler{}
	}
	r.crawlers[crawler.Name()] = crawler
}

// Resolve returns a crawler by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Crawler, error) {
	if crawler, ok := r.crawlers[name]; ok {
		return crawler, nil
	}
	return nil, fmt.Errorf("crawler %s is not registered", name)
}
