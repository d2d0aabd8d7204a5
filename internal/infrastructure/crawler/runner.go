package crawler

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"StockNews/internal/config"
	"StockNews/internal/domain"
	"StockNews/internal/ports"
	"StockNews/internal/scanner"
)

// Runner executes the configured site crawlers concurrently and hands each
// result over as a {time,title,content} CSV in the news directory. One
// failed site is logged and skipped; it never aborts the run.
type Runner struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	newsDir  string
	logger   *slog.Logger
}

var _ ports.CrawlerRunner = (*Runner)(nil)

// NewRunner wires the crawler registry with the config-defined sites.
func NewRunner(registry *scanner.Registry, sites []config.SiteConfig, newsDir string, logger *slog.Logger) *Runner {
	return &Runner{
		registry: registry,
		sites:    sites,
		newsDir:  newsDir,
		logger:   logger,
	}
}

// Run crawls every site for the window and returns the CSV paths written.
func (r *Runner) Run(ctx context.Context, start, end time.Time) ([]string, error) {
	if r.registry == nil {
		return nil, fmt.Errorf("crawler registry is not configured")
	}

	if err := os.MkdirAll(r.newsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create news dir: %w", err)
	}

	r.logger.Info("crawl window", "start", start.Format(time.DateTime), "end", end.Format(time.DateTime))

	var (
		mu    sync.Mutex
		paths []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, site := range r.sites {
		site := site
		g.Go(func() error {
			path, err := r.crawlSite(gctx, site, start, end)
			if err != nil {
				r.logger.Error("site crawl failed, skipping", "site", site.Name, "error", err)
				return nil
			}

			mu.Lock()
			paths = append(paths, path)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return paths, nil
}

func (r *Runner) crawlSite(ctx context.Context, site config.SiteConfig, start, end time.Time) (string, error) {
	strategy, err := r.registry.Resolve(site.Crawler)
	if err != nil {
		return "", err
	}

	articles, err := strategy.Crawl(ctx, scanner.Request{
		Start:    start,
		End:      end,
		SiteName: site.Name,
		Options:  site.Options,
	})
	if err != nil {
		return "", err
	}

	output := site.Output
	if output == "" {
		output = site.Name + "_news.csv"
	}
	path := filepath.Join(r.newsDir, output)

	if err := writeNewsCSV(path, articles); err != nil {
		return "", err
	}

	r.logger.Info("site crawled", "site", site.Name, "articles", len(articles), "path", path)
	return path, nil
}

func writeNewsCSV(path string, articles []domain.CrawledArticle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
		f.Close()
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"time", "title", "content"}); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}

	for _, article := range articles {
		row := []string{
			article.PublishedAt.Format("2006-01-02 15:04:05"),
			article.Title,
			article.Content,
		}
		if err := writer.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
