package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"StockNews/internal/company"
	"StockNews/internal/domain"
	"StockNews/internal/ports"
	"StockNews/internal/sentiment"
	"StockNews/internal/timeseries"
	"StockNews/internal/timewindow"
)

// PipelineDeps wires all collaborators into the orchestration pipeline.
type PipelineDeps struct {
	Crawler    ports.CrawlerRunner
	Source     ports.NewsSource
	Analyzer   *sentiment.Analyzer
	Reference  *company.Reference
	Narrator   *company.Narrator
	History    *timeseries.Manager
	Repository ports.ArticleRepository
	Notifier   ports.Notifier

	Workers   int
	StatsPath string
	Location  *time.Location
	Logger    *slog.Logger
}

// Pipeline implements one full run: crawl, summarize, score, expand,
// aggregate, narrate, persist, notify. Single-item failures degrade to
// defaults or drops; the run always completes.
type Pipeline struct {
	crawler    ports.CrawlerRunner
	source     ports.NewsSource
	analyzer   *sentiment.Analyzer
	reference  *company.Reference
	narrator   *company.Narrator
	history    *timeseries.Manager
	repository ports.ArticleRepository
	notifier   ports.Notifier

	workers   int
	statsPath string
	loc       *time.Location
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	workers := deps.Workers
	if workers <= 0 {
		workers = 4
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{
		crawler:    deps.Crawler,
		source:     deps.Source,
		analyzer:   deps.Analyzer,
		reference:  deps.Reference,
		narrator:   deps.Narrator,
		history:    deps.History,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		workers:    workers,
		statsPath:  deps.StatsPath,
		loc:        loc,
		logger:     deps.Logger,
	}
}

// Run executes the full pipeline for a run triggered at now.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	now = now.In(p.loc)
	p.logger.Info("pipeline run starting", "date", now.Format("2006-01-02"))

	if p.crawler != nil {
		start, end := timewindow.Window(now, p.loc)
		if _, err := p.crawler.Run(ctx, start, end); err != nil {
			p.logger.Error("crawl phase failed, analyzing whatever news files exist", "error", err)
		}
	}

	raw, err := p.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load news: %w", err)
	}
	if len(raw) == 0 {
		p.logger.Warn("no news records found, skipping analysis")
		return nil
	}

	articles := p.analyze(ctx, raw)

	if p.repository != nil {
		if err := p.repository.SaveScored(ctx, articles); err != nil {
			p.logger.Error("audit store update failed", "error", err)
		}
	}

	expanded := company.Expand(articles, p.reference)
	p.logger.Info("expanded articles by company", "rows", len(expanded))

	records := company.Aggregate(expanded)
	p.logger.Info("aggregated company stats", "companies", len(records))

	records = p.narrate(ctx, records)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].AvgScore > records[j].AvgScore
	})

	if len(records) == 0 {
		p.logger.Warn("analysis result is empty, nothing to save")
		return nil
	}

	if err := writeStats(p.statsPath, records); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	p.logger.Info("stats saved", "path", p.statsPath)

	if err := p.history.UpdateDailyScores(records, now.Format("20060102")); err != nil {
		p.logger.Error("time-series update failed", "error", err)
	}

	p.notify(ctx, records)

	p.logger.Info("pipeline run finished")
	return nil
}

// analyze builds one Article per raw record and runs the summarization and
// scoring stages over a bounded worker pool. Results land at their input
// index, so output order always matches input order.
func (p *Pipeline) analyze(ctx context.Context, raw []domain.RawArticle) []domain.Article {
	articles := make([]domain.Article, len(raw))
	for i, record := range raw {
		articles[i] = domain.Article{ID: i, Title: record.Title, Content: record.Content}
	}

	p.logger.Info("generating summaries", "articles", len(articles))
	p.forEach(len(articles), "summary progress", func(i int) {
		articles[i].Summary = p.analyzer.Summarize(ctx, articles[i].Title, articles[i].Content)
	})

	p.logger.Info("scoring sentiment", "articles", len(articles))
	p.forEach(len(articles), "scoring progress", func(i int) {
		p.analyzer.Score(ctx, &articles[i])
	})

	return articles
}

// narrate generates and validates the per-company narrative concurrently.
// Records whose narrative fails the gate are dropped from final output.
func (p *Pipeline) narrate(ctx context.Context, records []domain.CompanyRecord) []domain.CompanyRecord {
	if len(records) == 0 {
		return records
	}

	p.logger.Info("generating company narratives", "companies", len(records))
	p.forEach(len(records), "narrative progress", func(i int) {
		records[i].Summary = p.narrator.Narrate(ctx, records[i].Company, records[i].CombinedContent)
	})

	kept := records[:0]
	for _, record := range records {
		if record.Summary == "" {
			continue
		}
		kept = append(kept, record)
	}

	if dropped := len(records) - len(kept); dropped > 0 {
		p.logger.Info("dropped companies with invalid narratives", "dropped", dropped)
	}
	return kept
}

// forEach runs fn(i) for 0..n-1 on the bounded pool, logging progress every
// ten completions.
func (p *Pipeline) forEach(n int, progressMsg string, fn func(i int)) {
	var done atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			if completed := done.Add(1); completed%10 == 0 || completed == int64(n) {
				p.logger.Info(progressMsg, "completed", completed, "total", n)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) notify(ctx context.Context, records []domain.CompanyRecord) {
	if p.notifier == nil {
		return
	}

	if err := p.notifier.PublishDigest(ctx, "每日財經新聞情緒統計", buildDigest(records)); err != nil {
		p.logger.Warn("digest delivery failed", "error", err)
	}
}

func buildDigest(records []domain.CompanyRecord) string {
	var formatted string
	for _, record := range records {
		formatted += fmt.Sprintf("- %s 文章數 %d 平均情緒分數 %.2f\n%s\n\n",
			record.Company,
			record.TotalArticles,
			record.AvgScore,
			record.Summary)
	}
	return formatted
}

// writeStats persists the per-company stats table, sorted as given.
func writeStats(path string, records []domain.CompanyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
		f.Close()
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"company", "total_articles", "avg_weighted_score", "company_summary"}); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.Company,
			strconv.Itoa(record.TotalArticles),
			strconv.FormatFloat(sentiment.Round2(record.AvgScore), 'f', 2, 64),
			record.Summary,
		}
		if err := writer.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush stats: %w", err)
	}
	return f.Close()
}
