package usecase

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockNews/internal/company"
	"StockNews/internal/domain"
	"StockNews/internal/sentiment"
	"StockNews/internal/timeseries"
)

type chatFunc func(ctx context.Context, prompt string) (string, error)

func (f chatFunc) Chat(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type classifyFunc func(text string) (domain.Label, float64)

func (f classifyFunc) Classify(text string) (domain.Label, float64) {
	return f(text)
}

type fakeSource struct {
	articles []domain.RawArticle
}

func (s *fakeSource) Load(context.Context) ([]domain.RawArticle, error) {
	return s.articles, nil
}

type fakeCrawler struct {
	start, end time.Time
}

func (c *fakeCrawler) Run(_ context.Context, start, end time.Time) ([]string, error) {
	c.start, c.end = start, end
	return nil, nil
}

type fakeRepo struct {
	saved []domain.Article
}

func (r *fakeRepo) SaveScored(_ context.Context, articles []domain.Article) error {
	r.saved = articles
	return nil
}

type fakeNotifier struct {
	subject, body string
}

func (n *fakeNotifier) PublishDigest(_ context.Context, subject, body string) error {
	n.subject, n.body = subject, body
	return nil
}

// scriptedChat answers every prompt kind the pipeline issues.
func scriptedChat() chatFunc {
	return func(_ context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "摘要助手"):
			if strings.Contains(prompt, "台積電") {
				return "台積電營收亮眼。新聞提及公司:台積電(2330)", nil
			}
			return "大盤維持整理格局。", nil
		case strings.Contains(prompt, "閱讀助手"):
			return "標籤:正面\n信心:1.0", nil
		case strings.Contains(prompt, "翻譯助手"):
			return "Revenue looks solid.", nil
		case strings.Contains(prompt, "分析助手"):
			return "台積電今日新聞聚焦於營收表現與先進製程展望。", nil
		case strings.Contains(prompt, "審核助手"):
			return "YES", nil
		default:
			return "", nil
		}
	}
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	statsPath := filepath.Join(dir, "company_sentiment_stats.csv")
	historyPath := filepath.Join(dir, "sentiment_history.csv")

	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	chat := scriptedChat()
	classifier := classifyFunc(func(string) (domain.Label, float64) {
		return domain.LabelNeutral, 0.9
	})
	reference := company.NewReference([]string{"台積電", "鴻海"}, []string{"2330", "2317"})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	crawled := &fakeCrawler{}
	repo := &fakeRepo{}
	notified := &fakeNotifier{}

	pipeline := NewPipeline(PipelineDeps{
		Crawler:   crawled,
		Source:    &fakeSource{articles: []domain.RawArticle{
			{Title: "台積電法說會", Content: "台積電公布財報"},
			{Title: "盤勢觀察", Content: "指數小幅震盪"},
		}},
		Analyzer:   sentiment.NewAnalyzer(chat, classifier, 0.6, 0.4, nil),
		Reference:  reference,
		Narrator:   company.NewNarrator(chat, nil),
		History:    timeseries.NewManager(reference.Keys(), timeseries.NewStore(historyPath), logger),
		Repository: repo,
		Notifier:   notified,
		Workers:    2,
		StatsPath:  statsPath,
		Location:   loc,
		Logger:     logger,
	})

	now := time.Date(2026, 8, 21, 10, 0, 0, 0, loc)
	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if crawled.start.Hour() != 14 || crawled.end.Hour() != 8 {
		t.Fatalf("crawl window = %v .. %v", crawled.start, crawled.end)
	}

	if len(repo.saved) != 2 {
		t.Fatalf("audit store received %d articles, want 2", len(repo.saved))
	}
	for _, article := range repo.saved {
		if article.FinalScore != 0.80 {
			t.Fatalf("article %d FinalScore = %v, want 0.80", article.ID, article.FinalScore)
		}
	}

	stats, err := os.ReadFile(statsPath)
	if err != nil {
		t.Fatalf("read stats: %v", err)
	}
	if !strings.HasPrefix(string(stats), "\xEF\xBB\xBF") {
		t.Fatalf("stats file missing BOM")
	}
	if !strings.Contains(string(stats), "company,total_articles,avg_weighted_score,company_summary") {
		t.Fatalf("stats header missing: %q", stats)
	}
	if !strings.Contains(string(stats), "台積電(2330),1,0.80,台積電今日新聞聚焦於營收表現與先進製程展望。") {
		t.Fatalf("stats row missing: %q", stats)
	}

	history, err := timeseries.NewStore(historyPath).Load()
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if score, ok := history.Score("台積電(2330)", "20260821"); !ok || score != 0.80 {
		t.Fatalf("history cell = %v, %v", score, ok)
	}
	if _, ok := history.Score("鴻海(2317)", "20260821"); ok {
		t.Fatalf("鴻海 had no articles, cell must be null")
	}

	if notified.subject != "每日財經新聞情緒統計" {
		t.Fatalf("digest subject = %q", notified.subject)
	}
	if !strings.Contains(notified.body, "台積電(2330) 文章數 1 平均情緒分數 0.80") {
		t.Fatalf("digest body = %q", notified.body)
	}
}

func TestPipelineRunNoNews(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	statsPath := filepath.Join(t.TempDir(), "stats.csv")

	pipeline := NewPipeline(PipelineDeps{
		Source:    &fakeSource{},
		Analyzer:  sentiment.NewAnalyzer(nil, nil, 0.6, 0.4, nil),
		Narrator:  company.NewNarrator(nil, nil),
		History:   timeseries.NewManager(nil, timeseries.NewStore(statsPath), logger),
		StatsPath: statsPath,
		Logger:    logger,
	})

	if err := pipeline.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run with no news should be a clean no-op: %v", err)
	}
	if _, err := os.Stat(statsPath); !os.IsNotExist(err) {
		t.Fatalf("no stats file should be written")
	}
}
