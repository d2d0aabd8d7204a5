package source

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFixture(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func TestLoadConcatenatesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFixture(t, dir, "cnyes_news.csv",
		"\xEF\xBB\xBFtime,title,content\n2026-08-22 15:00,台積電法說,內容一\n")
	second := writeFixture(t, dir, "money_news.csv",
		"time,title,content\n2026-08-22 16:00,鴻海出貨,內容二\n,,\n")

	src := NewCSVSource([]string{first, second}, discardLogger())
	articles, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].Title != "台積電法說" || articles[0].Content != "內容一" {
		t.Fatalf("first article = %+v", articles[0])
	}
	if articles[1].Title != "鴻海出貨" {
		t.Fatalf("second article = %+v", articles[1])
	}
}

func TestLoadSkipsMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	present := writeFixture(t, dir, "present.csv",
		"title,content\n只有一則,內文\n")

	src := NewCSVSource([]string{filepath.Join(dir, "absent.csv"), present}, discardLogger())
	articles, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(articles))
	}
}

func TestLoadSkipsFileWithForeignColumns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bogus := writeFixture(t, dir, "bogus.csv", "a,b\n1,2\n")

	src := NewCSVSource([]string{bogus}, discardLogger())
	articles, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("got %d articles, want 0", len(articles))
	}
}

func TestLoadHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewCSVSource([]string{"whatever.csv"}, discardLogger())
	if _, err := src.Load(ctx); err == nil {
		t.Fatalf("cancelled context should abort the load")
	}
}
