// Package source loads the raw article records handed over by the crawler
// collaborators.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"StockNews/internal/domain"
	"StockNews/internal/ports"
)

// CSVSource concatenates {title,content} records from the configured CSV
// files in arrival order, with no dedup across sources. A missing file is
// skipped with a warning; an unreadable row is skipped silently.
type CSVSource struct {
	paths  []string
	logger *slog.Logger
}

var _ ports.NewsSource = (*CSVSource)(nil)

// NewCSVSource wires the file list, typically the crawler output paths.
func NewCSVSource(paths []string, logger *slog.Logger) *CSVSource {
	return &CSVSource{paths: paths, logger: logger}
}

// Load reads every configured file and returns all records in order.
func (s *CSVSource) Load(ctx context.Context) ([]domain.RawArticle, error) {
	var all []domain.RawArticle

	for _, path := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := readNewsFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				s.logger.Warn("news file missing, skipping", "path", path)
			} else {
				s.logger.Error("cannot read news file, skipping", "path", path, "error", err)
			}
			continue
		}

		s.logger.Info("loaded news file", "path", path, "articles", len(records))
		all = append(all, records...)
	}

	s.logger.Info("news loading done", "total_articles", len(all))
	return all, nil
}

func readNewsFile(path string) ([]domain.RawArticle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	titleIdx, contentIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\xEF\xBB\xBF")) {
		case "title":
			titleIdx = i
		case "content":
			contentIdx = i
		}
	}
	if titleIdx < 0 || contentIdx < 0 {
		return nil, fmt.Errorf("file %s has no title/content columns", path)
	}

	var records []domain.RawArticle
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(row) <= titleIdx || len(row) <= contentIdx {
			continue
		}

		title := strings.TrimSpace(row[titleIdx])
		content := strings.TrimSpace(row[contentIdx])
		if title == "" && content == "" {
			continue
		}
		records = append(records, domain.RawArticle{Title: title, Content: content})
	}

	return records, nil
}
