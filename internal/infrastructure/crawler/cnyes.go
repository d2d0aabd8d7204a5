// Package crawler implements the site strategies that deliver raw news
// records to the pipeline.
package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"StockNews/internal/domain"
	"StockNews/internal/scanner"
)

const cnyesListURL = "https://api.cnyes.com/media/api/v1/newslist/category/tw_stock"

// Article bodies arrive as HTML; strip tags, entities and runs of
// whitespace in one pass.
var htmlNoiseExpr = regexp.MustCompile(`<[^>]+>|&[a-z0-9]+;|\s+`)

// CnyesCrawler pages through the cnyes tw_stock JSON listing inside the
// requested window.
type CnyesCrawler struct {
	client   *http.Client
	listURL  string
	maxPages int
	pageSize int
	loc      *time.Location
}

var _ scanner.Crawler = (*CnyesCrawler)(nil)

// NewCnyesCrawler wires an HTTP client; maxPages defaults to 3.
func NewCnyesCrawler(client *http.Client) *CnyesCrawler {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	loc, _ := time.LoadLocation("Asia/Taipei")
	return &CnyesCrawler{
		client:   client,
		listURL:  cnyesListURL,
		maxPages: 3,
		pageSize: 30,
		loc:      loc,
	}
}

// Name identifies the strategy inside the registry.
func (c *CnyesCrawler) Name() string {
	return "cnyes"
}

type cnyesEnvelope struct {
	Items struct {
		Total       int          `json:"total"`
		CurrentPage int          `json:"current_page"`
		Data        []cnyesEntry `json:"data"`
	} `json:"items"`
}

type cnyesEntry struct {
	PublishAt int64  `json:"publishAt"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// Crawl fetches up to maxPages listing pages and returns articles inside
// [req.Start, req.End].
func (c *CnyesCrawler) Crawl(ctx context.Context, req scanner.Request) ([]domain.CrawledArticle, error) {
	var collected []domain.CrawledArticle

	for page := 1; page <= c.maxPages; page++ {
		entries, err := c.fetchPage(ctx, page, req.Start, req.End)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		for _, entry := range entries {
			published := time.Unix(entry.PublishAt, 0).In(c.loc)
			if published.Before(req.Start) || published.After(req.End) {
				continue
			}
			collected = append(collected, domain.CrawledArticle{
				PublishedAt: published,
				Title:       entry.Title,
				Content:     CleanHTML(entry.Content),
			})
		}
	}

	return collected, nil
}

func (c *CnyesCrawler) fetchPage(ctx context.Context, page int, start, end time.Time) ([]cnyesEntry, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(c.pageSize))
	query.Set("isCategoryHeadline", "0")
	query.Set("startAt", strconv.FormatInt(start.Unix(), 10))
	query.Set("endAt", strconv.FormatInt(end.Unix(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cnyes returned %s", resp.Status)
	}

	var envelope cnyesEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	return envelope.Items.Data, nil
}

// CleanHTML removes tags, entities and collapses whitespace.
func CleanHTML(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := htmlNoiseExpr.ReplaceAllString(html.UnescapeString(raw), " ")
	return strings.TrimSpace(cleaned)
}
