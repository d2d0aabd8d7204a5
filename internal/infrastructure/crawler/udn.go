package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"StockNews/internal/domain"
	"StockNews/internal/scanner"
)

const (
	udnBaseURL = "https://money.udn.com/"
	udnListURL = "https://money.udn.com/money/cate/5590"

	udnUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var udnTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"2006-01-02 15:04:05",
	"2006.01.02",
}

// UdnCrawler scrapes the money.udn.com category listing and fetches the
// body of each article inside the window.
type UdnCrawler struct {
	client  *http.Client
	listURL string
	delay   time.Duration
	loc     *time.Location
}

var _ scanner.Crawler = (*UdnCrawler)(nil)

// NewUdnCrawler wires an HTTP client; delay throttles per-article fetches.
func NewUdnCrawler(client *http.Client) *UdnCrawler {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	loc, _ := time.LoadLocation("Asia/Taipei")
	return &UdnCrawler{
		client:  client,
		listURL: udnListURL,
		delay:   500 * time.Millisecond,
		loc:     loc,
	}
}

// Name identifies the strategy inside the registry.
func (u *UdnCrawler) Name() string {
	return "udn"
}

type udnLink struct {
	title       string
	href        string
	publishedAt time.Time
}

// Crawl walks the listing page, filters links by the window, then fetches
// each article body. A single failed article is skipped, not fatal.
func (u *UdnCrawler) Crawl(ctx context.Context, req scanner.Request) ([]domain.CrawledArticle, error) {
	doc, err := u.fetchDocument(ctx, u.listURL)
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}

	links := u.extractLinks(doc)

	var collected []domain.CrawledArticle
	for _, link := range links {
		if link.publishedAt.Before(req.Start) || link.publishedAt.After(req.End) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return collected, err
		}

		content, err := u.fetchArticle(ctx, link.href)
		if err != nil || content == "" {
			continue
		}

		collected = append(collected, domain.CrawledArticle{
			PublishedAt: link.publishedAt,
			Title:       link.title,
			Content:     content,
		})

		time.Sleep(u.delay)
	}

	return collected, nil
}

func (u *UdnCrawler) extractLinks(doc *goquery.Document) []udnLink {
	var links []udnLink

	doc.Find("div.story-headline-wrapper").Each(func(i int, wrapper *goquery.Selection) {
		linkTag := wrapper.Find("div.story__content a").First()
		titleTag := wrapper.Find("h3.story__headline").First()
		timeTag := wrapper.Find("time.rank__time").First()
		if timeTag.Length() == 0 {
			timeTag = wrapper.Find("time").First()
		}

		href, ok := linkTag.Attr("href")
		if !ok || titleTag.Length() == 0 || timeTag.Length() == 0 {
			return
		}

		published, err := u.parseTime(strings.TrimSpace(timeTag.Text()))
		if err != nil {
			return
		}

		links = append(links, udnLink{
			title:       strings.TrimSpace(titleTag.Text()),
			href:        resolveURL(udnBaseURL, strings.TrimSpace(href)),
			publishedAt: published,
		})
	})

	return links
}

func (u *UdnCrawler) parseTime(raw string) (time.Time, error) {
	for _, layout := range udnTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, u.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time string %q", raw)
}

func (u *UdnCrawler) fetchArticle(ctx context.Context, pageURL string) (string, error) {
	doc, err := u.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}

	body := doc.Find("section.article-body__editor").First()
	if body.Length() == 0 {
		body = doc.Find("#article_body").First()
	}
	if body.Length() == 0 {
		return "", nil
	}

	var paragraphs []string
	body.Find("p").Each(func(i int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if utf8.RuneCountInString(text) < 5 {
			return
		}
		paragraphs = append(paragraphs, text)
	})

	return strings.Join(paragraphs, "\n\n"), nil
}

func (u *UdnCrawler) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", udnUserAgent)
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.8")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("udn returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
