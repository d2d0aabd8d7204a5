package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockNews/internal/scanner"
)

func TestCnyesCrawlFiltersWindow(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	start := time.Date(2026, 8, 21, 14, 0, 0, 0, loc)
	end := time.Date(2026, 8, 22, 8, 0, 0, 0, loc)

	inside := start.Add(2 * time.Hour).Unix()
	before := start.Add(-time.Hour).Unix()
	after := end.Add(time.Hour).Unix()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("startAt") != fmt.Sprintf("%d", start.Unix()) {
			t.Errorf("startAt = %q", r.URL.Query().Get("startAt"))
		}

		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"items":{"total":3,"current_page":2,"data":[]}}`)
			return
		}
		fmt.Fprintf(w, `{"items":{"total":3,"current_page":1,"data":[
			{"publishAt":%d,"title":"盤中速報","content":"<p>台積電 &amp; 鴻海同步走揚</p>"},
			{"publishAt":%d,"title":"太早","content":"x"},
			{"publishAt":%d,"title":"太晚","content":"x"}
		]}}`, inside, before, after)
	}))
	defer server.Close()

	c := NewCnyesCrawler(server.Client())
	c.listURL = server.URL

	articles, err := c.Crawl(context.Background(), scanner.Request{Start: start, End: end})
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1 inside the window", len(articles))
	}
	if articles[0].Title != "盤中速報" {
		t.Fatalf("title = %q", articles[0].Title)
	}
	if articles[0].Content != "台積電 & 鴻海同步走揚" {
		t.Fatalf("content = %q", articles[0].Content)
	}
	if !articles[0].PublishedAt.Equal(time.Unix(inside, 0)) {
		t.Fatalf("published = %v", articles[0].PublishedAt)
	}
}

func TestCnyesCrawlServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewCnyesCrawler(server.Client())
	c.listURL = server.URL

	if _, err := c.Crawl(context.Background(), scanner.Request{}); err == nil {
		t.Fatalf("Crawl should surface non-200 responses")
	}
}

func TestCleanHTML(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"<p>晶圓代工</p>":        "晶圓代工",
		"台積電&amp;鴻海":         "台積電&鴻海",
		"  <div>a</div>  ":   "a",
		"":                   "",
	}
	for in, want := range cases {
		if got := CleanHTML(in); got != want {
			t.Fatalf("CleanHTML(%q) = %q, want %q", in, got, want)
		}
	}
}
