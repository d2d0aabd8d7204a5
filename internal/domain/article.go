package domain

import "time"

// Label is the canonical sentiment class shared by both classifiers.
type Label string

const (
	LabelPositive Label = "pos"
	LabelNeutral  Label = "neu"
	LabelNegative Label = "neg"
)

// RawArticle is one input record handed over by the crawler collaborators.
type RawArticle struct {
	Title   string
	Content string
}

// CrawledArticle is a news item as fetched from a site, before the crawl
// window filter and the CSV handoff.
type CrawledArticle struct {
	PublishedAt time.Time
	Title       string
	Content     string
}

// Classification is one classifier's verdict on an article.
type Classification struct {
	Label      Label
	Confidence float64
	Score      float64
}

// Article carries a news item through the analysis pipeline. ID is the
// stable row index in input order. Mutated by the summarization and scoring
// stages, immutable afterward.
type Article struct {
	ID          int
	Title       string
	Content     string
	Summary     string
	Translation string

	Primary    Classification
	Secondary  Classification
	FinalScore float64
}

// ExpandedRow is one (article, accepted company) pair. Company holds the
// canonical "Name(Code)" key and is empty when the article had no accepted
// mentions; such rows are kept for traceability but excluded from
// aggregation.
type ExpandedRow struct {
	Article Article
	Company string
}

// CompanyRecord is the per-company aggregate over expanded rows. Summary is
// the generated narrative and stays empty until it passes the validation
// gate; records without a summary are dropped from the final output.
type CompanyRecord struct {
	Company         string
	TotalArticles   int
	AvgScore        float64
	CombinedContent string
	Summary         string
}
