package company

import "StockNews/internal/domain"

// Expand turns each article into one row per accepted company mention, or a
// single company-less row when nothing was accepted. Rows are deduplicated
// on (summary, company) so repeated extractions never double-count.
func Expand(articles []domain.Article, ref *Reference) []domain.ExpandedRow {
	var rows []domain.ExpandedRow
	seen := map[string]struct{}{}

	appendRow := func(article domain.Article, key string) {
		dedup := article.Summary + "\x00" + key
		if _, ok := seen[dedup]; ok {
			return
		}
		seen[dedup] = struct{}{}
		rows = append(rows, domain.ExpandedRow{Article: article, Company: key})
	}

	for _, article := range articles {
		companies := ref.Extract(article.Summary)
		if len(companies) == 0 {
			appendRow(article, "")
			continue
		}
		for _, key := range companies {
			appendRow(article, key)
		}
	}

	return rows
}
