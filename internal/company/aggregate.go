package company

import (
	"fmt"
	"strings"

	"StockNews/internal/domain"
)

// combinedSeparator joins the numbered article summaries inside a company's
// combined content. The backslash is literal; downstream prompts rely on it.
const combinedSeparator = ` \n `

// Aggregate groups expanded rows by company key, computing article counts,
// mean final score and the combined content fed to the narrative prompt.
// Company-less rows are excluded. Output preserves first-appearance order.
func Aggregate(rows []domain.ExpandedRow) []domain.CompanyRecord {
	type accumulator struct {
		count     int
		scoreSum  float64
		summaries []string
	}

	var order []string
	groups := map[string]*accumulator{}

	for _, row := range rows {
		if row.Company == "" {
			continue
		}

		acc, ok := groups[row.Company]
		if !ok {
			acc = &accumulator{}
			groups[row.Company] = acc
			order = append(order, row.Company)
		}

		acc.count++
		acc.scoreSum += row.Article.FinalScore
		acc.summaries = append(acc.summaries, StripMentionClause(row.Article.Summary))
	}

	records := make([]domain.CompanyRecord, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		records = append(records, domain.CompanyRecord{
			Company:         key,
			TotalArticles:   acc.count,
			AvgScore:        acc.scoreSum / float64(acc.count),
			CombinedContent: combineContent(acc.summaries),
		})
	}

	return records
}

func combineContent(summaries []string) string {
	parts := make([]string, 0, len(summaries))
	for i, summary := range summaries {
		parts = append(parts, fmt.Sprintf("第%d則新聞:%s", i+1, summary))
	}
	return strings.Join(parts, combinedSeparator)
}
