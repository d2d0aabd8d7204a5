package timeseries

import (
	"math"

	"StockNews/internal/domain"
)

// Merge folds today's company records into the history under dateKey and
// returns the new table. The company universe is always the base list (the
// current reference table), so newly listed companies gain rows and history
// is carried over by a left join. The dateKey column is fully recomputed:
// rerunning the same day with the same records is idempotent, and companies
// without a record today get a null cell, not zero.
func Merge(base []string, history *Table, records []domain.CompanyRecord, dateKey string) *Table {
	merged := NewTable(base)

	if history != nil {
		for _, date := range history.Dates {
			if date == dateKey {
				continue
			}
			for _, company := range merged.Companies {
				if score, ok := history.Score(company, date); ok {
					merged.Set(company, date, score)
				} else {
					merged.Clear(company, date)
				}
			}
		}
	}

	// Later duplicates overwrite earlier ones; upstream dedup should make
	// this a no-op but the merge must not fail if it is not.
	today := make(map[string]float64, len(records))
	for _, record := range records {
		today[record.Company] = record.AvgScore
	}

	for _, company := range merged.Companies {
		if score, ok := today[company]; ok {
			merged.Set(company, dateKey, math.Round(score*100)/100)
		} else {
			merged.Clear(company, dateKey)
		}
	}

	return merged
}
