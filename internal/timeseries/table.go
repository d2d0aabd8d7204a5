// Package timeseries maintains the persisted per-company daily score
// history: a wide table with one row per reference company and one column
// per calendar date.
package timeseries

// Table is the wide score history. A cell either holds a score or is null
// (company had no data that day). Row order follows the company universe,
// column order the date keys as accumulated.
type Table struct {
	Companies []string
	Dates     []string
	values    map[string]map[string]float64
}

// NewTable builds an empty table over the given company universe.
func NewTable(companies []string) *Table {
	t := &Table{
		Companies: make([]string, len(companies)),
		values:    map[string]map[string]float64{},
	}
	copy(t.Companies, companies)
	return t
}

// Set writes a score cell, registering the date column if new.
func (t *Table) Set(company, date string, score float64) {
	if !t.hasDate(date) {
		t.Dates = append(t.Dates, date)
	}
	row, ok := t.values[company]
	if !ok {
		row = map[string]float64{}
		t.values[company] = row
	}
	row[date] = score
}

// Clear nulls a single cell without removing the date column.
func (t *Table) Clear(company, date string) {
	if !t.hasDate(date) {
		t.Dates = append(t.Dates, date)
	}
	if row, ok := t.values[company]; ok {
		delete(row, date)
	}
}

// Score reads a cell; ok is false for null cells.
func (t *Table) Score(company, date string) (float64, bool) {
	row, ok := t.values[company]
	if !ok {
		return 0, false
	}
	score, ok := row[date]
	return score, ok
}

func (t *Table) hasDate(date string) bool {
	for _, d := range t.Dates {
		if d == date {
			return true
		}
	}
	return false
}
