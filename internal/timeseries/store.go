package timeseries

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// utf8BOM keeps the CSVs readable in spreadsheet tools that guess encoding.
const utf8BOM = "\xEF\xBB\xBF"

// Store persists the wide table as a CSV file: header `company,<date>...`,
// null cells as empty fields.
type Store struct {
	path string
}

// NewStore points the store at the history file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted history. The caller treats any error (missing
// file included) as "reinitialize from base".
func (s *Store) Load() (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("history file %s is empty", s.path)
	}

	header := rows[0]
	if len(header) == 0 || strings.TrimPrefix(header[0], utf8BOM) != "company" {
		return nil, fmt.Errorf("history file %s has no company column", s.path)
	}
	dates := header[1:]

	table := NewTable(nil)
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		company := row[0]
		table.Companies = append(table.Companies, company)

		for i, date := range dates {
			if i+1 >= len(row) || strings.TrimSpace(row[i+1]) == "" {
				table.Clear(company, date)
				continue
			}
			score, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				table.Clear(company, date)
				continue
			}
			table.Set(company, date, score)
		}
	}

	return table, nil
}

// Save writes the full table, overwriting the previous file.
func (s *Store) Save(table *Table) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create history: %w", err)
	}

	if _, err := f.WriteString(utf8BOM); err != nil {
		f.Close()
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(f)

	header := append([]string{"company"}, table.Dates...)
	if err := writer.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}

	for _, company := range table.Companies {
		row := make([]string, 0, len(header))
		row = append(row, company)
		for _, date := range table.Dates {
			if score, ok := table.Score(company, date); ok {
				row = append(row, strconv.FormatFloat(score, 'f', 2, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush history: %w", err)
	}
	return f.Close()
}
