// Package company extracts, validates and aggregates company mentions from
// article summaries against the authoritative code table.
package company

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Reference is the read-only company_name → stock_code table. An empty
// reference disables extraction (every article becomes company-less) but
// never aborts a run.
type Reference struct {
	keys       []string
	codeByName map[string]string
}

// LoadReference reads the company code CSV (columns company_name,
// stock_code). Read failures degrade to an empty reference, logged.
func LoadReference(path string, logger *slog.Logger) *Reference {
	ref, err := readReference(path)
	if err != nil {
		if logger != nil {
			logger.Error("company code table unavailable, extraction disabled", "path", path, "error", err)
		}
		return &Reference{codeByName: map[string]string{}}
	}
	return ref
}

func readReference(path string) (*Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open code table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	nameIdx, codeIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case "company_name":
			nameIdx = i
		case "stock_code":
			codeIdx = i
		}
	}
	if nameIdx < 0 || codeIdx < 0 {
		return nil, fmt.Errorf("code table missing company_name/stock_code columns")
	}

	ref := &Reference{codeByName: map[string]string{}}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read code table row: %w", err)
		}
		if len(record) <= nameIdx || len(record) <= codeIdx {
			continue
		}

		name := strings.TrimSpace(record[nameIdx])
		code := strings.TrimSpace(record[codeIdx])
		if name == "" || code == "" {
			continue
		}
		if _, dup := ref.codeByName[name]; dup {
			continue
		}

		ref.codeByName[name] = code
		ref.keys = append(ref.keys, fmt.Sprintf("%s(%s)", name, code))
	}

	return ref, nil
}

// NewReference builds a reference from an ordered name→code listing; used by
// tests and callers that already hold the table.
func NewReference(names []string, codes []string) *Reference {
	ref := &Reference{codeByName: map[string]string{}}
	for i, name := range names {
		if i >= len(codes) {
			break
		}
		ref.codeByName[name] = codes[i]
		ref.keys = append(ref.keys, fmt.Sprintf("%s(%s)", name, codes[i]))
	}
	return ref
}

// Empty reports whether the table failed to load or has no entries.
func (r *Reference) Empty() bool {
	return r == nil || len(r.codeByName) == 0
}

// Keys returns every "Name(Code)" key in table order; this is the row
// universe of the time-series table.
func (r *Reference) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// CodeFor looks up the authoritative stock code for a normalized name.
func (r *Reference) CodeFor(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	code, ok := r.codeByName[name]
	return code, ok
}
