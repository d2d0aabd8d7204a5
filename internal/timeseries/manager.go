package timeseries

import (
	"log/slog"

	"StockNews/internal/domain"
)

// Manager owns the read-merge-write cycle of the history file. The file is
// read then written with no locking: concurrent runs against the same
// history are unsafe and must be serialized by the operator.
type Manager struct {
	base   []string
	store  *Store
	logger *slog.Logger
}

// NewManager wires the company universe (reference table keys, in table
// order) with the persisted store.
func NewManager(base []string, store *Store, logger *slog.Logger) *Manager {
	return &Manager{base: base, store: store, logger: logger}
}

// UpdateDailyScores merges today's records under dateKey and persists the
// result. An empty company universe means the reference table was missing;
// the update is skipped rather than writing an empty universe over history.
func (m *Manager) UpdateDailyScores(records []domain.CompanyRecord, dateKey string) error {
	if len(m.base) == 0 {
		m.logger.Error("company code table unavailable, skipping time-series update")
		return nil
	}

	history, err := m.store.Load()
	if err != nil {
		m.logger.Warn("history unreadable, reinitializing from company table", "error", err)
		history = nil
	}

	merged := Merge(m.base, history, records, dateKey)

	if err := m.store.Save(merged); err != nil {
		return err
	}

	m.logger.Info("time-series history updated",
		"date", dateKey, "companies", len(merged.Companies), "scored", len(records))
	return nil
}
