package storage

import (
	"github.com/pocketbase/pocketbase/tools/store"

	"commute/internal/models"
)

// TableStore is the read-only view over the tables loaded at startup.
// It is safe to share between any number of concurrent requests.
type TableStore struct {
	tables  *models.Tables
	byState *store.Store[[]models.CommuteByTypeRow]
}

// NewTableStore indexes the stacked rows by state. Row order within a state is
// the source order.
func NewTableStore(tables *models.Tables) *TableStore {
	index := make(map[string][]models.CommuteByTypeRow)
	for _, row := range tables.Stacked {
		index[row.State] = append(index[row.State], row)
	}
	return &TableStore{
		tables:  tables,
		byState: store.New(index),
	}
}

func (s *TableStore) Tables() *models.Tables {
	return s.tables
}

func (s *TableStore) Stacked() []models.CommuteByTypeRow {
	return s.tables.Stacked
}

// RowsForState returns the stacked rows of a state, or nil when it is absent
func (s *TableStore) RowsForState(state string) []models.CommuteByTypeRow {
	if !s.byState.Has(state) {
		return nil
	}
	return s.byState.Get(state)
}

// HasState reports whether the stacked table carries the state
func (s *TableStore) HasState(state string) bool {
	return s.byState.Has(state)
}
