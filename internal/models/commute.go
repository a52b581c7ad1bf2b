package models

import (
	"errors"
	"fmt"
	"time"
)

// CommuteMethod is one of the fixed commute categories offered by the map pane
type CommuteMethod string

const (
	MethodDriveAlone           CommuteMethod = "Drive Alone"
	MethodCarpool              CommuteMethod = "Carpool"
	MethodWalk                 CommuteMethod = "Walk"
	MethodPublicTransportation CommuteMethod = "Public Transportation"
	MethodOtherMeans           CommuteMethod = "Other Means"
	MethodWorkAtHome           CommuteMethod = "Work at Home"
)

// CommuteMethods lists the offered methods in display order
var CommuteMethods = []CommuteMethod{
	MethodDriveAlone,
	MethodCarpool,
	MethodWalk,
	MethodPublicTransportation,
	MethodOtherMeans,
	MethodWorkAtHome,
}

// ErrUnknownMethod is returned when a method does not name a wide table column
var ErrUnknownMethod = errors.New("unknown commute method")

// CommuteByTypeRow is a row of the stacked table, one per (state, method) pair
type CommuteByTypeRow struct {
	State       string  `json:"state"`
	CommuteType string  `json:"commute_type"`
	Rate        float64 `json:"rate"`
}

// CommuteByStateRow is a row of the wide table, one per state
type CommuteByStateRow struct {
	State string             `json:"state"`
	Code  string             `json:"code"`
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the value of the named column
func (r CommuteByStateRow) Rate(column string) (float64, bool) {
	v, ok := r.Rates[column]
	return v, ok
}

// Tables holds both datasets as loaded at startup.
// Nothing in here is mutated after load.
type Tables struct {
	Stacked     []CommuteByTypeRow
	Wide        []CommuteByStateRow
	WideColumns []string
	StackedURL  string
	WideURL     string
	LoadedAt    time.Time
}

// HasColumn reports whether the wide table carries the column
func (t *Tables) HasColumn(column string) bool {
	for _, c := range t.WideColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Validate ensures every offered method is a column of the wide table
func (t *Tables) Validate() error {
	if len(t.Stacked) == 0 {
		return fmt.Errorf("stacked table is empty")
	}
	if len(t.Wide) == 0 {
		return fmt.Errorf("wide table is empty")
	}
	for _, m := range CommuteMethods {
		if !t.HasColumn(string(m)) {
			return fmt.Errorf("wide table: %w: missing column %q", ErrUnknownMethod, m)
		}
	}
	return nil
}

// DropdownOption represents a label/value pair driving a selection control
type DropdownOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
