package formatter

import (
	"github.com/pocketbase/pocketbase/tools/list"

	"commute/internal/models"
)

// BuildStateOptions returns one option per distinct state of the stacked table,
// in first-seen order. Rows with an empty state are skipped.
func BuildStateOptions(rows []models.CommuteByTypeRow) []models.DropdownOption {
	states := make([]string, len(rows))
	for i, row := range rows {
		states[i] = row.State
	}

	unique := list.NonzeroUniques(states)
	options := make([]models.DropdownOption, len(unique))
	for i, state := range unique {
		options[i] = models.DropdownOption{Label: state, Value: state}
	}
	return options
}

// BuildCommuteOptions returns the six fixed commute methods in display order
func BuildCommuteOptions() []models.DropdownOption {
	options := make([]models.DropdownOption, len(models.CommuteMethods))
	for i, m := range models.CommuteMethods {
		options[i] = models.DropdownOption{Label: string(m), Value: string(m)}
	}
	return options
}
