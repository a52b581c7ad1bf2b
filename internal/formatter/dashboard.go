package formatter

import (
	"commute/internal/models"
)

const (
	DefaultState  = "District of Columbia"
	DefaultMethod = string(models.MethodDriveAlone)
)

// State is the selection of both panes. The panes never touch each other's field.
type State struct {
	State  string `json:"state"`
	Method string `json:"method"`
}

// InitialState is what the page shows before any interaction
func InitialState() State {
	return State{State: DefaultState, Method: DefaultMethod}
}

// WithState handles a change of the state picker
func (s State) WithState(state string) State {
	s.State = state
	return s
}

// WithMethod handles a change of the commute picker
func (s State) WithMethod(method string) State {
	s.Method = method
	return s
}

// View is everything the page needs to draw both panes
type View struct {
	Selection      State                   `json:"selection"`
	StateOptions   []models.DropdownOption `json:"state_options"`
	CommuteOptions []models.DropdownOption `json:"commute_options"`
	Pie            Figure                  `json:"pie"`
	Map            Figure                  `json:"map"`
}

// BuildView runs both transforms for the given selection
func BuildView(tables *models.Tables, s State) (View, error) {
	m, err := BuildChoropleth(tables, s.Method)
	if err != nil {
		return View{}, err
	}
	return View{
		Selection:      s,
		StateOptions:   BuildStateOptions(tables.Stacked),
		CommuteOptions: BuildCommuteOptions(),
		Pie:            BuildPieChart(tables.Stacked, s.State).Figure(),
		Map:            m.Figure(),
	}, nil
}
