package formatter

import (
	"commute/internal/models"
)

const (
	pieHole        = 0.25
	pieHoverInfo   = "value+label"
	percentTitle   = "Percent of Commuters"
	pieTitlePrefix = "Commute Method by Percent in "
)

// Slice is one commute type of a state
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PieChart is the commute method breakdown for one state
type PieChart struct {
	State  string  `json:"state"`
	Slices []Slice `json:"slices"`
}

// BuildPieChart keeps the stacked rows of the selected state, in source order.
// A state that is not in the table yields a chart without slices.
func BuildPieChart(rows []models.CommuteByTypeRow, state string) PieChart {
	chart := PieChart{State: state, Slices: []Slice{}}
	for _, row := range rows {
		if row.State != state {
			continue
		}
		chart.Slices = append(chart.Slices, Slice{Label: row.CommuteType, Value: row.Rate})
	}
	return chart
}

// Title is the chart heading shown above the donut
func (p PieChart) Title() string {
	return pieTitlePrefix + p.State
}

// Total sums the slice values
func (p PieChart) Total() float64 {
	var total float64
	for _, s := range p.Slices {
		total += s.Value
	}
	return total
}

// Figure renders the chart as a donut figure
func (p PieChart) Figure() Figure {
	labels := make([]string, len(p.Slices))
	values := make([]float64, len(p.Slices))
	for i, s := range p.Slices {
		labels[i] = s.Label
		values[i] = s.Value
	}

	return Figure{
		Data: []any{PieTrace{
			Type:      "pie",
			Labels:    labels,
			Values:    values,
			HoverInfo: pieHoverInfo,
			Hole:      pieHole,
		}},
		Layout: Layout{
			Title:     Title{Text: p.Title()},
			XAxis:     &Axis{Title: Title{Text: p.State}},
			YAxis:     &Axis{Title: Title{Text: percentTitle}},
			HoverMode: "closest",
		},
	}
}
