package formatter

import (
	"fmt"
	"strconv"

	"commute/internal/models"
)

// Region is one state of the choropleth
type Region struct {
	Code  string  `json:"code"`
	State string  `json:"state"`
	Value float64 `json:"value"`
	Hover string  `json:"hover"`
}

// ChoroplethMap is the share of commuters using one method, by state
type ChoroplethMap struct {
	Method  string   `json:"method"`
	Regions []Region `json:"regions"`
}

// BuildChoropleth emits one region per wide table row, in row order. Rows with
// no value for the method are left out. The method must name a column of the
// table; otherwise ErrUnknownMethod is returned.
func BuildChoropleth(tables *models.Tables, method string) (ChoroplethMap, error) {
	if !tables.HasColumn(method) {
		return ChoroplethMap{}, fmt.Errorf("%w: %q", models.ErrUnknownMethod, method)
	}

	m := ChoroplethMap{Method: method, Regions: make([]Region, 0, len(tables.Wide))}
	for _, row := range tables.Wide {
		value, ok := row.Rate(method)
		if !ok {
			continue
		}
		m.Regions = append(m.Regions, Region{
			Code:  row.Code,
			State: row.State,
			Value: value,
			Hover: HoverText(row.Code, value),
		})
	}
	return m, nil
}

// HoverText formats "{code}: {value}%" using the shortest exact float form
func HoverText(code string, value float64) string {
	return code + ": " + strconv.FormatFloat(value, 'f', -1, 64) + "%"
}

// Title is the chart heading shown above the map
func (m ChoroplethMap) Title() string {
	return m.Method + ": Percent of Commuters"
}

// Max returns the largest region value, 0 for an empty map
func (m ChoroplethMap) Max() float64 {
	var top float64
	for i, r := range m.Regions {
		if i == 0 || r.Value > top {
			top = r.Value
		}
	}
	return top
}

// Figure renders the map restricted to the USA with a red color scale
func (m ChoroplethMap) Figure() Figure {
	locations := make([]string, len(m.Regions))
	z := make([]float64, len(m.Regions))
	hover := make([]string, len(m.Regions))
	for i, r := range m.Regions {
		locations[i] = r.Code
		z[i] = r.Value
		hover[i] = r.Code + ": %{z}%<extra></extra>"
	}

	return Figure{
		Data: []any{ChoroplethTrace{
			Type:          "choropleth",
			Locations:     locations,
			Z:             z,
			LocationMode:  "USA-states",
			ColorScale:    "Reds",
			ColorBar:      ColorBar{Title: Title{Text: "Percent"}},
			HoverTemplate: hover,
		}},
		Layout: Layout{
			Title: Title{Text: m.Title()},
			Geo:   &Geo{Scope: "usa"},
		},
	}
}
