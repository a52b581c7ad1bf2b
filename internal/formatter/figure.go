package formatter

// Figure is a Plotly-compatible chart document: a list of traces plus a layout.
// Field order is fixed so equal inputs marshal to identical bytes.
type Figure struct {
	Data   []any  `json:"data"`
	Layout Layout `json:"layout"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title Title `json:"title"`
}

type Geo struct {
	Scope string `json:"scope"`
}

type ColorBar struct {
	Title Title `json:"title"`
}

type Layout struct {
	Title     Title  `json:"title"`
	XAxis     *Axis  `json:"xaxis,omitempty"`
	YAxis     *Axis  `json:"yaxis,omitempty"`
	HoverMode string `json:"hovermode,omitempty"`
	Geo       *Geo   `json:"geo,omitempty"`
}

type PieTrace struct {
	Type      string    `json:"type"`
	Labels    []string  `json:"labels"`
	Values    []float64 `json:"values"`
	HoverInfo string    `json:"hoverinfo"`
	Hole      float64   `json:"hole"`
}

type ChoroplethTrace struct {
	Type          string    `json:"type"`
	Locations     []string  `json:"locations"`
	Z             []float64 `json:"z"`
	LocationMode  string    `json:"locationmode"`
	ColorScale    string    `json:"colorscale"`
	ColorBar      ColorBar  `json:"colorbar"`
	HoverTemplate []string  `json:"hovertemplate"`
}
