// Package render draws the dashboard views as static images with go-chart.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"commute/internal/formatter"
)

// Format selects the image encoding
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ErrEmptyChart is returned when there is nothing to draw
var ErrEmptyChart = errors.New("chart has no values")

// ParseFormat maps a query value to a Format; empty means SVG
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// Pie draws the state breakdown as a donut chart
func Pie(w io.Writer, p formatter.PieChart, format Format) error {
	if p.Total() <= 0 {
		return ErrEmptyChart
	}
	values := make([]chart.Value, 0, len(p.Slices))
	for _, s := range p.Slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: s.Label, Value: s.Value})
	}
	if len(values) == 0 {
		return ErrEmptyChart
	}

	donut := chart.DonutChart{
		Title:  p.Title(),
		Width:  640,
		Height: 640,
		Values: values,
	}
	if err := donut.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render pie: %w", err)
	}
	return nil
}

// Map draws the per-state values as bars shaded on a red scale, one bar per
// state code. It is the static stand-in for the interactive choropleth.
func Map(w io.Writer, m formatter.ChoroplethMap, format Format) error {
	if len(m.Regions) == 0 {
		return ErrEmptyChart
	}

	top := m.Max()
	bars := make([]chart.Value, len(m.Regions))
	for i, r := range m.Regions {
		c := RedScale(r.Value, top)
		bars[i] = chart.Value{
			Label: r.Code,
			Value: r.Value,
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		}
	}

	// a fixed zero baseline keeps equal values from collapsing the range
	ymax := top
	if ymax <= 0 {
		ymax = 1
	}
	bc := chart.BarChart{
		Title:    m.Title(),
		Width:    1280,
		Height:   480,
		BarWidth: 14,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: ymax}},
		Bars:  bars,
	}
	if err := bc.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}

// RedScale interpolates from a pale to a deep red by value/top, the way the
// "Reds" color scale does.
func RedScale(value, top float64) drawing.Color {
	t := 0.0
	if top > 0 {
		t = value / top
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	low := drawing.Color{R: 255, G: 245, B: 240, A: 255}
	high := drawing.Color{R: 103, G: 0, B: 13, A: 255}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return drawing.Color{R: lerp(low.R, high.R), G: lerp(low.G, high.G), B: lerp(low.B, high.B), A: 255}
}
