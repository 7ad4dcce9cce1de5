// Package charts renders dashboard views as SVG or PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a view has nothing to plot.
var ErrNoData = errors.New("no data to plot")

// Format is an output image format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// ParseFormat accepts "svg" (also the empty string) and "png".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatSVG):
		return FormatSVG, nil
	case string(FormatPNG):
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

// Options control the image size and encoding.
type Options struct {
	Width  int
	Height int
	Format Format
}

const (
	defaultWidth  = 1024
	defaultHeight = 480
	day           = 24 * time.Hour
	monthLabel    = "Jan 2006"
)

func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
	return o
}

func (o Options) renderer() chart.RendererProvider {
	if o.Format == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

var rainColor = drawing.ColorFromHex("3398ff")

func colorAt(i int) drawing.Color {
	return palette[i%len(palette)]
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: width,
		DotWidth:    2.5,
		DotColor:    col,
	}
}

// timeSeries pads a single point to two identical points so the series has
// a drawable extent.
func timeSeries(name string, xs []time.Time, ys []float64, style chart.Style) chart.TimeSeries {
	if len(xs) == 1 {
		xs = []time.Time{xs[0], xs[0]}
		ys = []float64{ys[0], ys[0]}
	}
	return chart.TimeSeries{Name: name, XValues: xs, YValues: ys, Style: style}
}

// timeAxis spans from..to, widened by a day on each side.
func timeAxis(from, to time.Time) chart.XAxis {
	return chart.XAxis{
		Name: "Date",
		Range: &chart.ContinuousRange{
			Min: chart.TimeToFloat64(from.Add(-day)),
			Max: chart.TimeToFloat64(to.Add(day)),
		},
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return time.Unix(0, int64(f)).UTC().Format(monthLabel)
			}
			return ""
		},
	}
}

// valueRange returns a non-degenerate range covering values with a margin.
func valueRange(values []float64, floorZero bool) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		lo, hi = 0, 1
	}
	if floorZero && lo > 0 {
		lo = 0
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	r := &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	if floorZero && lo >= 0 {
		r.Min = 0
	}
	return r
}

func render(c chart.Chart, opts Options) ([]byte, error) {
	c.Width = opts.Width
	c.Height = opts.Height
	c.Background = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	var buf bytes.Buffer
	if err := c.Render(opts.renderer(), &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", c.Title, err)
	}
	return buf.Bytes(), nil
}
