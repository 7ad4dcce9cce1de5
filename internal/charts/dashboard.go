package charts

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar"
)

// Displacement plots every selected sensor as points and the daily
// cross-sensor average as a line.
func Displacement(view dinsar.DisplacementView, opts Options) ([]byte, error) {
	if view.Empty() || view.From == nil || view.To == nil {
		return nil, ErrNoData
	}
	opts = opts.normalized()

	series, values := sensorSeries(view.Readings)

	xs := make([]time.Time, len(view.Averages))
	ys := make([]float64, len(view.Averages))
	for i, a := range view.Averages {
		xs[i], ys[i] = a.Date, a.DisplacementMM
	}
	series = append(series, timeSeries("Average", xs, ys, lineStyle(chart.ColorBlack, 2)))

	c := chart.Chart{
		Title:  fmt.Sprintf("Run %d: displacement by sensor", view.Selection.RunID),
		XAxis:  timeAxis(*view.From, *view.To),
		YAxis:  chart.YAxis{Name: "Displacement (mm)", Range: valueRange(values, false)},
		Series: series,
	}
	return render(c, opts)
}

// Precipitation plots one rainfall line per run.
func Precipitation(view dinsar.PrecipitationView, opts Options) ([]byte, error) {
	if view.Empty() || view.From == nil || view.To == nil {
		return nil, ErrNoData
	}
	opts = opts.normalized()

	var (
		series []chart.Series
		values []float64
	)
	for i, run := range view.ByRun {
		xs := make([]time.Time, len(run.Daily))
		ys := make([]float64, len(run.Daily))
		for j, d := range run.Daily {
			xs[j], ys[j] = d.Date, d.RainfallMM
		}
		values = append(values, ys...)
		series = append(series, timeSeries(fmt.Sprintf("Run %d", run.RunID), xs, ys, lineStyle(colorAt(i), 2)))
	}

	title := "Rainfall by run"
	if view.RunID != nil {
		title = fmt.Sprintf("Run %d: rainfall", *view.RunID)
	}
	c := chart.Chart{
		Title:  title,
		XAxis:  timeAxis(*view.From, *view.To),
		YAxis:  chart.YAxis{Name: "Rainfall (mm)", Range: valueRange(values, true)},
		Series: series,
	}
	return render(c, opts)
}

// MonthlyRainfall plots the monthly rainfall totals as bars.
func MonthlyRainfall(view dinsar.PrecipitationView, opts Options) ([]byte, error) {
	if len(view.Monthly) == 0 {
		return nil, ErrNoData
	}
	opts = opts.normalized()

	bars := make([]chart.Value, len(view.Monthly))
	values := make([]float64, len(view.Monthly))
	for i, m := range view.Monthly {
		values[i] = m.RainfallMM
		bars[i] = chart.Value{
			Label: m.Month.Format(monthLabel),
			Value: m.RainfallMM,
			Style: chart.Style{FillColor: rainColor, StrokeColor: rainColor},
		}
	}

	barWidth := opts.Width / (2 * len(bars))
	switch {
	case barWidth > 60:
		barWidth = 60
	case barWidth < 2:
		barWidth = 2
	}

	bc := chart.BarChart{
		Title:      "Monthly rainfall",
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:  "Total rainfall (mm)",
			Range: valueRange(values, true),
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(opts.renderer(), &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", bc.Title, err)
	}
	return buf.Bytes(), nil
}

// Combined overlays the selected sensors (left axis) with the daily rainfall
// of the same run (right axis). The x axis is clamped to the span of both.
func Combined(view dinsar.CombinedView, opts Options) ([]byte, error) {
	if view.Empty() || view.From == nil || view.To == nil {
		return nil, ErrNoData
	}
	opts = opts.normalized()

	series, values := sensorSeries(view.Displacement)

	rainValues := make([]float64, len(view.Rainfall))
	if len(view.Rainfall) > 0 {
		xs := make([]time.Time, len(view.Rainfall))
		for i, r := range view.Rainfall {
			xs[i], rainValues[i] = r.Date, r.RainfallMM
		}
		rain := timeSeries(fmt.Sprintf("Rainfall (run %d)", view.Selection.RunID), xs, rainValues, lineStyle(rainColor, 3))
		rain.YAxis = chart.YAxisSecondary
		series = append(series, rain)
	}

	c := chart.Chart{
		Title:  fmt.Sprintf("Run %d: displacement and rainfall", view.Selection.RunID),
		XAxis:  timeAxis(*view.From, *view.To),
		YAxis:  chart.YAxis{Name: "Displacement (mm)", Range: valueRange(values, false)},
		Series: series,
	}
	if len(rainValues) > 0 {
		c.YAxisSecondary = chart.YAxis{Name: "Rainfall (mm)", Range: valueRange(rainValues, true)}
	}
	return render(c, opts)
}

// sensorSeries groups readings into one point series per sensor, in sensor order.
func sensorSeries(readings []dinsar.DisplacementReading) ([]chart.Series, []float64) {
	type points struct {
		xs []time.Time
		ys []float64
	}
	bySensor := make(map[string]*points)
	for _, r := range readings {
		if !r.Valid() {
			continue
		}
		p, ok := bySensor[r.Sensor]
		if !ok {
			p = &points{}
			bySensor[r.Sensor] = p
		}
		p.xs = append(p.xs, r.Date)
		p.ys = append(p.ys, r.Value())
	}

	names := make([]string, 0, len(bySensor))
	for name := range bySensor {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		series []chart.Series
		values []float64
	)
	for i, name := range names {
		p := bySensor[name]
		values = append(values, p.ys...)
		series = append(series, timeSeries(name, p.xs, p.ys, pointStyle(colorAt(i))))
	}
	return series, values
}
