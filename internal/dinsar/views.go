package dinsar

import (
	"fmt"
	"time"
)

// DisplacementView is the chart-ready data of the displacement page.
type DisplacementView struct {
	Selection        ResolvedSelection     `json:"selection"`
	Runs             []int                 `json:"runs"`
	AvailableSensors []string              `json:"availableSensors"`
	Readings         []DisplacementReading `json:"readings"`
	Averages         []DailyAverage        `json:"averages"`
	Peak             *DailyAverage         `json:"peak"`
	Events           []ChangeEvent         `json:"events"`
	Summaries        []SensorSummary       `json:"summaries"`
	From             *time.Time            `json:"from"`
	To               *time.Time            `json:"to"`
	Warnings         []Warning             `json:"warnings"`
	Report           LoadReport            `json:"report"`
}

// Empty reports whether the selection matched no valid reading.
func (v DisplacementView) Empty() bool { return len(v.Readings) == 0 }

// RunRainfall is the daily rainfall series of one run.
type RunRainfall struct {
	RunID int             `json:"runId"`
	Daily []DailyRainfall `json:"daily"`
}

// PrecipitationView is the chart-ready data of the precipitation page.
// A nil RunID means every run is shown.
type PrecipitationView struct {
	RunID    *int                   `json:"runId"`
	Runs     []int                  `json:"runs"`
	Readings []PrecipitationReading `json:"readings"`
	ByRun    []RunRainfall          `json:"byRun"`
	Monthly  []MonthlyRainfall      `json:"monthly"`
	From     *time.Time             `json:"from"`
	To       *time.Time             `json:"to"`
	Warnings []Warning              `json:"warnings"`
	Report   LoadReport             `json:"report"`
}

// Empty reports whether no rainfall value is selected.
func (v PrecipitationView) Empty() bool { return len(v.Readings) == 0 }

// CombinedView overlays the displacement of a run with its daily rainfall.
// From and To span both series.
type CombinedView struct {
	Selection        ResolvedSelection     `json:"selection"`
	Runs             []int                 `json:"runs"`
	AvailableSensors []string              `json:"availableSensors"`
	Displacement     []DisplacementReading `json:"displacement"`
	Rainfall         []DailyRainfall       `json:"rainfall"`
	From             *time.Time            `json:"from"`
	To               *time.Time            `json:"to"`
	Warnings         []Warning             `json:"warnings"`
	Report           LoadReport            `json:"report"`
}

// Empty reports whether neither series has data.
func (v CombinedView) Empty() bool { return len(v.Displacement) == 0 && len(v.Rainfall) == 0 }

// Data is the outcome of one load: normalized long-format tables and the
// report describing how they were produced.
type Data struct {
	Displacement  []DisplacementReading
	Precipitation []PrecipitationReading
	Report        LoadReport
}

// BuildDisplacementView filters data by sel and derives the averages, the
// peak average, the top change events and the per-sensor summaries.
func BuildDisplacementView(data *Data, sel Selection, topEvents int) DisplacementView {
	view := DisplacementView{
		Runs:     Runs(data.Displacement),
		Warnings: data.Report.Warnings(),
		Report:   data.Report,
	}

	resolved, ok := Resolve(data.Displacement, sel)
	if !ok {
		view.Warnings = append(view.Warnings, noData("no displacement runs are available"))
		return view
	}
	view.Selection = resolved
	view.AvailableSensors = SensorsForRun(data.Displacement, resolved.RunID)

	view.Readings = FilterDisplacement(data.Displacement, resolved.RunID, resolved.Sensors)
	if len(view.Readings) == 0 {
		view.Warnings = append(view.Warnings, noData(fmt.Sprintf("no valid displacement data for run %d and the selected sensors", resolved.RunID)))
		return view
	}

	view.Averages = DailyAverages(view.Readings)
	if peak, ok := PeakAverage(view.Averages); ok {
		view.Peak = &peak
	}
	view.Events = TopEvents(DetectChangeEvents(view.Readings), topEvents)
	view.Summaries = SummarizeSensors(view.Readings)
	view.From, view.To = displacementSpan(view.Readings)
	return view
}

// BuildPrecipitationView filters rainfall by run and derives the per-run
// daily series and the monthly totals.
func BuildPrecipitationView(data *Data, run *int) PrecipitationView {
	view := PrecipitationView{
		RunID:    run,
		Runs:     PrecipitationRuns(data.Precipitation),
		Warnings: data.Report.Warnings(),
		Report:   data.Report,
	}

	view.Readings = FilterPrecipitation(data.Precipitation, run)
	if len(view.Readings) == 0 {
		msg := "no rainfall data available"
		if run != nil {
			msg = fmt.Sprintf("no rainfall data for run %d", *run)
		}
		view.Warnings = append(view.Warnings, noData(msg))
		return view
	}

	byRun := make(map[int][]PrecipitationReading)
	for _, r := range view.Readings {
		byRun[r.RunID] = append(byRun[r.RunID], r)
	}
	for _, id := range PrecipitationRuns(view.Readings) {
		view.ByRun = append(view.ByRun, RunRainfall{RunID: id, Daily: DailyRainfallTotals(byRun[id])})
	}
	view.Monthly = MonthlyRainfallTotals(view.Readings)
	view.From, view.To = rainfallSpan(view.Readings)
	return view
}

// BuildCombinedView selects the displacement of a run and the rainfall of the
// same run. Each missing side yields its own warning.
func BuildCombinedView(data *Data, sel Selection) CombinedView {
	view := CombinedView{
		Runs:     Runs(data.Displacement),
		Warnings: data.Report.Warnings(),
		Report:   data.Report,
	}

	resolved, ok := Resolve(data.Displacement, sel)
	if !ok {
		view.Warnings = append(view.Warnings, noData("no displacement runs are available"))
		return view
	}
	view.Selection = resolved
	view.AvailableSensors = SensorsForRun(data.Displacement, resolved.RunID)

	view.Displacement = FilterDisplacement(data.Displacement, resolved.RunID, resolved.Sensors)
	if len(view.Displacement) == 0 {
		view.Warnings = append(view.Warnings, noData(fmt.Sprintf("no valid displacement data for run %d", resolved.RunID)))
	}

	rain := FilterPrecipitation(data.Precipitation, &resolved.RunID)
	view.Rainfall = DailyRainfallTotals(rain)
	if len(view.Rainfall) == 0 {
		view.Warnings = append(view.Warnings, noData(fmt.Sprintf("no rainfall data for run %d", resolved.RunID)))
	}

	dFrom, dTo := displacementSpan(view.Displacement)
	rFrom, rTo := rainfallSpan(rain)
	view.From = earliest(dFrom, rFrom)
	view.To = latest(dTo, rTo)
	return view
}

func noData(msg string) Warning {
	return Warning{Code: WarningNoData, Message: msg}
}

func displacementSpan(readings []DisplacementReading) (*time.Time, *time.Time) {
	var from, to *time.Time
	for i := range readings {
		d := readings[i].Date
		from = earliest(from, &d)
		to = latest(to, &d)
	}
	return from, to
}

func rainfallSpan(readings []PrecipitationReading) (*time.Time, *time.Time) {
	var from, to *time.Time
	for i := range readings {
		d := readings[i].Date
		from = earliest(from, &d)
		to = latest(to, &d)
	}
	return from, to
}

func earliest(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil || a.Before(*b):
		return a
	default:
		return b
	}
}

func latest(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil || a.After(*b):
		return a
	default:
		return b
	}
}
