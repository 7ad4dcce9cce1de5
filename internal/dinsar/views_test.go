package dinsar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewData() *Data {
	return &Data{
		Displacement: []DisplacementReading{
			reading("s1", date(2024, time.January, 1), 10),
			reading("s1", date(2024, time.January, 5), 12),
			reading("s1", date(2024, time.January, 10), 9),
			reading("s2", date(2024, time.January, 1), 0),
			reading("s2", date(2024, time.January, 5), 1),
		},
		Precipitation: []PrecipitationReading{
			rain(1, date(2023, time.December, 28), ptr(4)),
			rain(1, date(2024, time.January, 5), ptr(6)),
			rain(2, date(2024, time.February, 1), ptr(8)),
		},
		Report: LoadReport{
			Sources: []SourceReport{{Source: "run1.csv", Rejected: []RejectedRow{{Line: 3}}}},
		},
	}
}

func hasCode(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestBuildDisplacementView(t *testing.T) {
	view := BuildDisplacementView(viewData(), Selection{}, DefaultTopEvents)

	assert.Equal(t, 1, view.Selection.RunID)
	assert.Equal(t, []string{"s1", "s2"}, view.Selection.Sensors)
	assert.Equal(t, []int{1}, view.Runs)
	assert.Len(t, view.Readings, 5)
	require.Len(t, view.Averages, 3)
	require.NotNil(t, view.Peak)
	assert.Equal(t, date(2024, time.January, 10), view.Peak.Date)
	require.Len(t, view.Events, 2)
	assert.Equal(t, "s2", view.Events[0].Sensor)
	assert.Len(t, view.Summaries, 2)
	assert.Equal(t, date(2024, time.January, 1), *view.From)
	assert.Equal(t, date(2024, time.January, 10), *view.To)
	assert.True(t, hasCode(view.Warnings, WarningInvalidRows))
	assert.False(t, hasCode(view.Warnings, WarningNoData))
}

func TestBuildDisplacementView_UnknownRun(t *testing.T) {
	run := 42
	view := BuildDisplacementView(viewData(), Selection{RunID: &run}, DefaultTopEvents)

	assert.True(t, view.Empty())
	assert.Equal(t, 42, view.Selection.RunID)
	assert.Empty(t, view.Events)
	assert.Nil(t, view.Peak)
	assert.True(t, hasCode(view.Warnings, WarningNoData))
}

func TestBuildDisplacementView_TopEventsLimit(t *testing.T) {
	view := BuildDisplacementView(viewData(), Selection{}, 1)
	assert.Len(t, view.Events, 1)
}

func TestBuildPrecipitationView(t *testing.T) {
	view := BuildPrecipitationView(viewData(), nil)

	assert.Nil(t, view.RunID)
	assert.Equal(t, []int{1, 2}, view.Runs)
	require.Len(t, view.ByRun, 2)
	assert.Equal(t, 1, view.ByRun[0].RunID)
	assert.Len(t, view.ByRun[0].Daily, 2)
	require.Len(t, view.Monthly, 3)
	assert.Equal(t, date(2023, time.December, 28), *view.From)
	assert.Equal(t, date(2024, time.February, 1), *view.To)

	run := 7
	empty := BuildPrecipitationView(viewData(), &run)
	assert.True(t, empty.Empty())
	assert.True(t, hasCode(empty.Warnings, WarningNoData))
}

func TestBuildCombinedView(t *testing.T) {
	view := BuildCombinedView(viewData(), Selection{Sensors: []string{"s1"}})

	assert.Len(t, view.Displacement, 3)
	require.Len(t, view.Rainfall, 2)
	assert.Equal(t, date(2023, time.December, 28), *view.From)
	assert.Equal(t, date(2024, time.January, 10), *view.To)
	assert.False(t, hasCode(view.Warnings, WarningNoData))
}

func TestBuildCombinedView_NoRainfallForRun(t *testing.T) {
	data := viewData()
	data.Precipitation = data.Precipitation[2:]

	view := BuildCombinedView(data, Selection{})
	assert.False(t, view.Empty())
	assert.Empty(t, view.Rainfall)
	assert.True(t, hasCode(view.Warnings, WarningNoData))
}

func TestBuildViews_NoDisplacement(t *testing.T) {
	data := &Data{}
	view := BuildCombinedView(data, Selection{})
	assert.True(t, view.Empty())
	assert.True(t, hasCode(view.Warnings, WarningNoData))
}
