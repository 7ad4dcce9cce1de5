package dinsar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReadings() []DisplacementReading {
	d := date(2024, time.January, 1)
	return []DisplacementReading{
		{RunID: 3, Sensor: "s2", Date: d, DisplacementMM: ptr(1)},
		{RunID: 2, Sensor: "s2", Date: d, DisplacementMM: ptr(2)},
		{RunID: 2, Sensor: "s1", Date: d, DisplacementMM: ptr(3)},
		{RunID: 2, Sensor: "s1", Date: d.AddDate(0, 0, 1)},
		{RunID: 3, Sensor: "s3", Date: d, DisplacementMM: ptr(4)},
	}
}

func TestRunsAndCatalog(t *testing.T) {
	readings := sampleReadings()

	assert.Equal(t, []int{2, 3}, Runs(readings))
	assert.Equal(t, []string{"s1", "s2"}, SensorsForRun(readings, 2))
	assert.Equal(t, []RunCatalog{
		{RunID: 2, Sensors: []string{"s1", "s2"}},
		{RunID: 3, Sensors: []string{"s2", "s3"}},
	}, Catalog(readings))
}

func TestResolve_Defaults(t *testing.T) {
	res, ok := Resolve(sampleReadings(), Selection{})
	require.True(t, ok)
	assert.Equal(t, 2, res.RunID)
	assert.Equal(t, []string{"s1", "s2"}, res.Sensors)
}

func TestResolve_ExplicitSelection(t *testing.T) {
	run := 3
	res, ok := Resolve(sampleReadings(), Selection{RunID: &run, Sensors: []string{"s3", "s2", "s3"}})
	require.True(t, ok)
	assert.Equal(t, 3, res.RunID)
	assert.Equal(t, []string{"s2", "s3"}, res.Sensors)
}

func TestResolve_NoRuns(t *testing.T) {
	_, ok := Resolve(nil, Selection{})
	assert.False(t, ok)
}

func TestFilterDisplacement(t *testing.T) {
	readings := sampleReadings()

	got := FilterDisplacement(readings, 2, []string{"s1"})
	require.Len(t, got, 1)
	assert.InDelta(t, 3.0, got[0].Value(), 1e-9)

	assert.Empty(t, FilterDisplacement(readings, 99, []string{"s1"}))
	assert.Empty(t, FilterDisplacement(readings, 2, nil))
}

func TestFilterPrecipitation(t *testing.T) {
	readings := []PrecipitationReading{
		rain(2, date(2024, time.January, 2), ptr(1)),
		rain(1, date(2024, time.January, 2), ptr(2)),
		rain(1, date(2024, time.January, 1), ptr(3)),
		rain(1, date(2024, time.January, 3), nil),
	}

	all := FilterPrecipitation(readings, nil)
	require.Len(t, all, 3)
	assert.Equal(t, date(2024, time.January, 1), all[0].Date)
	assert.Equal(t, 1, all[1].RunID)
	assert.Equal(t, 2, all[2].RunID)

	run := 2
	assert.Len(t, FilterPrecipitation(readings, &run), 1)
	assert.Equal(t, []int{1, 2}, PrecipitationRuns(readings))
}
