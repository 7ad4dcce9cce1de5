package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar"
)

func day0(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func mm(v float64) *float64 { return &v }

func displacementView() dinsar.DisplacementView {
	readings := []dinsar.DisplacementReading{
		{RunID: 1, PointID: "P1", Sensor: "s1", Date: day0(1), DisplacementMM: mm(1)},
		{RunID: 1, PointID: "P1", Sensor: "s1", Date: day0(5), DisplacementMM: mm(-2)},
		{RunID: 1, PointID: "P1", Sensor: "s2", Date: day0(1), DisplacementMM: mm(3)},
	}
	from, to := day0(1), day0(5)
	return dinsar.DisplacementView{
		Selection: dinsar.ResolvedSelection{RunID: 1, Sensors: []string{"s1", "s2"}},
		Readings:  readings,
		Averages:  dinsar.DailyAverages(readings),
		From:      &from,
		To:        &to,
	}
}

func precipitationView() dinsar.PrecipitationView {
	readings := []dinsar.PrecipitationReading{
		{RunID: 1, Date: day0(1), RainfallMM: mm(10)},
		{RunID: 1, Date: day0(2), RainfallMM: mm(0)},
		{RunID: 2, Date: day0(1), RainfallMM: mm(4.5)},
	}
	from, to := day0(1), day0(2)
	return dinsar.PrecipitationView{
		Readings: readings,
		ByRun: []dinsar.RunRainfall{
			{RunID: 1, Daily: dinsar.DailyRainfallTotals(readings[:2])},
			{RunID: 2, Daily: dinsar.DailyRainfallTotals(readings[2:])},
		},
		Monthly: dinsar.MonthlyRainfallTotals(readings),
		From:    &from,
		To:      &to,
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	f, err = ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestDisplacement(t *testing.T) {
	out, err := Displacement(displacementView(), Options{})
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("<svg")))

	out, err = Displacement(displacementView(), Options{Width: 400, Height: 300, Format: FormatPNG})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")))
}

func TestDisplacement_SinglePoint(t *testing.T) {
	view := displacementView()
	view.Readings = view.Readings[:1]
	view.Averages = dinsar.DailyAverages(view.Readings)
	to := day0(1)
	view.To = &to

	_, err := Displacement(view, Options{})
	assert.NoError(t, err)
}

func TestPrecipitationCharts(t *testing.T) {
	out, err := Precipitation(precipitationView(), Options{})
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("Run 2")))

	out, err = MonthlyRainfall(precipitationView(), Options{})
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("<svg")))
}

func TestCombined(t *testing.T) {
	dv := displacementView()
	from, to := day0(1), day0(5)
	view := dinsar.CombinedView{
		Selection:    dv.Selection,
		Displacement: dv.Readings,
		Rainfall:     []dinsar.DailyRainfall{{Date: day0(2), RainfallMM: 7}},
		From:         &from,
		To:           &to,
	}
	out, err := Combined(view, Options{})
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("<svg")))

	view.Rainfall = nil
	_, err = Combined(view, Options{})
	assert.NoError(t, err)
}

func TestEmptyViews(t *testing.T) {
	_, err := Displacement(dinsar.DisplacementView{}, Options{})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Precipitation(dinsar.PrecipitationView{}, Options{})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = MonthlyRainfall(dinsar.PrecipitationView{}, Options{})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Combined(dinsar.CombinedView{}, Options{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestValueRange(t *testing.T) {
	r := valueRange([]float64{5, 5}, false)
	assert.Less(t, r.Min, 5.0)
	assert.Greater(t, r.Max, 5.0)

	r = valueRange([]float64{2, 10}, true)
	assert.Equal(t, 0.0, r.Min)
	assert.Greater(t, r.Max, 10.0)

	r = valueRange(nil, false)
	assert.Less(t, r.Min, r.Max)
}
