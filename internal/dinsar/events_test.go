package dinsar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(sensor string, d time.Time, v float64) DisplacementReading {
	return DisplacementReading{RunID: 1, PointID: "P1", Sensor: sensor, Date: d, DisplacementMM: ptr(v)}
}

func TestDetectChangeEvents_LargestAbsoluteDelta(t *testing.T) {
	readings := []DisplacementReading{
		reading("S1", date(2024, time.January, 10), 9.0),
		reading("S1", date(2024, time.January, 1), 10.0),
		reading("S1", date(2024, time.January, 5), 12.0),
	}

	events := DetectChangeEvents(readings)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "S1", ev.Sensor)
	assert.Equal(t, date(2024, time.January, 5), ev.PreviousDate)
	assert.Equal(t, date(2024, time.January, 10), ev.Date)
	assert.InDelta(t, -3.0, ev.DeltaMM, 1e-9)
	assert.Equal(t, 5, ev.ElapsedDays)
	require.NotNil(t, ev.RateMMPerDay)
	assert.InDelta(t, -0.6, *ev.RateMMPerDay, 1e-9)
}

func TestDetectChangeEvents_TieKeepsEarliest(t *testing.T) {
	readings := []DisplacementReading{
		reading("S1", date(2024, time.January, 1), 10),
		reading("S1", date(2024, time.January, 3), 12),
		reading("S1", date(2024, time.January, 5), 10),
	}

	events := DetectChangeEvents(readings)
	require.Len(t, events, 1)
	assert.Equal(t, date(2024, time.January, 3), events[0].Date)
	assert.InDelta(t, 2.0, events[0].DeltaMM, 1e-9)
}

func TestDetectChangeEvents_SameDayHasNoRate(t *testing.T) {
	readings := []DisplacementReading{
		reading("S2", date(2024, time.January, 1), 1),
		reading("S2", date(2024, time.January, 1), 5),
	}

	events := DetectChangeEvents(readings)
	require.Len(t, events, 1)
	assert.Equal(t, 0, events[0].ElapsedDays)
	assert.Nil(t, events[0].RateMMPerDay)
	assert.InDelta(t, 4.0, events[0].DeltaMM, 1e-9)
}

func TestDetectChangeEvents_Ordering(t *testing.T) {
	readings := []DisplacementReading{
		// S1: rate -0.6
		reading("S1", date(2024, time.January, 1), 10),
		reading("S1", date(2024, time.January, 5), 12),
		reading("S1", date(2024, time.January, 10), 9),
		// S2: undefined rate
		reading("S2", date(2024, time.January, 1), 1),
		reading("S2", date(2024, time.January, 1), 5),
		// S3: rate +1
		reading("S3", date(2024, time.January, 1), 0),
		reading("S3", date(2024, time.January, 3), 2),
		// S4: same rate as S3
		reading("S4", date(2024, time.January, 1), 0),
		reading("S4", date(2024, time.January, 2), 1),
		// single reading, no predecessor
		reading("S5", date(2024, time.January, 1), 7),
		// missing value is skipped
		{RunID: 1, Sensor: "S5", Date: date(2024, time.January, 2)},
	}

	events := DetectChangeEvents(readings)

	var sensors []string
	for _, ev := range events {
		sensors = append(sensors, ev.Sensor)
	}
	assert.Equal(t, []string{"S3", "S4", "S1", "S2"}, sensors)
}

func TestDetectChangeEvents_Empty(t *testing.T) {
	assert.Empty(t, DetectChangeEvents(nil))
}

func TestTopEvents(t *testing.T) {
	events := make([]ChangeEvent, 12)
	assert.Len(t, TopEvents(events, DefaultTopEvents), 10)
	assert.Len(t, TopEvents(events, 20), 12)
	assert.Len(t, TopEvents(events, 0), 12)
}
