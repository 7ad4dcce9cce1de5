package dinsar

import (
	"math"
	"sort"
)

// DefaultTopEvents is the number of change events surfaced to the dashboard.
const DefaultTopEvents = 10

// DetectChangeEvents returns, for each sensor, the pair of consecutive
// readings with the largest absolute displacement change.
//
// readings are expected to hold a single run and valid values only; missing
// values are skipped. The first reading of a sensor has no predecessor and
// yields no candidate. When two candidates have the same absolute change the
// earlier one wins. Events are ordered by rate descending, then by sensor;
// events without a defined rate (both readings on the same day) come last.
func DetectChangeEvents(readings []DisplacementReading) []ChangeEvent {
	sorted := make([]DisplacementReading, 0, len(readings))
	for _, r := range readings {
		if r.Valid() {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Sensor != sorted[j].Sensor {
			return sorted[i].Sensor < sorted[j].Sensor
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var events []ChangeEvent
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].Sensor == sorted[start].Sensor {
			end++
		}
		if ev, ok := peakChange(sorted[start:end]); ok {
			events = append(events, ev)
		}
		start = end
	}

	sort.SliceStable(events, func(i, j int) bool {
		ri, rj := events[i].RateMMPerDay, events[j].RateMMPerDay
		switch {
		case ri == nil && rj == nil:
			return events[i].Sensor < events[j].Sensor
		case ri == nil:
			return false
		case rj == nil:
			return true
		case *ri != *rj:
			return *ri > *rj
		default:
			return events[i].Sensor < events[j].Sensor
		}
	})
	return events
}

// peakChange scans one sensor's readings, sorted by date.
func peakChange(series []DisplacementReading) (ChangeEvent, bool) {
	var (
		best  ChangeEvent
		found bool
	)
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		delta := cur.Value() - prev.Value()
		if found && math.Abs(delta) <= math.Abs(best.DeltaMM) {
			continue
		}

		days := int(cur.Date.Sub(prev.Date).Hours() / 24)
		ev := ChangeEvent{
			Sensor:       cur.Sensor,
			PreviousDate: prev.Date,
			Date:         cur.Date,
			DeltaMM:      delta,
			ElapsedDays:  days,
		}
		if days != 0 {
			rate := delta / float64(days)
			ev.RateMMPerDay = &rate
		}
		best, found = ev, true
	}
	return best, found
}

// TopEvents returns at most n events from an already ranked slice.
func TopEvents(events []ChangeEvent, n int) []ChangeEvent {
	if n <= 0 || len(events) <= n {
		return events
	}
	return events[:n]
}
