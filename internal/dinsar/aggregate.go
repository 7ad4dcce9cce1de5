package dinsar

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DailyAverages groups valid readings by date and averages displacement
// across sensors and points. Results are ordered by date.
func DailyAverages(readings []DisplacementReading) []DailyAverage {
	byDate := make(map[time.Time][]float64)
	for _, r := range readings {
		if !r.Valid() {
			continue
		}
		byDate[r.Date] = append(byDate[r.Date], *r.DisplacementMM)
	}

	out := make([]DailyAverage, 0, len(byDate))
	for date, values := range byDate {
		out = append(out, DailyAverage{
			Date:           date,
			DisplacementMM: stat.Mean(values, nil),
			Readings:       len(values),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// PeakAverage returns the date with the highest average displacement.
// Ties resolve to the earliest date. averages must be ordered by date.
func PeakAverage(averages []DailyAverage) (DailyAverage, bool) {
	if len(averages) == 0 {
		return DailyAverage{}, false
	}
	best := averages[0]
	for _, a := range averages[1:] {
		if a.DisplacementMM > best.DisplacementMM {
			best = a
		}
	}
	return best, true
}

// DailyRainfallTotals sums valid rainfall per exact date, ordered by date.
func DailyRainfallTotals(readings []PrecipitationReading) []DailyRainfall {
	sums := make(map[time.Time]float64)
	for _, r := range readings {
		if !r.Valid() {
			continue
		}
		sums[r.Date] += *r.RainfallMM
	}

	out := make([]DailyRainfall, 0, len(sums))
	for date, total := range sums {
		out = append(out, DailyRainfall{Date: date, RainfallMM: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// MonthlyRainfallTotals sums valid rainfall per calendar month. Each bucket is
// keyed by the first day of its month.
func MonthlyRainfallTotals(readings []PrecipitationReading) []MonthlyRainfall {
	type bucket struct {
		total float64
		n     int
	}
	buckets := make(map[time.Time]*bucket)
	for _, r := range readings {
		if !r.Valid() {
			continue
		}
		key := MonthStart(r.Date)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.total += *r.RainfallMM
		b.n++
	}

	out := make([]MonthlyRainfall, 0, len(buckets))
	for month, b := range buckets {
		out = append(out, MonthlyRainfall{Month: month, RainfallMM: b.total, Readings: b.n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// SummarizeSensors computes descriptive statistics per sensor, ordered by sensor name.
func SummarizeSensors(readings []DisplacementReading) []SensorSummary {
	bySensor := make(map[string][]float64)
	for _, r := range readings {
		if r.Valid() {
			bySensor[r.Sensor] = append(bySensor[r.Sensor], *r.DisplacementMM)
		}
	}

	out := make([]SensorSummary, 0, len(bySensor))
	for sensor, values := range bySensor {
		s := SensorSummary{
			Sensor: sensor,
			Count:  len(values),
			Min:    math.Inf(1),
			Max:    math.Inf(-1),
		}
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			s.StdDev = 0
		}
		for _, v := range values {
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sensor < out[j].Sensor })
	return out
}
