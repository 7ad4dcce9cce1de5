package dinsar

import "sort"

// Melt converts a wide displacement table into long format: one reading per
// (point, date, run, sensor). Missing cells are kept as readings without a value.
func Melt(wide WideTable) []DisplacementReading {
	out := make([]DisplacementReading, 0, len(wide.Rows)*len(wide.Sensors))
	for j, sensor := range wide.Sensors {
		for _, row := range wide.Rows {
			out = append(out, DisplacementReading{
				RunID:          row.RunID,
				PointID:        row.PointID,
				Sensor:         sensor,
				Date:           row.Date,
				DisplacementMM: row.Values[j],
			})
		}
	}
	return out
}

// DropEmptySensors removes every sensor that has no valid value anywhere in
// readings. It must run on the concatenation of all runs so that a sensor is
// only dropped when it is empty globally. Dropped names are returned sorted.
func DropEmptySensors(readings []DisplacementReading) ([]DisplacementReading, []string) {
	valid := make(map[string]bool)
	for _, r := range readings {
		if r.Valid() {
			valid[r.Sensor] = true
		} else if _, seen := valid[r.Sensor]; !seen {
			valid[r.Sensor] = false
		}
	}

	var dropped []string
	for sensor, ok := range valid {
		if !ok {
			dropped = append(dropped, sensor)
		}
	}
	if len(dropped) == 0 {
		return readings, nil
	}
	sort.Strings(dropped)

	kept := make([]DisplacementReading, 0, len(readings))
	for _, r := range readings {
		if valid[r.Sensor] {
			kept = append(kept, r)
		}
	}
	return kept, dropped
}
