package dinsar

import (
	"sort"
)

// Selection is a user filter choice. A nil RunID selects the first known
// run; an empty Sensors list selects every sensor of the selected run.
type Selection struct {
	RunID   *int
	Sensors []string
}

// ResolvedSelection is a Selection with its defaults applied.
type ResolvedSelection struct {
	RunID   int      `json:"runId"`
	Sensors []string `json:"sensors"`
}

// RunCatalog lists the sensors measured during a run.
type RunCatalog struct {
	RunID   int      `json:"runId"`
	Sensors []string `json:"sensors"`
}

// Runs returns the distinct run ids of readings in ascending order.
func Runs(readings []DisplacementReading) []int {
	seen := make(map[int]struct{})
	for _, r := range readings {
		seen[r.RunID] = struct{}{}
	}
	return sortedKeys(seen)
}

// PrecipitationRuns returns the distinct run ids of rainfall readings in ascending order.
func PrecipitationRuns(readings []PrecipitationReading) []int {
	seen := make(map[int]struct{})
	for _, r := range readings {
		seen[r.RunID] = struct{}{}
	}
	return sortedKeys(seen)
}

// SensorsForRun returns the sorted sensor names that have readings in run.
func SensorsForRun(readings []DisplacementReading, run int) []string {
	seen := make(map[string]struct{})
	for _, r := range readings {
		if r.RunID == run {
			seen[r.Sensor] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Catalog returns every run together with its sensors.
func Catalog(readings []DisplacementReading) []RunCatalog {
	runs := Runs(readings)
	out := make([]RunCatalog, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunCatalog{RunID: run, Sensors: SensorsForRun(readings, run)})
	}
	return out
}

// Resolve applies selection defaults against the loaded readings.
// It returns false when there is no run to fall back to.
func Resolve(readings []DisplacementReading, sel Selection) (ResolvedSelection, bool) {
	var res ResolvedSelection
	if sel.RunID != nil {
		res.RunID = *sel.RunID
	} else {
		runs := Runs(readings)
		if len(runs) == 0 {
			return res, false
		}
		res.RunID = runs[0]
	}

	if len(sel.Sensors) > 0 {
		res.Sensors = dedupe(sel.Sensors)
	} else {
		res.Sensors = SensorsForRun(readings, res.RunID)
	}
	return res, true
}

// FilterDisplacement keeps the valid readings of run whose sensor is listed.
func FilterDisplacement(readings []DisplacementReading, run int, sensors []string) []DisplacementReading {
	wanted := make(map[string]struct{}, len(sensors))
	for _, s := range sensors {
		wanted[s] = struct{}{}
	}

	var out []DisplacementReading
	for _, r := range readings {
		if r.RunID != run || !r.Valid() {
			continue
		}
		if _, ok := wanted[r.Sensor]; ok {
			out = append(out, r)
		}
	}
	return out
}

// FilterPrecipitation keeps valid rainfall readings, restricted to run when
// run is not nil. The result is ordered by date then run.
func FilterPrecipitation(readings []PrecipitationReading, run *int) []PrecipitationReading {
	var out []PrecipitationReading
	for _, r := range readings {
		if !r.Valid() {
			continue
		}
		if run != nil && r.RunID != *run {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].RunID < out[j].RunID
	})
	return out
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}
