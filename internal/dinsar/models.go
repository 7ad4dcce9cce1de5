package dinsar

import (
	"time"
)

// Dataset identifies the kind of CSV a source feeds.
type Dataset string

const (
	DatasetDisplacement  Dataset = "displacement"
	DatasetPrecipitation Dataset = "precipitation"
)

// DisplacementReading is a single long-format observation:
// one row per (run, point, sensor, date).
// DisplacementMM is nil when the source cell was empty or not numeric.
type DisplacementReading struct {
	RunID          int       `json:"runId"`
	PointID        string    `json:"pointId"`
	Sensor         string    `json:"sensor"`
	Date           time.Time `json:"date"` // midnight UTC
	DisplacementMM *float64  `json:"displacementMm"`
}

// Valid reports whether the reading carries a displacement value.
func (r DisplacementReading) Valid() bool {
	return r.DisplacementMM != nil
}

// Value returns the displacement or zero when missing.
func (r DisplacementReading) Value() float64 {
	if r.DisplacementMM == nil {
		return 0
	}
	return *r.DisplacementMM
}

// PrecipitationReading is one rainfall observation of a run.
type PrecipitationReading struct {
	RunID      int       `json:"runId"`
	Date       time.Time `json:"date"`
	RainfallMM *float64  `json:"rainfallMm"`
}

// Valid reports whether the reading carries a rainfall value.
func (r PrecipitationReading) Valid() bool {
	return r.RainfallMM != nil
}

// ChangeEvent is the largest displacement change between two consecutive
// readings of a sensor inside the current selection.
type ChangeEvent struct {
	Sensor       string    `json:"sensor"`
	PreviousDate time.Time `json:"previousDate"`
	Date         time.Time `json:"date"`
	DeltaMM      float64   `json:"deltaMm"`
	ElapsedDays  int       `json:"elapsedDays"`

	// RateMMPerDay is nil when both readings fall on the same day.
	RateMMPerDay *float64 `json:"rateMmPerDay"`
}

// DailyAverage is the cross-sensor mean displacement for one date.
type DailyAverage struct {
	Date           time.Time `json:"date"`
	DisplacementMM float64   `json:"displacementMm"`
	Readings       int       `json:"readings"`
}

// DailyRainfall is the rainfall total of one date.
type DailyRainfall struct {
	Date       time.Time `json:"date"`
	RainfallMM float64   `json:"rainfallMm"`
}

// MonthlyRainfall is the rainfall total of a calendar month, keyed by the
// first day of that month.
type MonthlyRainfall struct {
	Month      time.Time `json:"month"`
	RainfallMM float64   `json:"rainfallMm"`
	Readings   int       `json:"readings"`
}

// SensorSummary holds descriptive statistics of a sensor's valid readings.
type SensorSummary struct {
	Sensor string  `json:"sensor"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stdDev"`
}

// WarningCode classifies a user-visible data-quality warning.
type WarningCode string

const (
	WarningNoData       WarningCode = "no_data"
	WarningInvalidRows  WarningCode = "invalid_rows"
	WarningSourceError  WarningCode = "source_error"
	WarningEmptySensors WarningCode = "empty_sensors"
)

// Warning is a non-fatal anomaly surfaced to the dashboard user.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Source  string      `json:"source,omitempty"`
}

// RejectedRow is an input row excluded from processing.
type RejectedRow struct {
	Line   int               `json:"line"`
	Reason string            `json:"reason"`
	Fields map[string]string `json:"fields"`
}

// SourceReport describes what happened while loading one source.
type SourceReport struct {
	Source         string        `json:"source"`
	Dataset        Dataset       `json:"dataset"`
	RowsRead       int           `json:"rowsRead"`
	RowsAccepted   int           `json:"rowsAccepted"`
	MissingValues  int           `json:"missingValues"`
	NegativeValues int           `json:"negativeValues,omitempty"`
	DroppedColumns []string      `json:"droppedColumns,omitempty"`
	Rejected       []RejectedRow `json:"rejected,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// LoadReport summarizes one full load of every configured source.
type LoadReport struct {
	ID                string         `json:"id"`
	StartedAt         time.Time      `json:"startedAt"`
	Duration          time.Duration  `json:"duration"`
	Sources           []SourceReport `json:"sources"`
	DroppedSensors    []string       `json:"droppedSensors,omitempty"`
	DisplacementRows  int            `json:"displacementRows"`
	PrecipitationRows int            `json:"precipitationRows"`
	Error             string         `json:"error,omitempty"`
}

// Rejected returns the number of rejected rows across sources.
func (r LoadReport) Rejected() int {
	n := 0
	for _, s := range r.Sources {
		n += len(s.Rejected)
	}
	return n
}

// Warnings converts the report into user-visible warnings.
func (r LoadReport) Warnings() []Warning {
	var out []Warning
	for _, s := range r.Sources {
		if s.Error != "" {
			out = append(out, Warning{Code: WarningSourceError, Message: s.Error, Source: s.Source})
		}
		if n := len(s.Rejected); n > 0 {
			out = append(out, Warning{
				Code:    WarningInvalidRows,
				Message: pluralRows(n) + " with an invalid date or run id excluded",
				Source:  s.Source,
			})
		}
	}
	if len(r.DroppedSensors) > 0 {
		out = append(out, Warning{
			Code:    WarningEmptySensors,
			Message: "sensors without any valid value were dropped: " + joinNames(r.DroppedSensors),
		})
	}
	return out
}
