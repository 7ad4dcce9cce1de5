package dinsar

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrMissingColumn is returned when a required column is absent from a source.
var ErrMissingColumn = errors.New("missing required column")

// Column names of the structured exports.
const (
	ColumnPoint    = "punto"
	ColumnDate     = "fecha"
	ColumnRun      = "corrida"
	ColumnRainfall = "rainfall"
)

const fieldSeparator = ';'

// WideRow is one displacement row in the source layout: one value per sensor column.
type WideRow struct {
	Line    int
	RunID   int
	PointID string
	Date    time.Time
	Values  []*float64 // aligned with WideTable.Sensors
}

// WideTable is a normalized displacement file before reshaping.
type WideTable struct {
	Source  string
	Sensors []string
	Rows    []WideRow
}

// table is a semicolon separated file with normalized headers.
type table struct {
	header  []string
	records [][]string
	lines   []int
	dropped []string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = fieldSeparator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("file has no header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &table{header: make([]string, len(header))}
	for i, h := range header {
		t.header[i] = NormalizeHeader(h)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		t.records = append(t.records, fit(rec, len(t.header)))
		t.lines = append(t.lines, line)
	}

	t.dropColumns()
	return t, nil
}

// dropColumns removes placeholder columns and, when the file has rows,
// columns without a single non-empty cell.
func (t *table) dropColumns() {
	keep := make([]int, 0, len(t.header))
	for i, h := range t.header {
		if IsPlaceholderHeader(h) || (len(t.records) > 0 && t.columnEmpty(i)) {
			if h == "" {
				h = fmt.Sprintf("#%d", i+1)
			}
			t.dropped = append(t.dropped, h)
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) == len(t.header) {
		return
	}

	header := make([]string, len(keep))
	for j, i := range keep {
		header[j] = t.header[i]
	}
	for n, rec := range t.records {
		out := make([]string, len(keep))
		for j, i := range keep {
			out[j] = rec[i]
		}
		t.records[n] = out
	}
	t.header = header
}

func (t *table) columnEmpty(i int) bool {
	for _, rec := range t.records {
		if strings.TrimSpace(rec[i]) != "" {
			return false
		}
	}
	return true
}

func (t *table) index(name string) int {
	for i, h := range t.header {
		if h == name {
			return i
		}
	}
	return -1
}

func (t *table) require(names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	var missing []string
	for _, name := range names {
		i := t.index(name)
		if i < 0 {
			missing = append(missing, name)
			continue
		}
		idx[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, joinNames(missing))
	}
	return idx, nil
}

func (t *table) reject(n int, reason string) RejectedRow {
	fields := make(map[string]string, len(t.header))
	for i, h := range t.header {
		fields[h] = t.records[n][i]
	}
	return RejectedRow{Line: t.lines[n], Reason: reason, Fields: fields}
}

// ReadDisplacement parses a displacement export. Columns other than punto,
// fecha and corrida are sensors. Rows with an unparseable date or run id are
// rejected and listed in the report. The report is populated even on error.
func ReadDisplacement(source string, r io.Reader) (WideTable, SourceReport, error) {
	report := SourceReport{Source: source, Dataset: DatasetDisplacement}
	wide := WideTable{Source: source}

	t, err := readTable(r)
	if err != nil {
		report.Error = err.Error()
		return wide, report, err
	}
	report.DroppedColumns = t.dropped
	report.RowsRead = len(t.records)

	idx, err := t.require(ColumnPoint, ColumnDate, ColumnRun)
	if err != nil {
		report.Error = err.Error()
		return wide, report, err
	}

	var sensorCols []int
	for i, h := range t.header {
		if h == ColumnPoint || h == ColumnDate || h == ColumnRun {
			continue
		}
		sensorCols = append(sensorCols, i)
		wide.Sensors = append(wide.Sensors, h)
	}

	for n, rec := range t.records {
		date, err := ParseDayFirstDate(rec[idx[ColumnDate]])
		if err != nil {
			report.Rejected = append(report.Rejected, t.reject(n, "invalid date"))
			continue
		}
		run, err := ParseRunID(rec[idx[ColumnRun]])
		if err != nil {
			report.Rejected = append(report.Rejected, t.reject(n, "invalid run id"))
			continue
		}

		row := WideRow{
			Line:    t.lines[n],
			RunID:   run,
			PointID: strings.TrimSpace(rec[idx[ColumnPoint]]),
			Date:    date,
			Values:  make([]*float64, len(sensorCols)),
		}
		for j, col := range sensorCols {
			row.Values[j] = ParseDecimal(rec[col])
			if row.Values[j] == nil {
				report.MissingValues++
			}
		}
		wide.Rows = append(wide.Rows, row)
	}

	report.RowsAccepted = len(wide.Rows)
	return wide, report, nil
}

// ReadPrecipitation parses a rainfall export with fecha, rainfall and corrida
// columns. Unparseable or negative rainfall becomes missing; rows with an
// unparseable date or run id are rejected.
func ReadPrecipitation(source string, r io.Reader) ([]PrecipitationReading, SourceReport, error) {
	report := SourceReport{Source: source, Dataset: DatasetPrecipitation}

	t, err := readTable(r)
	if err != nil {
		report.Error = err.Error()
		return nil, report, err
	}
	report.DroppedColumns = t.dropped
	report.RowsRead = len(t.records)

	idx, err := t.require(ColumnDate, ColumnRainfall, ColumnRun)
	if err != nil {
		report.Error = err.Error()
		return nil, report, err
	}

	readings := make([]PrecipitationReading, 0, len(t.records))
	for n, rec := range t.records {
		date, err := ParseFlexibleDate(rec[idx[ColumnDate]])
		if err != nil {
			report.Rejected = append(report.Rejected, t.reject(n, "invalid date"))
			continue
		}
		run, err := ParseRunID(rec[idx[ColumnRun]])
		if err != nil {
			report.Rejected = append(report.Rejected, t.reject(n, "invalid run id"))
			continue
		}

		rain := ParseDecimal(rec[idx[ColumnRainfall]])
		switch {
		case rain == nil:
			report.MissingValues++
		case *rain < 0:
			report.NegativeValues++
			report.MissingValues++
			rain = nil
		}
		readings = append(readings, PrecipitationReading{RunID: run, Date: date, RainfallMM: rain})
	}

	report.RowsAccepted = len(readings)
	return readings, report, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// fit pads or truncates a record to n fields.
func fit(rec []string, n int) []string {
	if len(rec) == n {
		return rec
	}
	out := make([]string, n)
	copy(out, rec)
	return out
}
