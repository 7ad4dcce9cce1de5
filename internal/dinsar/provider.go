package dinsar

import (
	"context"
	"io"
	"time"
)

// Source abstracts where a CSV export is read from (local file, HTTP endpoint).
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ReportStore is the contract the load audit history must satisfy.
type ReportStore interface {
	SaveReport(report LoadReport)
	GetLatest() (LoadReport, error)
	GetRange(from, to time.Time) ([]LoadReport, error)
}
