package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/charts"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/common"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/store"
)

var validate = validator.New()

// Service is the dashboard pipeline the handlers are served from.
type Service interface {
	Catalog(ctx context.Context) ([]dinsar.RunCatalog, dinsar.LoadReport, error)
	Displacement(ctx context.Context, sel dinsar.Selection) (dinsar.DisplacementView, error)
	Precipitation(ctx context.Context, run *int) (dinsar.PrecipitationView, error)
	Combined(ctx context.Context, sel dinsar.Selection) (dinsar.CombinedView, error)
	LatestReport() (dinsar.LoadReport, error)
	Reports(from, to time.Time) ([]dinsar.LoadReport, error)
}

// Options configure chart rendering.
type Options struct {
	ChartWidth  int
	ChartHeight int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service Service, opts Options) {
	v1 := app.Group("/api/v1")

	v1.Get("/runs", func(c *fiber.Ctx) error {
		runs, report, err := service.Catalog(c.UserContext())
		if err != nil {
			return serviceError(err)
		}
		return c.JSON(fiber.Map{
			"runs":     runs,
			"warnings": report.Warnings(),
		})
	})

	v1.Get("/displacement", func(c *fiber.Ctx) error {
		q, err := parseSelectionQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.Displacement(c.UserContext(), q.selection())
		if err != nil {
			return serviceError(err)
		}
		return c.JSON(view)
	})

	v1.Get("/displacement/events", func(c *fiber.Ctx) error {
		q, err := parseSelectionQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.Displacement(c.UserContext(), q.selection())
		if err != nil {
			return serviceError(err)
		}
		return c.JSON(fiber.Map{
			"selection": view.Selection,
			"events":    view.Events,
			"warnings":  view.Warnings,
		})
	})

	v1.Get("/precipitation", func(c *fiber.Ctx) error {
		q, err := parseSelectionQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.Precipitation(c.UserContext(), q.Run)
		if err != nil {
			return serviceError(err)
		}
		return c.JSON(view)
	})

	v1.Get("/combined", func(c *fiber.Ctx) error {
		q, err := parseSelectionQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.Combined(c.UserContext(), q.selection())
		if err != nil {
			return serviceError(err)
		}
		return c.JSON(view)
	})

	v1.Get("/loads/latest", func(c *fiber.Ctx) error {
		report, err := service.LatestReport()
		if err != nil {
			return serviceError(err)
		}
		return c.JSON(report)
	})

	v1.Get("/loads", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reports, err := service.Reports(req.From, req.To)
		if err != nil {
			return serviceError(err)
		}
		return c.JSON(fiber.Map{
			"from":    req.From,
			"to":      req.To,
			"reports": reports,
		})
	})

	registerCharts(app, service, opts)
	registerPages(app, service)
}

// serviceError maps pipeline and store errors onto HTTP errors.
func serviceError(err error) error {
	switch {
	case errors.Is(err, dinsar.ErrNoValidRows):
		return fiber.NewError(fiber.StatusServiceUnavailable, "no valid data could be loaded from the configured sources")
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, charts.ErrNoData):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.NewError(fiber.StatusGatewayTimeout, "loading the sources timed out")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build dashboard view")
	}
}

// selectionQuery holds the filter parameters shared by every view.
type selectionQuery struct {
	Run     *int     `validate:"omitempty,min=0"`
	Sensors []string `validate:"max=500,dive,required,max=128"`
	Format  string   `validate:"omitempty,oneof=svg png"`
}

func (q selectionQuery) selection() dinsar.Selection {
	return dinsar.Selection{RunID: q.Run, Sensors: q.Sensors}
}

// parseSelectionQuery reads run, sensor and format. sensor may be repeated
// or hold a comma separated list; sensor names are matched lower-cased, like
// the normalized column headers.
func parseSelectionQuery(c *fiber.Ctx) (selectionQuery, error) {
	var q selectionQuery

	if raw := strings.TrimSpace(c.Query("run")); raw != "" {
		run, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("run must be an integer")
		}
		q.Run = &run
	}

	for _, raw := range c.Context().QueryArgs().PeekMulti("sensor") {
		for _, name := range common.SplitList(string(raw)) {
			q.Sensors = append(q.Sensors, dinsar.NormalizeHeader(name))
		}
	}

	q.Format = strings.ToLower(c.Query("format"))

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// historyQuery holds query parameters for the load history endpoint.
// Missing bounds select the whole history.
type historyQuery struct {
	From time.Time
	To   time.Time `validate:"gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.From = time.Unix(0, 0).UTC()
	h.To = time.Now().UTC().Add(time.Minute)

	if s := c.Query("from"); s != "" {
		from, err := parseTime(s)
		if err != nil {
			return err
		}
		h.From = from
	}
	if s := c.Query("to"); s != "" {
		to, err := parseTime(s)
		if err != nil {
			return err
		}
		h.To = to
	}
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
