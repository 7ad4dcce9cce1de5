package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar"
)

var funcMap = template.FuncMap{
	"fmtDate": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02")
	},
	"fmtMonth": func(t time.Time) string { return t.Format("Jan 2006") },
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.UTC().Format("Jan 2 15:04:05")
	},
	"fmtMM": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"fmtOpt": func(v *float64) string {
		if v == nil {
			return "n/a"
		}
		return strconv.FormatFloat(*v, 'f', 2, 64)
	},
	"fmtDur": func(d time.Duration) string {
		if d < time.Second {
			return fmt.Sprintf("%dms", d.Milliseconds())
		}
		return fmt.Sprintf("%.1fs", d.Seconds())
	},
	"warnClass": func(code dinsar.WarningCode) string {
		switch code {
		case dinsar.WarningSourceError:
			return "err"
		case dinsar.WarningNoData:
			return "dim"
		default:
			return "warn"
		}
	},
	"isRun": func(run int, selected *int) bool { return selected != nil && *selected == run },
	"join":  strings.Join,
	"chartURL": func(name, query string) template.URL {
		if query == "" {
			return template.URL("/charts/" + name)
		}
		return template.URL("/charts/" + name + "?" + query)
	},
}

var pages = map[string]*template.Template{
	"index":         parsePage("index", tmplIndex),
	"displacement":  parsePage("displacement", tmplDisplacement),
	"precipitation": parsePage("precipitation", tmplPrecipitation),
	"combined":      parsePage("combined", tmplCombined),
	"error":         parsePage("error", tmplError),
}

func parsePage(name, tmpl string) *template.Template {
	return template.Must(template.New(name).Funcs(funcMap).Parse(tmplBase + tmpl))
}

// sensorOption is one entry of the sensor multi-select.
type sensorOption struct {
	Name     string
	Selected bool
}

// page is the data every template receives.
type page struct {
	Title       string
	Active      string
	Query       string
	Runs        []int
	SelectedRun *int
	Sensors     []sensorOption
	Warnings    []dinsar.Warning
	Report      dinsar.LoadReport

	Catalog       []dinsar.RunCatalog
	Displacement  *dinsar.DisplacementView
	Precipitation *dinsar.PrecipitationView
	Combined      *dinsar.CombinedView

	Status  int
	Message string
}

func registerPages(app *fiber.App, service Service) {
	app.Get("/", func(c *fiber.Ctx) error {
		runs, report, err := service.Catalog(c.UserContext())
		if err != nil {
			return renderError(c, err)
		}
		return renderPage(c, fiber.StatusOK, "index", page{
			Title:    "DInSAR monitoring",
			Active:   "home",
			Catalog:  runs,
			Warnings: report.Warnings(),
			Report:   report,
		})
	})

	app.Get("/displacement", func(c *fiber.Ctx) error {
		q, err := parseSelectionQuery(c)
		if err != nil {
			return renderError(c, fiber.NewError(fiber.StatusBadRequest, err.Error()))
		}
		view, err := service.Displacement(c.UserContext(), q.selection())
		if err != nil {
			return renderError(c, err)
		}
		run := view.Selection.RunID
		return renderPage(c, fiber.StatusOK, "displacement", page{
			Title:        "Displacement",
			Active:       "displacement",
			Query:        encodeSelection(&run, view.Selection.Sensors),
			Runs:         view.Runs,
			SelectedRun:  &run,
			Sensors:      sensorOptions(view.AvailableSensors, view.Selection.Sensors),
			Warnings:     view.Warnings,
			Report:       view.Report,
			Displacement: &view,
		})
	})

	app.Get("/precipitation", func(c *fiber.Ctx) error {
		q, err := parseSelectionQuery(c)
		if err != nil {
			return renderError(c, fiber.NewError(fiber.StatusBadRequest, err.Error()))
		}
		view, err := service.Precipitation(c.UserContext(), q.Run)
		if err != nil {
			return renderError(c, err)
		}
		return renderPage(c, fiber.StatusOK, "precipitation", page{
			Title:         "Precipitation",
			Active:        "precipitation",
			Query:         encodeSelection(q.Run, nil),
			Runs:          view.Runs,
			SelectedRun:   q.Run,
			Warnings:      view.Warnings,
			Report:        view.Report,
			Precipitation: &view,
		})
	})

	app.Get("/combined", func(c *fiber.Ctx) error {
		q, err := parseSelectionQuery(c)
		if err != nil {
			return renderError(c, fiber.NewError(fiber.StatusBadRequest, err.Error()))
		}
		view, err := service.Combined(c.UserContext(), q.selection())
		if err != nil {
			return renderError(c, err)
		}
		run := view.Selection.RunID
		return renderPage(c, fiber.StatusOK, "combined", page{
			Title:       "Displacement and rainfall",
			Active:      "combined",
			Query:       encodeSelection(&run, view.Selection.Sensors),
			Runs:        view.Runs,
			SelectedRun: &run,
			Sensors:     sensorOptions(view.AvailableSensors, view.Selection.Sensors),
			Warnings:    view.Warnings,
			Report:      view.Report,
			Combined:    &view,
		})
	})
}

func renderPage(c *fiber.Ctx, status int, name string, data page) error {
	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "base", data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "template error: "+err.Error())
	}
	c.Status(status)
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// renderError shows err as an HTML page with the status serviceError maps it to.
func renderError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		errors.As(serviceError(err), &fe)
	}
	return renderPage(c, fe.Code, "error", page{
		Title:   "Error",
		Status:  fe.Code,
		Message: fe.Message,
	})
}

// encodeSelection builds the query string the chart images are requested with.
func encodeSelection(run *int, sensors []string) string {
	v := url.Values{}
	if run != nil {
		v.Set("run", strconv.Itoa(*run))
	}
	if len(sensors) > 0 {
		v.Set("sensor", strings.Join(sensors, ","))
	}
	return v.Encode()
}

func sensorOptions(available, selected []string) []sensorOption {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}
	out := make([]sensorOption, len(available))
	for i, s := range available {
		out[i] = sensorOption{Name: s, Selected: chosen[s]}
	}
	return out
}
