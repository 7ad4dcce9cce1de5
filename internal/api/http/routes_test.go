package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/store"
)

const (
	run1CSV = "PUNTO;FECHA;CORRIDA;S1;S2;Unnamed: 5\n" +
		"P1;01/01/2024;1;1,5;2,0;\n" +
		"P1;05/01/2024;1;-0,5;2,5;\n" +
		"P1;31/02/2024;1;1,0;1,0;\n"
	run2CSV = "PUNTO;FECHA;CORRIDA;S1;S2;Unnamed: 5\n" +
		"P2;01/03/2024;2;3,0;;\n" +
		"P2;08/03/2024;2;4,0;;\n"
	rainCSV = "FECHA;RAINFALL;CORRIDA\n" +
		"2024-01-01;10,0;1\n" +
		"2024-01-03;2,5;1\n" +
		"2024-03-01;7,0;2\n"
)

type stringSource struct {
	name string
	body string
}

func (s stringSource) Name() string { return s.name }

func (s stringSource) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func newTestApp(t *testing.T, displacement []dinsar.Source, rain dinsar.Source) (*fiber.App, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(10, time.Hour)
	svc := dinsar.NewService(st, displacement, rain, nil, nil, dinsar.Options{})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc, Options{ChartWidth: 640, ChartHeight: 320})
	return app, st
}

func defaultApp(t *testing.T) (*fiber.App, *store.MemoryStore) {
	return newTestApp(t, []dinsar.Source{
		stringSource{name: "run1.csv", body: run1CSV},
		stringSource{name: "run2.csv", body: run2CSV},
	}, stringSource{name: "rain.csv", body: rainCSV})
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func TestRuns(t *testing.T) {
	app, st := defaultApp(t)

	resp, body := get(t, app, "/api/v1/runs")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Runs     []dinsar.RunCatalog `json:"runs"`
		Warnings []dinsar.Warning    `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, []dinsar.RunCatalog{
		{RunID: 1, Sensors: []string{"s1", "s2"}},
		{RunID: 2, Sensors: []string{"s1"}},
	}, out.Runs)

	var codes []dinsar.WarningCode
	for _, w := range out.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, dinsar.WarningInvalidRows)
	assert.Equal(t, 1, st.Len())
}

func TestDisplacement(t *testing.T) {
	app, _ := defaultApp(t)

	resp, body := get(t, app, "/api/v1/displacement?run=1&sensor=S1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view dinsar.DisplacementView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, 1, view.Selection.RunID)
	assert.Equal(t, []string{"s1"}, view.Selection.Sensors)
	assert.Len(t, view.Readings, 2)
	require.NotNil(t, view.Peak)
	assert.Equal(t, 1.5, view.Peak.DisplacementMM)
}

func TestDisplacementEvents(t *testing.T) {
	app, _ := defaultApp(t)

	resp, body := get(t, app, "/api/v1/displacement/events?run=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Events []dinsar.ChangeEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Events, 2)
	assert.Equal(t, "s2", out.Events[0].Sensor)
	assert.Equal(t, "s1", out.Events[1].Sensor)
}

func TestUnknownRunIsNotAnError(t *testing.T) {
	app, _ := defaultApp(t)

	resp, body := get(t, app, "/api/v1/displacement?run=9")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view dinsar.DisplacementView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Empty(t, view.Readings)

	var codes []dinsar.WarningCode
	for _, w := range view.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, dinsar.WarningNoData)
}

func TestPrecipitationAndCombined(t *testing.T) {
	app, _ := defaultApp(t)

	resp, body := get(t, app, "/api/v1/precipitation")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pv dinsar.PrecipitationView
	require.NoError(t, json.Unmarshal(body, &pv))
	assert.Len(t, pv.Readings, 3)
	assert.Len(t, pv.Monthly, 2)

	resp, body = get(t, app, "/api/v1/combined?run=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cv dinsar.CombinedView
	require.NoError(t, json.Unmarshal(body, &cv))
	assert.Len(t, cv.Rainfall, 1)
	assert.Equal(t, 7.0, cv.Rainfall[0].RainfallMM)
}

func TestBadQueries(t *testing.T) {
	app, _ := defaultApp(t)

	tests := []string{
		"/api/v1/displacement?run=abc",
		"/api/v1/displacement?run=-1",
		"/charts/displacement?format=gif",
		"/api/v1/loads?from=yesterday",
		"/api/v1/loads?from=200&to=100",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			resp, body := get(t, app, target)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, string(body), `"error":true`)
		})
	}
}

func TestLoads(t *testing.T) {
	app, _ := defaultApp(t)

	resp, _ := get(t, app, "/api/v1/loads/latest")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	get(t, app, "/api/v1/runs")

	resp, body := get(t, app, "/api/v1/loads/latest")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report dinsar.LoadReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 6, report.DisplacementRows)

	resp, _ = get(t, app, "/api/v1/loads")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNoValidRows(t *testing.T) {
	app, _ := newTestApp(t, []dinsar.Source{
		stringSource{name: "run1.csv", body: "punto;fecha;corrida;s1\n"},
	}, stringSource{name: "rain.csv", body: "fecha;rainfall;corrida\n"})

	resp, body := get(t, app, "/api/v1/runs")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "no valid data")

	resp, _ = get(t, app, "/displacement")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
}

func TestCharts(t *testing.T) {
	app, _ := defaultApp(t)

	resp, body := get(t, app, "/charts/displacement?run=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Contains(t, string(body), "<svg")

	resp, body = get(t, app, "/charts/monthly-rainfall?format=png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, strings.HasPrefix(string(body), "\x89PNG"))

	for _, target := range []string{"/charts/precipitation?run=2", "/charts/combined?run=2"} {
		resp, _ = get(t, app, target)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
	}

	resp, _ = get(t, app, "/charts/displacement?run=9")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPages(t *testing.T) {
	app, _ := defaultApp(t)

	resp, body := get(t, app, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "DInSAR monitoring")
	assert.Contains(t, string(body), "31/02/2024")

	resp, body = get(t, app, "/displacement?run=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/charts/displacement?run=1")

	for _, target := range []string{"/precipitation", "/combined?run=2"} {
		resp, _ = get(t, app, target)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
	}

	resp, body = get(t, app, "/combined?run=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "run must be an integer")
}
