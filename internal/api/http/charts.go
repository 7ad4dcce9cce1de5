package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/charts"
)

func registerCharts(app *fiber.App, service Service, opts Options) {
	g := app.Group("/charts")

	g.Get("/displacement", chartHandler(opts, func(c *fiber.Ctx, q selectionQuery, o charts.Options) ([]byte, error) {
		view, err := service.Displacement(c.UserContext(), q.selection())
		if err != nil {
			return nil, err
		}
		return charts.Displacement(view, o)
	}))

	g.Get("/precipitation", chartHandler(opts, func(c *fiber.Ctx, q selectionQuery, o charts.Options) ([]byte, error) {
		view, err := service.Precipitation(c.UserContext(), q.Run)
		if err != nil {
			return nil, err
		}
		return charts.Precipitation(view, o)
	}))

	g.Get("/monthly-rainfall", chartHandler(opts, func(c *fiber.Ctx, q selectionQuery, o charts.Options) ([]byte, error) {
		view, err := service.Precipitation(c.UserContext(), q.Run)
		if err != nil {
			return nil, err
		}
		return charts.MonthlyRainfall(view, o)
	}))

	g.Get("/combined", chartHandler(opts, func(c *fiber.Ctx, q selectionQuery, o charts.Options) ([]byte, error) {
		view, err := service.Combined(c.UserContext(), q.selection())
		if err != nil {
			return nil, err
		}
		return charts.Combined(view, o)
	}))
}

type renderFunc func(c *fiber.Ctx, q selectionQuery, o charts.Options) ([]byte, error)

// chartHandler parses the selection, renders the image and maps an empty
// selection to 404.
func chartHandler(opts Options, render renderFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := parseSelectionQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		format, err := charts.ParseFormat(q.Format)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		img, err := render(c, q, charts.Options{
			Width:  opts.ChartWidth,
			Height: opts.ChartHeight,
			Format: format,
		})
		if err != nil {
			return serviceError(err)
		}

		c.Set(fiber.HeaderContentType, format.ContentType())
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Send(img)
	}
}
