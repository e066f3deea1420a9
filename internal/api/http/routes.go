package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// NewApp creates the Fiber app with the centralized JSON error handler.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})
}

// RegisterMetrics exposes the collectors of g in the Prometheus text format.
func RegisterMetrics(app *fiber.App, g prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, dash *dashboard.Dashboard) {
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(dash.Render())
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		snapshot, ok := dash.Current()
		if !ok {
			return c.JSON(currentResponse{Present: false})
		}
		return c.JSON(currentResponse{Present: true, Snapshot: &snapshot})
	})

	v1.Post("/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		// A blank query is a no-op and comes back unsubmitted.
		out := dash.Search.SubmitQuery(c.UserContext(), req.Query)
		return c.Status(searchStatus(out)).JSON(out)
	})

	views := v1.Group("/views")

	views.Get("/:name", func(c *fiber.Ctx) error {
		switch c.Params("name") {
		case "header":
			return c.JSON(dash.Render().Header)
		case "forecast":
			return c.JSON(dash.Forecast.Render())
		case "chart":
			return c.JSON(dash.Chart.Render())
		case "map":
			return c.JSON(dash.Map.Render())
		case "cities":
			return c.JSON(dash.Cities.Render())
		}
		return fiber.NewError(fiber.StatusNotFound, "unknown view")
	})

	views.Put("/forecast/tab", func(c *fiber.Ctx) error {
		var req tabRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := dash.Forecast.SetTab(dashboard.Tab(req.Tab)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(dash.Forecast.Render())
	})

	views.Put("/forecast/period", func(c *fiber.Ctx) error {
		var req periodRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := dash.Forecast.SetPeriod(dashboard.Period(req.Period)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(dash.Forecast.Render())
	})

	views.Put("/forecast/card", func(c *fiber.Ctx) error {
		var req cardRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := dash.Forecast.SetOpenCard(req.Index); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(dash.Forecast.Render())
	})
}

type currentResponse struct {
	Present  bool              `json:"present"`
	Snapshot *weather.Snapshot `json:"snapshot,omitempty"`
}

type searchRequest struct {
	Query string `json:"query" validate:"max=200"`
}

type tabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=forecast air_quality"`
}

type periodRequest struct {
	Period string `json:"period" validate:"required,oneof=today tomorrow next_7_days"`
}

// cardRequest closes the open card when Index is null.
type cardRequest struct {
	Index *int `json:"index" validate:"omitempty,min=0"`
}

// bind decodes the JSON body into req and validates it.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func searchStatus(out dashboard.SearchOutcome) int {
	switch out.ErrorKind {
	case "":
		return fiber.StatusOK
	case weather.KindNotFound.String():
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadGateway
	}
}
