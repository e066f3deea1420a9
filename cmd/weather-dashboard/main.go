package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geolocation"
	"github.com/i474232898/weather-dashboard/internal/report"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := cfg.NewLogger()
	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY is not set; weather lookups will fail")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := report.NewMetrics(reg)
	reporter := report.NewReporter(logger, metrics, report.AlerterFunc(func(msg string) {
		logger.Warn("user alert", "message", msg)
	}))

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// One breaker per upstream endpoint.
	weatherClient := providers.NewWeatherClient(
		providers.NewTransport("openweather-weather", httpClient, metrics),
		cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey,
	)
	var forecastClient weather.ForecastSource
	switch cfg.ForecastProvider {
	case "openmeteo":
		forecastClient = providers.NewOpenMeteoForecast(
			providers.NewTransport("openmeteo-forecast", httpClient, metrics),
			cfg.OpenMeteoBaseURL,
		)
	default:
		forecastClient = providers.NewForecastClient(
			providers.NewTransport("openweather-forecast", httpClient, metrics),
			cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey,
		)
	}
	airClient := providers.NewAirPollutionClient(
		providers.NewTransport("openweather-air", httpClient, metrics),
		cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey,
	)

	var geocoder weather.ReverseGeocoder
	switch cfg.ReverseGeocoder {
	case "nominatim":
		geocoder = providers.NewNominatimGeocoder(providers.NewTransport("nominatim", httpClient, metrics), cfg.NominatimBaseURL)
	case "google":
		geocoder = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
	}

	geoOpts := cfg.GeolocationOptions()
	geoOpts.Client = httpClient

	dash := dashboard.New(dashboard.Deps{
		Store:       store.NewMemoryStore(),
		Weather:     weatherClient,
		Forecast:    forecastClient,
		AirQuality:  airClient,
		Geocoder:    geocoder,
		Geolocation: geolocation.FromMode(geoOpts),
		Reporter:    reporter,
	}, dashboard.Options{
		RotationInterval: cfg.RotationInterval,
		ForecastDays:     cfg.ForecastDays,
		OtherCities:      cfg.OtherCities,
		MapTileURL:       cfg.MapTileURL,
		MapAttribution:   cfg.MapAttribution,
		Logger:           logger,
	})
	defer dash.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dash.Mount(ctx)

	app := httpapi.NewApp("weather-dashboard")

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	httpapi.RegisterMetrics(app, reg)
	httpapi.RegisterRoutes(app, dash)

	go func() {
		if err := app.Listen(cfg.ServerAddr()); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()
	logger.Info("weather dashboard listening", "addr", cfg.ServerAddr())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
