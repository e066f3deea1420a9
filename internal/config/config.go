package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/geolocation"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string        `validate:"required,url"`
	HTTPTimeout        time.Duration `validate:"gt=0"`

	// ForecastProvider backs the chart and the daily cards.
	ForecastProvider string `validate:"oneof=openweather openmeteo"`
	OpenMeteoBaseURL string `validate:"omitempty,url"`

	Port      string `validate:"required,numeric"`
	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"oneof=text json"`

	GeolocationMode    string        `validate:"oneof=none static ip"`
	GeolocationLat     float64       `validate:"latitude"`
	GeolocationLon     float64       `validate:"longitude"`
	GeolocationURL     string        `validate:"omitempty,url"`
	GeolocationTimeout time.Duration `validate:"gt=0"`

	// ReverseGeocoder labels the header before the first snapshot arrives.
	ReverseGeocoder      string `validate:"oneof=nominatim google none"`
	NominatimBaseURL     string `validate:"omitempty,url"`
	GoogleGeocoderAPIKey string `validate:"required_if=ReverseGeocoder google"`

	RotationInterval time.Duration `validate:"gt=0"`
	ForecastDays     int           `validate:"min=1,max=7"`
	OtherCities      []string      `validate:"dive,required"`

	MapTileURL     string
	MapAttribution string
}

var validate = validator.New()

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*AppConfig, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherURL)
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("FORECAST_PROVIDER", "openweather")
	v.SetDefault("OPEN_METEO_BASE_URL", providers.DefaultOpenMeteoURL)
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("GEOLOCATION_MODE", string(geolocation.ModeIP))
	v.SetDefault("GEOLOCATION_URL", geolocation.DefaultIPLookupURL)
	v.SetDefault("GEOLOCATION_TIMEOUT", "5s")
	v.SetDefault("REVERSE_GEOCODER", "nominatim")
	v.SetDefault("NOMINATIM_BASE_URL", providers.DefaultNominatimURL)
	v.SetDefault("ROTATION_INTERVAL", "5s")
	v.SetDefault("FORECAST_DAYS", 7)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey:    v.GetString("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL:   v.GetString("OPENWEATHER_BASE_URL"),
		ForecastProvider:     strings.ToLower(v.GetString("FORECAST_PROVIDER")),
		OpenMeteoBaseURL:     v.GetString("OPEN_METEO_BASE_URL"),
		Port:                 v.GetString("PORT"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:            strings.ToLower(v.GetString("LOG_FORMAT")),
		GeolocationMode:      strings.ToLower(v.GetString("GEOLOCATION_MODE")),
		GeolocationLat:       v.GetFloat64("GEOLOCATION_LAT"),
		GeolocationLon:       v.GetFloat64("GEOLOCATION_LON"),
		GeolocationURL:       v.GetString("GEOLOCATION_URL"),
		ReverseGeocoder:      strings.ToLower(v.GetString("REVERSE_GEOCODER")),
		NominatimBaseURL:     v.GetString("NOMINATIM_BASE_URL"),
		GoogleGeocoderAPIKey: v.GetString("GOOGLE_GEOCODER_API_KEY"),
		ForecastDays:         v.GetInt("FORECAST_DAYS"),
		OtherCities:          common.SplitList(v.GetString("OTHER_CITIES")),
		MapTileURL:           v.GetString("MAP_TILE_URL"),
		MapAttribution:       v.GetString("MAP_ATTRIBUTION"),
	}

	var err error
	if cfg.HTTPTimeout, err = duration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.GeolocationTimeout, err = duration(v, "GEOLOCATION_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.RotationInterval, err = duration(v, "ROTATION_INTERVAL"); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// GeolocationOptions describes the resolver selected by GEOLOCATION_MODE.
func (c *AppConfig) GeolocationOptions() geolocation.Options {
	return geolocation.Options{
		Mode:        geolocation.Mode(c.GeolocationMode),
		Coordinates: weather.Coordinates{Lat: c.GeolocationLat, Lon: c.GeolocationLon},
		LookupURL:   c.GeolocationURL,
		Timeout:     c.GeolocationTimeout,
	}
}

// ServerAddr returns the listen address in the format ":port".
func (c *AppConfig) ServerAddr() string {
	return ":" + c.Port
}

// NewLogger creates a slog.Logger writing to stdout.
func (c *AppConfig) NewLogger() *slog.Logger {
	return c.newLogger(os.Stdout)
}

func (c *AppConfig) newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
