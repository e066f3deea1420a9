package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-dashboard/internal/geolocation"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.OpenWeatherBaseURL != providers.DefaultOpenWeatherURL {
		t.Errorf("base URL = %q", cfg.OpenWeatherBaseURL)
	}
	if cfg.ServerAddr() != ":8080" {
		t.Errorf("addr = %q", cfg.ServerAddr())
	}
	if cfg.RotationInterval != 5*time.Second {
		t.Errorf("rotation interval = %v", cfg.RotationInterval)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.GeolocationTimeout != 5*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.HTTPTimeout, cfg.GeolocationTimeout)
	}
	if cfg.GeolocationMode != "ip" || cfg.ReverseGeocoder != "nominatim" {
		t.Errorf("modes = %q / %q", cfg.GeolocationMode, cfg.ReverseGeocoder)
	}
	if cfg.ForecastProvider != "openweather" || cfg.OpenMeteoBaseURL != providers.DefaultOpenMeteoURL {
		t.Errorf("forecast provider = %q at %q", cfg.ForecastProvider, cfg.OpenMeteoBaseURL)
	}
	if cfg.ForecastDays != 7 || cfg.OtherCities != nil {
		t.Errorf("forecast days = %d, other cities = %v", cfg.ForecastDays, cfg.OtherCities)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GEOLOCATION_MODE", "static")
	t.Setenv("GEOLOCATION_LAT", "47.61")
	t.Setenv("GEOLOCATION_LON", "-122.33")
	t.Setenv("ROTATION_INTERVAL", "2s")
	t.Setenv("OTHER_CITIES", "California, Beijing ,Jerusalem")
	t.Setenv("REVERSE_GEOCODER", "none")
	t.Setenv("FORECAST_PROVIDER", "OpenMeteo")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.OpenWeatherAPIKey != "secret" || cfg.Port != "9090" || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.RotationInterval != 2*time.Second {
		t.Errorf("rotation interval = %v", cfg.RotationInterval)
	}
	if cfg.ForecastProvider != "openmeteo" {
		t.Errorf("forecast provider = %q", cfg.ForecastProvider)
	}
	if diff := cmp.Diff([]string{"California", "Beijing", "Jerusalem"}, cfg.OtherCities); diff != "" {
		t.Errorf("other cities (-want +got):\n%s", diff)
	}

	opts := cfg.GeolocationOptions()
	if opts.Mode != geolocation.ModeStatic {
		t.Errorf("mode = %q", opts.Mode)
	}
	if opts.Coordinates != (weather.Coordinates{Lat: 47.61, Lon: -122.33}) {
		t.Errorf("coordinates = %+v", opts.Coordinates)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "ROTATION_INTERVAL", "soon"},
		{"zero interval", "ROTATION_INTERVAL", "0s"},
		{"bad port", "PORT", "http"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"unknown geolocation mode", "GEOLOCATION_MODE", "gps"},
		{"latitude out of range", "GEOLOCATION_LAT", "91"},
		{"google without key", "REVERSE_GEOCODER", "google"},
		{"too many forecast days", "FORECAST_DAYS", "14"},
		{"unknown forecast provider", "FORECAST_PROVIDER", "darksky"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := load(viper.New()); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &AppConfig{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.newLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "city", "Paris")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"city":"Paris"`) {
		t.Errorf("json output missing attribute: %s", out)
	}
}
