package weather

import (
	"context"
)

// Client fetches current conditions. Each call is a single round trip.
type Client interface {
	FetchByCoordinates(ctx context.Context, c Coordinates) (Snapshot, error)
	FetchByName(ctx context.Context, place string) (Snapshot, error)
}

// ForecastSource fetches short-term and multi-day forecasts.
type ForecastSource interface {
	FetchSeries(ctx context.Context, c Coordinates) (ForecastSeries, error)
	FetchDaily(ctx context.Context, c Coordinates, days int) ([]DailyForecast, error)
}

// AirQualitySource fetches the air-pollution index.
type AirQualitySource interface {
	FetchAirQuality(ctx context.Context, c Coordinates) (AirQuality, error)
}

// ReverseGeocoder turns coordinates into a best-effort display name.
type ReverseGeocoder interface {
	PlaceName(ctx context.Context, c Coordinates) (string, error)
}
