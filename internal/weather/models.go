package weather

import (
	"time"
)

// Coordinates is a point on the globe in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// Valid reports whether both components are inside their geographic range.
func (c Coordinates) Valid() bool {
	return validate.Struct(c) == nil
}

// Condition is the primary weather condition reported by the provider.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Snapshot is the normalized result of one successful weather fetch.
// Temperatures stay in Kelvin; conversion happens at render time.
type Snapshot struct {
	Name        string      `json:"name"`
	Country     string      `json:"country,omitempty"`
	Coordinates Coordinates `json:"coordinates"`

	TemperatureK float64 `json:"temperatureK"`
	FeelsLikeK   float64 `json:"feelsLikeK"`
	MinK         float64 `json:"minK"`
	MaxK         float64 `json:"maxK"`

	PressureHpa   float64 `json:"pressureHpa"`
	HumidityPct   float64 `json:"humidityPercent"`
	WindSpeedMS   float64 `json:"windSpeed"`
	WindDeg       float64 `json:"windDeg"`
	VisibilityM   int     `json:"visibilityM,omitempty"`
	CloudCoverPct int     `json:"cloudCoverPercent,omitempty"`

	Condition Condition `json:"condition"`

	// Epoch seconds.
	Sunrise    int64 `json:"sunrise"`
	Sunset     int64 `json:"sunset"`
	ObservedAt int64 `json:"observedAt"`

	// TimezoneOffset is the shift from UTC in seconds for the place.
	TimezoneOffset int `json:"timezoneOffset"`
}

// Location returns a fixed zone matching the place's UTC offset.
func (s Snapshot) Location() *time.Location {
	return FixedZone(s.TimezoneOffset)
}

// ForecastPoint is one bar of the rain-chance chart.
type ForecastPoint struct {
	Time    int64   `json:"time"`
	Percent float64 `json:"percent"`
}

// ForecastSeries is the short-term precipitation series, at most SeriesLength long.
type ForecastSeries []ForecastPoint

// SeriesLength is the number of provider entries kept for the chart.
const SeriesLength = 6

// ForecastEntry is a single time slot of the provider's multi-day forecast.
type ForecastEntry struct {
	Time         int64
	TemperatureK float64
	MinK         float64
	MaxK         float64
	PopFraction  float64
	Condition    Condition

	// NoTemperature marks a slot the provider left without a reading. Its
	// temperatures are ignored by AggregateDays.
	NoTemperature bool
}

// DailyForecast aggregates the forecast entries that fall on one local day.
type DailyForecast struct {
	Date           time.Time `json:"date"`
	MinK           float64   `json:"minK"`
	MaxK           float64   `json:"maxK"`
	Condition      Condition `json:"condition"`
	MaxRainPercent float64   `json:"maxRainPercent"`
}

// AirQuality is the air-pollution index for a place.
type AirQuality struct {
	Coordinates Coordinates        `json:"coordinates"`
	Index       int                `json:"index"`
	Label       string             `json:"label"`
	Components  map[string]float64 `json:"components,omitempty"`
	ObservedAt  int64              `json:"observedAt"`
}

// FixedZone builds a location for a UTC offset in seconds.
func FixedZone(offsetSeconds int) *time.Location {
	if offsetSeconds == 0 {
		return time.UTC
	}
	return time.FixedZone("", offsetSeconds)
}
