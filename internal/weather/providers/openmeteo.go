package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenMeteoURL is the keyless Open-Meteo API root.
const DefaultOpenMeteoURL = "https://api.open-meteo.com"

// OpenMeteoForecast implements weather.ForecastSource on Open-Meteo's hourly
// forecast. It needs no API key.
type OpenMeteoForecast struct {
	baseURL   string
	transport *Transport
	now       func() time.Time
}

func NewOpenMeteoForecast(transport *Transport, baseURL string) *OpenMeteoForecast {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoForecast{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
		now:       time.Now,
	}
}

// FetchSeries returns the precipitation chance of the first
// weather.SeriesLength hours starting with the current one.
func (p *OpenMeteoForecast) FetchSeries(ctx context.Context, c weather.Coordinates) (weather.ForecastSeries, error) {
	entries, _, err := p.fetch(ctx, c, 2)
	if err != nil {
		return nil, err
	}

	hour := p.now().Truncate(time.Hour).Unix()
	series := make(weather.ForecastSeries, 0, weather.SeriesLength)
	for _, e := range entries {
		if e.Time < hour {
			continue
		}
		series = append(series, weather.ForecastPoint{
			Time:    e.Time,
			Percent: weather.PercentFromFraction(e.PopFraction),
		})
		if len(series) == weather.SeriesLength {
			break
		}
	}
	return series, nil
}

// FetchDaily aggregates the hourly forecast into at most days local days.
func (p *OpenMeteoForecast) FetchDaily(ctx context.Context, c weather.Coordinates, days int) ([]weather.DailyForecast, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}
	entries, offset, err := p.fetch(ctx, c, days)
	if err != nil {
		return nil, err
	}
	return weather.AggregateDays(entries, weather.FixedZone(offset), days), nil
}

func (p *OpenMeteoForecast) fetch(ctx context.Context, c weather.Coordinates, days int) ([]weather.ForecastEntry, int, error) {
	if !c.Valid() {
		return nil, 0, fmt.Errorf("invalid coordinates %f,%f", c.Lat, c.Lon)
	}

	values := url.Values{}
	values.Set("latitude", formatCoord(c.Lat))
	values.Set("longitude", formatCoord(c.Lon))
	values.Set("hourly", "temperature_2m,precipitation_probability,weather_code")
	values.Set("timeformat", "unixtime")
	values.Set("timezone", "auto")
	values.Set("forecast_days", fmt.Sprintf("%d", days))

	u := fmt.Sprintf("%s/v1/forecast?%s", p.baseURL, values.Encode())

	var payload openMeteoPayload
	if err := p.transport.getJSON(ctx, "openmeteo_forecast", u, &payload); err != nil {
		return nil, 0, err
	}
	if payload.Error {
		return nil, 0, fmt.Errorf("%w: open-meteo: %s", weather.ErrNetworkFailure, payload.Reason)
	}

	h := payload.Hourly
	n := len(h.Time)
	if n == 0 || len(h.Temperature) != n || len(h.Precipitation) != n || len(h.WeatherCode) != n {
		return nil, 0, fmt.Errorf("%w: open-meteo hourly arrays missing or uneven", weather.ErrMalformedResponse)
	}

	entries := make([]weather.ForecastEntry, 0, n)
	for i := range n {
		var tempK, pop float64
		t := h.Temperature[i]
		if t != nil {
			tempK = weather.CelsiusToKelvin(*t)
		}
		if pp := h.Precipitation[i]; pp != nil {
			pop = *pp / 100
		}
		entries = append(entries, weather.ForecastEntry{
			Time:          h.Time[i],
			TemperatureK:  tempK,
			MinK:          tempK,
			MaxK:          tempK,
			PopFraction:   pop,
			Condition:     openMeteoCondition(h.WeatherCode[i]),
			NoTemperature: t == nil,
		})
	}
	return entries, payload.UTCOffsetSeconds, nil
}

type openMeteoPayload struct {
	Error            bool   `json:"error"`
	Reason           string `json:"reason"`
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
	Hourly           struct {
		Time          []int64    `json:"time"`
		Temperature   []*float64 `json:"temperature_2m"`
		Precipitation []*float64 `json:"precipitation_probability"`
		WeatherCode   []int      `json:"weather_code"`
	} `json:"hourly"`
}

// openMeteoCondition maps WMO weather codes onto OpenWeather's condition
// groups so both sources render alike.
func openMeteoCondition(code int) weather.Condition {
	c := weather.Condition{ID: code}
	switch {
	case code == 0:
		c.Main, c.Description, c.Icon = "Clear", "clear sky", "01d"
	case code >= 1 && code <= 3:
		c.Main, c.Description, c.Icon = "Clouds", "partly cloudy", "03d"
	case code == 45 || code == 48:
		c.Main, c.Description, c.Icon = "Fog", "fog", "50d"
	case code >= 51 && code <= 57:
		c.Main, c.Description, c.Icon = "Drizzle", "drizzle", "09d"
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		c.Main, c.Description, c.Icon = "Rain", "rain", "10d"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		c.Main, c.Description, c.Icon = "Snow", "snow", "13d"
	case code >= 95:
		c.Main, c.Description, c.Icon = "Thunderstorm", "thunderstorm", "11d"
	default:
		c.Main = "Unknown"
	}
	return c
}
