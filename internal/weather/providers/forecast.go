package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ForecastClient implements weather.ForecastSource for the OpenWeatherMap
// 5 day / 3 hour forecast endpoint.
type ForecastClient struct {
	apiKey    string
	baseURL   string
	transport *Transport
}

func NewForecastClient(transport *Transport, baseURL, apiKey string) *ForecastClient {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	return &ForecastClient{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
	}
}

// FetchSeries returns the precipitation chance of the first
// weather.SeriesLength forecast entries.
func (p *ForecastClient) FetchSeries(ctx context.Context, c weather.Coordinates) (weather.ForecastSeries, error) {
	payload, err := p.fetch(ctx, c, weather.SeriesLength)
	if err != nil {
		return nil, err
	}

	n := min(len(payload.List), weather.SeriesLength)
	series := make(weather.ForecastSeries, 0, n)
	for _, item := range payload.List[:n] {
		series = append(series, weather.ForecastPoint{
			Time:    item.Dt,
			Percent: weather.PercentFromFraction(item.Pop),
		})
	}
	return series, nil
}

// FetchDaily aggregates the whole forecast list into at most days local days.
func (p *ForecastClient) FetchDaily(ctx context.Context, c weather.Coordinates, days int) ([]weather.DailyForecast, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}

	payload, err := p.fetch(ctx, c, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]weather.ForecastEntry, 0, len(payload.List))
	for _, item := range payload.List {
		entries = append(entries, weather.ForecastEntry{
			Time:         item.Dt,
			TemperatureK: item.Main.Temp,
			MinK:         item.Main.TempMin,
			MaxK:         item.Main.TempMax,
			PopFraction:  item.Pop,
			Condition:    firstCondition(item.Weather),
		})
	}

	return weather.AggregateDays(entries, weather.FixedZone(payload.City.Timezone), days), nil
}

func (p *ForecastClient) fetch(ctx context.Context, c weather.Coordinates, count int) (forecastPayload, error) {
	if p.apiKey == "" {
		return forecastPayload{}, fmt.Errorf("openweather forecast: %w", errNoAPIKey)
	}
	if !c.Valid() {
		return forecastPayload{}, fmt.Errorf("invalid coordinates %f,%f", c.Lat, c.Lon)
	}

	values := url.Values{}
	values.Set("lat", formatCoord(c.Lat))
	values.Set("lon", formatCoord(c.Lon))
	values.Set("appid", p.apiKey)
	if count > 0 {
		values.Set("cnt", fmt.Sprintf("%d", count))
	}

	u := fmt.Sprintf("%s/data/2.5/forecast?%s", p.baseURL, values.Encode())

	var payload forecastPayload
	if err := p.transport.getJSON(ctx, "forecast", u, &payload); err != nil {
		return forecastPayload{}, err
	}
	if err := checkCod(payload.Cod, payload.Message); err != nil {
		return forecastPayload{}, err
	}
	if payload.List == nil {
		return forecastPayload{}, fmt.Errorf("%w: forecast list missing", weather.ErrMalformedResponse)
	}
	return payload, nil
}

type forecastPayload struct {
	Cod     statusCode `json:"cod"`
	Message any        `json:"message"`
	List    []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    float64 `json:"temp"`
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []owCondition `json:"weather"`
		Pop     float64       `json:"pop"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}
