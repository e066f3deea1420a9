package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// AirPollutionClient implements weather.AirQualitySource for the
// OpenWeatherMap air pollution endpoint.
type AirPollutionClient struct {
	apiKey    string
	baseURL   string
	transport *Transport
}

func NewAirPollutionClient(transport *Transport, baseURL, apiKey string) *AirPollutionClient {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	return &AirPollutionClient{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
	}
}

func (p *AirPollutionClient) FetchAirQuality(ctx context.Context, c weather.Coordinates) (weather.AirQuality, error) {
	if p.apiKey == "" {
		return weather.AirQuality{}, fmt.Errorf("openweather air pollution: %w", errNoAPIKey)
	}

	values := url.Values{}
	values.Set("lat", formatCoord(c.Lat))
	values.Set("lon", formatCoord(c.Lon))
	values.Set("appid", p.apiKey)

	u := fmt.Sprintf("%s/data/2.5/air_pollution?%s", p.baseURL, values.Encode())

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				AQI int `json:"aqi" validate:"min=1,max=5"`
			} `json:"main"`
			Components map[string]float64 `json:"components"`
		} `json:"list" validate:"required,min=1,dive"`
	}
	if err := p.transport.getJSON(ctx, "air_pollution", u, &payload); err != nil {
		return weather.AirQuality{}, err
	}
	if err := validate.Struct(payload); err != nil {
		return weather.AirQuality{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	item := payload.List[0]
	return weather.AirQuality{
		Coordinates: c,
		Index:       item.Main.AQI,
		Label:       weather.AirQualityLabel(item.Main.AQI),
		Components:  item.Components,
		ObservedAt:  item.Dt,
	}, nil
}
