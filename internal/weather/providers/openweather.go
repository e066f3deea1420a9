package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// WeatherClient implements weather.Client for the OpenWeatherMap current
// weather endpoint. Temperatures are requested in the provider's default
// unit (Kelvin).
type WeatherClient struct {
	apiKey    string
	baseURL   string
	transport *Transport
}

func NewWeatherClient(transport *Transport, baseURL, apiKey string) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	return &WeatherClient{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
	}
}

// FetchByCoordinates fetches current conditions at c.
func (p *WeatherClient) FetchByCoordinates(ctx context.Context, c weather.Coordinates) (weather.Snapshot, error) {
	if !c.Valid() {
		return weather.Snapshot{}, fmt.Errorf("invalid coordinates %f,%f", c.Lat, c.Lon)
	}
	values := url.Values{}
	values.Set("lat", formatCoord(c.Lat))
	values.Set("lon", formatCoord(c.Lon))
	return p.fetch(ctx, values)
}

// FetchByName fetches current conditions for a free-text place name.
func (p *WeatherClient) FetchByName(ctx context.Context, place string) (weather.Snapshot, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return weather.Snapshot{}, fmt.Errorf("%w: empty place name", weather.ErrNotFound)
	}
	values := url.Values{}
	values.Set("q", place)
	return p.fetch(ctx, values)
}

func (p *WeatherClient) fetch(ctx context.Context, values url.Values) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("openweather: %w", errNoAPIKey)
	}
	values.Set("appid", p.apiKey)

	u := fmt.Sprintf("%s/data/2.5/weather?%s", p.baseURL, values.Encode())

	var payload currentPayload
	if err := p.transport.getJSON(ctx, "weather", u, &payload); err != nil {
		return weather.Snapshot{}, err
	}
	if err := checkCod(payload.Cod, payload.Message); err != nil {
		return weather.Snapshot{}, err
	}
	if err := validate.Struct(payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	return payload.snapshot(), nil
}

type owCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (c owCondition) normalize() weather.Condition {
	return weather.Condition{
		ID:          c.ID,
		Main:        c.Main,
		Description: c.Description,
		Icon:        c.Icon,
	}
}

func firstCondition(items []owCondition) weather.Condition {
	if len(items) == 0 {
		return weather.Condition{Main: "Unknown"}
	}
	return items[0].normalize()
}

type currentPayload struct {
	Cod     statusCode `json:"cod"`
	Message any        `json:"message"`
	Name    string     `json:"name"`
	Coord   *struct {
		Lat float64 `json:"lat" validate:"latitude"`
		Lon float64 `json:"lon" validate:"longitude"`
	} `json:"coord" validate:"required"`
	Main *struct {
		Temp      float64 `json:"temp" validate:"gt=0"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main" validate:"required"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Visibility int           `json:"visibility"`
	Weather    []owCondition `json:"weather"`
	Dt         int64         `json:"dt"`
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

func (p currentPayload) snapshot() weather.Snapshot {
	return weather.Snapshot{
		Name:    p.Name,
		Country: p.Sys.Country,
		Coordinates: weather.Coordinates{
			Lat: p.Coord.Lat,
			Lon: p.Coord.Lon,
		},
		TemperatureK:   p.Main.Temp,
		FeelsLikeK:     p.Main.FeelsLike,
		MinK:           p.Main.TempMin,
		MaxK:           p.Main.TempMax,
		PressureHpa:    p.Main.Pressure,
		HumidityPct:    p.Main.Humidity,
		WindSpeedMS:    p.Wind.Speed,
		WindDeg:        p.Wind.Deg,
		VisibilityM:    p.Visibility,
		CloudCoverPct:  p.Clouds.All,
		Condition:      firstCondition(p.Weather),
		Sunrise:        p.Sys.Sunrise,
		Sunset:         p.Sys.Sunset,
		ObservedAt:     p.Dt,
		TimezoneOffset: p.Timezone,
	}
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%f", v)
}
