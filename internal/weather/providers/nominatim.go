package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Reverse/
// Sample request: https://nominatim.openstreetmap.org/reverse?lat=48.85&lon=2.35&format=json
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder resolves a display name from OpenStreetMap.
type NominatimGeocoder struct {
	baseURL   string
	transport *Transport
}

func NewNominatimGeocoder(transport *Transport, baseURL string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
	}
}

type nominatimPayload struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		County      string `json:"county"`
		State       string `json:"state"`
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// PlaceName returns "City, CC" when the address has a locality, otherwise the
// provider's own name.
func (g *NominatimGeocoder) PlaceName(ctx context.Context, c weather.Coordinates) (string, error) {
	values := url.Values{}
	values.Set("lat", formatCoord(c.Lat))
	values.Set("lon", formatCoord(c.Lon))
	values.Set("format", "json")

	u := fmt.Sprintf("%s/reverse?%s", g.baseURL, values.Encode())

	var payload nominatimPayload
	if err := g.transport.getJSON(ctx, "reverse_geocode", u, &payload); err != nil {
		return "", err
	}
	if payload.Error != "" {
		return "", fmt.Errorf("%w: %s", weather.ErrNotFound, payload.Error)
	}

	a := payload.Address
	locality := firstNonEmpty(a.City, a.Town, a.Village, payload.Name, a.County, a.State)
	if locality == "" {
		if payload.DisplayName == "" {
			return "", fmt.Errorf("%w: no place name", weather.ErrMalformedResponse)
		}
		return payload.DisplayName, nil
	}
	if a.CountryCode != "" {
		return fmt.Sprintf("%s, %s", locality, strings.ToUpper(a.CountryCode)), nil
	}
	return locality, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
