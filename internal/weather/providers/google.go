package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// geocoder keeps its API key in a package variable.
var googleKeyMu sync.Mutex

// GoogleGeocoder resolves a display name through the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey string
	lookup func(geocoder.Location) ([]geocoder.Address, error)
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey: apiKey,
		lookup: geocoder.GeocodingReverse,
	}
}

func (g *GoogleGeocoder) PlaceName(ctx context.Context, c weather.Coordinates) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("google geocoder: %w", errNoAPIKey)
	}

	type result struct {
		addrs []geocoder.Address
		err   error
	}
	done := make(chan result, 1)

	go func() {
		googleKeyMu.Lock()
		defer googleKeyMu.Unlock()

		geocoder.ApiKey = g.apiKey
		addrs, err := g.lookup(geocoder.Location{Latitude: c.Lat, Longitude: c.Lon})
		done <- result{addrs: addrs, err: err}
	}()

	// The library has no context support; abandon the lookup on cancel.
	var r result
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", weather.ErrNetworkFailure, ctx.Err())
	case r = <-done:
	}

	if r.err != nil {
		return "", fmt.Errorf("%w: google geocoder: %v", weather.ErrNetworkFailure, r.err)
	}
	if len(r.addrs) == 0 {
		return "", fmt.Errorf("%w: no address for %f,%f", weather.ErrNotFound, c.Lat, c.Lon)
	}

	a := r.addrs[0]
	locality := firstNonEmpty(a.City, a.County, a.State)
	switch {
	case locality != "" && a.Country != "":
		return fmt.Sprintf("%s, %s", locality, a.Country), nil
	case locality != "":
		return locality, nil
	case a.Country != "":
		return a.Country, nil
	}
	return "", fmt.Errorf("%w: empty address", weather.ErrMalformedResponse)
}
