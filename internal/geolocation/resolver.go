// Package geolocation obtains the coordinates the dashboard starts from.
package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Resolver yields the host's coordinates, weather.ErrUnsupported when the
// host has no way of knowing them, or weather.ErrPermissionDenied when the
// lookup was refused or timed out.
type Resolver interface {
	Resolve(ctx context.Context) (weather.Coordinates, error)
}

// Unsupported is used when no geolocation source is configured.
type Unsupported struct{}

func (Unsupported) Resolve(context.Context) (weather.Coordinates, error) {
	return weather.Coordinates{}, weather.ErrUnsupported
}

// Static returns configured coordinates.
type Static struct {
	Coordinates weather.Coordinates
	Denied      bool
}

func (s Static) Resolve(ctx context.Context) (weather.Coordinates, error) {
	if s.Denied {
		return weather.Coordinates{}, weather.ErrPermissionDenied
	}
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", weather.ErrPermissionDenied, err)
	}
	if !s.Coordinates.Valid() {
		return weather.Coordinates{}, fmt.Errorf("%w: invalid configured coordinates", weather.ErrPermissionDenied)
	}
	return s.Coordinates, nil
}

// DefaultIPLookupURL answers with the caller's approximate position.
const DefaultIPLookupURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// IPLookup resolves coordinates from the public address of the host.
type IPLookup struct {
	Client  *http.Client
	URL     string
	Timeout time.Duration
}

func NewIPLookup(client *http.Client, url string, timeout time.Duration) *IPLookup {
	if url == "" {
		url = DefaultIPLookupURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &IPLookup{Client: client, URL: url, Timeout: timeout}
}

// Resolve performs one lookup. Every failure, including timeouts, is
// reported as a denial.
func (l *IPLookup) Resolve(ctx context.Context) (weather.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", weather.ErrPermissionDenied, err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", weather.ErrPermissionDenied, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weather.Coordinates{}, fmt.Errorf("%w: lookup returned status %d", weather.ErrPermissionDenied, resp.StatusCode)
	}

	var payload struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: decode: %v", weather.ErrPermissionDenied, err)
	}
	if payload.Status != "success" {
		return weather.Coordinates{}, fmt.Errorf("%w: %s", weather.ErrPermissionDenied, payload.Message)
	}

	c := weather.Coordinates{Lat: payload.Lat, Lon: payload.Lon}
	if !c.Valid() {
		return weather.Coordinates{}, fmt.Errorf("%w: lookup returned invalid coordinates", weather.ErrPermissionDenied)
	}
	return c, nil
}

// Once invokes the wrapped resolver at most once; every caller receives the
// first result.
type Once struct {
	resolver Resolver

	once   sync.Once
	coords weather.Coordinates
	err    error
}

func NewOnce(r Resolver) *Once {
	return &Once{resolver: r}
}

func (o *Once) Resolve(ctx context.Context) (weather.Coordinates, error) {
	o.once.Do(func() {
		o.coords, o.err = o.resolver.Resolve(ctx)
	})
	return o.coords, o.err
}

// Mode selects a resolver implementation.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeStatic Mode = "static"
	ModeIP     Mode = "ip"
)

// Options carries what FromMode needs for each mode.
type Options struct {
	Mode        Mode
	Coordinates weather.Coordinates
	LookupURL   string
	Timeout     time.Duration
	Client      *http.Client
}

// FromMode builds the resolver for opts.Mode, wrapped in Once.
func FromMode(opts Options) *Once {
	var r Resolver
	switch opts.Mode {
	case ModeStatic:
		r = Static{Coordinates: opts.Coordinates}
	case ModeIP:
		r = NewIPLookup(opts.Client, opts.LookupURL, opts.Timeout)
	default:
		r = Unsupported{}
	}
	return NewOnce(r)
}
