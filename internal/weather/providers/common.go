package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenWeatherURL is the production API root.
const DefaultOpenWeatherURL = "https://api.openweathermap.org"

// maxBodyBytes bounds how much of a provider response we read.
const maxBodyBytes = 4 << 20

var validate = validator.New()

var (
	errNoHTTPClient = errors.New("http client not configured")
	errNoAPIKey     = errors.New("api key is not configured")
)

// Observer receives the latency of each provider round trip.
type Observer interface {
	ObserveRequest(endpoint string, d time.Duration)
}

// Transport bundles the HTTP client, circuit breaker and latency observer
// shared by a provider client.
type Transport struct {
	Client   *http.Client
	Circuit  *gobreaker.CircuitBreaker
	Observer Observer
}

// NewTransport creates a transport with its own circuit breaker.
func NewTransport(name string, client *http.Client, obs Observer) *Transport {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Transport{Client: client, Circuit: cb, Observer: obs}
}

// statusCode accepts the provider's "cod" field as either a number or a string.
type statusCode int

func (s *statusCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = 0
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		if str == "" {
			*s = 0
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return err
		}
		*s = statusCode(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = statusCode(n)
	return nil
}

// envelope is the part every OpenWeather response shares.
type envelope struct {
	Cod     statusCode `json:"cod"`
	Message any        `json:"message"`
}

// checkCod turns a logical provider status into an error. Zero means the
// endpoint does not report one.
func checkCod(cod statusCode, message any) error {
	switch {
	case cod == 0 || cod == http.StatusOK:
		return nil
	case cod == http.StatusNotFound:
		return fmt.Errorf("%w: %v", weather.ErrNotFound, message)
	default:
		return fmt.Errorf("%w: provider status %d: %v", weather.ErrNetworkFailure, int(cod), message)
	}
}

// getJSON performs exactly one GET through the circuit breaker and decodes
// the body into out. Failures are classified into the weather error taxonomy.
func (t *Transport) getJSON(ctx context.Context, endpoint, rawURL string, out any) error {
	if t == nil || t.Client == nil {
		return errNoHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	result, err := t.Circuit.Execute(func() (interface{}, error) {
		resp, execErr := t.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		// Only transport trouble counts against the breaker.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return resp, nil
	})
	if t.Observer != nil {
		t.Observer.ObserveRequest(endpoint, time.Since(start))
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit breaker open: %v", weather.ErrNetworkFailure, err)
		}
		return fmt.Errorf("%w: %v", weather.ErrNetworkFailure, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", weather.ErrNetworkFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		var env envelope
		_ = json.Unmarshal(body, &env)
		if resp.StatusCode == http.StatusNotFound || env.Cod == http.StatusNotFound {
			return fmt.Errorf("%w: %v", weather.ErrNotFound, env.Message)
		}
		return fmt.Errorf("%w: status %d", weather.ErrNetworkFailure, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	return nil
}
