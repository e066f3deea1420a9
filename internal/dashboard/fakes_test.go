package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	paris = weather.Snapshot{
		Name:         "Paris",
		Country:      "FR",
		Coordinates:  weather.Coordinates{Lat: 48.85, Lon: 2.35},
		TemperatureK: 290,
		FeelsLikeK:   289.4,
		MinK:         288.2,
		MaxK:         291.9,
		PressureHpa:  1013,
		HumidityPct:  64,
		WindSpeedMS:  4.6,
		WindDeg:      45,
		Condition:    weather.Condition{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"},
		Sunrise:      time.Date(2024, 1, 1, 7, 44, 0, 0, time.UTC).Unix(),
		Sunset:       time.Date(2024, 1, 1, 16, 4, 0, 0, time.UTC).Unix(),
		ObservedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Unix(),
	}
	seattle = weather.Snapshot{
		Name:         "Seattle",
		Country:      "US",
		Coordinates:  weather.Coordinates{Lat: 47.61, Lon: -122.33},
		TemperatureK: 280.15,
		Condition:    weather.Condition{ID: 500, Main: "Rain", Description: "light rain", Icon: "10d"},
		ObservedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Unix(),
	}
)

var seriesStart = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func series(percents ...float64) weather.ForecastSeries {
	out := make(weather.ForecastSeries, 0, len(percents))
	for i, p := range percents {
		out = append(out, weather.ForecastPoint{
			Time:    seriesStart.Add(time.Duration(i) * 3 * time.Hour).Unix(),
			Percent: p,
		})
	}
	return out
}

func days(n int) []weather.DailyForecast {
	out := make([]weather.DailyForecast, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, weather.DailyForecast{
			Date:           time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
			MinK:           280.15 + float64(i),
			MaxK:           290.15 + float64(i),
			Condition:      weather.Condition{Main: "Clouds", Icon: "03d"},
			MaxRainPercent: float64(10 * i),
		})
	}
	return out
}

type fakeClient struct {
	mu       sync.Mutex
	byName   map[string]weather.Snapshot
	byCoords map[weather.Coordinates]weather.Snapshot
	errs     map[string]error
	names    []string
	coords   []weather.Coordinates
}

func (f *fakeClient) FetchByCoordinates(_ context.Context, c weather.Coordinates) (weather.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coords = append(f.coords, c)
	if s, ok := f.byCoords[c]; ok {
		return s, nil
	}
	return weather.Snapshot{}, weather.ErrNetworkFailure
}

func (f *fakeClient) FetchByName(_ context.Context, place string) (weather.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, place)
	if err, ok := f.errs[place]; ok {
		return weather.Snapshot{}, err
	}
	if s, ok := f.byName[place]; ok {
		return s, nil
	}
	return weather.Snapshot{}, weather.ErrNotFound
}

func (f *fakeClient) coordCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.coords)
}

func (f *fakeClient) nameCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

// fakeForecast answers per coordinates. A gate, when present, holds the
// answer until it is closed.
type fakeForecast struct {
	mu     sync.Mutex
	series map[weather.Coordinates]weather.ForecastSeries
	daily  map[weather.Coordinates][]weather.DailyForecast
	gates  map[weather.Coordinates]chan struct{}
	err    error
	calls  int
}

func (f *fakeForecast) wait(ctx context.Context, c weather.Coordinates) {
	f.mu.Lock()
	gate := f.gates[c]
	f.mu.Unlock()
	if gate == nil {
		return
	}
	select {
	case <-gate:
	case <-ctx.Done():
	}
}

func (f *fakeForecast) FetchSeries(ctx context.Context, c weather.Coordinates) (weather.ForecastSeries, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	f.wait(ctx, c)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.series[c], nil
}

func (f *fakeForecast) FetchDaily(ctx context.Context, c weather.Coordinates, n int) ([]weather.DailyForecast, error) {
	f.wait(ctx, c)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	d := f.daily[c]
	return d[:min(n, len(d))], nil
}

func (f *fakeForecast) seriesCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAir struct {
	index int
	err   error
}

func (f fakeAir) FetchAirQuality(_ context.Context, c weather.Coordinates) (weather.AirQuality, error) {
	if f.err != nil {
		return weather.AirQuality{}, f.err
	}
	return weather.AirQuality{
		Coordinates: c,
		Index:       f.index,
		Label:       weather.AirQualityLabel(f.index),
		Components:  map[string]float64{"pm2_5": 3.2},
	}, nil
}

type fakeGeocoder struct {
	name string
	err  error
}

func (f fakeGeocoder) PlaceName(context.Context, weather.Coordinates) (string, error) {
	return f.name, f.err
}

// eventually polls cond until it holds or a second has passed.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
