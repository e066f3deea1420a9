// Package dashboard wires the weather pipeline: geolocation feeds the weather
// client, results land in the shared store, and every view re-renders from it.
package dashboard

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geolocation"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Sources passed to the Reporter.
const (
	SourceGeolocation = "geolocation"
	SourceWeather     = "weather"
	SourceSearch      = "search"
	SourceReverse     = "reverse_geocode"
	SourceChart       = "chart"
	SourceForecast    = "forecast"
	SourceAirQuality  = "air_quality"
	SourceCities      = "cities"
)

// SnapshotStore is the single observable slot every view reads from.
type SnapshotStore interface {
	Get() (weather.Snapshot, bool)
	Set(weather.Snapshot)
	Subscribe(fn store.Listener) (unsubscribe func())
}

// Reporter is the error boundary. Report is for background work, Surface for
// failures of user actions.
type Reporter interface {
	Report(ctx context.Context, source string, err error) weather.Kind
	Surface(ctx context.Context, source string, err error) weather.Kind
}

// Deps are the collaborators of a Dashboard. AirQuality and Geocoder are
// optional.
type Deps struct {
	Store       SnapshotStore
	Weather     weather.Client
	Forecast    weather.ForecastSource
	AirQuality  weather.AirQualitySource
	Geocoder    weather.ReverseGeocoder
	Geolocation geolocation.Resolver
	Reporter    Reporter
}

// Options tune the views. Zero values fall back to defaults, except
// RotationInterval where zero disables the rotation timers.
type Options struct {
	RotationInterval time.Duration
	ForecastDays     int
	OtherCities      []string
	CitiesShown      int
	MapTileURL       string
	MapAttribution   string
	Rand             *rand.Rand
	Logger           *slog.Logger
}

// DefaultRotationInterval is how often rotating panels change.
const DefaultRotationInterval = 5 * time.Second

// Dashboard owns the views of one session.
type Dashboard struct {
	deps   Deps
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.RWMutex
	closed    bool
	mountOnce sync.Once

	Search   *SearchController
	Header   *HeaderView
	Forecast *ForecastView
	Chart    *ChartView
	Map      *MapView
	Cities   *CitiesView
}

// View is every view model of the dashboard rendered at one instant.
type View struct {
	Header   HeaderModel   `json:"header"`
	Forecast ForecastModel `json:"forecast"`
	Chart    ChartModel    `json:"chart"`
	Map      MapModel      `json:"map"`
	Cities   CitiesModel   `json:"cities"`
}

// New builds the views and subscribes them to the store. Nothing is fetched
// until Mount.
func New(deps Deps, opts Options) *Dashboard {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if deps.Geolocation == nil {
		deps.Geolocation = geolocation.Unsupported{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dashboard{
		deps:   deps,
		logger: opts.Logger,
		ctx:    ctx,
		cancel: cancel,
	}

	d.Search = NewSearchController(deps.Weather, deps.Store, deps.Reporter, d.guard)
	d.Header = NewHeaderView(deps.Store)
	d.Forecast = NewForecastView(ctx, deps.Store, deps.Forecast, deps.AirQuality, deps.Reporter, ForecastOptions{
		Days:     opts.ForecastDays,
		Interval: opts.RotationInterval,
		Logger:   opts.Logger,
	})
	d.Chart = NewChartView(ctx, deps.Store, deps.Forecast, deps.Reporter)
	d.Map = NewMapView(deps.Store, MapOptions{
		TileURL:     opts.MapTileURL,
		Attribution: opts.MapAttribution,
	})
	d.Cities = NewCitiesView(deps.Weather, deps.Reporter, CitiesOptions{
		Names:    opts.OtherCities,
		Shown:    opts.CitiesShown,
		Interval: opts.RotationInterval,
		Rand:     opts.Rand,
		Logger:   opts.Logger,
	})
	return d
}

// Mount starts the rotation timers, fills the other-cities panel and runs
// the geolocation flow once. It returns immediately; the work continues in
// the background until it completes or the dashboard is closed.
func (d *Dashboard) Mount(ctx context.Context) {
	d.mountOnce.Do(func() {
		if !d.alive() {
			return
		}
		d.Forecast.Start()
		d.Cities.Start()

		d.goScoped(ctx, d.Cities.Refresh)
		d.goScoped(ctx, d.locate)
	})
}

// Close stops every timer and detaches the views. Fetches still in flight
// are cancelled and their results dropped.
func (d *Dashboard) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.Header.Close()
	d.Forecast.Close()
	d.Chart.Close()
	d.Map.Close()
	d.Cities.Close()
	d.logger.Debug("dashboard closed")
}

// Wait blocks until background work started by Mount and by the views has
// finished. Call it after Mount has returned.
func (d *Dashboard) Wait() {
	d.wg.Wait()
	d.Chart.Wait()
	d.Forecast.Wait()
}

// Current returns the snapshot shared by the views.
func (d *Dashboard) Current() (weather.Snapshot, bool) {
	return d.deps.Store.Get()
}

// Render returns the current view models.
func (d *Dashboard) Render() View {
	header := d.Header.Render()
	header.Query = d.Search.Input()
	return View{
		Header:   header,
		Forecast: d.Forecast.Render(),
		Chart:    d.Chart.Render(),
		Map:      d.Map.Render(),
		Cities:   d.Cities.Render(),
	}
}

func (d *Dashboard) locate(ctx context.Context) {
	coords, err := d.deps.Geolocation.Resolve(ctx)
	if err != nil {
		d.guard(func() {
			d.deps.Reporter.Report(ctx, SourceGeolocation, err)
			d.Header.SetFallback(UnknownPlaceLabel)
		})
		return
	}
	d.logger.Debug("geolocation resolved", "lat", coords.Lat, "lon", coords.Lon)

	var wg sync.WaitGroup
	if d.deps.Geocoder != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, err := d.deps.Geocoder.PlaceName(ctx, coords)
			d.guard(func() {
				if err != nil {
					d.deps.Reporter.Report(ctx, SourceReverse, err)
					d.Header.SetFallback(UnknownPlaceLabel)
					return
				}
				if _, ok := d.deps.Store.Get(); ok {
					return
				}
				d.Header.SetFallback(name)
			})
		}()
	}

	snapshot, err := d.deps.Weather.FetchByCoordinates(ctx, coords)
	d.guard(func() {
		if err != nil {
			d.deps.Reporter.Report(ctx, SourceWeather, err)
			return
		}
		d.deps.Store.Set(snapshot)
	})
	wg.Wait()
}

// goScoped runs fn in the background with a context that ends when either
// parent or the dashboard does.
func (d *Dashboard) goScoped(parent context.Context, fn func(context.Context)) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(d.ctx, cancel)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		defer stop()
		fn(ctx)
	}()
}

// guard runs fn unless the dashboard is closed. Close waits for a running fn.
func (d *Dashboard) guard(fn func()) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	fn()
	return true
}

func (d *Dashboard) alive() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.closed
}
