package dashboard

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/rotation"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOtherCities is the candidate pool of the other-cities panel.
var DefaultOtherCities = []string{
	"California", "Beijing", "Jerusalem", "Tokyo", "London",
	"New York", "Sydney", "Cairo", "Moscow", "Rio de Janeiro",
}

// DefaultCitiesShown is how many cities the panel shows at once.
const DefaultCitiesShown = 3

// CityCard is one entry of the other-cities panel. Loaded is false until the
// first successful fetch for the city.
type CityCard struct {
	Name         string `json:"name"`
	Place        string `json:"place,omitempty"`
	Condition    string `json:"condition,omitempty"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon,omitempty"`
	TemperatureC *int   `json:"temperatureC,omitempty"`
	Loaded       bool   `json:"loaded"`
}

// CitiesModel is the other-cities panel.
type CitiesModel struct {
	Cities []CityCard `json:"cities"`
}

// CitiesOptions configures NewCitiesView. A zero Interval disables the
// rotation timer.
type CitiesOptions struct {
	Names    []string
	Shown    int
	Interval time.Duration
	Rand     *rand.Rand
	Logger   *slog.Logger
}

// CitiesView shows a random few of a fixed pool of cities, redrawn every
// interval. It does not follow the store.
type CitiesView struct {
	client  weather.Client
	report  Reporter
	opts    CitiesOptions
	sampler *rotation.Sampler[CityCard]

	mu     sync.Mutex
	closed bool
	task   *scheduler.Task
}

// NewCitiesView builds the panel. Nothing is fetched until Refresh.
func NewCitiesView(client weather.Client, reporter Reporter, opts CitiesOptions) *CitiesView {
	if len(opts.Names) == 0 {
		opts.Names = DefaultOtherCities
	}
	if opts.Shown <= 0 {
		opts.Shown = DefaultCitiesShown
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	pool := make([]CityCard, 0, len(opts.Names))
	for _, name := range opts.Names {
		pool = append(pool, CityCard{Name: name})
	}
	return &CitiesView{
		client:  client,
		report:  reporter,
		opts:    opts,
		sampler: rotation.NewSampler(pool, opts.Shown, opts.Rand),
	}
}

// Refresh fetches every city of the pool concurrently. Failed cities keep
// their previous card.
func (v *CitiesView) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	for _, name := range v.opts.Names {
		wg.Add(1)
		go func() {
			defer wg.Done()

			snap, err := v.client.FetchByName(ctx, name)

			v.mu.Lock()
			defer v.mu.Unlock()
			if v.closed {
				return
			}
			if err != nil {
				v.report.Report(ctx, SourceCities, err)
				return
			}
			v.sampler.Update(func(c CityCard) bool { return c.Name == name }, cityCard(name, snap))
		}()
	}
	wg.Wait()
}

// Start begins redrawing the sample every interval.
func (v *CitiesView) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.task != nil || v.closed || v.opts.Interval <= 0 {
		return
	}
	task := scheduler.New("other-cities", v.opts.Interval, v.sampler.Tick, v.opts.Logger)
	if err := task.Start(); err != nil {
		v.opts.Logger.Error("failed to start cities rotation", "error", err)
		return
	}
	v.task = task
}

// Close stops the rotation timer.
func (v *CitiesView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.task != nil {
		v.task.Stop()
		v.task = nil
	}
}

// Render returns the cities currently drawn.
func (v *CitiesView) Render() CitiesModel {
	return CitiesModel{Cities: v.sampler.Items()}
}

func cityCard(name string, s weather.Snapshot) CityCard {
	t := displayTemp(s.TemperatureK)
	return CityCard{
		Name:         name,
		Place:        placeLabel(s.Name, s.Country),
		Condition:    s.Condition.Main,
		Description:  s.Condition.Description,
		Icon:         s.Condition.Icon,
		TemperatureC: &t,
		Loaded:       true,
	}
}
