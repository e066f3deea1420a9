package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/rotation"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrInvalidSelection is returned for an unknown tab, period or card.
var ErrInvalidSelection = errors.New("invalid selection")

// Tab selects the forecast panel.
type Tab string

const (
	TabForecast   Tab = "forecast"
	TabAirQuality Tab = "air_quality"
)

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	switch t := Tab(s); t {
	case TabForecast, TabAirQuality:
		return t, nil
	}
	return "", fmt.Errorf("%w: tab %q", ErrInvalidSelection, s)
}

// Period selects which days the forecast tab lists.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodTomorrow  Period = "tomorrow"
	PeriodNext7Days Period = "next_7_days"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodToday, PeriodTomorrow, PeriodNext7Days:
		return p, nil
	}
	return "", fmt.Errorf("%w: period %q", ErrInvalidSelection, s)
}

// DefaultForecastDays is how many days the Next7Days period covers.
const DefaultForecastDays = 7

// CurrentCard is the large card describing conditions right now.
type CurrentCard struct {
	Place        string `json:"place"`
	Day          string `json:"day"`
	Time         string `json:"time"`
	TemperatureC int    `json:"temperatureC"`
	FeelsLikeC   int    `json:"feelsLikeC"`
	MinC         int    `json:"minC"`
	MaxC         int    `json:"maxC"`
	Condition    string `json:"condition"`
	Description  string `json:"description"`
	Icon         string `json:"icon,omitempty"`
	Wind         string `json:"wind"`
	Pressure     string `json:"pressure"`
	Humidity     string `json:"humidity"`
	Sunrise      string `json:"sunrise"`
	Sunset       string `json:"sunset"`
}

// DayCard is one small card of the day list.
type DayCard struct {
	Day        string `json:"day"`
	Date       string `json:"date"`
	MinC       int    `json:"minC"`
	MaxC       int    `json:"maxC"`
	Condition  string `json:"condition"`
	Icon       string `json:"icon,omitempty"`
	RainChance int    `json:"rainChance"`
}

// AirQualityCard is the air-quality tab.
type AirQualityCard struct {
	Index      int                `json:"index"`
	Label      string             `json:"label"`
	Components map[string]float64 `json:"components,omitempty"`
}

// ForecastModel is the forecast panel. Placeholder is set when there is no
// snapshot yet.
type ForecastModel struct {
	Tab         Tab    `json:"tab"`
	Period      Period `json:"period"`
	OpenCard    *int   `json:"openCard"`
	Placeholder string `json:"placeholder,omitempty"`
	Loading     bool   `json:"loading"`

	Current  *CurrentCard `json:"current,omitempty"`
	Days     []DayCard    `json:"days"`
	Carousel []DayCard    `json:"carousel"`

	AirQuality       *AirQualityCard `json:"airQuality,omitempty"`
	AirQualityNotice string          `json:"airQualityNotice,omitempty"`
}

// ForecastOptions configures NewForecastView. A zero Interval disables the
// carousel timer.
type ForecastOptions struct {
	Days     int
	Interval time.Duration
	Logger   *slog.Logger
}

// ForecastView renders the current-conditions card, the day list and the
// air-quality tab. Tab, period and open card are local to the view.
type ForecastView struct {
	binding

	ctx        context.Context
	forecast   weather.ForecastSource
	airQuality weather.AirQualitySource
	reporter   Reporter
	opts       ForecastOptions

	tab      Tab
	period   Period
	openCard *int

	snapshot   weather.Snapshot
	present    bool
	requested  weather.Coordinates
	hasRequest bool
	generation uint64
	loading    bool
	days       []weather.DailyForecast
	air        *weather.AirQuality

	started  bool
	carousel *rotation.Queue[DayCard]
	task     *scheduler.Task
}

// NewForecastView binds the forecast panel to s. Fetches run under ctx.
func NewForecastView(ctx context.Context, s SnapshotStore, forecast weather.ForecastSource, air weather.AirQualitySource, reporter Reporter, opts ForecastOptions) *ForecastView {
	if opts.Days <= 0 {
		opts.Days = DefaultForecastDays
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	v := &ForecastView{
		ctx:        ctx,
		forecast:   forecast,
		airQuality: air,
		reporter:   reporter,
		opts:       opts,
		tab:        TabForecast,
		period:     PeriodToday,
		carousel:   rotation.NewQueue[DayCard](nil),
	}
	v.bind(s, v.apply)
	return v
}

func (v *ForecastView) apply(snap weather.Snapshot) {
	v.snapshot = snap
	v.present = true
	if v.hasRequest && v.requested == snap.Coordinates {
		return
	}
	v.requested = snap.Coordinates
	v.hasRequest = true
	v.generation++
	v.loading = true
	v.days = nil
	v.air = nil
	v.openCard = nil
	v.resyncLocked()

	gen, c := v.generation, snap.Coordinates
	v.goFetchLocked(func() { v.fetch(gen, c) })
}

func (v *ForecastView) fetch(gen uint64, c weather.Coordinates) {
	var (
		wg      sync.WaitGroup
		days    []weather.DailyForecast
		daysErr error
		air     weather.AirQuality
		airErr  error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		days, daysErr = v.forecast.FetchDaily(v.ctx, c, v.opts.Days)
	}()
	if v.airQuality != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			air, airErr = v.airQuality.FetchAirQuality(v.ctx, c)
		}()
	}
	wg.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.generation {
		return
	}
	v.loading = false

	if daysErr != nil {
		v.reporter.Report(v.ctx, SourceForecast, daysErr)
	} else {
		v.days = days
	}
	if v.airQuality != nil {
		if airErr != nil {
			v.reporter.Report(v.ctx, SourceAirQuality, airErr)
		} else {
			v.air = &air
		}
	}
	v.resyncLocked()
}

// SetTab switches between the forecast and air-quality tabs.
func (v *ForecastView) SetTab(t Tab) error {
	if _, err := ParseTab(string(t)); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tab = t
	return nil
}

// SetPeriod changes the day range. The open card is closed and the carousel
// restarts on the new list.
func (v *ForecastView) SetPeriod(p Period) error {
	if _, err := ParsePeriod(string(p)); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.period == p {
		return nil
	}
	v.period = p
	v.openCard = nil
	v.resyncLocked()
	return nil
}

// SetOpenCard opens the day card at *index, or closes it when index is nil.
func (v *ForecastView) SetOpenCard(index *int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if index == nil {
		v.openCard = nil
		return nil
	}
	n := len(v.visibleDaysLocked())
	if *index < 0 || *index >= n {
		return fmt.Errorf("%w: card %d of %d", ErrInvalidSelection, *index, n)
	}
	i := *index
	v.openCard = &i
	return nil
}

// Start begins rotating the carousel. Without a positive interval the
// carousel stays still.
func (v *ForecastView) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.started || v.closed {
		return
	}
	v.started = true
	v.restartTaskLocked()
}

// Close stops the carousel and detaches the view.
func (v *ForecastView) Close() {
	v.release()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.started = false
	v.stopTaskLocked()
}

// Render returns the panel for the selected tab and period.
func (v *ForecastView) Render() ForecastModel {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := ForecastModel{
		Tab:      v.tab,
		Period:   v.period,
		Loading:  v.loading,
		Days:     v.dayCardsLocked(),
		Carousel: v.carousel.Items(),
	}
	if v.openCard != nil {
		i := *v.openCard
		m.OpenCard = &i
	}
	if !v.present {
		m.Placeholder = NoWeatherMessage
		m.AirQualityNotice = NoAirQualityNotice
		return m
	}

	m.Current = currentCard(v.snapshot)
	if v.air != nil {
		m.AirQuality = &AirQualityCard{
			Index:      v.air.Index,
			Label:      v.air.Label,
			Components: v.air.Components,
		}
	} else {
		m.AirQualityNotice = NoAirQualityNotice
	}
	return m
}

func (v *ForecastView) visibleDaysLocked() []weather.DailyForecast {
	switch v.period {
	case PeriodToday:
		if len(v.days) > 0 {
			return v.days[:1]
		}
	case PeriodTomorrow:
		if len(v.days) > 1 {
			return v.days[1:2]
		}
	case PeriodNext7Days:
		return v.days[:min(len(v.days), v.opts.Days)]
	}
	return nil
}

func (v *ForecastView) dayCardsLocked() []DayCard {
	days := v.visibleDaysLocked()
	cards := make([]DayCard, 0, len(days))
	for _, d := range days {
		cards = append(cards, DayCard{
			Day:        d.Date.Format("Mon"),
			Date:       d.Date.Format(time.DateOnly),
			MinC:       displayTemp(d.MinK),
			MaxC:       displayTemp(d.MaxK),
			Condition:  d.Condition.Main,
			Icon:       d.Condition.Icon,
			RainChance: int(math.Round(d.MaxRainPercent)),
		})
	}
	return cards
}

// resyncLocked points the carousel at the current day list and recreates
// its timer.
func (v *ForecastView) resyncLocked() {
	v.carousel.Reset(v.dayCardsLocked())
	if v.started {
		v.restartTaskLocked()
	}
}

func (v *ForecastView) restartTaskLocked() {
	v.stopTaskLocked()
	if v.opts.Interval <= 0 {
		return
	}
	task := scheduler.New("forecast-carousel", v.opts.Interval, v.carousel.Tick, v.opts.Logger)
	if err := task.Start(); err != nil {
		v.opts.Logger.Error("failed to start carousel", "error", err)
		return
	}
	v.task = task
}

func (v *ForecastView) stopTaskLocked() {
	if v.task != nil {
		v.task.Stop()
		v.task = nil
	}
}

func currentCard(s weather.Snapshot) *CurrentCard {
	loc := s.Location()
	observed := time.Unix(s.ObservedAt, 0).In(loc)
	return &CurrentCard{
		Place:        placeLabel(s.Name, s.Country),
		Day:          observed.Format("Monday"),
		Time:         clock(s.ObservedAt, loc),
		TemperatureC: displayTemp(s.TemperatureK),
		FeelsLikeC:   displayTemp(s.FeelsLikeK),
		MinC:         displayTemp(s.MinK),
		MaxC:         displayTemp(s.MaxK),
		Condition:    s.Condition.Main,
		Description:  s.Condition.Description,
		Icon:         s.Condition.Icon,
		Wind:         windText(s.WindSpeedMS, s.WindDeg),
		Pressure:     pressureText(s.PressureHpa),
		Humidity:     fmt.Sprintf("%d%%", int(math.Round(s.HumidityPct))),
		Sunrise:      clock(s.Sunrise, loc),
		Sunset:       clock(s.Sunset, loc),
	}
}
