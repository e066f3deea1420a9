package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ChartBar is one labelled bar of the rain-chance chart.
type ChartBar struct {
	Time    int64   `json:"time"`
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// ChartModel is the rain-chance bar chart.
type ChartModel struct {
	Loading bool       `json:"loading"`
	Bars    []ChartBar `json:"bars"`
}

// ChartView fetches the short-term rain series whenever the selected place
// moves. Only the newest request may update the chart.
type ChartView struct {
	binding

	ctx      context.Context
	forecast weather.ForecastSource
	reporter Reporter

	requested  weather.Coordinates
	hasRequest bool
	generation uint64
	loading    bool
	loc        *time.Location
	series     weather.ForecastSeries
}

// NewChartView binds a chart to s. Fetches run under ctx.
func NewChartView(ctx context.Context, s SnapshotStore, forecast weather.ForecastSource, reporter Reporter) *ChartView {
	v := &ChartView{
		ctx:      ctx,
		forecast: forecast,
		reporter: reporter,
		loc:      time.UTC,
	}
	v.bind(s, v.apply)
	return v
}

func (v *ChartView) apply(snap weather.Snapshot) {
	v.loc = snap.Location()
	if v.hasRequest && v.requested == snap.Coordinates {
		return
	}
	v.requested = snap.Coordinates
	v.hasRequest = true
	v.generation++
	v.loading = true
	v.series = nil

	gen, c := v.generation, snap.Coordinates
	v.goFetchLocked(func() { v.fetch(gen, c) })
}

func (v *ChartView) fetch(gen uint64, c weather.Coordinates) {
	series, err := v.forecast.FetchSeries(v.ctx, c)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.generation {
		return
	}
	v.loading = false
	if err != nil {
		v.reporter.Report(v.ctx, SourceChart, err)
		v.series = nil
		return
	}
	v.series = series
}

// Render returns the bars of the latest series, labelled in the place's local time.
func (v *ChartView) Render() ChartModel {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := ChartModel{Loading: v.loading, Bars: make([]ChartBar, 0, len(v.series))}
	for _, p := range v.series {
		m.Bars = append(m.Bars, ChartBar{
			Time:    p.Time,
			Label:   hourLabel(p.Time, v.loc),
			Percent: math.Round(p.Percent),
		})
	}
	return m
}

// Close detaches the chart; fetches still running are dropped.
func (v *ChartView) Close() { v.release() }
