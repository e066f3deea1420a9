package dashboard

import (
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// HeaderModel is the page header: the place being shown and the search box.
type HeaderModel struct {
	Place   string `json:"place"`
	Present bool   `json:"present"`
	Query   string `json:"query"`
}

// HeaderView labels the dashboard with the current place.
type HeaderView struct {
	binding

	snapshot weather.Snapshot
	present  bool
	fallback string
}

// NewHeaderView binds a header to s.
func NewHeaderView(s SnapshotStore) *HeaderView {
	v := &HeaderView{}
	v.bind(s, v.apply)
	return v
}

func (v *HeaderView) apply(snap weather.Snapshot) {
	v.snapshot = snap
	v.present = true
}

// SetFallback sets the label used until the first snapshot arrives.
func (v *HeaderView) SetFallback(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fallback = label
}

// Render prefers the snapshot's name, then its coordinates. Before any
// snapshot it shows the fallback label, then a placeholder.
func (v *HeaderView) Render() HeaderModel {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := HeaderModel{Present: v.present}
	switch {
	case v.present && v.snapshot.Name != "":
		m.Place = placeLabel(v.snapshot.Name, v.snapshot.Country)
	case v.present:
		m.Place = coordLabel(v.snapshot.Coordinates)
	case v.fallback != "":
		m.Place = v.fallback
	default:
		m.Place = LocatingLabel
	}
	return m
}

// Close detaches the header from the store.
func (v *HeaderView) Close() { v.release() }
