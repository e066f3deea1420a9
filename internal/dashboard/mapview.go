package dashboard

import (
	"strings"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	DefaultMapTileURL     = "https://tiles.stadiamaps.com/tiles/alidade_smooth_dark/{z}/{x}/{y}{r}.png"
	DefaultMapAttribution = `&copy; <a href="https://stadiamaps.com/">Stadia Maps</a> &copy; <a href="https://openmaptiles.org/">OpenMapTiles</a> &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`

	WorldZoom = 2
	PlaceZoom = 10
)

// WorldCenter is where the map rests when no place is selected.
var WorldCenter = weather.Coordinates{Lat: 20, Lon: 0}

// IconVariant selects the marker image.
type IconVariant string

const (
	IconSunny IconVariant = "sunny"
	IconRainy IconVariant = "rainy"
)

// MapMarker pins the selected place.
type MapMarker struct {
	Position weather.Coordinates `json:"position"`
	Icon     IconVariant         `json:"icon"`
	Popup    string              `json:"popup"`
}

// MapModel is everything the map widget needs.
type MapModel struct {
	Center      weather.Coordinates `json:"center"`
	Zoom        int                 `json:"zoom"`
	Marker      *MapMarker          `json:"marker,omitempty"`
	TileURL     string              `json:"tileUrl"`
	Attribution string              `json:"attribution"`
}

// MapOptions overrides the tile layer. Empty fields take the defaults.
type MapOptions struct {
	TileURL     string
	Attribution string
}

// MapView centers the map on the current snapshot.
type MapView struct {
	binding

	opts     MapOptions
	snapshot weather.Snapshot
	present  bool
}

// NewMapView binds a map to s.
func NewMapView(s SnapshotStore, opts MapOptions) *MapView {
	if opts.TileURL == "" {
		opts.TileURL = DefaultMapTileURL
	}
	if opts.Attribution == "" {
		opts.Attribution = DefaultMapAttribution
	}
	v := &MapView{opts: opts}
	v.bind(s, v.apply)
	return v
}

func (v *MapView) apply(snap weather.Snapshot) {
	v.snapshot = snap
	v.present = true
}

// Render returns the world view until a snapshot arrives.
func (v *MapView) Render() MapModel {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := MapModel{
		Center:      WorldCenter,
		Zoom:        WorldZoom,
		TileURL:     v.opts.TileURL,
		Attribution: v.opts.Attribution,
	}
	if !v.present {
		return m
	}

	c := v.snapshot.Coordinates
	popup := placeLabel(v.snapshot.Name, v.snapshot.Country)
	if popup == "" {
		popup = coordLabel(c)
	}
	m.Center = c
	m.Zoom = PlaceZoom
	m.Marker = &MapMarker{
		Position: c,
		Icon:     IconFor(v.snapshot.Condition),
		Popup:    popup,
	}
	return m
}

// Close detaches the map from the store.
func (v *MapView) Close() { v.release() }

// IconFor picks the rainy marker for any kind of precipitation.
func IconFor(c weather.Condition) IconVariant {
	text := strings.ToLower(c.Main + " " + c.Description)
	if common.HasAny(text, "rain", "drizzle", "thunder", "shower", "snow", "sleet") {
		return IconRainy
	}
	return IconSunny
}
