package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/report"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// SearchOutcome describes what one submission did. Submitted is false when
// the input was blank and nothing was sent.
type SearchOutcome struct {
	Query     string `json:"query"`
	Submitted bool   `json:"submitted"`
	Updated   bool   `json:"updated"`
	ErrorKind string `json:"errorKind,omitempty"`
	Alert     string `json:"alert,omitempty"`
}

// SearchController holds the search box text and looks the place up on
// submit, bypassing geolocation.
type SearchController struct {
	client   weather.Client
	store    SnapshotStore
	reporter Reporter
	guard    func(func()) bool

	mu    sync.Mutex
	input string
}

// NewSearchController builds a controller. guard decides whether a finished
// lookup may still touch shared state; nil always allows it.
func NewSearchController(client weather.Client, s SnapshotStore, reporter Reporter, guard func(func()) bool) *SearchController {
	if guard == nil {
		guard = func(fn func()) bool { fn(); return true }
	}
	return &SearchController{
		client:   client,
		store:    s,
		reporter: reporter,
		guard:    guard,
	}
}

// SetInput replaces the search box text.
func (c *SearchController) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Input returns the search box text.
func (c *SearchController) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Submit looks up the current input. A match replaces the store's snapshot
// and NotFound raises one alert. The input is cleared once the lookup has
// finished, whatever its result.
func (c *SearchController) Submit(ctx context.Context) SearchOutcome {
	return c.SubmitQuery(ctx, c.Input())
}

// SubmitQuery submits text as if it had been typed into the search box.
func (c *SearchController) SubmitQuery(ctx context.Context, text string) SearchOutcome {
	query := strings.TrimSpace(text)
	if query == "" {
		return SearchOutcome{}
	}

	out := SearchOutcome{Query: query, Submitted: true}
	snapshot, err := c.client.FetchByName(ctx, query)

	c.guard(func() {
		defer c.SetInput("")
		if err != nil {
			kind := c.reporter.Surface(ctx, SourceSearch, err)
			out.ErrorKind = kind.String()
			if kind == weather.KindNotFound {
				out.Alert = report.AlertMessage(err)
			}
			return
		}
		c.store.Set(snapshot)
		out.Updated = true
	})
	return out
}
