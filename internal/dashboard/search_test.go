package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/weather-dashboard/internal/report"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestSearchController_Submit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		fetchErr    error
		want        SearchOutcome
		wantStore   string
		wantAlerts  int
		wantInput   string
		wantFetches int
	}{
		{
			name:        "match replaces snapshot",
			input:       "Paris",
			want:        SearchOutcome{Query: "Paris", Submitted: true, Updated: true},
			wantStore:   "Paris",
			wantFetches: 1,
		},
		{
			name:        "not found alerts once and keeps snapshot",
			input:       "Atlantis",
			fetchErr:    fmt.Errorf("lookup: %w", weather.ErrNotFound),
			want:        SearchOutcome{Query: "Atlantis", Submitted: true, ErrorKind: "not_found", Alert: report.AlertMessage(nil)},
			wantStore:   "Seattle",
			wantAlerts:  1,
			wantFetches: 1,
		},
		{
			name:        "network failure is silent",
			input:       "Paris",
			fetchErr:    weather.ErrNetworkFailure,
			want:        SearchOutcome{Query: "Paris", Submitted: true, ErrorKind: "network_failure"},
			wantStore:   "Seattle",
			wantFetches: 1,
		},
		{
			name:        "malformed response counts as network failure",
			input:       "Paris",
			fetchErr:    fmt.Errorf("%w: missing main", weather.ErrMalformedResponse),
			want:        SearchOutcome{Query: "Paris", Submitted: true, ErrorKind: "network_failure"},
			wantStore:   "Seattle",
			wantFetches: 1,
		},
		{
			name:        "blank input is ignored",
			input:       "   ",
			want:        SearchOutcome{},
			wantStore:   "Seattle",
			wantInput:   "   ",
			wantFetches: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			st.Set(seattle)
			revision := st.Revision()

			client := &fakeClient{
				byName: map[string]weather.Snapshot{"Paris": paris},
				errs:   map[string]error{},
			}
			if tt.fetchErr != nil {
				client.errs[tt.input] = tt.fetchErr
			}
			rec := &report.Recorder{}
			c := NewSearchController(client, st, rec, nil)

			c.SetInput(tt.input)
			got := c.Submit(context.Background())

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outcome (-want +got):\n%s", diff)
			}
			snap, _ := st.Get()
			if snap.Name != tt.wantStore {
				t.Errorf("store = %q, want %q", snap.Name, tt.wantStore)
			}
			if !got.Updated && st.Revision() != revision {
				t.Errorf("store written on failure: revision %d -> %d", revision, st.Revision())
			}
			if n := len(rec.Alerts()); n != tt.wantAlerts {
				t.Errorf("alerts = %d, want %d", n, tt.wantAlerts)
			}
			if c.Input() != tt.wantInput {
				t.Errorf("input = %q, want %q", c.Input(), tt.wantInput)
			}
			if n := len(client.nameCalls()); n != tt.wantFetches {
				t.Errorf("fetches = %d, want %d", n, tt.wantFetches)
			}
		})
	}
}

func TestSearchController_GuardDropsResult(t *testing.T) {
	st := store.NewMemoryStore()
	client := &fakeClient{byName: map[string]weather.Snapshot{"Paris": paris}}
	c := NewSearchController(client, st, &report.Recorder{}, func(func()) bool { return false })

	c.SetInput("Paris")
	out := c.Submit(context.Background())

	if out.Updated {
		t.Fatal("guarded submission reported an update")
	}
	if _, ok := st.Get(); ok {
		t.Fatal("guarded submission wrote the store")
	}
}
