package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"listingsdash/internal/components/telemetry"
	"listingsdash/lib/restyutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeJson(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}

func newTestClient(t *testing.T, handler http.Handler) (Client, *telemetry.Recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tel := telemetry.NewRecorder()
	c, err := NewClient(ClientOptions{BaseUrl: srv.URL, Timeout: 5 * time.Second}, tel)
	require.NoError(t, err)
	return c, tel
}

func TestListings(t *testing.T) {
	var query url.Values
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/listings", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)
		query = r.URL.Query()
		writeJson(w, map[string]any{
			"columns": []string{"id", "Price", "url"},
			"data": []map[string]any{
				{"id": 1, "Price": 500, "url": "a"},
				{"id": 2, "Price": nil, "url": "b"},
			},
		})
	}))

	ds, err := c.Listings(context.Background(), ScopeNew, FilterMap{
		"new_filter_Rooms": "2.0",
	})
	require.NoError(t, err)

	expected := url.Values{
		"table_type":       {"new"},
		"new_filter_Rooms": {"2.0"},
	}
	if diff := cmp.Diff(expected, query); diff != "" {
		t.Fatalf("unexpected query (-want +got):\n%s", diff)
	}

	require.Equal(t, []string{"id", "Price", "url"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	require.Equal(t, float64(500), ds.Rows[0]["Price"])
	require.Nil(t, ds.Rows[1]["Price"])
}

func TestListingsServerError(t *testing.T) {
	table := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "error in body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJson(w, map[string]any{"error": "no such column: Pricee"})
			},
		},
		{
			name: "error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>"))
			},
		},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			c, tel := newTestClient(t, row.handler)
			_, err := c.Listings(context.Background(), ScopeAll, nil)
			require.Error(t, err)
			require.NotEmpty(t, tel.Reports(telemetry.KindBroken))
		})
	}
}

func TestScraperStatus(t *testing.T) {
	lastRun := "2025-04-01 10:00:00"
	responses := []map[string]any{
		{"is_running": true, "last_run": nil},
		{"is_running": false, "last_run": lastRun},
	}
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/scraper-status", r.URL.Path)
		writeJson(w, responses[calls])
		calls++
	}))

	status, err := c.ScraperStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, JobStatus{IsRunning: true}, status)

	status, err = c.ScraperStatus(context.Background())
	require.NoError(t, err)
	require.False(t, status.IsRunning)
	require.NotNil(t, status.LastRun)
	require.Equal(t, lastRun, *status.LastRun)
}

func TestRunScraper(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/run-scraper", r.URL.Path)
		writeJson(w, map[string]any{"status": "already_running"})
	}))

	status, err := c.RunScraper(context.Background())
	require.NoError(t, err)
	require.Equal(t, StartAlreadyRunning, status)
}

func TestLoginSendsForm(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		ok := r.PostForm.Get("username") == "admin" && r.PostForm.Get("password") == "hunter2"
		writeJson(w, map[string]any{"success": ok})
	}))

	ok, err := c.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.Login(context.Background(), "admin", "wrong")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewClientRejectsRelativeUrl(t *testing.T) {
	_, err := NewClient(ClientOptions{BaseUrl: "/listings"}, telemetry.NewRecorder())
	require.Error(t, err)
}

func TestClientDumpsExchanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJson(w, map[string]any{"status": "started"})
	}))
	t.Cleanup(srv.Close)

	dump := restyutil.NewMemoryOutput()
	c, err := NewClient(ClientOptions{BaseUrl: srv.URL, Dump: dump}, telemetry.NewRecorder())
	require.NoError(t, err)

	status, err := c.RunScraper(context.Background())
	require.NoError(t, err)
	require.Equal(t, StartStarted, status)

	dumps := dump.Dumps()
	require.Contains(t, dumps, "0001-post-run-scraper")
	require.Contains(t, dumps["0001-post-run-scraper"], `"status":"started"`)
}
