// Package mockserver is a local stand-in for the listings backend: it serves the
// listings, scraper status, scraper start and login endpoints from a sqlite database
// and simulates scraper runs.
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"sync"
	"time"

	"listingsdash/internal/components/assert"
	"listingsdash/internal/components/chrono"
	"listingsdash/internal/components/telemetry"
)

const (
	report_listings = "listings"
	report_scrape   = "scrape"
	report_encode   = "encode"
)

// layout of last_run, matching what the production backend reports
const LastRunLayout = "2006-01-02 15:04:05"

const sessionCookie = "session"

type Options struct {
	Store Store
	Clock chrono.API
	Tel   telemetry.API

	Username string
	Password string

	// RunDuration is how long a simulated scraper run stays running.
	RunDuration time.Duration
	// Scrape is called at the end of every run, a failed scrape does not stamp last_run.
	Scrape func(ctx context.Context) error
}

type Server struct {
	store       Store
	clock       chrono.API
	tel         telemetry.API
	username    string
	password    string
	runDuration time.Duration
	scrape      func(ctx context.Context) error

	ctx    context.Context
	cancel context.CancelFunc
	runs   sync.WaitGroup

	mu      sync.Mutex
	running bool
	lastRun *string
}

func NewServer(opts Options) *Server {
	assert.NotNil(opts.Clock)
	assert.NotNil(opts.Tel)

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		store:       opts.Store,
		clock:       opts.Clock,
		tel:         telemetry.NewScopedAPI("mockserver", opts.Tel),
		username:    opts.Username,
		password:    opts.Password,
		runDuration: opts.RunDuration,
		scrape:      opts.Scrape,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Close abandons simulated runs in progress and waits for them to exit.
func (s *Server) Close() {
	s.cancel()
	s.runs.Wait()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /listings", s.handleListings)
	mux.HandleFunc("POST /run-scraper", s.handleRunScraper)
	mux.HandleFunc("GET /scraper-status", s.handleScraperStatus)
	mux.HandleFunc("POST /login", s.handleLogin)
	return mux
}

func (s *Server) writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		s.tel.ReportWarning(report_encode, err)
	}
}

// filterColumns maps the query's filter args of the given table to column names,
// "filter_Price" (or "new_filter_Price" for the new table) becomes "Price".
func filterColumns(query map[string][]string, table Table) map[string]string {
	prefix := "filter_"
	if table == NewListingsTable {
		prefix = "new_filter_"
	}
	out := map[string]string{}
	for key, values := range query {
		if !strings.HasPrefix(key, prefix) || len(values) == 0 || values[0] == "" {
			continue
		}
		out[strings.TrimPrefix(key, prefix)] = values[0]
	}
	return out
}

// linkCell renders a listing url the way the dashboard cells expect it.
func linkCell(url string) string {
	return fmt.Sprintf(`<a href="%s" target="_blank" class="btn btn-sm btn-primary">View</a>`, html.EscapeString(url))
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	table := ListingsTable
	if r.URL.Query().Get("table_type") == "new" {
		table = NewListingsTable
	}

	result, err := s.store.Query(r.Context(), table, filterColumns(r.URL.Query(), table))
	if err != nil {
		s.tel.ReportWarning(report_listings, err, table)
		// query failures are reported in the body with a 200, like the production backend
		s.writeJson(w, http.StatusOK, map[string]string{"error": err.Error()})
		return
	}

	for _, row := range result.Rows {
		url, ok := row["url"].(string)
		if ok {
			row["url"] = linkCell(url)
		}
	}
	s.writeJson(w, http.StatusOK, map[string]any{
		"columns": result.Columns,
		"data":    result.Rows,
	})
}

func (s *Server) handleRunScraper(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.writeJson(w, http.StatusOK, map[string]string{"status": "already_running"})
		return
	}
	s.running = true
	s.runs.Add(1)
	s.mu.Unlock()

	go s.run()
	s.writeJson(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) run() {
	defer s.runs.Done()

	finished := true
	select {
	case <-time.After(s.runDuration):
	case <-s.ctx.Done():
		finished = false
	}

	if finished && s.scrape != nil {
		err := s.scrape(s.ctx)
		if err != nil {
			s.tel.ReportWarning(report_scrape, err)
			finished = false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	if finished {
		stamp := s.clock.Now().Format(LastRunLayout)
		s.lastRun = &stamp
		s.tel.ReportDebug("scraper run finished", stamp)
	}
}

func (s *Server) handleScraperStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body := map[string]any{
		"is_running": s.running,
		"last_run":   s.lastRun,
	}
	s.mu.Unlock()
	s.writeJson(w, http.StatusOK, body)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		s.writeJson(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	ok := s.username != "" && username == s.username && password == s.password
	if ok {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    username,
			Path:     "/",
			HttpOnly: true,
		})
	}
	s.writeJson(w, http.StatusOK, map[string]bool{"success": ok})
}

// Running reports whether a simulated run is in progress.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
