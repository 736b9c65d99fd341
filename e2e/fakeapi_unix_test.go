//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

var (
	firstNames = []string{"John", "Jane", "Bob", "Alice", "Carlos", "Mei"}
	lastNames  = []string{"Doe", "Smith", "Johnson", "Brown", "Garcia", "Chen"}
	cities     = []struct{ city, country string }{
		{"Leeds", "United Kingdom"},
		{"Oslo", "Norway"},
		{"Lyon", "France"},
		{"Porto", "Portugal"},
	}
)

// fakeAPI serves deterministic random-user pages
type fakeAPI struct {
	srv      *httptest.Server
	failing  atomic.Bool
	mu       sync.Mutex
	requests []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	api.srv = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.srv.Close)
	return api
}

func (a *fakeAPI) URL() string { return a.srv.URL + "/api/" }

// SetFailing makes every request answer 500
func (a *fakeAPI) SetFailing(fail bool) { a.failing.Store(fail) }

// Requests returns the query strings received so far
func (a *fakeAPI) Requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.requests...)
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.requests = append(a.requests, r.URL.RawQuery)
	a.mu.Unlock()

	if a.failing.Load() {
		http.Error(w, "upstream down", http.StatusInternalServerError)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	results, _ := strconv.Atoi(r.URL.Query().Get("results"))
	if results < 1 {
		results = 10
	}

	records := make([]map[string]any, 0, results)
	for j := 0; j < results; j++ {
		records = append(records, fakeUser((page-1)*results+j))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"results": records,
		"info": map[string]any{
			"seed":    r.URL.Query().Get("seed"),
			"results": results,
			"page":    page,
			"version": "1.4",
		},
	})
}

// fakeUser builds the i-th user: names cycle so every page has a mix
func fakeUser(i int) map[string]any {
	first := firstNames[i%len(firstNames)]
	last := lastNames[(i+i/len(firstNames))%len(lastNames)]
	loc := cities[i%len(cities)]
	return map[string]any{
		"gender": "female",
		"name":   map[string]any{"title": "Dr", "first": first, "last": last},
		"email":  fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
		"phone":  fmt.Sprintf("555-%04d", i),
		"location": map[string]any{
			"street":  map[string]any{"number": i + 1, "name": "Main Street"},
			"city":    loc.city,
			"state":   "",
			"country": loc.country,
		},
		"picture": map[string]any{"large": "l.jpg", "medium": "m.jpg", "thumbnail": "t.jpg"},
		"id":      map[string]any{"name": "ID", "value": strconv.Itoa(1000 + i)},
	}
}
