package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"modernize/internal/config"
	"modernize/internal/content"
)

// Page describes one page served by the fake repository.
type Page struct {
	Title      string
	DesignPath string
	Components []string
	Styles     []string
}

// Repository is an in-memory stand-in for the content repository's JSON
// endpoints, served over httptest.
type Repository struct {
	server *httptest.Server
	eps    config.Endpoints

	mu             sync.Mutex
	pages          map[string]Page
	rules          map[string][]content.Rule
	denied         map[string]bool
	failing        map[string]bool
	gates          map[string]chan struct{}
	scheduleGate   chan struct{}
	scheduleSeen   chan struct{}
	scheduleStatus int
	scheduleBody   string
	scheduled      []map[string]any
	ruleRequests   map[string]int
}

// NewRepository starts a fake repository and registers its shutdown.
func NewRepository(t testing.TB) *Repository {
	t.Helper()
	repo := &Repository{
		eps:          config.Default().Endpoints,
		pages:        map[string]Page{},
		rules:        map[string][]content.Rule{},
		denied:       map[string]bool{},
		failing:      map[string]bool{},
		gates:        map[string]chan struct{}{},
		ruleRequests: map[string]int{},
	}
	repo.server = httptest.NewServer(http.HandlerFunc(repo.serve))
	t.Cleanup(repo.server.Close)
	return repo
}

// URL returns the base URL of the fake repository.
func (r *Repository) URL() string { return r.server.URL }

// AddPage registers a page.
func (r *Repository) AddPage(path string, page Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[path] = page
}

// SetRules registers the rules matched by a sub-path.
func (r *Repository) SetRules(subPath string, rules ...content.Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[subPath] = rules
}

// Deny makes permission checks on path report no write access.
func (r *Repository) Deny(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.denied[path] = true
}

// Fail makes every request concerning path return 500.
func (r *Repository) Fail(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failing[path] = true
}

// Hold blocks metadata requests for path until the returned func is called.
func (r *Repository) Hold(path string) (release func()) {
	gate := make(chan struct{})
	r.mu.Lock()
	r.gates[path] = gate
	r.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// HoldSchedule blocks job scheduling. entered is closed once a scheduling
// request has arrived.
func (r *Repository) HoldSchedule() (entered <-chan struct{}, release func()) {
	gate := make(chan struct{})
	seen := make(chan struct{})
	r.mu.Lock()
	r.scheduleGate = gate
	r.scheduleSeen = seen
	r.mu.Unlock()
	var once sync.Once
	return seen, func() { once.Do(func() { close(gate) }) }
}

// RejectSchedule makes job scheduling answer with status and a raw body.
func (r *Repository) RejectSchedule(status int, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduleStatus = status
	r.scheduleBody = body
}

// Scheduled returns the decoded job descriptions received so far.
func (r *Repository) Scheduled() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.scheduled)
}

// RuleRequests counts rule-matching requests that named a path under prefix.
func (r *Repository) RuleRequests(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for path, n := range r.ruleRequests {
		if strings.HasPrefix(path, prefix) {
			total += n
		}
	}
	return total
}

func (r *Repository) serve(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	switch {
	case strings.HasSuffix(path, ".permissions.json"):
		r.servePermission(w, req, strings.TrimSuffix(path, ".permissions.json"))
	case strings.HasSuffix(path, "/jcr:content.json"):
		r.serveMetadata(w, req, strings.TrimSuffix(path, "/jcr:content.json"))
	case path == r.eps.ComponentRules, path == r.eps.PolicyRules, path == r.eps.StructureRules:
		r.serveRules(w, req)
	case path == r.eps.ListChildren:
		r.serveChildren(w, req)
	case path == r.eps.ListComponents:
		r.serveListing(w, req, func(p Page) []string { return p.Components })
	case path == r.eps.ListDesigns:
		r.serveListing(w, req, func(p Page) []string { return p.Styles })
	case path == r.eps.ScheduleJob:
		r.serveSchedule(w, req)
	default:
		http.NotFound(w, req)
	}
}

func (r *Repository) servePermission(w http.ResponseWriter, req *http.Request, target string) {
	r.mu.Lock()
	failing, denied := r.failing[target], r.denied[target]
	r.mu.Unlock()
	if failing {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	privilege := req.URL.Query().Get("privileges")
	writeJSON(w, http.StatusOK, map[string]bool{privilege: !denied})
}

func (r *Repository) serveMetadata(w http.ResponseWriter, req *http.Request, target string) {
	r.mu.Lock()
	gate := r.gates[target]
	page, ok := r.pages[target]
	failing := r.failing[target]
	r.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-req.Context().Done():
			return
		}
	}
	if failing {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, req)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"jcr:primaryType": "cq:PageContent",
		"jcr:title":       page.Title,
		"cq:designPath":   page.DesignPath,
	})
}

func (r *Repository) serveRules(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []content.Rule
	var paths []string
	for _, p := range req.PostForm["path"] {
		r.ruleRequests[p]++
		if r.failing[p] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if rules := r.rules[p]; len(rules) > 0 {
			matched = append(matched, rules...)
			paths = append(paths, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Success", "paths": paths, "rules": matched})
}

func (r *Repository) serveChildren(w http.ResponseWriter, req *http.Request) {
	root := req.URL.Query().Get("path")
	direct := req.URL.Query().Get("direct") != ""
	r.mu.Lock()
	failing := r.failing[root]
	var children []string
	for p := range r.pages {
		if !strings.HasPrefix(p, root+"/") {
			continue
		}
		if direct && strings.Contains(strings.TrimPrefix(p, root+"/"), "/") {
			continue
		}
		children = append(children, p)
	}
	r.mu.Unlock()
	if failing {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	slices.Sort(children)
	writeJSON(w, http.StatusOK, map[string]any{"paths": children, "total": len(children)})
}

func (r *Repository) serveListing(w http.ResponseWriter, req *http.Request, pick func(Page) []string) {
	target := req.URL.Query().Get("path")
	r.mu.Lock()
	page, ok := r.pages[target]
	r.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"paths": []string{}, "total": 0})
		return
	}
	paths := slices.Clone(pick(page))
	slices.Sort(paths)
	writeJSON(w, http.StatusOK, map[string]any{"paths": paths, "total": len(paths)})
}

func (r *Repository) serveSchedule(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	gate, seen := r.scheduleGate, r.scheduleSeen
	r.scheduleSeen = nil
	r.mu.Unlock()
	if seen != nil {
		close(seen)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-req.Context().Done():
			return
		}
	}
	if err := req.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var job map[string]any
	if err := json.Unmarshal([]byte(req.PostForm.Get("data")), &job); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Error processing request parameters."})
		return
	}

	r.mu.Lock()
	status, body := r.scheduleStatus, r.scheduleBody
	if status == 0 {
		r.scheduled = append(r.scheduled, job)
	}
	r.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Successfully scheduled conversion job.",
		"job":     "/var/aem-modernize/job-data/job",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
