package lookup_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"modernize/internal/content"
	"modernize/internal/lookup"
	"modernize/internal/services"
)

func newClient(t *testing.T, handler http.HandlerFunc) *lookup.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := lookup.New(server.URL, lookup.WithCredentials("admin", "secret"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresAbsoluteBaseURL(t *testing.T) {
	for _, base := range []string{"", "   ", "localhost:4502", "/content"} {
		if _, err := lookup.New(base); err == nil {
			t.Fatalf("expected error for base url %q", base)
		}
	}
}

func TestCheckPermission(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content/site/en.permissions.json" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("privileges"); got != "rep:write" {
			t.Fatalf("expected privileges query, got %q", got)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "admin" || pass != "secret" {
			t.Fatalf("expected basic auth, got %q/%q", user, pass)
		}
		_, _ = w.Write([]byte(`{"rep:write":true}`))
	})

	ok, err := client.CheckPermission(context.Background(), "/content/site/en", "rep:write")
	if err != nil {
		t.Fatalf("CheckPermission returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected permission granted")
	}
}

func TestCheckPermissionMissingKeyIsDenied(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	ok, err := client.CheckPermission(context.Background(), "/content/a", "")
	if err != nil {
		t.Fatalf("CheckPermission returned error: %v", err)
	}
	if ok {
		t.Fatal("expected permission denied when key missing")
	}
}

func TestCheckPermissionHTTPErrorIsLookupFailure(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := client.CheckPermission(context.Background(), "/content/a", "rep:write")
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if !errors.Is(err, services.ErrLookup) {
		t.Fatalf("expected lookup marker, got %v", err)
	}
}

func TestFetchMetadata(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content/a/jcr:content.json" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"jcr:title":" Home ","cq:designPath":"/etc/designs/site","jcr:primaryType":"cq:PageContent"}`))
	})
	meta, err := client.FetchMetadata(context.Background(), "/content/a")
	if err != nil {
		t.Fatalf("FetchMetadata returned error: %v", err)
	}
	if meta.Title != "Home" || meta.DesignPath != "/etc/designs/site" {
		t.Fatalf("unexpected metadata %#v", meta)
	}
}

func TestFetchMetadataMalformedBody(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	if _, err := client.FetchMetadata(context.Background(), "/content/a"); !errors.Is(err, services.ErrLookup) {
		t.Fatalf("expected lookup failure, got %v", err)
	}
}

func TestMatchRulesPostsPathsAndDedupes(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/apps/aem-modernize/job/component.rules.json" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm["path"]; len(got) != 2 || got[0] != "/content/a/jcr:content/title" {
			t.Fatalf("unexpected paths %v", got)
		}
		if r.PostForm.Get("reprocess") != "true" {
			t.Fatalf("expected reprocess flag")
		}
		_, _ = w.Write([]byte(`{"success":true,"rules":[{"id":"r1","title":"Title"},{"id":"r1","title":"Title"},{"id":"r2","title":"Text"}]}`))
	})

	rules, err := client.MatchRules(context.Background(), content.DomainComponent,
		[]string{"/content/a/jcr:content/title", "/content/a/jcr:content/text"}, lookup.MatchOptions{Reprocess: true})
	if err != nil {
		t.Fatalf("MatchRules returned error: %v", err)
	}
	if len(rules) != 2 || rules[0].ID != "r1" || rules[1].ID != "r2" {
		t.Fatalf("unexpected rules %#v", rules)
	}
}

func TestMatchRulesNoPathsSkipsRequest(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	rules, err := client.MatchRules(context.Background(), content.DomainPolicy, nil, lookup.MatchOptions{})
	if err != nil || len(rules) != 0 {
		t.Fatalf("expected empty result, got %v, %v", rules, err)
	}
}

func TestListChildren(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/apps/aem-modernize/content/job/create.listchildren.json" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("path") != "/content/site" || r.URL.Query().Get("direct") != "true" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"paths":["/content/site","/content/site/en","/content/site/fr","/content/site/en"],"total":3}`))
	})
	children, err := client.ListChildren(context.Background(), "/content/site", lookup.ChildFilter{Direct: true})
	if err != nil {
		t.Fatalf("ListChildren returned error: %v", err)
	}
	if len(children.Paths) != 2 || children.Paths[0] != "/content/site/en" || children.Paths[1] != "/content/site/fr" {
		t.Fatalf("unexpected children %#v", children)
	}
}

func TestListComponentsAndDesigns(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/apps/aem-modernize/content/job/create.listcomponents.json":
			_, _ = w.Write([]byte(`{"paths":["/content/a/jcr:content/par/title"],"total":1}`))
		case "/apps/aem-modernize/content/job/create.listdesigns.json":
			if r.URL.Query().Get("includeSuperTypes") != "true" {
				t.Fatalf("expected includeSuperTypes")
			}
			_, _ = w.Write([]byte(`{"paths":["/etc/designs/site/jcr:content/page/title"],"total":1}`))
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	})
	components, err := client.ListComponents(context.Background(), "/content/a", false)
	if err != nil || len(components) != 1 {
		t.Fatalf("ListComponents = %v, %v", components, err)
	}
	designs, err := client.ListDesigns(context.Background(), "/content/a", true)
	if err != nil || len(designs) != 1 {
		t.Fatalf("ListDesigns = %v, %v", designs, err)
	}
}

func TestScheduleJobSuccess(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		var job map[string]any
		if err := json.Unmarshal([]byte(r.PostForm.Get("data")), &job); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if job["name"] != "Job" {
			t.Fatalf("unexpected job %v", job)
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Successfully scheduled conversion job.","job":"/var/aem-modernize/job-data/2026/10/15/job"}`))
	})
	scheduled, err := client.ScheduleJob(context.Background(), map[string]any{"name": "Job"})
	if err != nil {
		t.Fatalf("ScheduleJob returned error: %v", err)
	}
	if scheduled.Job == "" || !scheduled.Success {
		t.Fatalf("unexpected response %#v", scheduled)
	}
}

func TestScheduleJobSurfacesServerMessage(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"message":"Missing permissions for modifying a requested path."}`))
	})
	_, err := client.ScheduleJob(context.Background(), map[string]any{})
	var subErr *lookup.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Message != "Missing permissions for modifying a requested path." || subErr.Status != http.StatusForbidden {
		t.Fatalf("unexpected submission error %#v", subErr)
	}
	if !errors.Is(err, services.ErrSubmission) {
		t.Fatal("expected submission marker")
	}
}

func TestScheduleJobMalformedResponse(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})
	_, err := client.ScheduleJob(context.Background(), map[string]any{})
	if services.Classify(err) != services.KindSubmissionFailure {
		t.Fatalf("expected submission failure, got %v", err)
	}
}
