package payload_test

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"modernize/internal/content"
	"modernize/internal/payload"
	"modernize/internal/services"
	"modernize/internal/variant"
	"modernize/internal/workingset"
)

func structureSet(t *testing.T) *workingset.Set {
	t.Helper()
	set := workingset.New()
	for path, id := range map[string]string{"/content/a": "r1", "/content/b": "r2"} {
		item := content.NewItem(path)
		item.Permission = content.PermissionGranted
		item.SetRules(content.DomainStructure, []content.Rule{{ID: id}}, []string{path + "/jcr:content"})
		if err := set.Add(item); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return set
}

func TestBuildStructurePayload(t *testing.T) {
	set := workingset.New()
	for _, tc := range []struct{ path, id string }{{"/content/a", "r1"}, {"/content/b", "r2"}} {
		item := content.NewItem(tc.path)
		item.SetRules(content.DomainStructure, []content.Rule{{ID: tc.id}}, nil)
		_ = set.Add(item)
	}

	p, err := payload.Build(variant.Structure{}, set.Serialize(), payload.Options{Name: "Convert", Reprocess: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Type != variant.JobStructure || p.PageHandling != payload.PageNone {
		t.Fatalf("unexpected payload %#v", p)
	}
	if !slices.Equal(p.Paths, []string{"/content/a", "/content/b"}) {
		t.Fatalf("unexpected paths %v", p.Paths)
	}
	if !slices.Equal(p.TemplateRules, []string{"r1", "r2"}) {
		t.Fatalf("unexpected template rules %v", p.TemplateRules)
	}
	if p.ComponentRules != nil || p.PolicyRules != nil {
		t.Fatal("disabled domains must not populate rule fields")
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire map[string]any
	_ = json.Unmarshal(data, &wire)
	for _, key := range []string{"name", "type", "paths", "templateRules", "overwrite", "reprocess", "pageHandling"} {
		if _, ok := wire[key]; !ok {
			t.Fatalf("wire payload missing %q: %s", key, data)
		}
	}
	if _, ok := wire["componentRules"]; ok {
		t.Fatalf("wire payload should omit componentRules: %s", data)
	}
}

func TestBuildComponentTracksSubPaths(t *testing.T) {
	set := workingset.New()
	item := content.NewItem("/content/a")
	item.SetRules(content.DomainComponent, []content.Rule{{ID: "c1"}}, []string{"/content/a/jcr:content/title", "/content/a/jcr:content/text"})
	_ = set.Add(item)
	other := content.NewItem("/content/b")
	other.SetRules(content.DomainComponent, []content.Rule{{ID: "c1"}}, []string{"/content/a/jcr:content/title"})
	_ = set.Add(other)

	p, err := payload.Build(variant.Component{}, set.Serialize(), payload.Options{Name: "Components"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !slices.Equal(p.Paths, []string{"/content/a/jcr:content/title", "/content/a/jcr:content/text"}) {
		t.Fatalf("unexpected tracked paths %v", p.Paths)
	}
	if !slices.Equal(p.ComponentRules, []string{"c1"}) {
		t.Fatalf("unexpected rules %v", p.ComponentRules)
	}
}

func TestBuildEnabledDomainWithoutRulesIsEmptyList(t *testing.T) {
	set := workingset.New()
	_ = set.Add(content.NewItem("/content/a"))
	p, err := payload.Build(variant.Structure{}, set.Serialize(), payload.Options{Name: "Empty rules"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.TemplateRules == nil || len(p.TemplateRules) != 0 {
		t.Fatalf("expected empty template rules, got %#v", p.TemplateRules)
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name   string
		set    *workingset.Set
		opts   payload.Options
		fields []string
	}{
		{name: "missing name", set: structureSet(t), opts: payload.Options{}, fields: []string{"name"}},
		{name: "empty set", set: workingset.New(), opts: payload.Options{Name: "Job"}, fields: []string{"paths"}},
		{name: "copy without roots", set: structureSet(t), opts: payload.Options{Name: "Job", PageHandling: payload.PageCopy}, fields: []string{"sourceRoot", "targetRoot"}},
		{name: "relative target", set: structureSet(t), opts: payload.Options{Name: "Job", TargetPath: "conf/site"}, fields: []string{"targetPath"}},
		{name: "bad page handling", set: structureSet(t), opts: payload.Options{Name: "Job", PageHandling: "MOVE"}, fields: []string{"pageHandling"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payload.Build(variant.Structure{}, tt.set.Serialize(), tt.opts)
			var verr *payload.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			for _, field := range tt.fields {
				if _, ok := verr.Fields[field]; !ok {
					t.Fatalf("expected field %q in %v", field, verr.Fields)
				}
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatal("expected validation marker")
			}
		})
	}
}

func TestParsePageHandling(t *testing.T) {
	for in, want := range map[string]payload.PageHandling{"": payload.PageNone, "restore": payload.PageRestore, "Copy": payload.PageCopy} {
		got, err := payload.ParsePageHandling(in)
		if err != nil || got != want {
			t.Fatalf("ParsePageHandling(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := payload.ParsePageHandling("move"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuckets(t *testing.T) {
	paths := make([]string, 1001)
	for i := range paths {
		paths[i] = "/content/p"
	}
	buckets := payload.Buckets(paths, 500)
	if len(buckets) != 3 || len(buckets[0]) != 500 || len(buckets[2]) != 1 {
		t.Fatalf("unexpected buckets: %d", len(buckets))
	}
	if got := payload.Buckets(nil, 0); len(got) != 0 {
		t.Fatalf("expected no buckets, got %d", len(got))
	}
}
