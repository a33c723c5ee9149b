package content_test

import (
	"testing"

	"modernize/internal/content"
)

func TestNewItemStartsUnknown(t *testing.T) {
	item := content.NewItem("  /content/site/en ")
	if item.Path != "/content/site/en" {
		t.Fatalf("expected trimmed path, got %q", item.Path)
	}
	if item.Permission != content.PermissionUnknown {
		t.Fatalf("expected unknown permission, got %q", item.Permission)
	}
	if item.Actionable() {
		t.Fatal("placeholder must not be actionable")
	}
	if item.RuleCount() != 0 {
		t.Fatalf("expected no rules, got %d", item.RuleCount())
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	item := content.NewItem("/content/a")
	item.SetRules(content.DomainComponent, []content.Rule{{ID: "r1", Title: "Rule 1"}}, []string{"/content/a/jcr:content/title"})

	cp := item.Clone()
	cp.Rules[content.DomainComponent][0].ID = "changed"
	cp.AuxPaths[content.DomainComponent] = append(cp.AuxPaths[content.DomainComponent], "/extra")

	if got := item.RuleIDs(content.DomainComponent); len(got) != 1 || got[0] != "r1" {
		t.Fatalf("original rules mutated: %v", got)
	}
	if len(item.AuxPaths[content.DomainComponent]) != 1 {
		t.Fatalf("original aux paths mutated: %v", item.AuxPaths[content.DomainComponent])
	}
}

func TestParseDomain(t *testing.T) {
	tests := []struct {
		in      string
		want    content.Domain
		wantErr bool
	}{
		{in: "component", want: content.DomainComponent},
		{in: " Policy ", want: content.DomainPolicy},
		{in: "STRUCTURE", want: content.DomainStructure},
		{in: "template", wantErr: true},
	}
	for _, tt := range tests {
		got, err := content.ParseDomain(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseDomain(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseDomain(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSafeTitleEscapesOnce(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Plain", want: "Plain"},
		{in: "<script>", want: "&lt;script&gt;"},
		{in: "Tom & Jerry", want: "Tom &amp; Jerry"},
		{in: "a < b && c > d", want: "a &lt; b &amp;&amp; c &gt; d"},
		{in: "already &lt; there", want: "already &amp;lt; there"},
		{in: "Cafe\u0301", want: "Caf\u00e9"},
	}
	for _, tt := range tests {
		if got := content.SafeTitle(tt.in); got != tt.want {
			t.Fatalf("SafeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayTitleFallsBackToPath(t *testing.T) {
	item := content.NewItem("/content/a&b")
	if got := item.DisplayTitle(); got != "/content/a&amp;b" {
		t.Fatalf("unexpected display title %q", got)
	}
	item.Title = "<b>Home</b>"
	if got := item.DisplayTitle(); got != "&lt;b&gt;Home&lt;/b&gt;" {
		t.Fatalf("unexpected display title %q", got)
	}
}
