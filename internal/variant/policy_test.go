package variant_test

import (
	"slices"
	"testing"

	"modernize/internal/content"
	"modernize/internal/variant"
)

func enrichedItem() *content.Item {
	item := content.NewItem("/content/site/en")
	item.Title = "English"
	item.DesignPath = "/etc/designs/site"
	item.Permission = content.PermissionGranted
	item.SetRules(content.DomainComponent, []content.Rule{{ID: "c1"}}, []string{"/content/site/en/jcr:content/par/title", "/content/site/en/jcr:content/par/text"})
	item.SetRules(content.DomainPolicy, []content.Rule{{ID: "p1"}, {ID: "p2"}}, []string{"/etc/designs/site/jcr:content/page/title"})
	item.SetRules(content.DomainStructure, []content.Rule{{ID: "s1"}}, []string{"/content/site/en/jcr:content"})
	return item
}

func TestParseJobType(t *testing.T) {
	tests := map[string]variant.JobType{
		"component": variant.JobComponent,
		"Policy":    variant.JobPolicy,
		"structure": variant.JobStructure,
		"page":      variant.JobStructure,
		" FULL ":    variant.JobFull,
	}
	for in, want := range tests {
		got, err := variant.ParseJobType(in)
		if err != nil || got != want {
			t.Fatalf("ParseJobType(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := variant.ParseJobType("dialog"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestPoliciesSelectDomainsAndPaths(t *testing.T) {
	item := enrichedItem()
	tests := []struct {
		jobType      variant.JobType
		domains      []content.Domain
		designAccess bool
		tracked      []string
	}{
		{
			jobType: variant.JobComponent,
			domains: []content.Domain{content.DomainComponent},
			tracked: []string{"/content/site/en/jcr:content/par/title", "/content/site/en/jcr:content/par/text"},
		},
		{
			jobType:      variant.JobPolicy,
			domains:      []content.Domain{content.DomainPolicy},
			designAccess: true,
			tracked:      []string{"/etc/designs/site/jcr:content/page/title"},
		},
		{
			jobType: variant.JobStructure,
			domains: []content.Domain{content.DomainStructure},
			tracked: []string{"/content/site/en"},
		},
		{
			jobType:      variant.JobFull,
			domains:      content.Domains(),
			designAccess: true,
			tracked:      []string{"/content/site/en"},
		},
	}
	for _, tt := range tests {
		policy, err := variant.ForType(tt.jobType)
		if err != nil {
			t.Fatalf("ForType(%q): %v", tt.jobType, err)
		}
		if policy.Type() != tt.jobType {
			t.Fatalf("policy type = %q, want %q", policy.Type(), tt.jobType)
		}
		if !slices.Equal(policy.Domains(), tt.domains) {
			t.Fatalf("%s domains = %v, want %v", tt.jobType, policy.Domains(), tt.domains)
		}
		if policy.RequiresDesignAccess() != tt.designAccess {
			t.Fatalf("%s design access = %v", tt.jobType, policy.RequiresDesignAccess())
		}
		if got := policy.TrackedPaths(item); !slices.Equal(got, tt.tracked) {
			t.Fatalf("%s tracked = %v, want %v", tt.jobType, got, tt.tracked)
		}
		if len(policy.Row(item)) != len(policy.Columns()) {
			t.Fatalf("%s row shape does not match columns", tt.jobType)
		}
	}
}

func TestTrackedPathsDoNotAliasItem(t *testing.T) {
	item := enrichedItem()
	paths := variant.Component{}.TrackedPaths(item)
	paths[0] = "changed"
	if item.AuxPaths[content.DomainComponent][0] == "changed" {
		t.Fatal("tracked paths alias item state")
	}
}

func TestRuleFieldNames(t *testing.T) {
	want := map[content.Domain]string{
		content.DomainComponent: "componentRules",
		content.DomainPolicy:    "policyRules",
		content.DomainStructure: "templateRules",
	}
	for domain, field := range want {
		if got := variant.RuleField(domain); got != field {
			t.Fatalf("RuleField(%s) = %q, want %q", domain, got, field)
		}
	}
}

func TestRowEscapesTitle(t *testing.T) {
	item := enrichedItem()
	item.Title = "<i>News</i>"
	row := variant.Structure{}.Row(item)
	if row[0] != "&lt;i&gt;News&lt;/i&gt;" {
		t.Fatalf("title not escaped: %q", row[0])
	}
}
