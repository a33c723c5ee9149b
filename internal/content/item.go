package content

import (
	"fmt"
	"slices"
	"strings"
)

// PermissionState captures the outcome of the write-permission check.
type PermissionState string

const (
	PermissionUnknown PermissionState = "unknown"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// Domain names an independent axis of rule discovery.
type Domain string

const (
	DomainComponent Domain = "component"
	DomainPolicy    Domain = "policy"
	DomainStructure Domain = "structure"
)

// Domains lists every rule domain in canonical order.
func Domains() []Domain {
	return []Domain{DomainComponent, DomainPolicy, DomainStructure}
}

func (d Domain) String() string { return string(d) }

// ParseDomain resolves a domain name case-insensitively.
func ParseDomain(value string) (Domain, error) {
	switch Domain(strings.ToLower(strings.TrimSpace(value))) {
	case DomainComponent:
		return DomainComponent, nil
	case DomainPolicy:
		return DomainPolicy, nil
	case DomainStructure:
		return DomainStructure, nil
	default:
		return "", fmt.Errorf("unknown rule domain %q", value)
	}
}

// Rule describes one transformation rule matched against an item.
type Rule struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Item is one unit of work in a job draft.
type Item struct {
	Path       string
	Title      string
	DesignPath string
	Permission PermissionState
	Rules      map[Domain][]Rule
	AuxPaths   map[Domain][]string
}

// NewItem returns the placeholder created when a path is accepted.
func NewItem(path string) *Item {
	return &Item{
		Path:       strings.TrimSpace(path),
		Permission: PermissionUnknown,
		Rules:      map[Domain][]Rule{},
		AuxPaths:   map[Domain][]string{},
	}
}

// RuleIDs returns the ids of the rules matched in domain, in match order.
func (i *Item) RuleIDs(domain Domain) []string {
	if i == nil {
		return nil
	}
	rules := i.Rules[domain]
	ids := make([]string, 0, len(rules))
	for _, rule := range rules {
		ids = append(ids, rule.ID)
	}
	return ids
}

// RuleCount returns the number of matched rules across all domains.
func (i *Item) RuleCount() int {
	if i == nil {
		return 0
	}
	total := 0
	for _, rules := range i.Rules {
		total += len(rules)
	}
	return total
}

// Actionable reports whether enrichment finished with write access granted.
func (i *Item) Actionable() bool {
	return i != nil && i.Permission == PermissionGranted
}

// SetRules replaces the rules and matched sub-paths of a domain.
func (i *Item) SetRules(domain Domain, rules []Rule, aux []string) {
	if i.Rules == nil {
		i.Rules = map[Domain][]Rule{}
	}
	if i.AuxPaths == nil {
		i.AuxPaths = map[Domain][]string{}
	}
	i.Rules[domain] = slices.Clone(rules)
	i.AuxPaths[domain] = slices.Clone(aux)
}

// ClearRules drops all rule data; denied items never carry rules.
func (i *Item) ClearRules() {
	i.Rules = map[Domain][]Rule{}
	i.AuxPaths = map[Domain][]string{}
}

// Clone returns a deep copy so callers never alias working-set state.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	cp := *i
	cp.Rules = make(map[Domain][]Rule, len(i.Rules))
	for domain, rules := range i.Rules {
		cp.Rules[domain] = slices.Clone(rules)
	}
	cp.AuxPaths = make(map[Domain][]string, len(i.AuxPaths))
	for domain, paths := range i.AuxPaths {
		cp.AuxPaths[domain] = slices.Clone(paths)
	}
	return &cp
}

// DisplayTitle returns the escaped title, falling back to the path.
func (i *Item) DisplayTitle() string {
	if i == nil {
		return ""
	}
	if strings.TrimSpace(i.Title) == "" {
		return SafeTitle(i.Path)
	}
	return SafeTitle(i.Title)
}
