package variant

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"modernize/internal/content"
)

// JobType is the job type name sent to the scheduling endpoint.
type JobType string

const (
	JobComponent JobType = "COMPONENT"
	JobPolicy    JobType = "POLICY"
	JobStructure JobType = "PAGE"
	JobFull      JobType = "FULL"
)

// Policy specializes the shared composer machinery for one job type.
type Policy interface {
	Type() JobType
	Domains() []content.Domain
	RequiresDesignAccess() bool
	TrackedPaths(item *content.Item) []string
	RuleField(domain content.Domain) string
	Columns() []string
	Row(item *content.Item) []string
}

// ParseJobType resolves a CLI job type name.
func ParseJobType(value string) (JobType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "component", "components":
		return JobComponent, nil
	case "policy", "policies":
		return JobPolicy, nil
	case "structure", "page", "template":
		return JobStructure, nil
	case "full":
		return JobFull, nil
	default:
		return "", fmt.Errorf("unknown job type %q (expected component, policy, structure, or full)", value)
	}
}

// ForType returns the policy registered for jobType.
func ForType(jobType JobType) (Policy, error) {
	switch jobType {
	case JobComponent:
		return Component{}, nil
	case JobPolicy:
		return Policies{}, nil
	case JobStructure:
		return Structure{}, nil
	case JobFull:
		return Full{}, nil
	default:
		return nil, fmt.Errorf("no policy for job type %q", jobType)
	}
}

// RuleField returns the submission field that carries a domain's rule ids.
func RuleField(domain content.Domain) string {
	switch domain {
	case content.DomainComponent:
		return "componentRules"
	case content.DomainPolicy:
		return "policyRules"
	case content.DomainStructure:
		return "templateRules"
	default:
		return ""
	}
}

// Enabled reports whether policy discovers rules in domain.
func Enabled(policy Policy, domain content.Domain) bool {
	return policy != nil && slices.Contains(policy.Domains(), domain)
}

// Component jobs convert component instances found on each page.
type Component struct{}

func (Component) Type() JobType { return JobComponent }

func (Component) Domains() []content.Domain { return []content.Domain{content.DomainComponent} }

func (Component) RequiresDesignAccess() bool { return false }

func (Component) TrackedPaths(item *content.Item) []string {
	return auxPaths(item, content.DomainComponent)
}

func (Component) RuleField(domain content.Domain) string { return RuleField(domain) }

func (Component) Columns() []string {
	return []string{"Title", "Path", "Components", "Rules"}
}

func (Component) Row(item *content.Item) []string {
	return []string{
		item.DisplayTitle(),
		item.Path,
		strconv.Itoa(len(item.AuxPaths[content.DomainComponent])),
		strconv.Itoa(len(item.Rules[content.DomainComponent])),
	}
}

// Policies jobs import design styles referenced by each page as policies.
type Policies struct{}

func (Policies) Type() JobType { return JobPolicy }

func (Policies) Domains() []content.Domain { return []content.Domain{content.DomainPolicy} }

func (Policies) RequiresDesignAccess() bool { return true }

func (Policies) TrackedPaths(item *content.Item) []string {
	return auxPaths(item, content.DomainPolicy)
}

func (Policies) RuleField(domain content.Domain) string { return RuleField(domain) }

func (Policies) Columns() []string {
	return []string{"Title", "Path", "Design", "Styles", "Rules"}
}

func (Policies) Row(item *content.Item) []string {
	return []string{
		item.DisplayTitle(),
		item.Path,
		item.DesignPath,
		strconv.Itoa(len(item.AuxPaths[content.DomainPolicy])),
		strconv.Itoa(len(item.Rules[content.DomainPolicy])),
	}
}

// Structure jobs rewrite page structure using template rules.
type Structure struct{}

func (Structure) Type() JobType { return JobStructure }

func (Structure) Domains() []content.Domain { return []content.Domain{content.DomainStructure} }

func (Structure) RequiresDesignAccess() bool { return false }

func (Structure) TrackedPaths(item *content.Item) []string {
	if item == nil || item.Path == "" {
		return nil
	}
	return []string{item.Path}
}

func (Structure) RuleField(domain content.Domain) string { return RuleField(domain) }

func (Structure) Columns() []string {
	return []string{"Title", "Path", "Template Rules"}
}

func (Structure) Row(item *content.Item) []string {
	return []string{
		item.DisplayTitle(),
		item.Path,
		strconv.Itoa(len(item.Rules[content.DomainStructure])),
	}
}

// Full jobs run structure, component, and policy conversion on each page.
type Full struct{}

func (Full) Type() JobType { return JobFull }

func (Full) Domains() []content.Domain { return content.Domains() }

func (Full) RequiresDesignAccess() bool { return true }

func (Full) TrackedPaths(item *content.Item) []string {
	return Structure{}.TrackedPaths(item)
}

func (Full) RuleField(domain content.Domain) string { return RuleField(domain) }

func (Full) Columns() []string {
	return []string{"Title", "Path", "Template Rules", "Component Rules", "Policy Rules"}
}

func (Full) Row(item *content.Item) []string {
	return []string{
		item.DisplayTitle(),
		item.Path,
		strconv.Itoa(len(item.Rules[content.DomainStructure])),
		strconv.Itoa(len(item.Rules[content.DomainComponent])),
		strconv.Itoa(len(item.Rules[content.DomainPolicy])),
	}
}

func auxPaths(item *content.Item, domain content.Domain) []string {
	if item == nil {
		return nil
	}
	return slices.Clone(item.AuxPaths[domain])
}
