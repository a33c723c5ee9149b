package enrich

import (
	"context"
	"strings"

	"modernize/internal/content"
)

// Strategy finds the candidate sub-paths of an item that are matched
// against one domain's rules.
type Strategy interface {
	Domain() content.Domain
	Discover(ctx context.Context, lookup Lookup, item *content.Item, opts Options) ([]string, error)
}

// DefaultStrategies returns the discovery strategy for every domain.
func DefaultStrategies() map[content.Domain]Strategy {
	return map[content.Domain]Strategy{
		content.DomainComponent: ComponentStrategy{},
		content.DomainPolicy:    PolicyStrategy{},
		content.DomainStructure: StructureStrategy{},
	}
}

// ComponentStrategy enumerates the component instances on the page.
type ComponentStrategy struct{}

func (ComponentStrategy) Domain() content.Domain { return content.DomainComponent }

func (ComponentStrategy) Discover(ctx context.Context, lookup Lookup, item *content.Item, opts Options) ([]string, error) {
	return lookup.ListComponents(ctx, item.Path, opts.Reprocess)
}

// PolicyStrategy enumerates the design styles that apply to the page.
type PolicyStrategy struct{}

func (PolicyStrategy) Domain() content.Domain { return content.DomainPolicy }

func (PolicyStrategy) Discover(ctx context.Context, lookup Lookup, item *content.Item, opts Options) ([]string, error) {
	return lookup.ListDesigns(ctx, item.Path, opts.IncludeSuperTypes)
}

// StructureStrategy matches the page's own content node.
type StructureStrategy struct{}

func (StructureStrategy) Domain() content.Domain { return content.DomainStructure }

func (StructureStrategy) Discover(_ context.Context, _ Lookup, item *content.Item, _ Options) ([]string, error) {
	return []string{strings.TrimRight(item.Path, "/") + "/jcr:content"}, nil
}
