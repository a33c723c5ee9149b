package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"modernize/internal/content"
	"modernize/internal/logging"
	"modernize/internal/lookup"
	"modernize/internal/services"
	"modernize/internal/variant"
)

// Lookup is the subset of the repository client the pipeline uses.
type Lookup interface {
	CheckPermission(ctx context.Context, path, privilege string) (bool, error)
	FetchMetadata(ctx context.Context, path string) (lookup.Metadata, error)
	MatchRules(ctx context.Context, domain content.Domain, paths []string, opts lookup.MatchOptions) ([]content.Rule, error)
	ListComponents(ctx context.Context, path string, reprocess bool) ([]string, error)
	ListDesigns(ctx context.Context, path string, includeSuperTypes bool) ([]string, error)
}

var _ Lookup = (*lookup.Client)(nil)

// Options carries operator choices that affect discovery.
type Options struct {
	Privilege         string
	Reprocess         bool
	IncludeSuperTypes bool
	// Concurrency bounds how many items EnrichAll processes at once.
	Concurrency int
}

// Seed is a path accepted for enrichment, optionally with metadata already
// known from a bulk listing.
type Seed struct {
	Path       string
	Title      string
	DesignPath string
}

// Pipeline enriches items for one job type.
type Pipeline struct {
	lookup     Lookup
	policy     variant.Policy
	opts       Options
	strategies map[content.Domain]Strategy
	logger     *slog.Logger
}

// New constructs a pipeline. A nil logger discards output.
func New(lookup Lookup, policy variant.Policy, opts Options, logger *slog.Logger) (*Pipeline, error) {
	if lookup == nil {
		return nil, errors.New("enrich: lookup client required")
	}
	if policy == nil {
		return nil, errors.New("enrich: job policy required")
	}
	if strings.TrimSpace(opts.Privilege) == "" {
		opts.Privilege = "rep:write"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Pipeline{
		lookup:     lookup,
		policy:     policy,
		opts:       opts,
		strategies: DefaultStrategies(),
		logger:     logging.NewComponentLogger(logger, "enrich"),
	}, nil
}

// Policy returns the job policy the pipeline was built for.
func (p *Pipeline) Policy() variant.Policy { return p.policy }

// Enrich runs every stage for one seed. On failure the returned error is an
// *Error carrying the partially built item.
func (p *Pipeline) Enrich(ctx context.Context, seed Seed) (*content.Item, error) {
	item := content.NewItem(seed.Path)
	item.Title = strings.TrimSpace(seed.Title)
	item.DesignPath = strings.TrimSpace(seed.DesignPath)
	if item.Path == "" {
		return nil, failed(item, seed.Path, errors.New("empty path"))
	}
	ctx = services.WithPath(ctx, item.Path)
	logger := logging.WithContext(ctx, p.logger)

	if p.needsMetadata(item) {
		meta, err := p.lookup.FetchMetadata(ctx, item.Path)
		if err != nil {
			return nil, failed(item, item.Path, err)
		}
		if item.Title == "" {
			item.Title = meta.Title
		}
		if item.DesignPath == "" {
			item.DesignPath = meta.DesignPath
		}
	}

	for _, subject := range p.permissionSubjects(item) {
		ok, err := p.lookup.CheckPermission(ctx, subject, p.opts.Privilege)
		if err != nil {
			return nil, failed(item, subject, err)
		}
		if !ok {
			logging.WarnWithContext(logger, "write permission denied", "permission_denied",
				logging.String("subject", subject),
				logging.String(logging.FieldErrorHint, "grant "+p.opts.Privilege+" on the path or remove it from the selection"),
			)
			return nil, denied(item, subject)
		}
	}

	if err := p.discover(ctx, item); err != nil {
		logging.WarnWithContext(logger, "rule discovery failed", "lookup_failure", logging.Error(err))
		return nil, failed(item, item.Path, err)
	}
	item.Permission = content.PermissionGranted
	logger.Debug("item enriched", logging.Int("rules", item.RuleCount()))
	return item, nil
}

func (p *Pipeline) needsMetadata(item *content.Item) bool {
	if item.Title == "" {
		return true
	}
	return p.policy.RequiresDesignAccess() && item.DesignPath == ""
}

func (p *Pipeline) permissionSubjects(item *content.Item) []string {
	subjects := []string{item.Path}
	if p.policy.RequiresDesignAccess() && item.DesignPath != "" && item.DesignPath != item.Path {
		subjects = append(subjects, item.DesignPath)
	}
	return subjects
}

type domainResult struct {
	domain content.Domain
	rules  []content.Rule
	paths  []string
}

// discover fans out over the enabled domains. The first failure cancels the
// remaining lookups and rejects the item.
func (p *Pipeline) discover(ctx context.Context, item *content.Item) error {
	domains := p.policy.Domains()
	results := make([]domainResult, len(domains))

	for _, domain := range domains {
		if _, ok := p.strategies[domain]; !ok {
			return fmt.Errorf("no discovery strategy for domain %q", domain)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, domain := range domains {
		strategy := p.strategies[domain]
		g.Go(func() error {
			dctx := services.WithDomain(gctx, domain.String())
			paths, err := strategy.Discover(dctx, p.lookup, item, p.opts)
			if err != nil {
				return fmt.Errorf("discover %s paths: %w", domain, err)
			}
			results[i] = domainResult{domain: domain, paths: paths}
			if len(paths) == 0 {
				return nil
			}
			rules, err := p.lookup.MatchRules(dctx, domain, paths, lookup.MatchOptions{Reprocess: p.opts.Reprocess})
			if err != nil {
				return fmt.Errorf("match %s rules: %w", domain, err)
			}
			results[i].rules = rules
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, result := range results {
		item.SetRules(result.domain, result.rules, result.paths)
	}
	return nil
}

// Result is the settled outcome of one seed in a batch.
type Result struct {
	Seed Seed
	Item *content.Item
	Err  error
}

// EnrichAll enriches seeds concurrently and returns once every seed has
// settled. Results keep seed order.
func (p *Pipeline) EnrichAll(ctx context.Context, seeds []Seed) []Result {
	results := make([]Result, len(seeds))
	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i, seed := range seeds {
		g.Go(func() error {
			item, err := p.Enrich(ctx, seed)
			results[i] = Result{Seed: seed, Item: item, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
