package payload

import (
	"fmt"
	"slices"
	"strings"

	"modernize/internal/content"
	"modernize/internal/variant"
	"modernize/internal/workingset"
)

// DefaultBucketSize is the number of paths the server processes per job.
const DefaultBucketSize = 500

// PageHandling selects how structure conversion treats the original page.
type PageHandling string

const (
	PageNone    PageHandling = "NONE"
	PageRestore PageHandling = "RESTORE"
	PageCopy    PageHandling = "COPY"
)

// ParsePageHandling resolves a page handling mode case-insensitively. An
// empty value means NONE.
func ParsePageHandling(value string) (PageHandling, error) {
	switch PageHandling(strings.ToUpper(strings.TrimSpace(value))) {
	case "", PageNone:
		return PageNone, nil
	case PageRestore:
		return PageRestore, nil
	case PageCopy:
		return PageCopy, nil
	default:
		return "", fmt.Errorf("unknown page handling %q (expected none, restore, or copy)", value)
	}
}

// Options are the scalar operator choices made outside the working set.
type Options struct {
	Name         string
	ConfPath     string
	TargetPath   string
	SourceRoot   string
	TargetRoot   string
	Overwrite    bool
	Reprocess    bool
	PageHandling PageHandling
}

// Payload is the canonical job description.
type Payload struct {
	Name           string          `json:"name"`
	Type           variant.JobType `json:"type"`
	Paths          []string        `json:"paths"`
	ComponentRules []string        `json:"componentRules,omitempty"`
	PolicyRules    []string        `json:"policyRules,omitempty"`
	TemplateRules  []string        `json:"templateRules,omitempty"`
	ConfPath       string          `json:"confPath,omitempty"`
	TargetPath     string          `json:"targetPath,omitempty"`
	SourceRoot     string          `json:"sourceRoot,omitempty"`
	TargetRoot     string          `json:"targetRoot,omitempty"`
	Overwrite      bool            `json:"overwrite"`
	Reprocess      bool            `json:"reprocess"`
	PageHandling   PageHandling    `json:"pageHandling"`
}

// RuleCount returns the number of rule ids across all fields.
func (p Payload) RuleCount() int {
	return len(p.ComponentRules) + len(p.PolicyRules) + len(p.TemplateRules)
}

// Build assembles and validates the job description for policy.
func Build(policy variant.Policy, snapshot workingset.Snapshot, opts Options) (Payload, error) {
	if policy == nil {
		return Payload{}, fmt.Errorf("payload: job policy required")
	}
	p := Payload{
		Name:         strings.TrimSpace(opts.Name),
		Type:         policy.Type(),
		Paths:        trackedPaths(policy, snapshot.Items),
		ConfPath:     strings.TrimSpace(opts.ConfPath),
		TargetPath:   strings.TrimSpace(opts.TargetPath),
		SourceRoot:   strings.TrimSpace(opts.SourceRoot),
		TargetRoot:   strings.TrimSpace(opts.TargetRoot),
		Overwrite:    opts.Overwrite,
		Reprocess:    opts.Reprocess,
		PageHandling: opts.PageHandling,
	}
	if p.PageHandling == "" {
		p.PageHandling = PageNone
	}
	for _, domain := range policy.Domains() {
		ids := slices.Clone(snapshot.RuleIDs[domain])
		if ids == nil {
			ids = []string{}
		}
		switch domain {
		case content.DomainComponent:
			p.ComponentRules = ids
		case content.DomainPolicy:
			p.PolicyRules = ids
		case content.DomainStructure:
			p.TemplateRules = ids
		}
	}
	if err := Validate(p); err != nil {
		return Payload{}, err
	}
	return p, nil
}

func trackedPaths(policy variant.Policy, items []*content.Item) []string {
	seen := map[string]struct{}{}
	paths := []string{}
	for _, item := range items {
		for _, p := range policy.TrackedPaths(item) {
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}
	return paths
}

// Buckets splits paths into consecutive chunks of at most size entries,
// mirroring how the server fans a large request out into separate jobs.
func Buckets(paths []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBucketSize
	}
	var buckets [][]string
	for chunk := range slices.Chunk(paths, size) {
		buckets = append(buckets, chunk)
	}
	return buckets
}
