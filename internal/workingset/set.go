package workingset

import (
	"fmt"
	"slices"

	"modernize/internal/content"
	"modernize/internal/services"
)

// Snapshot is the deterministic projection consumed by the payload builder.
type Snapshot struct {
	Items   []*content.Item
	Paths   []string
	RuleIDs map[content.Domain][]string
}

// Set is the canonical working set.
type Set struct {
	items []*content.Item
	refs  map[content.Domain]map[string]int
}

// New returns an empty set.
func New() *Set {
	return &Set{refs: map[content.Domain]map[string]int{}}
}

// Add appends item at the tail. A path already present is rejected with
// services.ErrDuplicate and the set is left unchanged.
func (s *Set) Add(item *content.Item) error {
	if item == nil || item.Path == "" {
		return fmt.Errorf("working set: item path required")
	}
	if s.Index(item.Path) >= 0 {
		return services.Wrap(services.ErrDuplicate, "working set", "add", item.Path+" is already in the list", nil)
	}
	stored := item.Clone()
	s.items = append(s.items, stored)
	for domain, rules := range stored.Rules {
		counts := s.refs[domain]
		if counts == nil {
			counts = map[string]int{}
			s.refs[domain] = counts
		}
		for _, id := range distinctIDs(rules) {
			counts[id]++
		}
	}
	return nil
}

// Remove deletes the item at path and releases its rule references.
func (s *Set) Remove(path string) (*content.Item, bool) {
	idx := s.Index(path)
	if idx < 0 {
		return nil, false
	}
	removed := s.items[idx]
	s.items = slices.Delete(s.items, idx, idx+1)
	for domain, rules := range removed.Rules {
		counts := s.refs[domain]
		for _, id := range distinctIDs(rules) {
			counts[id]--
			if counts[id] <= 0 {
				delete(counts, id)
			}
		}
		if len(counts) == 0 {
			delete(s.refs, domain)
		}
	}
	return removed, true
}

// Index returns the position of path, or -1.
func (s *Set) Index(path string) int {
	for i, item := range s.items {
		if item.Path == path {
			return i
		}
	}
	return -1
}

// Find returns a copy of the item at path.
func (s *Set) Find(path string) (*content.Item, bool) {
	idx := s.Index(path)
	if idx < 0 {
		return nil, false
	}
	return s.items[idx].Clone(), true
}

func (s *Set) Contains(path string) bool { return s.Index(path) >= 0 }

func (s *Set) Len() int { return len(s.items) }

// Items returns copies of every item in set order.
func (s *Set) Items() []*content.Item {
	return s.Slice(0, len(s.items))
}

// Slice returns copies of up to limit items starting at offset. Out of
// range bounds are clamped.
func (s *Set) Slice(offset, limit int) []*content.Item {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.items) || limit <= 0 {
		return nil
	}
	end := min(offset+limit, len(s.items))
	out := make([]*content.Item, 0, end-offset)
	for _, item := range s.items[offset:end] {
		out = append(out, item.Clone())
	}
	return out
}

// Referenced reports whether any present item references rule id in domain.
func (s *Set) Referenced(domain content.Domain, id string) bool {
	return s.refs[domain][id] > 0
}

// Serialize projects the set for submission. Paths follow set order; rule
// ids are deduplicated and sorted per domain.
func (s *Set) Serialize() Snapshot {
	snapshot := Snapshot{
		Items:   s.Items(),
		Paths:   make([]string, 0, len(s.items)),
		RuleIDs: make(map[content.Domain][]string, len(s.refs)),
	}
	for _, item := range s.items {
		snapshot.Paths = append(snapshot.Paths, item.Path)
	}
	for domain, counts := range s.refs {
		ids := make([]string, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		snapshot.RuleIDs[domain] = ids
	}
	return snapshot
}

// AllRuleIDs flattens every domain's ids into one sorted, deduplicated list.
func (s Snapshot) AllRuleIDs() []string {
	var ids []string
	for _, domainIDs := range s.RuleIDs {
		ids = append(ids, domainIDs...)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func distinctIDs(rules []content.Rule) []string {
	ids := make([]string, 0, len(rules))
	for _, rule := range rules {
		if rule.ID == "" || slices.Contains(ids, rule.ID) {
			continue
		}
		ids = append(ids, rule.ID)
	}
	return ids
}
