package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"modernize/internal/content"
	"modernize/internal/services"
)

// MatchOptions tunes a rule-matching request.
type MatchOptions struct {
	// Reprocess matches against the page version saved before a previous
	// conversion instead of the current content.
	Reprocess bool
}

type rulesResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Paths   []string       `json:"paths"`
	Rules   []content.Rule `json:"rules"`
}

// MatchRules submits candidate sub-paths to the domain's rule endpoint and
// returns the distinct rules that apply, in response order.
func (c *Client) MatchRules(ctx context.Context, domain content.Domain, paths []string, opts MatchOptions) ([]content.Rule, error) {
	endpoint, err := c.rulesEndpoint(domain)
	if err != nil {
		return nil, services.Wrap(services.ErrLookup, "lookup", "match rules", "", err)
	}
	form := url.Values{}
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			form.Add("path", p)
		}
	}
	if len(form["path"]) == 0 {
		return nil, nil
	}
	if opts.Reprocess {
		form.Set("reprocess", "true")
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.resolve(endpoint, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	var payload rulesResponse
	operation := fmt.Sprintf("match %s rules", domain)
	if err := c.getJSON(ctx, operation, req, &payload); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(payload.Rules))
	rules := make([]content.Rule, 0, len(payload.Rules))
	for _, rule := range payload.Rules {
		rule.ID = strings.TrimSpace(rule.ID)
		if rule.ID == "" {
			continue
		}
		if _, ok := seen[rule.ID]; ok {
			continue
		}
		seen[rule.ID] = struct{}{}
		rules = append(rules, rule)
	}
	return rules, nil
}
