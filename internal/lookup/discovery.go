package lookup

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ChildFilter narrows a children listing.
type ChildFilter struct {
	// Direct limits the listing to immediate child pages.
	Direct bool
}

// Children is the bulk listing returned for "include children".
type Children struct {
	Paths []string `json:"paths"`
	Total int      `json:"total"`
}

// ListChildren lists the pages below path, excluding path itself.
func (c *Client) ListChildren(ctx context.Context, path string, filter ChildFilter) (Children, error) {
	path, err := requirePath(path)
	if err != nil {
		return Children{}, err
	}
	query := url.Values{}
	query.Set("path", path)
	if filter.Direct {
		query.Set("direct", "true")
	}
	var children Children
	if err := c.listPaths(ctx, "list children", c.endpoints.ListChildren, query, &children); err != nil {
		return Children{}, err
	}
	children.Paths = compact(children.Paths, path)
	if children.Total < len(children.Paths) {
		children.Total = len(children.Paths)
	}
	return children, nil
}

// ListComponents returns the component instance paths on the page at path.
func (c *Client) ListComponents(ctx context.Context, path string, reprocess bool) ([]string, error) {
	path, err := requirePath(path)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("path", path)
	if reprocess {
		query.Set("reprocess", "true")
	}
	var listing Children
	if err := c.listPaths(ctx, "list components", c.endpoints.ListComponents, query, &listing); err != nil {
		return nil, err
	}
	return compact(listing.Paths, ""), nil
}

// ListDesigns returns the design style paths that apply to the page at path.
func (c *Client) ListDesigns(ctx context.Context, path string, includeSuperTypes bool) ([]string, error) {
	path, err := requirePath(path)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("path", path)
	if includeSuperTypes {
		query.Set("includeSuperTypes", "true")
	}
	var listing Children
	if err := c.listPaths(ctx, "list designs", c.endpoints.ListDesigns, query, &listing); err != nil {
		return nil, err
	}
	return compact(listing.Paths, ""), nil
}

func (c *Client) listPaths(ctx context.Context, operation, endpoint string, query url.Values, dst *Children) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.resolve(endpoint, query), nil)
	if err != nil {
		return err
	}
	return c.getJSON(ctx, operation, req, dst)
}

// compact trims, drops blanks and exclude, and removes duplicates in order.
func compact(paths []string, exclude string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || p == exclude {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
