package lookup

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Metadata is the subset of a page's content node the composer reads.
type Metadata struct {
	Title      string `json:"jcr:title"`
	DesignPath string `json:"cq:designPath"`
}

// CheckPermission reports whether the current user holds privilege on path.
// A response that omits the privilege counts as not granted.
func (c *Client) CheckPermission(ctx context.Context, path, privilege string) (bool, error) {
	path, err := requirePath(path)
	if err != nil {
		return false, err
	}
	privilege = strings.TrimSpace(privilege)
	if privilege == "" {
		privilege = "rep:write"
	}
	query := url.Values{}
	query.Set("privileges", privilege)

	req, err := c.newRequest(ctx, http.MethodGet, c.resolve(path+".permissions.json", query), nil)
	if err != nil {
		return false, err
	}
	var payload map[string]bool
	if err := c.getJSON(ctx, "check permission", req, &payload); err != nil {
		return false, err
	}
	return payload[privilege], nil
}

// FetchMetadata reads the title and design path of the page at path.
func (c *Client) FetchMetadata(ctx context.Context, path string) (Metadata, error) {
	path, err := requirePath(path)
	if err != nil {
		return Metadata{}, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, c.resolve(strings.TrimRight(path, "/")+"/jcr:content.json", nil), nil)
	if err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	if err := c.getJSON(ctx, "fetch metadata", req, &meta); err != nil {
		return Metadata{}, err
	}
	meta.Title = strings.TrimSpace(meta.Title)
	meta.DesignPath = strings.TrimSpace(meta.DesignPath)
	return meta, nil
}
