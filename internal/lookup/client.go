package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"modernize/internal/config"
	"modernize/internal/content"
	"modernize/internal/logging"
	"modernize/internal/services"
)

// Endpoints holds the repository-relative URLs of the non-path-derived
// contracts.
type Endpoints struct {
	ComponentRules string
	PolicyRules    string
	StructureRules string
	ListChildren   string
	ListComponents string
	ListDesigns    string
	ScheduleJob    string
}

// Client issues lookup and scheduling requests against one repository.
type Client struct {
	baseURL    string
	username   string
	password   string
	endpoints  Endpoints
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCredentials sets basic auth credentials sent with every request.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = strings.TrimSpace(username)
		c.password = password
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "lookup")
	}
}

// WithEndpoints overrides the contract URLs. Blank values keep the defaults.
func WithEndpoints(endpoints Endpoints) Option {
	return func(c *Client) {
		set := func(dst *string, value string) {
			if value = strings.TrimSpace(value); value != "" {
				*dst = value
			}
		}
		set(&c.endpoints.ComponentRules, endpoints.ComponentRules)
		set(&c.endpoints.PolicyRules, endpoints.PolicyRules)
		set(&c.endpoints.StructureRules, endpoints.StructureRules)
		set(&c.endpoints.ListChildren, endpoints.ListChildren)
		set(&c.endpoints.ListComponents, endpoints.ListComponents)
		set(&c.endpoints.ListDesigns, endpoints.ListDesigns)
		set(&c.endpoints.ScheduleJob, endpoints.ScheduleJob)
	}
}

// New creates a repository client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("repository base url required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("repository base url %q is not absolute", baseURL)
	}
	defaults := config.Default()
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		endpoints:  endpointsFromConfig(defaults.Endpoints),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig builds a client from the repository and endpoint settings.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	return New(cfg.Repository.BaseURL,
		WithCredentials(cfg.Repository.Username, cfg.Repository.Password),
		WithTimeout(cfg.RequestTimeout()),
		WithEndpoints(endpointsFromConfig(cfg.Endpoints)),
		WithLogger(logger),
	)
}

func endpointsFromConfig(e config.Endpoints) Endpoints {
	return Endpoints{
		ComponentRules: e.ComponentRules,
		PolicyRules:    e.PolicyRules,
		StructureRules: e.StructureRules,
		ListChildren:   e.ListChildren,
		ListComponents: e.ListComponents,
		ListDesigns:    e.ListDesigns,
		ScheduleJob:    e.ScheduleJob,
	}
}

func (c *Client) rulesEndpoint(domain content.Domain) (string, error) {
	switch domain {
	case content.DomainComponent:
		return c.endpoints.ComponentRules, nil
	case content.DomainPolicy:
		return c.endpoints.PolicyRules, nil
	case content.DomainStructure:
		return c.endpoints.StructureRules, nil
	default:
		return "", fmt.Errorf("no rules endpoint for domain %q", domain)
	}
}

// resolve joins a repository path onto the base URL, escaping each segment.
func (c *Client) resolve(repoPath string, query url.Values) string {
	escaped := (&url.URL{Path: repoPath}).EscapedPath()
	target := c.baseURL + escaped
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return req, nil
}

// getJSON performs a request and decodes a 2xx JSON body into dst.
func (c *Client) getJSON(ctx context.Context, operation string, req *http.Request, dst any) error {
	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrLookup, "lookup", operation,
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	logging.WithContext(ctx, c.logger).Debug("repository request",
		logging.String("operation", operation),
		logging.String("method", req.Method),
		logging.String("url", req.URL.Path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return services.Wrap(services.ErrLookup, "lookup", operation,
			fmt.Sprintf("%s returned %d (latency=%v)", req.URL.Path, resp.StatusCode, latency), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return services.Wrap(services.ErrLookup, "lookup", operation, "decode response", err)
	}
	return nil
}

func requirePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", services.Wrap(services.ErrLookup, "lookup", "", "path must not be empty", nil)
	}
	if !strings.HasPrefix(path, "/") {
		return "", services.Wrap(services.ErrLookup, "lookup", "", fmt.Sprintf("path %q is not absolute", path), nil)
	}
	return path, nil
}
