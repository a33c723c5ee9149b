package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRepository(); err != nil {
		return err
	}
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateWizard(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRepository() error {
	parsed, err := url.Parse(c.Repository.BaseURL)
	if err != nil {
		return fmt.Errorf("repository.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("repository.base_url must use http or https, got %q", c.Repository.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("repository.base_url must include a host, got %q", c.Repository.BaseURL)
	}
	if !strings.HasPrefix(c.Repository.RootPath, "/") {
		return errors.New("repository.root_path must be absolute")
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	for key, value := range map[string]string{
		"endpoints.component_rules": c.Endpoints.ComponentRules,
		"endpoints.policy_rules":    c.Endpoints.PolicyRules,
		"endpoints.structure_rules": c.Endpoints.StructureRules,
		"endpoints.list_children":   c.Endpoints.ListChildren,
		"endpoints.list_components": c.Endpoints.ListComponents,
		"endpoints.list_designs":    c.Endpoints.ListDesigns,
		"endpoints.schedule_job":    c.Endpoints.ScheduleJob,
	} {
		if !strings.HasPrefix(value, "/") {
			return fmt.Errorf("%s must be an absolute repository path", key)
		}
	}
	return nil
}

func (c *Config) validateWizard() error {
	return ensurePositiveMap(map[string]int{
		"wizard.page_size":           c.Wizard.PageSize,
		"wizard.max_concurrency":     c.Wizard.MaxConcurrency,
		"wizard.bucket_size":         c.Wizard.BucketSize,
		"repository.timeout_seconds": c.Repository.TimeoutSeconds,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
