package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRepository()
	c.normalizeEndpoints()
	c.normalizeWizard()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	// An empty journal path disables the journal.
	if c.Paths.JournalPath = strings.TrimSpace(c.Paths.JournalPath); c.Paths.JournalPath != "" {
		if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
			return fmt.Errorf("paths.journal_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeRepository() {
	c.Repository.BaseURL = strings.TrimRight(strings.TrimSpace(c.Repository.BaseURL), "/")
	if c.Repository.BaseURL == "" {
		c.Repository.BaseURL = defaultBaseURL
	}
	if value, ok := os.LookupEnv(usernameEnvVar); ok && strings.TrimSpace(value) != "" {
		c.Repository.Username = strings.TrimSpace(value)
	}
	c.Repository.Username = strings.TrimSpace(c.Repository.Username)
	if value, ok := os.LookupEnv(passwordEnvVar); ok && value != "" {
		c.Repository.Password = value
	}
	if c.Repository.TimeoutSeconds <= 0 {
		c.Repository.TimeoutSeconds = defaultTimeoutSeconds
	}
	c.Repository.RootPath = strings.TrimRight(strings.TrimSpace(c.Repository.RootPath), "/")
	if c.Repository.RootPath == "" {
		c.Repository.RootPath = defaultRootPath
	}
	c.Repository.Privilege = strings.TrimSpace(c.Repository.Privilege)
	if c.Repository.Privilege == "" {
		c.Repository.Privilege = defaultPrivilege
	}
}

func (c *Config) normalizeEndpoints() {
	fill := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	fill(&c.Endpoints.ComponentRules, defaultComponentRules)
	fill(&c.Endpoints.PolicyRules, defaultPolicyRules)
	fill(&c.Endpoints.StructureRules, defaultStructureRules)
	fill(&c.Endpoints.ListChildren, defaultListChildren)
	fill(&c.Endpoints.ListComponents, defaultListComponents)
	fill(&c.Endpoints.ListDesigns, defaultListDesigns)
	fill(&c.Endpoints.ScheduleJob, defaultScheduleJob)
}

func (c *Config) normalizeWizard() {
	if c.Wizard.PageSize <= 0 {
		c.Wizard.PageSize = defaultPageSize
	}
	if c.Wizard.MaxConcurrency <= 0 {
		c.Wizard.MaxConcurrency = defaultMaxConcurrency
	}
	if c.Wizard.BucketSize <= 0 {
		c.Wizard.BucketSize = defaultBucketSize
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
