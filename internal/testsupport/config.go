package testsupport

import (
	"path/filepath"
	"testing"

	"modernize/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Repository.Password = "admin"
	cfgVal.Repository.TimeoutSeconds = 5
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.JournalPath = filepath.Join(base, "journal", "journal.db")
	cfgVal.Wizard.PageSize = 5
	cfgVal.Wizard.MaxConcurrency = 4

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRepository points the config at a fake repository.
func WithRepository(repo *Repository) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Repository.BaseURL = repo.URL()
	}
}

// WithPageSize overrides the wizard page size.
func WithPageSize(size int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Wizard.PageSize = size
	}
}

// WithoutJournal disables the submission journal.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.JournalPath = ""
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
