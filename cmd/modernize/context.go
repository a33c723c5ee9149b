package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"modernize/internal/composer"
	"modernize/internal/config"
	"modernize/internal/journal"
	"modernize/internal/logging"
	"modernize/internal/lookup"
	"modernize/internal/variant"
)

type commandContext struct {
	configFlag  *string
	baseURLFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, baseURLFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		baseURLFlag: baseURLFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.baseURLFlag != nil {
			if override := strings.TrimSpace(*c.baseURLFlag); override != "" {
				cfg.Repository.BaseURL = strings.TrimRight(override, "/")
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) newClient() (*lookup.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := lookup.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("repository client: %w", err)
	}
	return client, nil
}

// openJournal returns nil without error when the journal is disabled.
func (c *commandContext) openJournal() (*journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := journal.Open(cfg)
	if errors.Is(err, journal.ErrDisabled) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return store, nil
}

func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	store, err := c.openJournal()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("journal disabled; set paths.journal_path to record submissions")
	}
	defer store.Close()
	return fn(store)
}

// withSession builds a composer session for the flagged job type whose
// notices are printed to out.
func (c *commandContext) withSession(flags jobFlags, out io.Writer, fn func(*composer.Session) error) error {
	parsed, err := variant.ParseJobType(flags.jobType)
	if err != nil {
		return err
	}
	policy, err := variant.ForType(parsed)
	if err != nil {
		return err
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	client, err := c.newClient()
	if err != nil {
		return err
	}
	store, err := c.openJournal()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	opts := composer.OptionsFromConfig(cfg, policy)
	opts.Logger = logger
	opts.Reprocess = flags.reprocess
	opts.Notifier = newNoticePrinter(out)
	if store != nil {
		opts.Journal = store
	}
	session, err := composer.New(client, opts)
	if err != nil {
		return err
	}
	return fn(session)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
