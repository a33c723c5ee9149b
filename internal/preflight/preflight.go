package preflight

import (
	"context"
	"path/filepath"
	"strings"

	"modernize/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The repository check is skipped when repo is nil.
func RunAll(ctx context.Context, cfg *config.Config, repo PermissionChecker) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	if journal := strings.TrimSpace(cfg.Paths.JournalPath); journal != "" {
		results = append(results, CheckDirectoryAccess("Journal directory", filepath.Dir(journal)))
	}

	if repo != nil {
		results = append(results, CheckRepository(ctx, repo, cfg.Repository.RootPath, cfg.Repository.Privilege))
	}

	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
