package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modernize/internal/lookup"
	"modernize/internal/services"
	"modernize/internal/testsupport"
)

type stubChecker struct {
	granted bool
	err     error
}

func (s stubChecker) CheckPermission(context.Context, string, string) (bool, error) {
	return s.granted, s.err
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckRepository(t *testing.T) {
	tests := []struct {
		name    string
		checker stubChecker
		passed  bool
		detail  string
	}{
		{"granted", stubChecker{granted: true}, true, "reachable (rep:write on /content)"},
		{"denied", stubChecker{}, false, "is not granted"},
		{"unreachable", stubChecker{err: fmt.Errorf("%w: connection refused", services.ErrLookup)}, false, "unreachable"},
		{"other", stubChecker{err: errors.New("boom")}, false, "check failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckRepository(context.Background(), tt.checker, "/content", "")
			if result.Passed != tt.passed || !strings.Contains(result.Detail, tt.detail) {
				t.Fatalf("unexpected result %#v", result)
			}
		})
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_AgainstRepository(t *testing.T) {
	repo := testsupport.NewRepository(t)
	cfg := testsupport.NewConfig(t, testsupport.WithRepository(repo))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	client, err := lookup.NewFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("lookup client: %v", err)
	}

	results := RunAll(context.Background(), cfg, client)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !Passed(results) {
		t.Fatalf("expected all checks to pass, got %#v", results)
	}

	repo.Deny(cfg.Repository.RootPath)
	results = RunAll(context.Background(), cfg, client)
	if Passed(results) {
		t.Fatal("expected repository check to fail when root is denied")
	}
}

func TestRunAll_WithoutJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutJournal())
	results := RunAll(context.Background(), cfg, nil)
	if len(results) != 1 || results[0].Name != "Log directory" {
		t.Fatalf("unexpected results %#v", results)
	}
}
