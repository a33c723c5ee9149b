package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modernize/internal/config"
	"modernize/internal/content"
	"modernize/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	repo       *testsupport.Repository
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	repo := testsupport.NewRepository(t)
	cfg := testsupport.NewConfig(t, testsupport.WithRepository(repo))
	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("MODERNIZE_PASSWORD", "")

	configPath := filepath.Join(homeDir, ".config", "modernize", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	for path, rule := range map[string]string{"/content/site/en": "en-rule", "/content/site/fr": "fr-rule"} {
		repo.AddPage(path, testsupport.Page{Title: "Page " + filepath.Base(path)})
		repo.SetRules(path+"/jcr:content", content.Rule{ID: rule, Title: "Rule " + rule})
	}
	repo.AddPage("/content/site", testsupport.Page{Title: "Site"})

	return &cliTestEnv{cfg: cfg, repo: repo, configPath: configPath}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	body := fmt.Sprintf(
		"[repository]\nbase_url = %q\nusername = %q\npassword = %q\ntimeout_seconds = %d\n\n[wizard]\npage_size = %d\nmax_concurrency = %d\n\n[paths]\nlog_dir = %q\njournal_path = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Repository.BaseURL,
		cfg.Repository.Username,
		cfg.Repository.Password,
		cfg.Repository.TimeoutSeconds,
		cfg.Wizard.PageSize,
		cfg.Wizard.MaxConcurrency,
		cfg.Paths.LogDir,
		cfg.Paths.JournalPath,
	)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
