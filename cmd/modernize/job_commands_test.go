package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"modernize/internal/services"
)

func TestJobCreateSchedulesJob(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "job", "create", "--type", "structure", "--name", "Site refresh",
		"--path", "/content/site/en", "--path", "/content/site/fr", "--page-handling", "restore", "--yes")
	if err != nil {
		t.Fatalf("job create: %v", err)
	}
	requireContains(t, out, "Scheduled job /var/aem-modernize/job-data/job")
	requireContains(t, out, "Items 1-2 of 2")

	jobs := env.repo.Scheduled()
	if len(jobs) != 1 {
		t.Fatalf("expected one scheduled job, got %d", len(jobs))
	}
	if jobs[0]["name"] != "Site refresh" || jobs[0]["type"] != "PAGE" {
		t.Fatalf("unexpected job %v", jobs[0])
	}
	rules, _ := jobs[0]["templateRules"].([]any)
	if len(rules) != 2 {
		t.Fatalf("expected two template rules, got %v", jobs[0]["templateRules"])
	}
}

func TestJobCreateChildrenJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "job", "create", "--name", "Children", "--children", "/content/site", "--direct", "--yes", "--json")
	if err != nil {
		t.Fatalf("job create: %v", err)
	}
	var decoded struct {
		Job       string `json:"job"`
		JournalID int64  `json:"journal_id"`
		Payload   struct {
			Paths []string `json:"paths"`
		} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if decoded.Job == "" || decoded.JournalID == 0 || len(decoded.Payload.Paths) != 2 {
		t.Fatalf("unexpected output %#v", decoded)
	}
}

func TestJobCreateAbortsWithoutConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "n\n", "job", "create", "--name", "Maybe", "--path", "/content/site/en")
	if err != nil {
		t.Fatalf("job create: %v", err)
	}
	requireContains(t, out, "Aborted")
	if len(env.repo.Scheduled()) != 0 {
		t.Fatal("aborted create must not schedule")
	}
}

func TestJobCreateValidationFailure(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "job", "create", "--path", "/content/site/en", "--yes")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	requireContains(t, out, "job name is required")
	if len(env.repo.Scheduled()) != 0 {
		t.Fatal("invalid job must not be scheduled")
	}
}

func TestJobCreateRequiresSelection(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "", "job", "create", "--name", "Empty", "--yes"); err == nil {
		t.Fatal("expected error without paths")
	}
}

func TestJobWizardSession(t *testing.T) {
	env := setupCLITestEnv(t)
	env.repo.Deny("/content/site/fr")

	script := strings.Join([]string{
		"add /content/site/en /content/site/fr",
		"add /content/site/en",
		"rules",
		"remove 1",
		"add /content/site/en",
		"submit",
		"set name Wizard job",
		"submit",
	}, "\n") + "\n"

	out, _, err := runCLI(t, env, script, "job", "wizard", "--type", "structure")
	if err != nil {
		t.Fatalf("job wizard: %v", err)
	}
	requireContains(t, out, "Permission denied")
	requireContains(t, out, "Duplicate")
	requireContains(t, out, "en-rule")
	requireContains(t, out, "job name is required")
	requireContains(t, out, "Scheduled job")

	jobs := env.repo.Scheduled()
	if len(jobs) != 1 || jobs[0]["name"] != "Wizard job" {
		t.Fatalf("unexpected scheduled jobs %v", jobs)
	}
	paths, _ := jobs[0]["paths"].([]any)
	if len(paths) != 1 || paths[0] != "/content/site/en" {
		t.Fatalf("unexpected paths %v", jobs[0]["paths"])
	}
}

func TestJobWizardQuitDiscards(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env, "add /content/site/en\nquit\n", "job", "wizard")
	if err != nil {
		t.Fatalf("job wizard: %v", err)
	}
	requireContains(t, out, "Discarding 1 selected item(s)")
	if len(env.repo.Scheduled()) != 0 {
		t.Fatal("quit must not schedule")
	}
}

func TestApplyOption(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env, "set page-handling copy\nset overwrite on\nset bogus 1\noptions\nquit\n", "job", "wizard")
	if err != nil {
		t.Fatalf("job wizard: %v", err)
	}
	requireContains(t, out, "page-handling: COPY")
	requireContains(t, out, "overwrite:     yes")
	requireContains(t, out, `unknown option "bogus"`)
}
