package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"modernize/internal/config"
	"modernize/internal/journal"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.OpenPath(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	entry, err := store.Record(ctx, journal.Entry{
		RequestID: "req-1",
		JobRef:    "/var/aem-modernize/job-data/job",
		Name:      "Convert site",
		Type:      "PAGE",
		PathCount: 2,
		RuleCount: 3,
		Message:   "Successfully scheduled conversion job.",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
	if entry.Status != journal.StatusScheduled {
		t.Fatalf("expected default status scheduled, got %q", entry.Status)
	}

	fetched, err := store.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched == nil || fetched.Name != "Convert site" || fetched.RuleCount != 3 || fetched.JobRef != entry.JobRef {
		t.Fatalf("unexpected entry %#v", fetched)
	}
	if !fetched.SubmittedAt.Equal(entry.SubmittedAt) {
		t.Fatalf("timestamp mismatch: %v vs %v", fetched.SubmittedAt, entry.SubmittedAt)
	}

	missing, err := store.Get(ctx, entry.ID+100)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing entry, got %#v, %v", missing, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		if _, err := store.Record(ctx, journal.Entry{RequestID: name, Name: name, Type: "COMPONENT", SubmittedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "third" || entries[1].Name != "second" {
		t.Fatalf("unexpected entries %#v", entries)
	}
	all, err := store.List(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all entries, got %d, %v", len(all), err)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if _, err := store.Record(context.Background(), journal.Entry{RequestID: "r", Name: "n", Type: "FULL", Status: journal.StatusRejected}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	_ = store.Close()

	reopened, err := journal.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.List(context.Background(), 0)
	if err != nil || len(entries) != 1 || entries[0].Status != journal.StatusRejected {
		t.Fatalf("unexpected entries after reopen: %#v, %v", entries, err)
	}
}

func TestOpenDisabledWithoutPath(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.JournalPath = ""
	if _, err := journal.Open(&cfg); !errors.Is(err, journal.ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
