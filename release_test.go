package picoship

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// releaseConfig returns a Config with template and output folder under a
// temp dir.
func releaseConfig(t *testing.T) Config {
	t.Helper()
	cfg := writeTemplate(t, stampTemplate)
	cfg.Driver = "sqlite3"
	return cfg
}

// TestReleaseStampsAndRecords verifies a release stamps the artifact and
// records it in the ledger.
func TestReleaseStampsAndRecords(t *testing.T) {
	ctx := context.Background()
	db := openLedger(t, "release_records")

	r, err := NewReleaser(releaseConfig(t), &fakeGit{}, db)
	if err != nil {
		t.Fatalf("NewReleaser failed: %v", err)
	}

	art, err := r.Release(ctx, "v1.0.1")
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(art.Path); err != nil {
		t.Fatalf("expected artifact on disk: %v", err)
	}

	recs, err := r.History(ctx)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recorded release, got %d", len(recs))
	}
	if recs[0].Version != "v1.0.1" {
		t.Errorf("expected recorded version v1.0.1, got %s", recs[0].Version)
	}
	if recs[0].Md5 != art.Md5 {
		t.Errorf("recorded md5 %s differs from artifact md5 %s", recs[0].Md5, art.Md5)
	}

	latest, err := r.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.Version != "v1.0.1" {
		t.Fatalf("expected latest v1.0.1, got %+v", latest)
	}
}

// TestReleaseResolvesFromDescribe verifies the version falls back to git
// describe when omitted.
func TestReleaseResolvesFromDescribe(t *testing.T) {
	r, err := NewReleaser(releaseConfig(t), &fakeGit{describe: "v2.0.0"}, nil)
	if err != nil {
		t.Fatalf("NewReleaser failed: %v", err)
	}

	art, err := r.Release(context.Background(), "")
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if art.Version.Tag() != "v2.0.0" {
		t.Errorf("expected v2.0.0, got %s", art.Version.Tag())
	}
	data, err := os.ReadFile(art.Path)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if !strings.Contains(string(data), "__version__ = '2.0.0'") {
		t.Errorf("expected artifact stamped with 2.0.0, got:\n%s", data)
	}
}

// TestReleaseMalformedVersion verifies a malformed version fails before any
// output is written.
func TestReleaseMalformedVersion(t *testing.T) {
	cfg := releaseConfig(t)
	r, err := NewReleaser(cfg, &fakeGit{}, nil)
	if err != nil {
		t.Fatalf("NewReleaser failed: %v", err)
	}

	if _, err := r.Release(context.Background(), "v1.2"); err == nil {
		t.Fatal("expected error for malformed version, got none")
	}
	if _, err := os.Stat(filepath.Join(cfg.OutDir, "picosqlite")); !os.IsNotExist(err) {
		t.Errorf("expected no artifact to be written, stat err = %v", err)
	}
}

// TestReleaseWithoutLedger verifies releasing works with no database while
// history operations report the missing ledger.
func TestReleaseWithoutLedger(t *testing.T) {
	ctx := context.Background()
	r, err := NewReleaser(releaseConfig(t), &fakeGit{}, nil)
	if err != nil {
		t.Fatalf("NewReleaser failed: %v", err)
	}

	if _, err := r.Release(ctx, "v1.0.0"); err != nil {
		t.Fatalf("Release without ledger failed: %v", err)
	}
	if _, err := r.History(ctx); !errors.Is(err, ErrNoLedger) {
		t.Errorf("expected ErrNoLedger from History, got %v", err)
	}
	if _, err := r.Latest(ctx); !errors.Is(err, ErrNoLedger) {
		t.Errorf("expected ErrNoLedger from Latest, got %v", err)
	}
}

// TestReleaserTag verifies the Tag entry point parses, checks notes, and
// tags through the collaborator.
func TestReleaserTag(t *testing.T) {
	cfg := releaseConfig(t)
	cfg.RelNotesDir = filepath.Join(t.TempDir(), "RelNotes")
	if err := os.MkdirAll(cfg.RelNotesDir, 0755); err != nil {
		t.Fatalf("failed to create notes folder: %v", err)
	}
	notes := "tag message\n"
	if err := os.WriteFile(filepath.Join(cfg.RelNotesDir, "v3.0.0.txt"), []byte(notes), 0644); err != nil {
		t.Fatalf("failed to write notes: %v", err)
	}

	git := &fakeGit{}
	r, err := NewReleaser(cfg, git, nil)
	if err != nil {
		t.Fatalf("NewReleaser failed: %v", err)
	}

	if _, err := r.Tag(context.Background(), "bogus"); err == nil {
		t.Fatal("expected error for malformed tag version, got none")
	}
	if git.tagCalls != 0 {
		t.Fatalf("expected no tag calls after malformed version, got %d", git.tagCalls)
	}

	v, err := r.Tag(context.Background(), "3.0.0")
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if v.Tag() != "v3.0.0" || git.taggedName != "v3.0.0" || git.taggedMsg != notes {
		t.Errorf("unexpected tag: version %s, name %s, message %q", v.Tag(), git.taggedName, git.taggedMsg)
	}
}
