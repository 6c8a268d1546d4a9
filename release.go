package picoship

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNoLedger is returned by history operations when no database connection
// was configured.
var ErrNoLedger = errors.New("no release-history database configured")

// Releaser is the main orchestrator for the release pipeline.
//
// It resolves release versions, creates annotated tags from release-note
// files, stamps the distributable artifact, and records shipped releases in
// the history ledger when one is configured.
type Releaser struct {
	cfg    Config
	git    Git
	client Client
}

// NewReleaser creates a new Releaser with the provided configuration.
// A nil git falls back to invoking the git binary in cfg.RepoDir. A nil db
// disables the history ledger; the core tag and release operations never
// depend on it.
func NewReleaser(cfg Config, git Git, db *sql.DB) (*Releaser, error) {
	cfg = cfg.withDefaults()
	if git == nil {
		git = &GitCLI{Dir: cfg.RepoDir}
	}
	var client Client
	if db != nil {
		var err error
		client, err = NewClient(cfg, db)
		if err != nil {
			return nil, err
		}
	}
	return &Releaser{
		cfg:    cfg,
		git:    git,
		client: client,
	}, nil
}

// Resolve returns the release version: the explicit argument when given,
// otherwise the nearest tag from git describe, validated either way.
func (r *Releaser) Resolve(ctx context.Context, explicit string) (ReleaseVersion, error) {
	return Resolve(ctx, explicit, r.git)
}

// Tag creates the annotated release tag for the given version, using the
// matching release-note file as the tag message. The version argument is
// required and must be well-formed.
func (r *Releaser) Tag(ctx context.Context, version string) (ReleaseVersion, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return ReleaseVersion{}, err
	}
	if err := TagRelease(ctx, r.cfg, r.git, v); err != nil {
		return ReleaseVersion{}, err
	}
	return v, nil
}

// Release resolves the version, stamps the release artifact, and records the
// release in the history ledger when one is configured.
func (r *Releaser) Release(ctx context.Context, version string) (Artifact, error) {
	v, err := r.Resolve(ctx, version)
	if err != nil {
		return Artifact{}, err
	}
	art, err := StampPackage(r.cfg, v)
	if err != nil {
		return Artifact{}, err
	}
	if r.client != nil {
		if err := r.client.EnsureTable(ctx); err != nil {
			return art, err
		}
		rec := Record{
			Version:    art.Version.Tag(),
			Artifact:   art.Path,
			Md5:        art.Md5,
			ReleasedAt: time.Now(),
		}
		if err := r.client.InsertRelease(ctx, rec); err != nil {
			return art, err
		}
	}
	return art, nil
}

// CreateNotes scaffolds the release-note file for the given version and
// returns its path.
func (r *Releaser) CreateNotes(version string) (string, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return "", err
	}
	return CreateNotes(r.cfg.RelNotesDir, v)
}

// NotesPath returns the release-note path for the given version.
func (r *Releaser) NotesPath(v ReleaseVersion) string {
	return NotesPath(r.cfg.RelNotesDir, v)
}

// History returns all recorded releases in release order.
func (r *Releaser) History(ctx context.Context) ([]Record, error) {
	if r.client == nil {
		return nil, ErrNoLedger
	}
	if err := r.client.EnsureTable(ctx); err != nil {
		return nil, err
	}
	return r.client.ListReleases(ctx)
}

// Latest returns the most recently recorded release, or nil when the ledger
// is empty.
func (r *Releaser) Latest(ctx context.Context) (*Record, error) {
	if r.client == nil {
		return nil, ErrNoLedger
	}
	if err := r.client.EnsureTable(ctx); err != nil {
		return nil, err
	}
	return r.client.LatestRelease(ctx)
}
