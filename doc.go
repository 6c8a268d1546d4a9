// SPDX-License-Identifier: MIT

// Package picoship provides release-engineering utilities for the Pico
// SQLite desktop viewer.  It resolves semantic release versions, creates
// annotated git tags from per-version release-note files, stamps the
// distributable script with the resolved version, and records shipped
// releases in a history table you choose.
//
// A thin driver layer (currently SQLite and PostgreSQL) supplies SQL
// dialect differences for the history ledger.  A companion CLI lives
// under *cmd/picoship*; the core logic is here.
//
// # Install
//
//	go get github.com/bcomnes/picoship@latest
//
// # Quick start
//
//	import (
//	    "context"
//	    "database/sql"
//
//	    _ "github.com/mattn/go-sqlite3" // or pgx
//	    "github.com/bcomnes/picoship"
//	)
//
//	func main() {
//	    db, _ := sql.Open("sqlite3", "./releases.db")
//	    cfg := picoship.Config{
//	        Template: "picosqlite.py",
//	        OutDir:   "dist",
//	    }
//
//	    r, _ := picoship.NewReleaser(cfg, nil, db)
//	    r.Release(context.Background(), "v2.0.3")
//	}
//
// # Configuration
//
// Use Config to tweak behaviour:
//
//   - Driver       — history database driver ("sqlite3", "pg")
//   - ProjectName  — name of the stamped artifact (default "picosqlite")
//   - Template     — source file carrying the version sentinel
//   - RelNotesDir  — folder of per-version release-note files
//   - OutDir       — folder receiving stamped artifacts
//   - Sentinel     — placeholder line rewritten by the stamper
//   - HistoryTable — table that stores shipped releases (default "releasehistory")
//
// You can merge Config with your own JSON/YAML file or set it inline.
//
// # Release notes
//
// Release notes are authored by hand, one plain-text file per version:
//
//	RelNotes/v2.0.3.txt
//
// The file must exist before a tag referencing that version can be
// created; its contents become the tag's annotation verbatim.  The CLI's
// *notes* command scaffolds these files for you.
//
// # Programmatic API
//
//	NewReleaser(cfg, git, db)   → *Releaser
//	(*Releaser).Tag(ctx, v)     → Version, error
//	(*Releaser).Release(ctx, v) → Artifact, error
//	(*Releaser).CreateNotes(v)  → string, error
//	(*Releaser).History(ctx)    → []Record, error
//	(*Releaser).Latest(ctx)     → *Record, error
//
// All git and database operations are context-aware; cancel the context
// to abort long runs.
//
// # Exit codes
//
// The library returns errors; the CLI exits with non-zero status on any
// failure.  Missing release notes and malformed versions are reported
// with a "fatal:" prefix before anything touches git or the filesystem.
//
// # Versioning
//
// A semantic version string is exposed as:
//
//	var Version = "vX.Y.Z"
//
// Embed it in your own commands to surface picoship's build version.
//
// Generated documentation; update whenever public API or CLI flags change.
package picoship
