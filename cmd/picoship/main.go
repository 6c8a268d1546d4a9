// Package main implements the release CLI for Pico SQLite.
// It resolves release versions, creates annotated tags from release-note
// files, stamps the distributable artifact, and records shipped releases in
// a history database (SQLite by default, PostgreSQL via -driver pg).
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/bcomnes/picoship"
)

var versionString = picoship.Version

// usage prints the help text.
func usage() {
	header := `Usage:
  picoship [options] [command] [arguments]

Commands:
  tag <version>       Create an annotated release tag whose message is the matching RelNotes file.
  release [version]   Stamp a release artifact, resolving the version from git describe when omitted.
  notes <version>     Scaffold an empty release-note file for the version.
  history             List recorded releases and annotate the most recent one.
  latest              Print the most recently recorded release version.

Options:`
	fmt.Fprintln(os.Stderr, header)
	flag.PrintDefaults()
}

func main() {
	// Define global flags.
	connStr := flag.String("conn", "", "History database URL (a file path for sqlite3, a postgres:// URL for pg). Can also be set via PICOSHIP_DB env var. Empty disables history recording.")
	configPath := flag.String("config", "", "Path to JSON or YAML configuration file (optional)")
	driver := flag.String("driver", "", "History database driver (\"sqlite3\" or \"pg\")")
	project := flag.String("project", "", "Name of the stamped artifact (default \"picosqlite\")")
	template := flag.String("template", "", "Template source file carrying the version sentinel (default \"picosqlite.py\")")
	relNotesDir := flag.String("relnotes-dir", "", "Folder holding per-version release-note files (default \"RelNotes\")")
	outDir := flag.String("out-dir", "", "Output folder for stamped artifacts (default \"dist\")")
	repoDir := flag.String("repo", "", "Git working directory (default \".\")")
	historyTable := flag.String("history-table", "", "Name of the release-history table (default \"releasehistory\")")
	helpFlag := flag.Bool("help", false, "Show help message")
	versionFlag := flag.Bool("version", false, "Show version")

	flag.Usage = usage
	flag.Parse()

	// Safeguard: check for any flag-like arguments after positional arguments.
	for _, arg := range flag.Args() {
		if strings.HasPrefix(arg, "-") {
			fmt.Fprintln(os.Stderr, "Error: Flags must be specified before the command. Please reorder your arguments.")
			usage()
			os.Exit(1)
		}
	}

	// Process global flags.
	if *helpFlag {
		usage()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Println("picoship version:", versionString)
		os.Exit(0)
	}

	// Load configuration from file if provided. Explicit flags overlay the
	// file, which overlays the library defaults.
	var cliConfig picoship.Config
	if *configPath != "" {
		if err := picoship.LoadConfig(*configPath, &cliConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config file: %v\n", err)
			os.Exit(1)
		}
	}
	if *driver != "" {
		cliConfig.Driver = *driver
	}
	if *project != "" {
		cliConfig.ProjectName = *project
	}
	if *template != "" {
		cliConfig.Template = *template
	}
	if *relNotesDir != "" {
		cliConfig.RelNotesDir = *relNotesDir
	}
	if *outDir != "" {
		cliConfig.OutDir = *outDir
	}
	if *repoDir != "" {
		cliConfig.RepoDir = *repoDir
	}
	if *historyTable != "" {
		cliConfig.HistoryTable = *historyTable
	}

	// Process positional arguments.
	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no command provided.")
		usage()
		os.Exit(1)
	}
	command := args[0]

	switch command {
	case "tag":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Error: tag requires exactly one version argument.")
			usage()
			os.Exit(1)
		}
		withReleaser(cliConfig, *connStr, false, func(r *picoship.Releaser, ctx context.Context) {
			v, err := r.Tag(ctx, args[1])
			if err != nil {
				fatal(err)
			}
			fmt.Printf("[%s] Tagged %s from %s\n", time.Now().Format(time.Kitchen), v.Tag(), r.NotesPath(v))
		})
	case "release":
		if len(args) > 2 {
			fmt.Fprintln(os.Stderr, "Error: release takes at most one version argument.")
			usage()
			os.Exit(1)
		}
		version := ""
		if len(args) == 2 {
			version = args[1]
		}
		withReleaser(cliConfig, *connStr, false, func(r *picoship.Releaser, ctx context.Context) {
			fmt.Printf("[%s] Stamping release artifact...\n", time.Now().Format(time.Kitchen))
			art, err := r.Release(ctx, version)
			if err != nil {
				fatal(err)
			}
			fmt.Printf("[%s] Released %s: %s (md5 %s)\n", time.Now().Format(time.Kitchen), art.Version.Tag(), art.Path, art.Md5)
		})
	case "notes":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Error: notes requires exactly one version argument.")
			usage()
			os.Exit(1)
		}
		r, err := picoship.NewReleaser(cliConfig, nil, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing picoship: %v\n", err)
			os.Exit(1)
		}
		path, err := r.CreateNotes(args[1])
		if err != nil {
			fatal(err)
		}
		fmt.Printf("[%s] Created %s\n", time.Now().Format(time.Kitchen), path)
	case "history":
		withReleaser(cliConfig, *connStr, true, func(r *picoship.Releaser, ctx context.Context) {
			recs, err := r.History(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading release history: %v\n", err)
				os.Exit(1)
			}
			if len(recs) == 0 {
				fmt.Println("No releases recorded.")
				return
			}
			fmt.Println("Recorded releases:")
			for i, rec := range recs {
				annot := ""
				if i == len(recs)-1 {
					annot = " <== latest"
				}
				fmt.Printf("%s  %s  %s%s\n", rec.ReleasedAt.Format("2006-01-02 15:04:05"), rec.Version, rec.Artifact, annot)
			}
		})
	case "latest":
		withReleaser(cliConfig, *connStr, true, func(r *picoship.Releaser, ctx context.Context) {
			rec, err := r.Latest(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading release history: %v\n", err)
				os.Exit(1)
			}
			if rec == nil {
				fmt.Println("No releases recorded.")
				return
			}
			fmt.Println(rec.Version)
		})
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

// fatal reports a failed precondition or propagated tool failure and exits.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
	os.Exit(1)
}

// withReleaser builds a Releaser, opening the history database when a
// connection is configured, and runs f with a timeout context. needDB marks
// commands that cannot run without the ledger.
func withReleaser(cliConfig picoship.Config, connStr string, needDB bool, f func(r *picoship.Releaser, ctx context.Context)) {
	if connStr == "" {
		connStr = os.Getenv("PICOSHIP_DB")
	}
	var db *sql.DB
	if connStr != "" {
		var err error
		db, err = sql.Open(sqlDriverName(cliConfig.Driver), connStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
	} else if needDB {
		fmt.Fprintln(os.Stderr, "Error: connection URL must be provided via -conn flag or PICOSHIP_DB environment variable")
		usage()
		os.Exit(1)
	}

	r, err := picoship.NewReleaser(cliConfig, nil, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing picoship: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	f(r, ctx)
}

// sqlDriverName maps the config driver name to the registered database/sql
// driver name.
func sqlDriverName(driver string) string {
	switch strings.ToLower(driver) {
	case "pg":
		return "pgx"
	case "":
		return "sqlite3"
	default:
		return driver
	}
}
