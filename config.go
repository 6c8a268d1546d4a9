package picoship

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds settings for the release pipeline.
type Config struct {
	// Driver is the history database driver, e.g. "sqlite3" or "pg".
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`

	// ProjectName names the stamped artifact.
	ProjectName string `json:"project,omitempty" yaml:"project,omitempty"`

	// Template is the source file carrying the version sentinel.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// RelNotesDir is the folder holding per-version release-note files.
	RelNotesDir string `json:"relnotes_dir,omitempty" yaml:"relnotes_dir,omitempty"`

	// OutDir is the folder receiving stamped artifacts.
	OutDir string `json:"out_dir,omitempty" yaml:"out_dir,omitempty"`

	// Sentinel is the placeholder line the stamper rewrites.
	Sentinel string `json:"sentinel,omitempty" yaml:"sentinel,omitempty"`

	// RepoDir is the git working directory.
	RepoDir string `json:"repo_dir,omitempty" yaml:"repo_dir,omitempty"`

	// HistoryTable is the name of the release-history table.
	HistoryTable string `json:"history_table,omitempty" yaml:"history_table,omitempty"`
}

// DefaultConfig provides default values for configuration.
var DefaultConfig = Config{
	Driver:       "sqlite3",
	ProjectName:  "picosqlite",
	Template:     "picosqlite.py",
	RelNotesDir:  "RelNotes",
	OutDir:       "dist",
	Sentinel:     "__version__ = 'git'",
	RepoDir:      ".",
	HistoryTable: "releasehistory",
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	if c.Driver == "" {
		c.Driver = DefaultConfig.Driver
	}
	if c.ProjectName == "" {
		c.ProjectName = DefaultConfig.ProjectName
	}
	if c.Template == "" {
		c.Template = DefaultConfig.Template
	}
	if c.RelNotesDir == "" {
		c.RelNotesDir = DefaultConfig.RelNotesDir
	}
	if c.OutDir == "" {
		c.OutDir = DefaultConfig.OutDir
	}
	if c.Sentinel == "" {
		c.Sentinel = DefaultConfig.Sentinel
	}
	if c.RepoDir == "" {
		c.RepoDir = DefaultConfig.RepoDir
	}
	if c.HistoryTable == "" {
		c.HistoryTable = DefaultConfig.HistoryTable
	}
	return c
}

// LoadConfig reads a configuration file into cfg. The format is chosen by
// extension: .yaml/.yml files are parsed as YAML, everything else as JSON.
func LoadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return nil
}
