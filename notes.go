package picoship

import (
	"fmt"
	"os"
	"path/filepath"
)

// notesSkeleton is the template content written by CreateNotes.
const notesSkeleton = "Pico SQLite %s\n\n- Write your release notes here\n"

// NotesPath returns the release-note path for v under dir,
// e.g. "RelNotes/v2.0.3.txt".
func NotesPath(dir string, v ReleaseVersion) string {
	return filepath.Join(dir, v.Tag()+".txt")
}

// ReadNotes loads the release notes for v. The file must exist before a tag
// referencing v may be created; tooling never writes to it.
func ReadNotes(dir string, v ReleaseVersion) (string, error) {
	path := NotesPath(dir, v)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("missing release notes file %s", path)
		}
		return "", fmt.Errorf("failed to read release notes %s: %w", path, err)
	}
	return string(data), nil
}

// CreateNotes scaffolds a release-note file for v and returns its path.
// Release notes are authored by hand, so an existing file is reported as an
// error rather than overwritten.
func CreateNotes(dir string, v ReleaseVersion) (string, error) {
	path := NotesPath(dir, v)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("release notes %s already exist", path)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create notes folder %s: %w", dir, err)
	}
	content := fmt.Sprintf(notesSkeleton, v.Tag())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to create release notes %s: %w", path, err)
	}
	return path, nil
}
