package picoship

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Artifact describes a stamped release artifact.
type Artifact struct {
	// Version stamped into the artifact.
	Version ReleaseVersion

	// Path of the written artifact.
	Path string

	// Md5 is the MD5 checksum of the artifact's contents.
	Md5 string
}

// StampPackage copies the template into the output directory with the first
// sentinel line rewritten to carry v; every other byte is left unchanged.
// The output directory is created if absent, the artifact is named after the
// project with the executable bit set, and a prior artifact of the same name
// is overwritten. A template without the sentinel line is an error and
// nothing is written.
func StampPackage(cfg Config, v ReleaseVersion) (Artifact, error) {
	cfg = cfg.withDefaults()

	data, err := os.ReadFile(cfg.Template)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read template %s: %w", cfg.Template, err)
	}

	stamped, err := replaceSentinel(string(data), cfg.Sentinel, v)
	if err != nil {
		return Artifact{}, fmt.Errorf("template %s: %w", cfg.Template, err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return Artifact{}, fmt.Errorf("failed to create output folder %s: %w", cfg.OutDir, err)
	}
	outPath := filepath.Join(cfg.OutDir, cfg.ProjectName)
	if err := os.WriteFile(outPath, []byte(stamped), 0755); err != nil {
		return Artifact{}, fmt.Errorf("failed to write artifact %s: %w", outPath, err)
	}
	// WriteFile leaves the mode of a pre-existing file alone.
	if err := os.Chmod(outPath, 0755); err != nil {
		return Artifact{}, fmt.Errorf("failed to mark artifact executable: %w", err)
	}

	return Artifact{
		Version: v,
		Path:    outPath,
		Md5:     checksum(stamped),
	}, nil
}

// replaceSentinel rewrites the first line equal to sentinel so it carries
// the short (un-prefixed) version, preserving the line's original ending.
func replaceSentinel(content, sentinel string, v ReleaseVersion) (string, error) {
	attr, _, ok := strings.Cut(sentinel, " = ")
	if !ok {
		return "", fmt.Errorf("sentinel %q is not of the form <attribute> = '<value>'", sentinel)
	}
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed != sentinel {
			continue
		}
		ending := line[len(trimmed):]
		lines[i] = fmt.Sprintf("%s = '%s'%s", attr, v.Short(), ending)
		return strings.Join(lines, ""), nil
	}
	return "", fmt.Errorf("no sentinel line %q found", sentinel)
}

// checksum computes the MD5 checksum of the content.
func checksum(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}
