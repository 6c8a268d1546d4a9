package picoship

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Git is the version-control collaborator. It is an interface so tests can
// substitute a fake; the real implementation shells out to the git binary.
type Git interface {
	// Describe reports the current revision as its nearest tag.
	Describe(ctx context.Context) (string, error)

	// CreateTag creates an annotated tag carrying message. Creating a tag
	// that already exists fails with git's own error.
	CreateTag(ctx context.Context, name, message string) error
}

// GitCLI implements Git by invoking the git binary in Dir.
type GitCLI struct {
	// Dir is the working directory for git commands. Empty means the
	// process working directory.
	Dir string
}

// Describe runs "git describe --tags" and returns the trimmed output.
func (g *GitCLI) Describe(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "describe", "--tags")
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	if err != nil {
		return "", gitError("git describe", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CreateTag runs "git tag -a <name> -m <message>".
func (g *GitCLI) CreateTag(ctx context.Context, name, message string) error {
	cmd := exec.CommandContext(ctx, "git", "tag", "-a", name, "-m", message)
	cmd.Dir = g.Dir
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("git tag %s: %v: %s", name, err, msg)
		}
		return fmt.Errorf("git tag %s: %w", name, err)
	}
	return nil
}

// gitError surfaces git's stderr alongside the exec error.
func gitError(op string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%s: %v: %s", op, err, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return fmt.Errorf("%s: %w", op, err)
}
