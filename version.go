package picoship

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is the picoship release version, bumped with the goversion tool.
var Version = "v1.0.0"

// ReleaseVersion is a release version of the shape vMAJOR.MINOR.PATCH with
// strictly numeric components.
type ReleaseVersion struct {
	Major int
	Minor int
	Patch int
}

var versionPattern = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)$`)

// ParseVersion parses s into a ReleaseVersion. A missing "v" prefix is
// tolerated and normalized; any other deviation from vMAJOR.MINOR.PATCH
// is rejected.
func ParseVersion(s string) (ReleaseVersion, error) {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return ReleaseVersion{}, fmt.Errorf("malformed version %q: expected vMAJOR.MINOR.PATCH", s)
	}
	var v ReleaseVersion
	var err error
	if v.Major, err = strconv.Atoi(m[1]); err != nil {
		return ReleaseVersion{}, fmt.Errorf("malformed version %q: %w", s, err)
	}
	if v.Minor, err = strconv.Atoi(m[2]); err != nil {
		return ReleaseVersion{}, fmt.Errorf("malformed version %q: %w", s, err)
	}
	if v.Patch, err = strconv.Atoi(m[3]); err != nil {
		return ReleaseVersion{}, fmt.Errorf("malformed version %q: %w", s, err)
	}
	return v, nil
}

// Tag returns the canonical tag name, e.g. "v2.0.3".
func (v ReleaseVersion) Tag() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Short returns the version without the "v" prefix, e.g. "2.0.3".
// The stamped artifact carries this form.
func (v ReleaseVersion) Short() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v ReleaseVersion) String() string {
	return v.Tag()
}

// Resolve returns the version for a release: the explicit argument when
// given, otherwise the nearest tag reported by git describe. Either source
// is validated before any tagging or stamping happens.
func Resolve(ctx context.Context, explicit string, git Git) (ReleaseVersion, error) {
	if explicit != "" {
		return ParseVersion(explicit)
	}
	desc, err := git.Describe(ctx)
	if err != nil {
		return ReleaseVersion{}, err
	}
	v, err := ParseVersion(desc)
	if err != nil {
		// describe reports "vX.Y.Z-N-ghash" when the revision sits
		// between tags; releasing such a revision is refused.
		return ReleaseVersion{}, fmt.Errorf("current revision is not a release tag: %w", err)
	}
	return v, nil
}
