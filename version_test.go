package picoship

import (
	"context"
	"errors"
	"testing"
)

// fakeGit substitutes the git collaborator in tests.
type fakeGit struct {
	describe    string
	describeErr error
	tagErr      error

	tagCalls   int
	taggedName string
	taggedMsg  string
}

func (g *fakeGit) Describe(ctx context.Context) (string, error) {
	if g.describeErr != nil {
		return "", g.describeErr
	}
	return g.describe, nil
}

func (g *fakeGit) CreateTag(ctx context.Context, name, message string) error {
	g.tagCalls++
	g.taggedName = name
	g.taggedMsg = message
	return g.tagErr
}

// TestParseVersion verifies well-formed versions parse into their numeric
// components and render in both tag and short form.
func TestParseVersion(t *testing.T) {
	cases := []struct {
		in    string
		major int
		minor int
		patch int
		tag   string
		short string
	}{
		{"v2.0.3", 2, 0, 3, "v2.0.3", "2.0.3"},
		{"2.0.3", 2, 0, 3, "v2.0.3", "2.0.3"},
		{"v0.0.0", 0, 0, 0, "v0.0.0", "0.0.0"},
		{" v10.21.3 ", 10, 21, 3, "v10.21.3", "10.21.3"},
	}
	for _, tc := range cases {
		v, err := ParseVersion(tc.in)
		if err != nil {
			t.Fatalf("ParseVersion(%q) failed: %v", tc.in, err)
		}
		if v.Major != tc.major || v.Minor != tc.minor || v.Patch != tc.patch {
			t.Errorf("ParseVersion(%q) = %d.%d.%d, want %d.%d.%d", tc.in, v.Major, v.Minor, v.Patch, tc.major, tc.minor, tc.patch)
		}
		if v.Tag() != tc.tag {
			t.Errorf("ParseVersion(%q).Tag() = %q, want %q", tc.in, v.Tag(), tc.tag)
		}
		if v.Short() != tc.short {
			t.Errorf("ParseVersion(%q).Short() = %q, want %q", tc.in, v.Short(), tc.short)
		}
	}
}

// TestParseVersionRejectsMalformed verifies strings deviating from
// vMAJOR.MINOR.PATCH are rejected.
func TestParseVersionRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"v1",
		"v1.2",
		"v1.2.3.4",
		"va.b.c",
		"v1.2.x",
		"v-1.2.3",
		"v1.2.3-rc1",
		"v1.2.3-4-gdeadbee",
		"version 1.2.3",
	}
	for _, in := range cases {
		if _, err := ParseVersion(in); err == nil {
			t.Errorf("ParseVersion(%q) succeeded, want error", in)
		}
	}
}

// TestResolveExplicit verifies an explicit argument wins and git is never
// consulted.
func TestResolveExplicit(t *testing.T) {
	git := &fakeGit{describeErr: errors.New("must not be called")}
	v, err := Resolve(context.Background(), "v1.4.2", git)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v.Tag() != "v1.4.2" {
		t.Errorf("expected v1.4.2, got %s", v.Tag())
	}
}

// TestResolveFromDescribe verifies the version falls back to git describe.
func TestResolveFromDescribe(t *testing.T) {
	git := &fakeGit{describe: "v3.1.4"}
	v, err := Resolve(context.Background(), "", git)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v.Tag() != "v3.1.4" {
		t.Errorf("expected v3.1.4, got %s", v.Tag())
	}
}

// TestResolveDescribeMalformed verifies a between-tags describe result is
// refused rather than used.
func TestResolveDescribeMalformed(t *testing.T) {
	git := &fakeGit{describe: "v3.1.4-5-g1a2b3c4"}
	if _, err := Resolve(context.Background(), "", git); err == nil {
		t.Fatal("expected error for between-tags describe output, got none")
	}
}

// TestResolveDescribeError verifies describe failures propagate.
func TestResolveDescribeError(t *testing.T) {
	git := &fakeGit{describeErr: errors.New("fatal: no names found")}
	if _, err := Resolve(context.Background(), "", git); err == nil {
		t.Fatal("expected describe error to propagate, got none")
	}
}
