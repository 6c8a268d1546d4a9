package picoship

import "context"

// TagRelease verifies the release notes for v are readable and creates the
// annotated tag named v.Tag() with the note file's contents as its message.
// The notes check happens before anything touches version control, so a
// missing file aborts with no tag created. The operation is not idempotent:
// re-tagging an existing version fails with git's own error, propagated
// unmodified.
func TagRelease(ctx context.Context, cfg Config, git Git, v ReleaseVersion) error {
	notes, err := ReadNotes(cfg.RelNotesDir, v)
	if err != nil {
		return err
	}
	return git.CreateTag(ctx, v.Tag(), notes)
}
