package picoship

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Record is one row of the release-history ledger.
type Record struct {
	// Version is the canonical tag name, e.g. "v2.0.3".
	Version string

	// Artifact is the path of the stamped artifact.
	Artifact string

	// Md5 is the MD5 checksum of the artifact.
	Md5 string

	// ReleasedAt is when the release was recorded.
	ReleasedAt time.Time
}

// Client defines the interface for release-history clients.
type Client interface {
	HasHistoryTable(ctx context.Context) (bool, error)
	EnsureTable(ctx context.Context) error
	InsertRelease(ctx context.Context, rec Record) error
	LatestRelease(ctx context.Context) (*Record, error)
	ListReleases(ctx context.Context) ([]Record, error)
}

// NewClient creates a new Client based on the provided configuration and
// database connection.
func NewClient(cfg Config, db *sql.DB) (Client, error) {
	cfg = cfg.withDefaults()
	switch strings.ToLower(cfg.Driver) {
	case "pg":
		return newPostgresClient(cfg, db), nil
	case "sqlite3":
		return newSqlite3Client(cfg, db), nil
	default:
		return nil, fmt.Errorf("db driver '%s' not supported. Must be one of: sqlite3 or pg", cfg.Driver)
	}
}

// baseClient provides the common implementation. Dialect differences are
// supplied through function pointers set by the concrete clients.
type baseClient struct {
	cfg Config
	db  *sql.DB

	getColumnsSqlFn     func() string
	getCreateTableSqlFn func() []string
	getInsertSqlFn      func() string
	quotedTableFn       func() string
}

// HasHistoryTable checks for the existence of the history table by querying
// its columns.
func (c *baseClient) HasHistoryTable(ctx context.Context) (bool, error) {
	rows, err := c.db.QueryContext(ctx, c.getColumnsSqlFn())
	if err != nil {
		return false, err
	}
	defer rows.Close()

	// if there is at least one row then we assume the table exists.
	if rows.Next() {
		return true, nil
	}
	return false, rows.Err()
}

// EnsureTable creates the history table if it does not exist yet. Running it
// against an existing table is a no-op.
func (c *baseClient) EnsureTable(ctx context.Context) error {
	exists, err := c.HasHistoryTable(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	for _, q := range c.getCreateTableSqlFn() {
		if _, err := c.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// InsertRelease persists a release record. Values go through placeholders
// so artifact paths with quote characters survive intact.
func (c *baseClient) InsertRelease(ctx context.Context, rec Record) error {
	_, err := c.db.ExecContext(ctx, c.getInsertSqlFn(),
		rec.Version, rec.Artifact, rec.Md5, rec.ReleasedAt)
	return err
}

// LatestRelease returns the most recently recorded release, or nil when the
// ledger is empty.
func (c *baseClient) LatestRelease(ctx context.Context) (*Record, error) {
	query := fmt.Sprintf(`
      SELECT version, artifact, md5, released_at
      FROM %s
      ORDER BY released_at DESC, seq DESC
      LIMIT 1;`, c.quotedTableFn())
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	var rec Record
	if err := rows.Scan(&rec.Version, &rec.Artifact, &rec.Md5, &rec.ReleasedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListReleases returns all recorded releases in release order.
func (c *baseClient) ListReleases(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(`
      SELECT version, artifact, md5, released_at
      FROM %s
      ORDER BY released_at ASC, seq ASC;`, c.quotedTableFn())
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Version, &rec.Artifact, &rec.Md5, &rec.ReleasedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
