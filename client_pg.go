package picoship

import (
	"database/sql"
	"fmt"
	"strings"
)

// PostgresClient implements the Client interface for PostgreSQL.
type PostgresClient struct {
	baseClient
}

// newPostgresClient creates a new PostgresClient.
func newPostgresClient(cfg Config, db *sql.DB) *PostgresClient {
	pgClient := &PostgresClient{
		baseClient: baseClient{
			cfg: cfg,
			db:  db,
		},
	}
	// Set function pointers.
	pgClient.getColumnsSqlFn = pgClient.getColumnsSql
	pgClient.getCreateTableSqlFn = pgClient.getCreateTableSql
	pgClient.getInsertSqlFn = pgClient.getInsertSql
	pgClient.quotedTableFn = pgClient.quotedTable
	return pgClient
}

// quotedTable returns the history table name with each part quoted.
func (c *PostgresClient) quotedTable() string {
	parts := strings.Split(c.cfg.HistoryTable, ".")
	for i, part := range parts {
		parts[i] = fmt.Sprintf(`"%s"`, part)
	}
	return strings.Join(parts, ".")
}

// getColumnsSql returns SQL to list columns for the history table.
func (c *PostgresClient) getColumnsSql() string {
	var schema, table string
	if strings.Contains(c.cfg.HistoryTable, ".") {
		parts := strings.Split(c.cfg.HistoryTable, ".")
		schema = parts[0]
		table = parts[1]
	} else {
		schema = "public"
		table = c.cfg.HistoryTable
	}
	return fmt.Sprintf(`SELECT column_name FROM information_schema.columns WHERE table_schema = '%s' AND table_name = '%s';`, schema, table)
}

func (c *PostgresClient) getCreateTableSql() []string {
	var queries []string
	// If HistoryTable contains a dot, create the schema first.
	if strings.Contains(c.cfg.HistoryTable, ".") {
		parts := strings.Split(c.cfg.HistoryTable, ".")
		queries = append(queries, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s";`, parts[0]))
	}
	// seq breaks ordering ties between records sharing a released_at.
	queries = append(queries, fmt.Sprintf(`
      CREATE TABLE %s (
        seq BIGSERIAL PRIMARY KEY,
        version TEXT NOT NULL UNIQUE,
        artifact TEXT,
        md5 TEXT,
        released_at TIMESTAMP WITH TIME ZONE
      );`, c.quotedTable()))
	return queries
}

func (c *PostgresClient) getInsertSql() string {
	return fmt.Sprintf(`
      INSERT INTO %s (version, artifact, md5, released_at)
      VALUES ($1, $2, $3, $4);`, c.quotedTable())
}
