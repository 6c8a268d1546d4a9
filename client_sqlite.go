package picoship

import (
	"database/sql"
	"fmt"
)

// Sqlite3Client implements the Client interface for SQLite.
type Sqlite3Client struct {
	baseClient
}

// newSqlite3Client creates a new Sqlite3Client.
func newSqlite3Client(cfg Config, db *sql.DB) *Sqlite3Client {
	sqliteClient := &Sqlite3Client{
		baseClient: baseClient{
			cfg: cfg,
			db:  db,
		},
	}
	// Set function pointers.
	sqliteClient.getColumnsSqlFn = sqliteClient.getColumnsSql
	sqliteClient.getCreateTableSqlFn = sqliteClient.getCreateTableSql
	sqliteClient.getInsertSqlFn = sqliteClient.getInsertSql
	sqliteClient.quotedTableFn = sqliteClient.quotedTable
	return sqliteClient
}

func (c *Sqlite3Client) quotedTable() string {
	return c.cfg.HistoryTable
}

func (c *Sqlite3Client) getColumnsSql() string {
	return fmt.Sprintf(`
      SELECT name AS column_name
      FROM pragma_table_info('%s');
    `, c.cfg.HistoryTable)
}

func (c *Sqlite3Client) getCreateTableSql() []string {
	// seq breaks ordering ties between records sharing a released_at.
	return []string{fmt.Sprintf(`
      CREATE TABLE %s (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        version TEXT NOT NULL UNIQUE,
        artifact TEXT,
        md5 TEXT,
        released_at TIMESTAMP
      );`, c.quotedTable())}
}

func (c *Sqlite3Client) getInsertSql() string {
	return fmt.Sprintf(`
      INSERT INTO %s (version, artifact, md5, released_at)
      VALUES (?, ?, ?, ?);`, c.quotedTable())
}
