package sink

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/dbsmedya/dircrawl/internal/config"
	"github.com/dbsmedya/dircrawl/internal/crawler"
)

// schema holds the record tables. TEXT timestamps keep the DDL portable
// between sqlite3 and mysql; absent values are NULL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id       VARCHAR(36) NOT NULL PRIMARY KEY,
		started_at   TEXT,
		completed_at TEXT,
		directories  BIGINT,
		files        BIGINT,
		bytes        BIGINT,
		errors       BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS directories (
		run_id        VARCHAR(36) NOT NULL,
		dir_id        BIGINT NOT NULL,
		parent_id     BIGINT NOT NULL,
		depth         INT NOT NULL,
		created_at    TEXT,
		modified_at   TEXT,
		accessed_at   TEXT,
		name          TEXT NOT NULL,
		path          TEXT NOT NULL,
		canonical_key TEXT NOT NULL,
		PRIMARY KEY (run_id, dir_id)
	)`,
	`CREATE TABLE IF NOT EXISTS files (
		run_id      VARCHAR(36) NOT NULL,
		file_id     BIGINT NOT NULL,
		dir_id      BIGINT NOT NULL,
		created_at  TEXT,
		modified_at TEXT,
		accessed_at TEXT,
		size        BIGINT NOT NULL,
		fingerprint TEXT,
		name        TEXT NOT NULL,
		path        TEXT NOT NULL,
		PRIMARY KEY (run_id, file_id)
	)`,
	`CREATE TABLE IF NOT EXISTS run_errors (
		run_id      VARCHAR(36) NOT NULL,
		reported_at TEXT NOT NULL,
		kind        VARCHAR(64) NOT NULL,
		context     TEXT,
		message     TEXT
	)`,
}

// OpenDatabase opens the configured record database and verifies the
// connection. For sqlite3 the parent directory of the database file is
// created if missing.
func OpenDatabase(cfg *config.DatabaseConfig) (*sql.DB, error) {
	var dsn string
	switch cfg.Driver {
	case "sqlite3":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dsn = cfg.Path
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.TLS)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == "sqlite3" {
		// Single writer; WAL keeps readers unblocked during a run.
		for _, pragma := range []string{
			"PRAGMA busy_timeout=5000",
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
		} {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("set %s: %w", pragma, err)
			}
		}
	}

	return db, nil
}

// DBSink inserts crawl records into a relational database, keyed by run id
// so multiple runs can accumulate in the same store for later comparison.
type DBSink struct {
	db    *sql.DB
	runID string
}

// NewDBSink initializes the schema and registers the run. Failure is
// fatal to the caller: a run does not start without its destinations.
func NewDBSink(db *sql.DB, runID string) (*DBSink, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if runID == "" {
		return nil, fmt.Errorf("run id is empty")
	}

	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	if _, err := db.Exec(`INSERT INTO runs (run_id, started_at) VALUES (?, ?)`,
		runID, time.Now().Format(timeLayout)); err != nil {
		return nil, fmt.Errorf("register run: %w", err)
	}

	return &DBSink{db: db, runID: runID}, nil
}

// EmitDirectory inserts one directory row.
func (s *DBSink) EmitDirectory(node crawler.DirectoryNode) error {
	_, err := s.db.Exec(`INSERT INTO directories
		(run_id, dir_id, parent_id, depth, created_at, modified_at, accessed_at, name, path, canonical_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, node.ID, node.ParentID, node.Depth,
		nullableTime(node.CreatedAt, node.HasTimes),
		nullableTime(node.ModifiedAt, node.HasTimes),
		nullableTime(node.AccessedAt, node.HasTimes),
		node.Name(), node.Path, node.CanonicalKey)
	if err != nil {
		return fmt.Errorf("insert directory %d: %w", node.ID, err)
	}
	return nil
}

// EmitFile inserts one file row. An empty fingerprint is stored as NULL.
func (s *DBSink) EmitFile(node crawler.FileNode) error {
	var fingerprint any
	if node.Fingerprint != "" {
		fingerprint = node.Fingerprint
	}
	_, err := s.db.Exec(`INSERT INTO files
		(run_id, file_id, dir_id, created_at, modified_at, accessed_at, size, fingerprint, name, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, node.ID, node.OwnerDirectoryID,
		nullableTime(node.CreatedAt, node.HasTimes),
		nullableTime(node.ModifiedAt, node.HasTimes),
		nullableTime(node.AccessedAt, node.HasTimes),
		node.Size, fingerprint, node.Name(), node.Path)
	if err != nil {
		return fmt.Errorf("insert file %d: %w", node.ID, err)
	}
	return nil
}

// EmitError inserts one error row.
func (s *DBSink) EmitError(kind crawler.ErrorKind, context, message string) error {
	_, err := s.db.Exec(`INSERT INTO run_errors (run_id, reported_at, kind, context, message)
		VALUES (?, ?, ?, ?, ?)`,
		s.runID, time.Now().Format(timeLayout), string(kind), context, message)
	if err != nil {
		return fmt.Errorf("insert error record: %w", err)
	}
	return nil
}

// EmitSummary completes the run row with final counts.
func (s *DBSink) EmitSummary(stats crawler.Statistics) error {
	_, err := s.db.Exec(`UPDATE runs
		SET completed_at = ?, directories = ?, files = ?, bytes = ?, errors = ?
		WHERE run_id = ?`,
		stats.CompletedAt.Format(timeLayout),
		stats.DistinctDirectories, stats.DistinctFiles,
		stats.BytesProcessed, stats.TotalErrors(), s.runID)
	if err != nil {
		return fmt.Errorf("complete run row: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *DBSink) Close() error {
	return s.db.Close()
}

func nullableTime(t time.Time, present bool) any {
	if !present {
		return nil
	}
	return t.Format(timeLayout)
}
