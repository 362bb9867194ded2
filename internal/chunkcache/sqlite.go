// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunkcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-intel/pkg/types"
)

// SQLite stores chunks in a SQLite database. The default DSN is a shared
// in-memory database, which lives exactly as long as the process.
type SQLite struct {
	db   *sql.DB
	size int
	ttl  time.Duration
	now  func() time.Time
}

// NewSQLite opens dsn and creates the schema. At most size papers are
// kept; the oldest are evicted first. A zero ttl disables expiry.
func NewSQLite(dsn string, size int, ttl time.Duration) (*SQLite, error) {
	if size <= 0 {
		size = 128
	}
	db, err := sql.Open("sqlite3", withForeignKeys(dsn))
	if err != nil {
		return nil, fmt.Errorf("opening chunk cache: %w", err)
	}
	// A shared in-memory database disappears with its last connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLite{db: db, size: size, ttl: ttl, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunk cache schema: %w", err)
	}
	return s, nil
}

func withForeignKeys(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			paper_id TEXT PRIMARY KEY,
			cached_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			paper_id TEXT NOT NULL REFERENCES papers(paper_id) ON DELETE CASCADE,
			chunk_index INTEGER NOT NULL,
			source_order INTEGER NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (paper_id, chunk_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_cached_at ON papers(cached_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get implements Cache. Expired entries are deleted and reported as misses.
func (s *SQLite) Get(ctx context.Context, id string) ([]types.Chunk, bool, error) {
	var cachedAt int64
	err := s.db.QueryRowContext(ctx, `SELECT cached_at FROM papers WHERE paper_id = ?`, id).Scan(&cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading chunk cache entry %s: %w", id, err)
	}

	if s.ttl > 0 && s.now().Sub(time.Unix(0, cachedAt)) > s.ttl {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE paper_id = ?`, id); err != nil {
			return nil, false, fmt.Errorf("expiring chunk cache entry %s: %w", id, err)
		}
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT chunk_index, source_order, text FROM chunks WHERE paper_id = ? ORDER BY chunk_index`, id)
	if err != nil {
		return nil, false, fmt.Errorf("reading chunks for %s: %w", id, err)
	}
	defer rows.Close()

	chunks := []types.Chunk{}
	for rows.Next() {
		var c types.Chunk
		if err := rows.Scan(&c.Index, &c.SourceOrder, &c.Text); err != nil {
			return nil, false, fmt.Errorf("scanning chunk for %s: %w", id, err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating chunks for %s: %w", id, err)
	}
	return chunks, true, nil
}

// Put implements Cache. The paper becomes the newest entry and the oldest
// entries beyond the size bound are evicted in the same transaction.
func (s *SQLite) Put(ctx context.Context, id string, chunks []types.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers WHERE paper_id = ?`, id); err != nil {
		return fmt.Errorf("replacing chunk cache entry %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO papers (paper_id, cached_at) VALUES (?, ?)`, id, s.now().UnixNano()); err != nil {
		return fmt.Errorf("inserting chunk cache entry %s: %w", id, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (paper_id, chunk_index, source_order, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()
	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, id, c.Index, c.SourceOrder, c.Text); err != nil {
			return fmt.Errorf("inserting chunk %d of %s: %w", c.Index, id, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM papers WHERE paper_id NOT IN (
			SELECT paper_id FROM papers ORDER BY cached_at DESC, rowid DESC LIMIT ?
		)`, s.size); err != nil {
		return fmt.Errorf("evicting old chunk cache entries: %w", err)
	}

	return tx.Commit()
}

// Len implements Cache. It returns 0 if the count cannot be read.
func (s *SQLite) Len() int {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0
	}
	return n
}
