// Package store persists decoded pages into a SQLite database: a page
// table holding the serialised document model plus its plain-text
// view, an FTS5 virtual table indexing that text, and an insert trigger
// keeping the two in sync (spec.md §6.3). Grounded on the pack's use of
// modernc.org/sqlite (pure-Go, cgo-free) paired with database/sql, e.g.
// the playbymail-ottomap manifest.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/simmsb/digibib-extract/document"
)

// Store wraps a database/sql handle opened against the modernc.org/sqlite
// driver.
type Store struct {
	db *sql.DB
}

// Open creates (or reuses) the SQLite file at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; avoid pool contention

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// PutPage inserts or replaces the row for page id with doc's serialised
// form and plain-text view. The page_ai trigger keeps page_fts in sync
// on insert; a replace is modeled as delete+insert so the trigger fires.
func (s *Store) PutPage(ctx context.Context, id int, doc document.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM page WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete existing page %d: %w", id, err)
	}

	content := Encode(doc)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO page (id, content, plain) VALUES (?, ?, ?)`,
		id, content, doc.PlainText,
	); err != nil {
		return fmt.Errorf("store: insert page %d: %w", id, err)
	}

	return tx.Commit()
}

// GetPage reads back and decodes page id's document model.
func (s *Store) GetPage(ctx context.Context, id int) (document.Document, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx, `SELECT content FROM page WHERE id = ?`, id).Scan(&content)
	if err != nil {
		return document.Document{}, fmt.Errorf("store: get page %d: %w", id, err)
	}
	return Decode(content)
}

// Search runs a full-text query against page_fts and returns matching
// page ids ranked by relevance.
func (s *Store) Search(ctx context.Context, query string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rowid FROM page_fts WHERE page_fts MATCH ? ORDER BY rank`, query)
	if err != nil {
		return nil, fmt.Errorf("store: search %q: %w", query, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
