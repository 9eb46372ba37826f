package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/NASA-IMPACT/stac-admin/internal/model"

	_ "modernc.org/sqlite"
)

// ErrDraftNotFound is returned by Get for an unknown draft key.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is one locally saved record-in-progress. Collection drafts carry an
// empty CollectionID; item drafts are keyed under their owning collection.
type Draft struct {
	Kind         model.Kind
	CollectionID string
	RecordID     string
	EditMode     bool
	Body         model.Doc
	UpdatedAt    time.Time
}

// DraftStore persists drafts in a local sqlite database under the config dir.
// It survives closing the editor mid-edit; submitting a record deletes its
// draft.
type DraftStore struct {
	db *sql.DB
}

// DraftsPath returns the sqlite database location.
func DraftsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "drafts.sqlite"), nil
}

// OpenDrafts opens (creating if needed) the local draft database.
func OpenDrafts(ctx context.Context) (*DraftStore, error) {
	path, err := DraftsPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage.
	// WAL enables one writer + many readers; busy_timeout helps avoid
	// "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("drafts: apply pragma %q: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS drafts (
  kind          TEXT NOT NULL,
  collection_id TEXT NOT NULL DEFAULT '',
  record_id     TEXT NOT NULL,
  edit_mode     INTEGER NOT NULL DEFAULT 0,
  body          TEXT NOT NULL,
  updated_at    TEXT NOT NULL,
  PRIMARY KEY (kind, collection_id, record_id)
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("drafts: create schema: %w", err)
	}
	return &DraftStore{db: db}, nil
}

func (s *DraftStore) Close() error { return s.db.Close() }

// Save upserts a draft under its (kind, collection, record) key.
func (s *DraftStore) Save(ctx context.Context, d Draft) error {
	if d.RecordID == "" {
		return fmt.Errorf("drafts: record id is required")
	}
	body, err := json.Marshal(d.Body)
	if err != nil {
		return fmt.Errorf("drafts: encode body: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO drafts (kind, collection_id, record_id, edit_mode, body, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (kind, collection_id, record_id) DO UPDATE SET
  edit_mode = excluded.edit_mode,
  body = excluded.body,
  updated_at = excluded.updated_at;`,
		string(d.Kind), d.CollectionID, d.RecordID, boolToInt(d.EditMode),
		string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("drafts: save: %w", err)
	}
	return nil
}

// Get loads one draft, or ErrDraftNotFound.
func (s *DraftStore) Get(ctx context.Context, kind model.Kind, collectionID, recordID string) (*Draft, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT kind, collection_id, record_id, edit_mode, body, updated_at
FROM drafts WHERE kind = ? AND collection_id = ? AND record_id = ?;`,
		string(kind), collectionID, recordID)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	return d, err
}

// List returns all drafts, most recently updated first.
func (s *DraftStore) List(ctx context.Context) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT kind, collection_id, record_id, edit_mode, body, updated_at
FROM drafts ORDER BY updated_at DESC, record_id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("drafts: list: %w", err)
	}
	defer rows.Close()

	out := []Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Delete removes a draft; deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, kind model.Kind, collectionID, recordID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM drafts WHERE kind = ? AND collection_id = ? AND record_id = ?;`,
		string(kind), collectionID, recordID)
	if err != nil {
		return fmt.Errorf("drafts: delete: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*Draft, error) {
	var (
		d        Draft
		kind     string
		editMode int
		body     string
		updated  string
	)
	if err := row.Scan(&kind, &d.CollectionID, &d.RecordID, &editMode, &body, &updated); err != nil {
		return nil, err
	}
	d.Kind = model.Kind(kind)
	d.EditMode = editMode != 0
	if err := json.Unmarshal([]byte(body), &d.Body); err != nil {
		return nil, fmt.Errorf("drafts: decode body of %s/%s: %w", d.CollectionID, d.RecordID, err)
	}
	if ts, err := time.Parse(time.RFC3339, updated); err == nil {
		d.UpdatedAt = ts
	}
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
