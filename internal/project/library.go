package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when the library has no entry with the given name.
var ErrNotFound = errors.New("not found")

// Kind separates the entries stored in the library.
type Kind string

const (
	KindPattern Kind = "pattern"
	KindPanel   Kind = "panel"
)

const librarySchema = `
CREATE TABLE IF NOT EXISTS entries (
    kind       TEXT NOT NULL,
    name       TEXT NOT NULL,
    id         TEXT NOT NULL,
    data       TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (kind, name)
);`

// LibraryEntry describes one stored item without its payload.
type LibraryEntry struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ============================================================
// SQLite Library
// ============================================================

// Library stores named colorwork patterns and panels in SQLite.
type Library struct {
	db *sql.DB
}

// DefaultLibraryPath is ~/.knitplan/library.db.
func DefaultLibraryPath() string {
	return filepath.Join(DefaultConfigDir(), "library.db")
}

// OpenSQLite opens the sqlite database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// OpenLibrary opens (or creates) the library at dbPath.
func OpenLibrary(ctx context.Context, dbPath string) (*Library, error) {
	db, err := OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	lib := NewLibrary(db)
	if err := lib.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return lib, nil
}

func NewLibrary(db *sql.DB) *Library {
	return &Library{db: db}
}

// Init creates the schema if needed.
func (l *Library) Init(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, librarySchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (l *Library) Close() error {
	return l.db.Close()
}

// SavePattern stores p under name, replacing any pattern with that name.
func (l *Library) SavePattern(ctx context.Context, name string, p *model.ColorworkPattern) error {
	if p == nil {
		return fmt.Errorf("save pattern %q: nil pattern", name)
	}
	return l.save(ctx, KindPattern, name, p)
}

// LoadPattern returns the pattern stored under name or ErrNotFound.
func (l *Library) LoadPattern(ctx context.Context, name string) (*model.ColorworkPattern, error) {
	var p model.ColorworkPattern
	if err := l.load(ctx, KindPattern, name, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPatterns lists stored patterns ordered by name.
func (l *Library) ListPatterns(ctx context.Context) ([]LibraryEntry, error) {
	return l.list(ctx, KindPattern)
}

// SavePanel stores a panel (shape, gauge, size and motif) under name.
func (l *Library) SavePanel(ctx context.Context, name string, p *model.Panel) error {
	if p == nil {
		return fmt.Errorf("save panel %q: nil panel", name)
	}
	return l.save(ctx, KindPanel, name, p)
}

// LoadPanel returns the panel stored under name or ErrNotFound.
func (l *Library) LoadPanel(ctx context.Context, name string) (*model.Panel, error) {
	var p model.Panel
	if err := l.load(ctx, KindPanel, name, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPanels lists stored panels ordered by name.
func (l *Library) ListPanels(ctx context.Context) ([]LibraryEntry, error) {
	return l.list(ctx, KindPanel)
}

// Delete removes an entry. It returns ErrNotFound if nothing was stored
// under name.
func (l *Library) Delete(ctx context.Context, kind Kind, name string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM entries WHERE kind = ? AND name = ?`, string(kind), name)
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", kind, name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", kind, name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	logging.Logger().Debug("library entry deleted", "kind", kind, "name", name)
	return nil
}

func (l *Library) save(ctx context.Context, kind Kind, name string, v any) error {
	if name == "" {
		return fmt.Errorf("save %s: empty name", kind)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s %q: %w", kind, name, err)
	}
	_, err = l.db.ExecContext(ctx, `
        INSERT INTO entries (kind, name, id, data, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (kind, name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
    `, string(kind), name, uuid.New().String(), string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %s %q: %w", kind, name, err)
	}
	logging.Logger().Debug("library entry saved", "kind", kind, "name", name, "bytes", len(data))
	return nil
}

func (l *Library) load(ctx context.Context, kind Kind, name string, v any) error {
	row := l.db.QueryRowContext(ctx, `
        SELECT data FROM entries
        WHERE kind = ? AND name = ?
    `, string(kind), name)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load %s %q: %w", kind, name, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decode %s %q: %w", kind, name, err)
	}
	return nil
}

func (l *Library) list(ctx context.Context, kind Kind) ([]LibraryEntry, error) {
	rows, err := l.db.QueryContext(ctx, `
        SELECT id, name, updated_at FROM entries
        WHERE kind = ?
        ORDER BY name
    `, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	entries := []LibraryEntry{}
	for rows.Next() {
		e := LibraryEntry{Kind: kind}
		var updated string
		if err := rows.Scan(&e.ID, &e.Name, &updated); err != nil {
			return nil, fmt.Errorf("list %s: %w", kind, err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
