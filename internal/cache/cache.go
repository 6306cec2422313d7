// Package cache maintains a local SQLite copy of the remote component
// catalog at .revolutionary-ui/catalog.db.
//
// The cache lets list and status answer without a network round trip;
// it is refreshed opportunistically after any command that already
// fetched the catalog. The database runs in embedded mode with WAL so
// a watch daemon can read while a foreground command writes.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

// Catalog wraps the cache database connection.
type Catalog struct {
	conn *sql.DB
	path string
}

// DefaultPath returns the catalog location under a workspace root.
func DefaultPath(root string) string {
	return filepath.Join(root, component.ConfigDir, "catalog.db")
}

// Open creates or opens the catalog database and initializes the
// schema. The caller must Close when done.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping catalog: %w", err)
	}

	c := &Catalog{conn: conn, path: path}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := c.conn.Exec(pragma); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	if err := c.initSchema(context.Background()); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Close checkpoints the WAL and closes the connection.
func (c *Catalog) Close() error {
	if c.conn == nil {
		return nil
	}
	if _, err := c.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint catalog WAL: %v\n", err)
	}
	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	return nil
}

func (c *Catalog) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS components (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		framework TEXT NOT NULL,
		version TEXT NOT NULL,
		description TEXT,
		checksum TEXT NOT NULL,
		tags TEXT,  -- JSON array
		updated_at TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_components_name ON components(name);
	CREATE INDEX IF NOT EXISTS idx_components_type ON components(type);
	CREATE INDEX IF NOT EXISTS idx_components_framework ON components(framework);
	`
	if _, err := c.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx, so the upsert
// statement can run standalone or inside a Replace transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upsert inserts or replaces one catalog entry. Code bodies are not
// cached; the catalog stores listing metadata only.
func (c *Catalog) Upsert(ctx context.Context, comp *component.Component) error {
	return upsertComponent(ctx, c.conn, comp)
}

func upsertComponent(ctx context.Context, e execer, comp *component.Component) error {
	if err := comp.Validate(); err != nil {
		return fmt.Errorf("invalid component: %w", err)
	}

	tagsJSON, err := json.Marshal(comp.Metadata.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
	INSERT INTO components (
		id, name, type, framework, version, description,
		checksum, tags, updated_at, fetched_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		type = excluded.type,
		framework = excluded.framework,
		version = excluded.version,
		description = excluded.description,
		checksum = excluded.checksum,
		tags = excluded.tags,
		updated_at = excluded.updated_at,
		fetched_at = excluded.fetched_at
	`

	_, err = e.ExecContext(ctx, query,
		comp.ID,
		comp.Name,
		string(comp.Type),
		string(comp.Framework),
		comp.Version,
		comp.Description,
		comp.Checksum,
		string(tagsJSON),
		comp.Metadata.UpdatedAt.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", comp.Name, err)
	}
	return nil
}

// Replace atomically swaps the whole catalog for the given listing.
// The clear and all inserts run in one transaction; a failing entry
// rolls the swap back and leaves the previous catalog intact.
func (c *Catalog) Replace(ctx context.Context, comps []*component.Component) error {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM components"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	for _, comp := range comps {
		if err := upsertComponent(ctx, tx, comp); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog swap: %w", err)
	}
	return nil
}

// Delete removes one entry. Missing entries are not an error.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if _, err := c.conn.ExecContext(ctx, "DELETE FROM components WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	return nil
}

// GetByName retrieves a cached entry by exact name. Returns
// sql.ErrNoRows when absent.
func (c *Catalog) GetByName(ctx context.Context, name string) (*component.Component, error) {
	row := c.conn.QueryRowContext(ctx, selectColumns+" FROM components WHERE name = ?", name)
	return scanComponent(row)
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Type      component.Type
	Framework component.Framework
	Tag       string
}

const selectColumns = `SELECT components.id, components.name, components.type,
	components.framework, components.version, components.description,
	components.checksum, components.tags, components.updated_at`

// List returns cached entries matching the filter, ordered by name.
func (c *Catalog) List(ctx context.Context, filter ListFilter) ([]*component.Component, error) {
	var conditions []string
	var args []any

	if filter.Type != "" {
		conditions = append(conditions, "components.type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Framework != "" {
		conditions = append(conditions, "components.framework = ?")
		args = append(args, string(filter.Framework))
	}

	query := selectColumns + " FROM components"
	if filter.Tag != "" {
		query += ", json_each(tags)"
		conditions = append(conditions, "json_each.value = ?")
		args = append(args, filter.Tag)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY components.name ASC"

	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	defer rows.Close()

	var out []*component.Component
	for rows.Next() {
		comp, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, comp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog: %w", err)
	}
	return out, nil
}

// Count returns the number of cached entries.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM components").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", err)
	}
	return n, nil
}

// LastFetched returns the most recent refresh time, or the zero time
// for an empty catalog.
func (c *Catalog) LastFetched(ctx context.Context) (time.Time, error) {
	var s sql.NullString
	err := c.conn.QueryRowContext(ctx, "SELECT MAX(fetched_at) FROM components").Scan(&s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read refresh time: %w", err)
	}
	if !s.Valid {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse refresh time: %w", err)
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(row rowScanner) (*component.Component, error) {
	var comp component.Component
	var typ, fw, tagsJSON, updatedAt string

	err := row.Scan(
		&comp.ID,
		&comp.Name,
		&typ,
		&fw,
		&comp.Version,
		&comp.Description,
		&comp.Checksum,
		&tagsJSON,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	comp.Type = component.Type(typ)
	comp.Framework = component.Framework(fw)

	if tagsJSON != "" && tagsJSON != "null" {
		if err := json.Unmarshal([]byte(tagsJSON), &comp.Metadata.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		comp.Metadata.UpdatedAt = t
	}
	return &comp, nil
}
