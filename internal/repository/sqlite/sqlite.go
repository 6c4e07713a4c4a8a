package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"menud/internal/domain"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS menu_items (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	section TEXT NOT NULL,
	modifiers TEXT NOT NULL DEFAULT '[]'
);
`

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository and ensures the schema exists
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func dsn(dbPath string) string {
	if dbPath == ":memory:" {
		return dbPath
	}
	return "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (r *Repository) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Reset drops the menu table and recreates it empty
func (r *Repository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DROP TABLE IF EXISTS menu_items`); err != nil {
		return fmt.Errorf("failed to drop menu_items: %w", err)
	}
	if err := r.migrate(ctx); err != nil {
		return fmt.Errorf("failed to recreate menu_items: %w", err)
	}
	return nil
}

// GetItem retrieves a single item by ID. Returns nil, nil when absent.
func (r *Repository) GetItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	var row itemRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM menu_items WHERE id = ?
	`, id).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item: %w", err)
	}

	return row.toDomain()
}

// ListItems returns every item ordered by ID
func (r *Repository) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM menu_items ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var row itemRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// CountItems returns the number of stored items
func (r *Repository) CountItems(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// CreateItem inserts a new item. A taken id yields domain.ErrItemExists.
func (r *Repository) CreateItem(ctx context.Context, item *domain.MenuItem) error {
	args, err := itemInsertArgs(item)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO menu_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?)
	`, args...)
	if isConstraintError(err) {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrItemExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// UpdateItem overwrites all columns of an existing item
func (r *Repository) UpdateItem(ctx context.Context, item *domain.MenuItem) error {
	args, err := itemInsertArgs(item)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE menu_items SET title = ?, section = ?, modifiers = ?
		WHERE id = ?
	`, args[1], args[2], args[3], args[0])
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrItemNotFound)
	}
	return nil
}

// UpsertItem inserts an item or replaces the existing one with the same id
func (r *Repository) UpsertItem(ctx context.Context, item *domain.MenuItem) error {
	args, err := itemInsertArgs(item)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO menu_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			section = excluded.section,
			modifiers = excluded.modifiers
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

// DeleteItem removes an item. A missing id yields domain.ErrItemNotFound.
func (r *Repository) DeleteItem(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrItemNotFound)
	}
	return nil
}

// Ping checks that the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// isConstraintError reports whether err is a SQLite constraint violation
func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
