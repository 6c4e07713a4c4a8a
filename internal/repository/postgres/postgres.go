// Package postgres implements repository.Repository on PostgreSQL using pgx.
//
// Section and modifier lists are stored as native TEXT[] columns, so no
// encoding happens at this layer.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"menud/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE for a unique or primary key violation
const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS menu_items (
	id BIGINT PRIMARY KEY,
	title TEXT NOT NULL,
	section TEXT[] NOT NULL,
	modifiers TEXT[] NOT NULL DEFAULT '{}'
);
`

// Repository implements repository.Repository using a pgx connection pool
type Repository struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL, verifies the connection and ensures the schema exists
func New(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	repo := &Repository{pool: pool}
	if err := repo.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

func (r *Repository) migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// Reset drops the menu table and recreates it empty
func (r *Repository) Reset(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DROP TABLE IF EXISTS menu_items`); err != nil {
		return fmt.Errorf("failed to drop menu_items: %w", err)
	}
	if err := r.migrate(ctx); err != nil {
		return fmt.Errorf("failed to recreate menu_items: %w", err)
	}
	return nil
}

// GetItem retrieves a single item by ID. Returns nil, nil when absent.
func (r *Repository) GetItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	item := &domain.MenuItem{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, section, modifiers
		FROM menu_items WHERE id = $1
	`, id).Scan(&item.ID, &item.Title, &item.Section, &item.Modifiers)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item: %w", err)
	}

	item.Normalize()
	return item, nil
}

// ListItems returns every item ordered by ID
func (r *Repository) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, section, modifiers
		FROM menu_items ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Section, &item.Modifiers); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Normalize()
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

// CountItems returns the number of stored items
func (r *Repository) CountItems(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// CreateItem inserts a new item. A taken id yields domain.ErrItemExists.
func (r *Repository) CreateItem(ctx context.Context, item *domain.MenuItem) error {
	item.Normalize()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO menu_items (id, title, section, modifiers)
		VALUES ($1, $2, $3, $4)
	`, item.ID, item.Title, item.Section, item.Modifiers)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrItemExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// UpdateItem overwrites all columns of an existing item
func (r *Repository) UpdateItem(ctx context.Context, item *domain.MenuItem) error {
	item.Normalize()
	tag, err := r.pool.Exec(ctx, `
		UPDATE menu_items SET title = $2, section = $3, modifiers = $4
		WHERE id = $1
	`, item.ID, item.Title, item.Section, item.Modifiers)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrItemNotFound)
	}
	return nil
}

// UpsertItem inserts an item or replaces the existing one with the same id
func (r *Repository) UpsertItem(ctx context.Context, item *domain.MenuItem) error {
	item.Normalize()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO menu_items (id, title, section, modifiers)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			section = EXCLUDED.section,
			modifiers = EXCLUDED.modifiers
	`, item.ID, item.Title, item.Section, item.Modifiers)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

// DeleteItem removes an item. A missing id yields domain.ErrItemNotFound.
func (r *Repository) DeleteItem(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrItemNotFound)
	}
	return nil
}

// Ping checks that the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the connection pool
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}
