package repository

import (
	"context"

	"menud/internal/domain"
)

// Repository defines the interface for menu item data access
type Repository interface {
	// Read operations
	GetItem(ctx context.Context, id int) (*domain.MenuItem, error)
	ListItems(ctx context.Context) ([]domain.MenuItem, error)
	CountItems(ctx context.Context) (int, error)

	// Write operations
	CreateItem(ctx context.Context, item *domain.MenuItem) error
	UpdateItem(ctx context.Context, item *domain.MenuItem) error
	UpsertItem(ctx context.Context, item *domain.MenuItem) error
	DeleteItem(ctx context.Context, id int) error

	// Maintenance
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error

	// Close releases resources
	Close() error
}
