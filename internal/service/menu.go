package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"menud/internal/domain"
	"menud/internal/repository"

	"go.uber.org/zap"
)

// MenuService provides business logic for menu items
type MenuService struct {
	repo     repository.Repository
	eventBus *EventBus
	sections []string
	logger   *zap.Logger
}

// NewMenuService creates a new menu service. An empty section list falls
// back to domain.DefaultSections.
func NewMenuService(repo repository.Repository, eventBus *EventBus, sections []string, logger *zap.Logger) *MenuService {
	if len(sections) == 0 {
		sections = domain.DefaultSections
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuService{
		repo:     repo,
		eventBus: eventBus,
		sections: slices.Clone(sections),
		logger:   logger,
	}
}

// GetItem retrieves a single item by ID
func (s *MenuService) GetItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", id, domain.ErrItemNotFound)
	}
	return item, nil
}

// ListItems returns all stored items ordered by ID
func (s *MenuService) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListItems(ctx)
}

// GetMenu groups every stored item into the configured sections
func (s *MenuService) GetMenu(ctx context.Context) (domain.SectionMenu, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyMenu
	}
	return domain.BuildMenu(s.sections, items), nil
}

// CreateItem stores a new item under its caller-supplied ID
func (s *MenuService) CreateItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	item = item.Clone()
	item.Normalize()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("item %d: %w", item.ID, domain.ErrItemExists)
	}

	// The store's primary key still catches a create that raced past the check above.
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Debug("Item created", zap.Int("id", item.ID), zap.Strings("section", item.Section))
	s.eventBus.Publish(Event{
		Type:    EventItemCreated,
		Payload: item,
	})

	return item, nil
}

// UpdateItem applies a partial update to an existing item
func (s *MenuService) UpdateItem(ctx context.Context, id int, patch domain.ItemPatch) (*domain.MenuItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("could not update %d: %w", id, domain.ErrItemNotFound)
	}

	if patch.IsEmpty() {
		s.logger.Debug("Empty update, nothing to apply", zap.Int("id", id))
		return item, nil
	}
	if !patch.Apply(item) {
		return item, nil
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Debug("Item updated", zap.Int("id", id))
	s.eventBus.Publish(Event{
		Type:    EventItemUpdated,
		Payload: item,
	})

	return item, nil
}

// DeleteItem removes an item and confirms it can no longer be read
func (s *MenuService) DeleteItem(ctx context.Context, id int) error {
	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("id %d not existing: %w", id, domain.ErrItemNotFound)
	}

	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}

	remaining, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return fmt.Errorf("verify delete of %d: %w", id, err)
	}
	if remaining != nil {
		s.logger.Warn("Item still present after delete", zap.Int("id", id))
		return fmt.Errorf("item %d: %w", id, domain.ErrDeleteVerification)
	}

	s.eventBus.Publish(Event{
		Type:    EventItemDeleted,
		Payload: map[string]int{"id": id},
	})

	return nil
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Created  int `json:"created"`
	Replaced int `json:"replaced"`
	Skipped  int `json:"skipped"`
}

// ImportItems stores a batch of items. Existing ids are skipped unless
// replace is set, in which case they are overwritten.
func (s *MenuService) ImportItems(ctx context.Context, items []domain.MenuItem, replace bool) (*ImportResult, error) {
	for i := range items {
		items[i].Normalize()
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", items[i].ID, err)
		}
	}

	result := &ImportResult{}
	for i := range items {
		item := &items[i]

		if !replace {
			err := s.repo.CreateItem(ctx, item)
			switch {
			case errors.Is(err, domain.ErrItemExists):
				result.Skipped++
			case err != nil:
				return result, err
			default:
				result.Created++
			}
			continue
		}

		existing, err := s.repo.GetItem(ctx, item.ID)
		if err != nil {
			return result, err
		}
		if err := s.repo.UpsertItem(ctx, item); err != nil {
			return result, err
		}
		if existing != nil {
			result.Replaced++
		} else {
			result.Created++
		}
	}

	s.logger.Info("Items imported",
		zap.Int("created", result.Created),
		zap.Int("replaced", result.Replaced),
		zap.Int("skipped", result.Skipped))
	s.eventBus.Publish(Event{
		Type:    EventMenuImported,
		Payload: result,
	})

	return result, nil
}
