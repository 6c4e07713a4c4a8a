package domain

import "errors"

var (
	// ErrItemNotFound is returned when no item exists under the requested id.
	ErrItemNotFound = errors.New("item not found")
	// ErrItemExists is returned when creating an item whose id is taken.
	ErrItemExists = errors.New("id taken")
	// ErrEmptyMenu is returned when the aggregate menu is requested from an empty store.
	ErrEmptyMenu = errors.New("no items in database")
	// ErrValidation marks a request missing required fields.
	ErrValidation = errors.New("validation failed")
	// ErrDeleteVerification is returned when an item is still readable after deletion.
	ErrDeleteVerification = errors.New("was not able to delete")
)
