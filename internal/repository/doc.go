// Package repository defines the data access interface for menu items.
//
// This package provides the repository abstraction layer for persisting
// and retrieving menu items. Implementations live in the sqlite and
// postgres subpackages.
//
// # Repository Interface
//
// The Repository interface covers single-row lookups, inserts, updates and
// deletes keyed by the integer item id, plus a full listing used to build
// the grouped menu.
//
// Lookups return (nil, nil) when no row matches. Writes translate the
// store's primary-key violation into domain.ErrItemExists and a missing
// row into domain.ErrItemNotFound, so racing writers surface as ordinary
// domain errors.
//
// # Resetting
//
// Reset drops and recreates the schema. It is only invoked when the
// operator asks for it at startup.
package repository
