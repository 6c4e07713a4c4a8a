// Package domain defines the core domain types for the menu service.
//
// This package contains the menu item entity, the partial-update value
// used by PATCH requests, and the derived section menu that groups items
// by serving section.
//
// # Core Types
//
// MenuItem is the only persisted entity. It carries a caller-chosen integer
// ID, a title, the sections it is served in, and a list of free-text
// modifiers.
//
// ItemPatch describes which fields of an existing item should change.
// Absent fields are left untouched.
//
// SectionMenu is a read-only projection built on demand by BuildMenu. Each
// block lists the items of one section with display ids that restart at 1
// in every response.
//
// # Errors
//
// Failure kinds are exported as sentinel errors (ErrItemNotFound,
// ErrItemExists, ErrEmptyMenu, ErrValidation, ErrDeleteVerification) so that
// transport layers can map them with errors.Is.
//
// # Design Principles
//
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
package domain
