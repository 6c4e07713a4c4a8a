// Package service implements business logic for the menu service.
//
// This package sits between the HTTP handlers and the repository layer,
// implementing validation, existence checks and event publishing.
//
// # Services
//
// MenuService owns the menu item lifecycle: single-item reads, the grouped
// section menu, creation with caller-chosen ids, partial updates, verified
// deletes, and bulk import for seeding a store.
//
// # Event System
//
// Every successful write publishes an Event on the EventBus. Subscribers
// include the SSE hub for browsers and the AMQP broker for other services.
// Publishing never blocks a request: slow subscribers miss events.
package service
