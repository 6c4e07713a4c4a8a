// Package handler implements the HTTP surface of the menu service.
//
// # Routes
//
//	GET    /item        grouped section menu
//	GET    /item/{id}   one menu item
//	PUT    /item/{id}   create an item under id
//	PATCH  /item/{id}   partial update
//	DELETE /item/{id}   delete
//	GET    /export      all items as JSON or YAML (?format=)
//	GET    /healthz     store reachability
//
// Write bodies may be JSON or form data. Form bodies repeat the section and
// modifiers keys once per value.
//
// # Response Format
//
// Success responses return JSON. Error responses return JSON with an
// {error, details} structure and a status code chosen from the domain
// error: 400 validation, 404 missing item or failed delete, 409 taken id
// or empty menu, 500 otherwise.
//
// # Middleware
//
// Chain composes Recover, CORS, RequestID and Logger around the mux.
package handler
