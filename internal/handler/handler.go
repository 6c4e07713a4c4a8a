package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"menud/internal/codec"
	"menud/internal/domain"
	"menud/internal/service"

	"go.uber.org/zap"
)

// MenuHandler handles menu item API requests
type MenuHandler struct {
	svc    *service.MenuService
	logger *zap.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(svc *service.MenuService, logger *zap.Logger) *MenuHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuHandler{svc: svc, logger: logger}
}

// Register adds the menu routes to mux
func (h *MenuHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /item", h.GetMenu)
	mux.HandleFunc("GET /item/{id}", h.GetItem)
	mux.HandleFunc("PUT /item/{id}", h.CreateItem)
	mux.HandleFunc("PATCH /item/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /item/{id}", h.DeleteItem)
	mux.HandleFunc("GET /export", h.Export)
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GetMenu returns all items grouped by section
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.svc.GetMenu(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Failed to get menu", err)
		return
	}

	h.writeJSON(w, menu, http.StatusOK)
}

// GetItem returns a single item
func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "Failed to get item", err)
		return
	}

	h.writeJSON(w, item, http.StatusOK)
}

// CreateItem stores a new item under the id in the path
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	req, err := decodeItemRequest(w, r)
	if err != nil {
		h.writeBodyError(w, err)
		return
	}

	item, err := h.svc.CreateItem(r.Context(), req.toItem(id))
	if err != nil {
		h.writeServiceError(w, r, "Failed to create item", err)
		return
	}

	h.writeJSON(w, item, http.StatusCreated)
}

// UpdateItem applies the supplied fields to an existing item
func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	req, err := decodeItemRequest(w, r)
	if err != nil {
		h.writeBodyError(w, err)
		return
	}

	item, err := h.svc.UpdateItem(r.Context(), id, req.toPatch())
	if err != nil {
		h.writeServiceError(w, r, "Failed to update item", err)
		return
	}

	h.writeJSON(w, item, http.StatusOK)
}

// DeleteItem deletes an item
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "Failed to delete item", err)
		return
	}

	h.writeJSON(w, map[string]string{"status": "success"}, http.StatusOK)
}

// Export writes every stored item in the requested format
func (h *MenuHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	c, err := codec.ForFormat(format)
	if err != nil {
		h.writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.svc.ListItems(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Failed to export items", err)
		return
	}

	contentType := "application/json"
	if c.Format() == "yaml" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=menu.%s", c.Format()))

	if err := c.Export(items, w); err != nil {
		// Can't write error response as we already set headers
		h.logger.Error("Failed to export items", zap.String("format", c.Format()), zap.Error(err))
	}
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns a handler reporting store reachability
func Health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		if err := store.Ping(ctx); err != nil {
			status, code = "unavailable", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}

// Helper methods

// itemID parses the {id} path segment, replying 400 when it is not an integer
func (h *MenuHandler) itemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(w, "Invalid item ID", fmt.Sprintf("%q is not an integer", raw), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrItemExists), errors.Is(err, domain.ErrEmptyMenu):
		return http.StatusConflict
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrDeleteVerification):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeBodyError replies 413 for an oversized body and 400 otherwise
func (h *MenuHandler) writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.writeError(w, "Request body too large", err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
}

func (h *MenuHandler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logger.Error(msg,
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err))
	} else {
		h.logger.Debug(msg, zap.String("path", r.URL.Path), zap.Int("status", code), zap.Error(err))
	}
	h.writeError(w, http.StatusText(code), err.Error(), code)
}

func (h *MenuHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON", zap.Error(err))
	}
}

func (h *MenuHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}
