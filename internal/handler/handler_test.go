package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"menud/internal/domain"
	"menud/internal/repository/sqlite"
	"menud/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	logger := zap.NewNop()
	svc := service.NewMenuService(repo, service.NewEventBus(), nil, logger)

	mux := http.NewServeMux()
	NewMenuHandler(svc, logger).Register(mux)
	mux.HandleFunc("GET /healthz", Health(repo))

	return Chain(mux, Recover(logger), CORS, RequestID, Logger(logger))
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeItem(t *testing.T, rec *httptest.ResponseRecorder) domain.MenuItem {
	t.Helper()
	var item domain.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	return item
}

func TestCreateAndGetItem(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPut, "/item/1",
		`{"title":"Sandwich","section":["Lunch","Dinner"],"modifiers":["no pickles","no mayo"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeItem(t, rec)
	assert.Equal(t, 1, created.ID)

	rec = doJSON(t, h, http.MethodGet, "/item/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Lists come back as real JSON arrays, not encoded strings
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, []any{"Lunch", "Dinner"}, raw["section"])
	assert.Equal(t, []any{"no pickles", "no mayo"}, raw["modifiers"])
	assert.Equal(t, "Sandwich", raw["title"])
	assert.EqualValues(t, 1, raw["id"])
}

func TestCreateItemWithoutModifiers(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPut, "/item/2", `{"title":"Soup","section":"Lunch"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	item := decodeItem(t, rec)
	assert.Equal(t, []string{"Lunch"}, item.Section)
	assert.Equal(t, []string{}, item.Modifiers)
	assert.Contains(t, rec.Body.String(), `"modifiers":[]`)
}

func TestCreateItemConflict(t *testing.T) {
	h := newTestServer(t)
	body := `{"title":"Pizza","section":["Dinner"]}`

	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPut, "/item/5", body).Code)

	rec := doJSON(t, h, http.MethodPut, "/item/5", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Details, "id taken")
}

func TestCreateItemValidation(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"section":["Lunch"]}`},
		{"missing section", `{"title":"Soup"}`},
		{"empty section", `{"title":"Soup","section":[]}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/item/1", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestMalformedRequests(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, h, http.MethodPut, "/item/1", `{"title":`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, h, http.MethodPut, "/item/1", `{"title":"x","section":[1,2]}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, h, http.MethodGet, "/item/abc", "").Code)
}

func TestTrailingDataRejected(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPut, "/item/1", `{"title":"T","section":["Lunch"]} garbage`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	rec = doJSON(t, h, http.MethodPut, "/item/1", `{"title":"T","section":["Lunch"]}{"title":"U"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodGet, "/item/1", "").Code)

	// trailing whitespace is fine
	rec = doJSON(t, h, http.MethodPut, "/item/1", "{\"title\":\"T\",\"section\":[\"Lunch\"]}\n\n")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestOversizedBody(t *testing.T) {
	h := newTestServer(t)

	body := `{"title":"` + strings.Repeat("x", maxBodyBytes) + `","section":["Lunch"]}`
	rec := doJSON(t, h, http.MethodPut, "/item/1", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	form := url.Values{"title": {strings.Repeat("x", maxBodyBytes)}, "section": {"Lunch"}}
	req := httptest.NewRequest(http.MethodPut, "/item/2", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateItemFromForm(t *testing.T) {
	h := newTestServer(t)

	form := url.Values{}
	form.Set("title", "Soup")
	form.Add("section", "Lunch")
	form.Add("section", "Dinner")
	form.Add("modifiers", "saltines")
	form.Add("modifiers", "no spoon")

	req := httptest.NewRequest(http.MethodPut, "/item/3", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	item := decodeItem(t, rec)
	assert.Equal(t, "Soup", item.Title)
	assert.Equal(t, []string{"Lunch", "Dinner"}, item.Section)
	assert.Equal(t, []string{"saltines", "no spoon"}, item.Modifiers)
}

func TestGetItemNotFound(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/item/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateItem(t *testing.T) {
	h := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		doJSON(t, h, http.MethodPut, "/item/1", `{"title":"A","section":["Lunch"],"modifiers":["x"]}`).Code)

	rec := doJSON(t, h, http.MethodPatch, "/item/1", `{"title":"B"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/item/1", "")
	item := decodeItem(t, rec)
	assert.Equal(t, "B", item.Title)
	assert.Equal(t, []string{"Lunch"}, item.Section)
	assert.Equal(t, []string{"x"}, item.Modifiers)

	form := url.Values{"section": {"Dinner"}, "modifiers": {"none"}}
	req := httptest.NewRequest(http.MethodPatch, "/item/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	item = decodeItem(t, rec)
	assert.Equal(t, "B", item.Title)
	assert.Equal(t, []string{"Dinner"}, item.Section)
	assert.Equal(t, []string{"none"}, item.Modifiers)
}

func TestUpdateItemNotFound(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPatch, "/item/7", `{"title":"B"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteItem(t *testing.T) {
	h := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		doJSON(t, h, http.MethodPut, "/item/1", `{"title":"Sandwich","section":["Lunch"]}`).Code)

	rec := doJSON(t, h, http.MethodDelete, "/item/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodGet, "/item/1", "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodDelete, "/item/1", "").Code)
}

func TestGetMenu(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/item", "")
	assert.Equal(t, http.StatusConflict, rec.Code, "empty store must conflict")

	require.Equal(t, http.StatusCreated,
		doJSON(t, h, http.MethodPut, "/item/1", `{"title":"Sandwich","section":["Lunch"],"modifiers":["no pickles","no mayo"]}`).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(t, h, http.MethodPut, "/item/2", `{"title":"Soup","section":["Lunch","Dinner"]}`).Code)

	rec = doJSON(t, h, http.MethodGet, "/item", "")
	require.Equal(t, http.StatusOK, rec.Code)

	expected := `[
		{"id":1,"title":"Lunch Specials","items":[
			{"id":1,"title":"Sandwich","modifiers":[{"id":1,"title":"no pickles"},{"id":2,"title":"no mayo"}]},
			{"id":2,"title":"Soup","modifiers":[]}
		]},
		{"id":2,"title":"Dinner Specials","items":[
			{"id":1,"title":"Soup","modifiers":[]}
		]}
	]`
	assert.JSONEq(t, expected, rec.Body.String())
}

func TestExport(t *testing.T) {
	h := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		doJSON(t, h, http.MethodPut, "/item/1", `{"title":"Sandwich","section":["Lunch"]}`).Code)

	rec := doJSON(t, h, http.MethodGet, "/export?format=yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "title: Sandwich")

	rec = doJSON(t, h, http.MethodGet, "/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"title":"Sandwich","section":["Lunch"],"modifiers":[]}]`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, doJSON(t, h, http.MethodGet, "/export?format=xml", "").Code)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrItemExists, http.StatusConflict},
		{domain.ErrEmptyMenu, http.StatusConflict},
		{domain.ErrItemNotFound, http.StatusNotFound},
		{domain.ErrDeleteVerification, http.StatusNotFound},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, statusFor(tt.err))
		})
	}
}
