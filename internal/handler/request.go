package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"menud/internal/domain"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("request body must hold a single JSON value")

// stringList accepts either a JSON array of strings or a single string
type stringList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = stringList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array of strings")
	}
	*l = many
	return nil
}

// itemRequest is the write payload shared by PUT and PATCH
type itemRequest struct {
	Title     *string    `json:"title"`
	Section   stringList `json:"section"`
	Modifiers stringList `json:"modifiers"`
}

// toItem builds the item to create under id
func (req itemRequest) toItem(id int) *domain.MenuItem {
	title := ""
	if req.Title != nil {
		title = *req.Title
	}
	return domain.NewMenuItem(id, title, req.Section, req.Modifiers)
}

// toPatch builds a partial update from the supplied fields
func (req itemRequest) toPatch() domain.ItemPatch {
	return domain.ItemPatch{
		Title:     req.Title,
		Section:   req.Section,
		Modifiers: req.Modifiers,
	}
}

// decodeItemRequest reads a JSON or form-encoded write payload.
// An empty body decodes to an empty request.
func decodeItemRequest(w http.ResponseWriter, r *http.Request) (itemRequest, error) {
	var req itemRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := parseForm(r, mediaType); err != nil {
			return req, err
		}
		if values, ok := r.PostForm["title"]; ok && len(values) > 0 {
			title := values[0]
			req.Title = &title
		}
		req.Section = nonEmpty(r.PostForm["section"])
		req.Modifiers = nonEmpty(r.PostForm["modifiers"])
		return req, nil
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, err
		}
		return req, errTrailingData
	}
	return req, nil
}

func parseForm(r *http.Request, mediaType string) error {
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxBodyBytes)
	}
	return r.ParseForm()
}

func nonEmpty(values []string) stringList {
	var out stringList
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
