package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"image-renamer/internal/tags"
)

// TagRequest represents a request to add a tag to the catalog
type TagRequest struct {
	Tag string `json:"tag"`
}

// GetTags returns the full tag catalog
func (h *Handlers) GetTags(w http.ResponseWriter, _ *http.Request) {
	all := h.tagStore.All()
	if all == nil {
		all = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, all)
}

// AddTag adds a new tag to the catalog
func (h *Handlers) AddTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Tag == "" {
		writeJSONError(w, "Tag is required", http.StatusBadRequest)
		return
	}

	if err := h.tagStore.Add(req.Tag); err != nil {
		switch {
		case errors.Is(err, tags.ErrAlreadyExists):
			writeJSONError(w, "Tag already exists", http.StatusConflict)
		case errors.Is(err, tags.ErrInvalidTag):
			writeJSONError(w, "Tag may only contain letters, digits, underscores, and hyphens", http.StatusBadRequest)
		default:
			writeJSONError(w, "Failed to save tag", http.StatusInternalServerError)
		}
		return
	}

	writeJSONStatus(w, "ok")
}
