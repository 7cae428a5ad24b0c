package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"image-renamer/internal/logging"
	"image-renamer/internal/rename"
)

// RenameRequest is the HTTP shape of a batch rename. Source paths and the
// optional destination directory are relative to the media root.
type RenameRequest struct {
	Sources []string `json:"sources"`
	DestDir string   `json:"destDir,omitempty"`
	Prefix  string   `json:"prefix,omitempty"`
	Suffix  string   `json:"suffix,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// PreviewAssignment is one row of a rename preview.
type PreviewAssignment struct {
	Source  string `json:"source"`
	NewName string `json:"newName,omitempty"`
	Seq     int    `json:"seq"`
	Failure string `json:"failure,omitempty"`
}

// RenameResponse is the HTTP shape of an applied batch.
type RenameResponse struct {
	Results map[string]rename.FileResult `json:"results"`
	Renamed int                          `json:"renamed"`
	Failed  int                          `json:"failed"`
}

// PreviewRename computes target names for a batch without touching any
// files.
func (h *Handlers) PreviewRename(w http.ResponseWriter, r *http.Request) {
	req, byAbs, ok := h.decodeRenameRequest(w, r)
	if !ok {
		return
	}

	assignments, err := h.coordinator.Plan(req)
	if err != nil {
		writeBatchError(w, err)
		return
	}

	preview := make([]PreviewAssignment, 0, len(assignments))
	for _, a := range assignments {
		preview = append(preview, PreviewAssignment{
			Source:  byAbs[a.Source],
			NewName: a.NewName,
			Seq:     a.Seq,
			Failure: string(a.Failure),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, preview)
}

// ApplyRename validates and applies a batch rename. Validation failures
// abort the whole batch; after that each file succeeds or fails on its own.
func (h *Handlers) ApplyRename(w http.ResponseWriter, r *http.Request) {
	req, byAbs, ok := h.decodeRenameRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.coordinator.Apply(req)
	if err != nil {
		writeBatchError(w, err)
		return
	}

	results := make(map[string]rename.FileResult, len(outcome.Results))
	for abs, res := range outcome.Results {
		results[byAbs[abs]] = res
	}

	logging.Info("Rename batch applied: %d renamed, %d failed", outcome.Renamed(), outcome.Failed())

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, RenameResponse{
		Results: results,
		Renamed: outcome.Renamed(),
		Failed:  outcome.Failed(),
	})
}

// decodeRenameRequest parses the HTTP body and resolves the relative paths
// against the media root. The returned map converts resolved absolute paths
// back to the paths the caller sent.
func (h *Handlers) decodeRenameRequest(w http.ResponseWriter, r *http.Request) (rename.Request, map[string]string, bool) {
	var httpReq RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&httpReq); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return rename.Request{}, nil, false
	}

	if len(httpReq.Sources) == 0 {
		writeJSONError(w, "Sources array is required", http.StatusBadRequest)
		return rename.Request{}, nil, false
	}

	byAbs := make(map[string]string, len(httpReq.Sources))
	sources := make([]string, 0, len(httpReq.Sources))
	for _, src := range httpReq.Sources {
		abs, err := h.scanner.ResolveFile(src)
		if err != nil {
			writeJSONError(w, "Source not found: "+src, http.StatusNotFound)
			return rename.Request{}, nil, false
		}
		sources = append(sources, abs)
		byAbs[abs] = src
	}

	destDir := ""
	if httpReq.DestDir != "" {
		abs, err := h.scanner.ResolveDir(httpReq.DestDir)
		if err != nil {
			writeJSONError(w, "Destination directory not found", http.StatusNotFound)
			return rename.Request{}, nil, false
		}
		destDir = abs
	} else if len(sources) > 0 {
		destDir = filepath.Dir(sources[0])
	}

	return rename.Request{
		Sources: sources,
		DestDir: destDir,
		Prefix:  httpReq.Prefix,
		Suffix:  httpReq.Suffix,
		Tags:    httpReq.Tags,
	}, byAbs, true
}

func writeBatchError(w http.ResponseWriter, err error) {
	var batchErr *rename.BatchError
	if !errors.As(err, &batchErr) {
		writeJSONError(w, "Rename failed", http.StatusInternalServerError)
		return
	}

	status := http.StatusBadRequest
	switch batchErr.Reason {
	case rename.ReasonPathNotFound:
		status = http.StatusNotFound
	case rename.ReasonDestinationNotWritable, rename.ReasonPermissionDenied:
		status = http.StatusConflict
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, map[string]string{
		"error":  batchErr.Error(),
		"reason": string(batchErr.Reason),
		"path":   batchErr.Path,
	})
}
