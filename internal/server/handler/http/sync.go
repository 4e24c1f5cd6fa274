package http

import (
	"context"
	"encoding/json"
	"net/http"
)

// SyncService defines the collection operations behind the sync endpoints.
type SyncService interface {
	// Data returns every known collection.
	Data(ctx context.Context) (map[string]json.RawMessage, error)
	// Upload stores the accepted collections and returns their names.
	Upload(ctx context.Context, payload map[string]json.RawMessage) ([]string, error)
}

// SyncHandler serves the collection download and upload endpoints.
type SyncHandler struct {
	SyncService SyncService
}

// UploadResponse is returned by Upload.
type UploadResponse struct {
	OK     bool     `json:"ok"`
	Stored []string `json:"stored"`
}

// Data writes all collections as one JSON object keyed by name.
func (h *SyncHandler) Data(w http.ResponseWriter, r *http.Request) {
	data, err := h.SyncService.Data(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// Upload accepts a JSON object of collections. Unknown names and values
// that are not arrays are skipped.
func (h *SyncHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var payload map[string]json.RawMessage
	if err := decode(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	stored, err := h.SyncService.Upload(r.Context(), payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if stored == nil {
		stored = []string{}
	}
	writeJSON(w, http.StatusOK, UploadResponse{OK: true, Stored: stored})
}
