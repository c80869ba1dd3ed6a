package handlers

import (
	"io"
	"log"
	"net/http"

	"phototagger/internal/constants"
	"phototagger/internal/fingerprint"
)

// GroupHandler computes near-duplicate groups over uploaded images.
type GroupHandler struct {
	threshold int
}

// NewGroupHandler creates a new grouping handler with the given Hamming
// distance threshold.
func NewGroupHandler(threshold int) *GroupHandler {
	if threshold <= 0 {
		threshold = constants.DefaultGroupingThreshold
	}
	return &GroupHandler{threshold: threshold}
}

// Group accepts multipart images and responds with duplicate groups of
// filenames. Files that match nothing are not mentioned in any group.
func (h *GroupHandler) Group(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		respondError(w, http.StatusBadRequest, "no images provided")
		return
	}

	images := make([]fingerprint.NamedImage, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to open uploaded file")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		images = append(images, fingerprint.NamedImage{Name: fh.Filename, Data: data})
	}

	groups, err := fingerprint.GroupNearDuplicates(images, h.threshold)
	if err != nil {
		log.Printf("grouping failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to group images")
		return
	}
	if groups == nil {
		groups = [][]string{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"groups": groups,
	})
}
