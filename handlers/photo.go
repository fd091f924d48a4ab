package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avisionlabs/avision/database"
	"github.com/avisionlabs/avision/store"
)

// PhotoHandler serves the read-only query surface of the metadata store
type PhotoHandler struct {
	Store *store.Store
}

// ListPhotos handles GET /api/photos?limit=&offset=
func (ph *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	photos, err := ph.Store.ListPhotos(limit, offset)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "Failed to list photos")
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// GetPhotoInfo handles GET /api/photos/{photo_id}
func (ph *PhotoHandler) GetPhotoInfo(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "photo_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "photo_id must be a positive integer")
		return
	}

	detail, err := ph.Store.GetPhotoInfo(uint(id))
	if err != nil {
		var notFound *database.NotFoundError
		if errors.As(err, &notFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", notFound.Error())
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "query_failed", "Failed to get photo info")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// SearchByObjects handles GET /api/search/objects?classes=person,car&min_count=1
func (ph *PhotoHandler) SearchByObjects(w http.ResponseWriter, r *http.Request) {
	classesParam := r.URL.Query().Get("classes")
	if classesParam == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_parameter", "Missing required query parameter: classes")
		return
	}
	classes := strings.Split(classesParam, ",")

	minCount := 1
	if mc := r.URL.Query().Get("min_count"); mc != "" {
		parsed, err := strconv.Atoi(mc)
		if err != nil || parsed < 1 {
			WriteAPIError(w, http.StatusBadRequest, "invalid_parameter", "min_count must be a positive integer")
			return
		}
		minCount = parsed
	}

	photoIDs, err := ph.Store.SearchByObjects(classes, minCount)
	if err != nil {
		var validation *database.ValidationError
		if errors.As(err, &validation) {
			WriteAPIError(w, http.StatusBadRequest, "invalid_parameter", validation.Error())
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "query_failed", "Failed to search photos by objects")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"photo_ids": photoIDs})
}

// SearchByFaces handles GET /api/search/faces?names=John_Doe,Jane_Smith
func (ph *PhotoHandler) SearchByFaces(w http.ResponseWriter, r *http.Request) {
	namesParam := r.URL.Query().Get("names")
	if namesParam == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_parameter", "Missing required query parameter: names")
		return
	}

	photoIDs, err := ph.Store.SearchByFaces(strings.Split(namesParam, ","))
	if err != nil {
		var validation *database.ValidationError
		if errors.As(err, &validation) {
			WriteAPIError(w, http.StatusBadRequest, "invalid_parameter", validation.Error())
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "query_failed", "Failed to search photos by faces")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"photo_ids": photoIDs})
}

// GetStatistics handles GET /api/stats
func (ph *PhotoHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := ph.Store.GetStatistics()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "query_failed", "Failed to compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListKnownFaces handles GET /api/faces
func (ph *PhotoHandler) ListKnownFaces(w http.ResponseWriter, r *http.Request) {
	faces, err := ph.Store.ListKnownFaces()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "Failed to list known faces")
		return
	}
	writeJSON(w, http.StatusOK, faces)
}
