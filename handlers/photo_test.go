package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avisionlabs/avision/config"
	"github.com/avisionlabs/avision/media"
	"github.com/avisionlabs/avision/store"
)

func setupTestRouter(t *testing.T) (*chi.Mux, *store.Store) {
	t.Helper()

	cfg := config.Config{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "api_test.db"),
	}
	st, err := store.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ph := &PhotoHandler{Store: st}
	r := chi.NewRouter()
	r.Get("/api/photos", ph.ListPhotos)
	r.Get("/api/photos/{photo_id}", ph.GetPhotoInfo)
	r.Get("/api/search/objects", ph.SearchByObjects)
	r.Get("/api/search/faces", ph.SearchByFaces)
	r.Get("/api/stats", ph.GetStatistics)
	r.Get("/api/faces", ph.ListKnownFaces)
	return r, st
}

func seedPhoto(t *testing.T, st *store.Store, path string, classes ...string) uint {
	t.Helper()

	objects := make([]media.ObjectResult, len(classes))
	for i, class := range classes {
		objects[i] = media.ObjectResult{ClassLabel: class, Confidence: 0.9}
	}
	id, err := st.IngestPhoto(media.PhotoIngest{
		File:    media.FileMeta{Path: path, Size: 100},
		Objects: objects,
	})
	require.NoError(t, err)
	return id
}

func doRequest(t *testing.T, r *chi.Mux, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetPhotoInfoEndpoint(t *testing.T) {
	r, st := setupTestRouter(t)
	id := seedPhoto(t, st, "photos/a.jpg", "person")

	rec := doRequest(t, r, "/api/photos/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Photo struct {
			ID       uint   `json:"id"`
			FilePath string `json:"file_path"`
		} `json:"photo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id, body.Photo.ID)
	assert.Equal(t, "photos/a.jpg", body.Photo.FilePath)

	assert.Equal(t, http.StatusNotFound, doRequest(t, r, "/api/photos/999").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, r, "/api/photos/abc").Code)
}

func TestSearchByObjectsEndpoint(t *testing.T) {
	r, st := setupTestRouter(t)
	a := seedPhoto(t, st, "photos/a.jpg", "person", "car")
	seedPhoto(t, st, "photos/b.jpg", "person")

	rec := doRequest(t, r, "/api/search/objects?classes=person,car")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		PhotoIDs []uint `json:"photo_ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []uint{a}, body.PhotoIDs)

	assert.Equal(t, http.StatusBadRequest, doRequest(t, r, "/api/search/objects").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, r, "/api/search/objects?classes=person&min_count=0").Code)
}

func TestStatsEndpoint(t *testing.T) {
	r, st := setupTestRouter(t)
	seedPhoto(t, st, "photos/a.jpg", "person", "person")

	rec := doRequest(t, r, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalPhotos     int64 `json:"total_photos"`
		TotalDetections int64 `json:"total_detections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body.TotalPhotos)
	assert.EqualValues(t, 2, body.TotalDetections)
}
