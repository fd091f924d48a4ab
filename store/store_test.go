package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avisionlabs/avision/config"
	"github.com/avisionlabs/avision/database"
	"github.com/avisionlabs/avision/media"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := config.Config{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "store_test.db"),
	}
	st, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func strPtr(s string) *string { return &s }

func TestStoreEndToEnd(t *testing.T) {
	st := newTestStore(t)

	_, err := st.EnrollKnownFace("John_Doe", []float32{0.1, 0.2, 0.3}, "refs/john.jpg")
	require.NoError(t, err)

	distance := 0.31
	width, height := 800, 600
	format := "jpeg"
	photoID, err := st.IngestPhoto(media.PhotoIngest{
		File: media.FileMeta{
			Path:   "photos/party.jpg",
			Size:   4096,
			Format: &format,
			Width:  &width,
			Height: &height,
		},
		ProcessingModel: strPtr("yolov8n"),
		Objects: []media.ObjectResult{
			{ClassLabel: "person", Confidence: 0.95, Box: media.Box{X: 1, Y: 2, W: 30, H: 40}},
			{ClassLabel: "person", Confidence: 0.85, Box: media.Box{X: 50, Y: 2, W: 30, H: 40}},
			{ClassLabel: "cake", Confidence: 0.70, Box: media.Box{X: 10, Y: 60, W: 20, H: 20}},
		},
		Faces: []media.FaceResult{
			{Box: media.FaceBox{Top: 5, Right: 25, Bottom: 30, Left: 3}, MatchedName: strPtr("John_Doe"), MatchDistance: &distance},
			{Box: media.FaceBox{Top: 5, Right: 75, Bottom: 30, Left: 53}},
		},
	})
	require.NoError(t, err)

	photo, err := st.GetPhotoByPath("photos/party.jpg")
	require.NoError(t, err)
	assert.Equal(t, photoID, photo.ID)

	ids, err := st.SearchByObjects([]string{"person", "cake"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{photoID}, ids)

	ids, err = st.SearchByFaces([]string{"John_Doe"})
	require.NoError(t, err)
	assert.Equal(t, []uint{photoID}, ids)

	detail, err := st.GetPhotoInfo(photoID)
	require.NoError(t, err)
	assert.Len(t, detail.ObjectDetections, 3)
	require.NotNil(t, detail.FaceSummary)
	assert.Equal(t, 1, detail.FaceSummary.RecognizedFaces)

	stats, err := st.GetStatistics()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalPhotos)
	assert.EqualValues(t, 3, stats.TotalDetections)
	assert.EqualValues(t, 1, stats.KnownIdentities)

	photos, err := st.ListPhotos(10, 0)
	require.NoError(t, err)
	require.Len(t, photos, 1)

	known, err := st.ListKnownFaces()
	require.NoError(t, err)
	require.Len(t, known, 1)
	assert.Equal(t, "John_Doe", known[0].Name)

	require.NoError(t, st.DeletePhoto("photos/party.jpg"))
	stats, err = st.GetStatistics()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalPhotos)
	assert.Zero(t, stats.TotalDetections)
}

func TestStoreErrorTaxonomyPassesThrough(t *testing.T) {
	st := newTestStore(t)

	_, err := st.IngestPhoto(media.PhotoIngest{})
	var vErr *database.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = st.GetPhotoInfo(99)
	var nfErr *database.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}
