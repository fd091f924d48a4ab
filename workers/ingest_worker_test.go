package workers

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avisionlabs/avision/config"
	"github.com/avisionlabs/avision/media"
	"github.com/avisionlabs/avision/store"
)

func newTestStore(t *testing.T) (*store.Store, config.Config) {
	t.Helper()

	cfg := config.Config{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "workers_test.db"),
	}
	st, err := store.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st, cfg
}

func writeImage(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeSidecar(t *testing.T, imagePath, payload string) {
	t.Helper()
	require.NoError(t, os.WriteFile(media.SidecarPath(imagePath), []byte(payload), 0o644))
}

func TestProcessImageWithSidecar(t *testing.T) {
	st, cfg := newTestStore(t)
	cfg.ConfidenceThreshold = 0.5

	dir := t.TempDir()
	imagePath := filepath.Join(dir, "garden.png")
	writeImage(t, imagePath)
	writeSidecar(t, imagePath, `{
		"model": "yolov8n",
		"objects": [
			{"class_label": "person", "confidence": 0.9, "box": {"x": 1, "y": 1, "w": 5, "h": 5}},
			{"class_label": "bird", "confidence": 0.3, "box": {"x": 8, "y": 8, "w": 4, "h": 4}}
		],
		"faces": [
			{"box": {"top": 1, "right": 6, "bottom": 6, "left": 1}}
		]
	}`)

	result := ProcessImage(st, cfg, imagePath, "")
	require.NoError(t, result.Err)
	assert.NotZero(t, result.PhotoID)
	assert.Equal(t, 1, result.Objects, "sub-threshold detection must be dropped")
	assert.Equal(t, 1, result.Faces)

	detail, err := st.GetPhotoInfo(result.PhotoID)
	require.NoError(t, err)
	require.NotNil(t, detail.Photo.ProcessingModel)
	assert.Equal(t, "yolov8n", *detail.Photo.ProcessingModel)
	require.Len(t, detail.ObjectDetections, 1)
	assert.Equal(t, "person", detail.ObjectDetections[0].ClassLabel)
	require.NotNil(t, detail.Photo.Width)
	assert.Equal(t, 16, *detail.Photo.Width)
}

func TestProcessImageWithoutSidecar(t *testing.T) {
	st, cfg := newTestStore(t)

	dir := t.TempDir()
	imagePath := filepath.Join(dir, "plain.png")
	writeImage(t, imagePath)

	result := ProcessImage(st, cfg, imagePath, "manual")
	require.NoError(t, result.Err)
	assert.Zero(t, result.Objects)
	assert.Zero(t, result.Faces)

	detail, err := st.GetPhotoInfo(result.PhotoID)
	require.NoError(t, err)
	require.NotNil(t, detail.Photo.ProcessingModel)
	assert.Equal(t, "manual", *detail.Photo.ProcessingModel)
	require.NotNil(t, detail.FaceSummary)
	assert.Zero(t, detail.FaceSummary.TotalFaces)
}

func TestProcessImageMissingFile(t *testing.T) {
	st, cfg := newTestStore(t)

	result := ProcessImage(st, cfg, filepath.Join(t.TempDir(), "nope.png"), "")
	require.Error(t, result.Err)
}

func TestIngestPoolProcessesAllJobs(t *testing.T) {
	st, cfg := newTestStore(t)

	dir := t.TempDir()
	const images = 5
	for i := 0; i < images; i++ {
		writeImage(t, filepath.Join(dir, fmt.Sprintf("img%d.png", i)))
	}

	pool := NewIngestPool(cfg, st, images, 3)
	go func() {
		for i := 0; i < images; i++ {
			pool.Queue(IngestJob{Path: filepath.Join(dir, fmt.Sprintf("img%d.png", i))})
		}
		pool.Close()
	}()

	succeeded := 0
	for result := range pool.Results {
		require.NoError(t, result.Err, "ingest of %s", result.Path)
		succeeded++
	}
	assert.Equal(t, images, succeeded)

	stats, err := st.GetStatistics()
	require.NoError(t, err)
	assert.EqualValues(t, images, stats.TotalPhotos)
}

func TestCollectImagesNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"img10.jpg", "img2.jpg", "img1.jpg", "notes.txt", "cover.PNG"}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "deep.jpg"), []byte("x"), 0o644))

	paths, err := CollectImages(dir, []string{".jpg", ".png"})
	require.NoError(t, err)

	var bases []string
	for _, p := range paths {
		bases = append(bases, filepath.Base(p))
	}
	// extension match is case-insensitive, traversal is recursive, order natural
	assert.Contains(t, bases, "cover.PNG")
	assert.Contains(t, bases, "deep.jpg")
	assert.NotContains(t, bases, "notes.txt")

	idx := func(name string) int {
		for i, b := range bases {
			if b == name {
				return i
			}
		}
		return -1
	}
	assert.Less(t, idx("img1.jpg"), idx("img2.jpg"))
	assert.Less(t, idx("img2.jpg"), idx("img10.jpg"))
}
