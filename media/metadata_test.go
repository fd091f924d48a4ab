package media

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, dir string, width, height int) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))

	path := filepath.Join(dir, "test.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestReadFileMeta(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), 64, 48)

	meta, err := ReadFileMeta(path)
	require.NoError(t, err)

	assert.Equal(t, path, meta.Path)
	assert.Positive(t, meta.Size)
	require.NotNil(t, meta.Width)
	require.NotNil(t, meta.Height)
	require.NotNil(t, meta.Format)
	assert.Equal(t, 64, *meta.Width)
	assert.Equal(t, 48, *meta.Height)
	assert.Equal(t, "png", *meta.Format)
}

func TestReadFileMetaUndecodableImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notanimage.jpg")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	// size still comes from the filesystem; dimensions stay unset
	meta, err := ReadFileMeta(path)
	require.NoError(t, err)
	assert.EqualValues(t, 10, meta.Size)
	assert.Nil(t, meta.Width)
	assert.Nil(t, meta.Format)
}

func TestReadFileMetaMissingFile(t *testing.T) {
	_, err := ReadFileMeta(filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
}

func TestExtractExifAbsentIsNotAnError(t *testing.T) {
	// PNGs carry no EXIF APP1 segment
	path := writeTestPNG(t, t.TempDir(), 8, 8)

	data, err := ExtractExif(path)
	require.NoError(t, err)
	assert.Nil(t, data)
}
