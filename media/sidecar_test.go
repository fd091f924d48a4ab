package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSidecar(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "photo.jpg")

	payload := `{
		"model": "yolov8n",
		"objects": [
			{"class_label": "person", "confidence": 0.91, "box": {"x": 10, "y": 20, "w": 100, "h": 200}},
			{"class_label": "dog", "confidence": 0.44, "box": {"x": 5, "y": 5, "w": 50, "h": 40}}
		],
		"faces": [
			{"box": {"top": 30, "right": 90, "bottom": 80, "left": 40}, "matched_name": "John_Doe", "match_distance": 0.35}
		]
	}`
	require.NoError(t, os.WriteFile(SidecarPath(imagePath), []byte(payload), 0o644))

	sc, err := LoadSidecar(imagePath)
	require.NoError(t, err)
	require.NotNil(t, sc)

	assert.Equal(t, "yolov8n", sc.Model)
	require.Len(t, sc.Objects, 2)
	assert.Equal(t, "person", sc.Objects[0].ClassLabel)
	assert.InDelta(t, 0.91, sc.Objects[0].Confidence, 1e-9)
	assert.Equal(t, Box{X: 10, Y: 20, W: 100, H: 200}, sc.Objects[0].Box)

	require.Len(t, sc.Faces, 1)
	require.NotNil(t, sc.Faces[0].MatchedName)
	assert.Equal(t, "John_Doe", *sc.Faces[0].MatchedName)
	assert.Equal(t, FaceBox{Top: 30, Right: 90, Bottom: 80, Left: 40}, sc.Faces[0].Box)
}

func TestLoadSidecarMissingIsNotAnError(t *testing.T) {
	sc, err := LoadSidecar(filepath.Join(t.TempDir(), "lonely.jpg"))
	require.NoError(t, err)
	assert.Nil(t, sc)
}

func TestLoadSidecarMalformed(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "bad.jpg")
	require.NoError(t, os.WriteFile(SidecarPath(imagePath), []byte("{not json"), 0o644))

	_, err := LoadSidecar(imagePath)
	require.Error(t, err)
}

func TestFilterObjects(t *testing.T) {
	objects := []ObjectResult{
		{ClassLabel: "person", Confidence: 0.91},
		{ClassLabel: "dog", Confidence: 0.44},
		{ClassLabel: "car", Confidence: 0.60},
	}

	kept := FilterObjects(objects, 0.5)
	require.Len(t, kept, 2)
	assert.Equal(t, "person", kept[0].ClassLabel)
	assert.Equal(t, "car", kept[1].ClassLabel)

	// threshold boundary is inclusive
	kept = FilterObjects(objects, 0.60)
	assert.Len(t, kept, 2)

	// a zero threshold disables filtering
	assert.Len(t, FilterObjects(objects, 0), 3)
}
