package media

import (
	"encoding/json"
	"fmt"
	"os"
)

// SidecarSuffix is appended to an image path to locate the detection sidecar
// the external detector/face engine writes alongside the image.
const SidecarSuffix = ".detections.json"

// Sidecar is the on-disk detection payload for one image.
type Sidecar struct {
	Model   string         `json:"model,omitempty"`
	Objects []ObjectResult `json:"objects,omitempty"`
	Faces   []FaceResult   `json:"faces,omitempty"`
}

// SidecarPath returns the sidecar location for an image path.
func SidecarPath(imagePath string) string {
	return imagePath + SidecarSuffix
}

// LoadSidecar reads the detection sidecar for an image. A missing sidecar is
// not an error; it yields (nil, nil) and the photo is ingested with no
// detections.
func LoadSidecar(imagePath string) (*Sidecar, error) {
	data, err := os.ReadFile(SidecarPath(imagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("media: failed to read sidecar for %s: %w", imagePath, err)
	}

	var sc Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("media: failed to parse sidecar for %s: %w", imagePath, err)
	}
	return &sc, nil
}

// FilterObjects drops object results below the confidence threshold.
func FilterObjects(objects []ObjectResult, threshold float64) []ObjectResult {
	if threshold <= 0 {
		return objects
	}
	kept := make([]ObjectResult, 0, len(objects))
	for _, obj := range objects {
		if obj.Confidence >= threshold {
			kept = append(kept, obj)
		}
	}
	return kept
}
