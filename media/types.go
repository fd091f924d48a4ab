package media

// Box is an object bounding box in pixel units.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FaceBox is a face location in pixel units, in the top/right/bottom/left
// convention the face engine reports.
type FaceBox struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// ObjectResult is one raw object-detector result for a photo.
type ObjectResult struct {
	ClassLabel string  `json:"class_label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
	ModelID    string  `json:"model_id,omitempty"`
}

// FaceResult is one raw face-engine result for a photo. MatchedName is set
// when the engine matched the face against an enrolled identity.
type FaceResult struct {
	Box           FaceBox   `json:"box"`
	Encoding      []float32 `json:"encoding,omitempty"`
	MatchedName   *string   `json:"matched_name,omitempty"`
	MatchDistance *float64  `json:"match_distance,omitempty"`
	Confidence    *float64  `json:"confidence,omitempty"`
	ModelID       string    `json:"model_id,omitempty"`
}

// FileMeta is the basic file-level metadata for a photo.
type FileMeta struct {
	Path   string  `json:"path"`
	Size   int64   `json:"size"`
	Format *string `json:"format,omitempty"`
	Width  *int    `json:"width,omitempty"`
	Height *int    `json:"height,omitempty"`
}

// ExifData is the flat EXIF attribute set the extractor produces; any subset
// may be absent.
type ExifData struct {
	CameraMake   *string  `json:"camera_make,omitempty"`
	CameraModel  *string  `json:"camera_model,omitempty"`
	Software     *string  `json:"software,omitempty"`
	ExposureTime *string  `json:"exposure_time,omitempty"`
	Aperture     *float64 `json:"aperture,omitempty"`
	ISO          *int     `json:"iso,omitempty"`
	FocalLength  *float64 `json:"focal_length,omitempty"`
	GPSLatitude  *float64 `json:"gps_latitude,omitempty"`
	GPSLongitude *float64 `json:"gps_longitude,omitempty"`
	GPSAltitude  *float64 `json:"gps_altitude,omitempty"`
	TakenAt      *int64   `json:"taken_at,omitempty"`
}

// PhotoIngest is the complete per-photo payload handed to the store: file
// metadata plus whatever the external collaborators produced.
type PhotoIngest struct {
	File            FileMeta
	ProcessingModel *string
	Exif            *ExifData
	Objects         []ObjectResult
	Faces           []FaceResult
}
