package models

import "math"

// KnownFace is a reference encoding for a named identity, populated by the
// enrollment step rather than per-photo ingestion. One identity may have
// several rows, one per reference encoding. It corresponds to the
// 'known_faces' table.
type KnownFace struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;index;not null" json:"name"`

	// fixed-length face encoding vector stored as BLOB
	Encoding []byte `gorm:"not null;column:encoding" json:"-"`

	SourceImagePath *string `gorm:"size:500;uniqueIndex" json:"source_image_path,omitempty"` // Nullable
	CreatedAt       int64   `gorm:"not null" json:"created_at"`                              // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (KnownFace) TableName() string {
	return "known_faces"
}

// GetEncoding converts the BLOB data to []float32
func (kf *KnownFace) GetEncoding() []float32 {
	if len(kf.Encoding) == 0 {
		return nil
	}

	encoding := make([]float32, len(kf.Encoding)/4) // 4 bytes per float32
	for i := 0; i < len(encoding); i++ {
		offset := i * 4
		bits := uint32(kf.Encoding[offset]) |
			uint32(kf.Encoding[offset+1])<<8 |
			uint32(kf.Encoding[offset+2])<<16 |
			uint32(kf.Encoding[offset+3])<<24
		encoding[i] = math.Float32frombits(bits)
	}
	return encoding
}

// SetEncoding converts []float32 to BLOB data
func (kf *KnownFace) SetEncoding(encoding []float32) {
	if len(encoding) == 0 {
		kf.Encoding = nil
		return
	}

	kf.Encoding = make([]byte, len(encoding)*4) // 4 bytes per float32
	for i, val := range encoding {
		offset := i * 4
		bits := math.Float32bits(val)
		kf.Encoding[offset] = byte(bits)
		kf.Encoding[offset+1] = byte(bits >> 8)
		kf.Encoding[offset+2] = byte(bits >> 16)
		kf.Encoding[offset+3] = byte(bits >> 24)
	}
}

// FaceDetection is a single detected face in a photo, optionally bound to an
// enrolled identity. A null KnownFaceID means the face was not recognized.
// It corresponds to the 'face_detections' table.
type FaceDetection struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotoID uint `gorm:"index;not null" json:"photo_id"`

	// face location within the photo, pixel units
	Top    int `gorm:"not null" json:"top"`
	Right  int `gorm:"not null" json:"right"`
	Bottom int `gorm:"not null" json:"bottom"`
	Left   int `gorm:"not null" json:"left"`

	KnownFaceID   *uint    `gorm:"index" json:"known_face_id,omitempty"`  // Nullable
	MatchDistance *float64 `gorm:"" json:"match_distance,omitempty"`      // Nullable
	Confidence    *float64 `gorm:"" json:"confidence,omitempty"`          // Nullable
	ModelID       string   `gorm:"size:100" json:"model_id"`

	// no ownership: deleting a KnownFace nulls this out, never cascades
	KnownFace *KnownFace `gorm:"foreignKey:KnownFaceID;constraint:OnDelete:SET NULL" json:"known_face,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (FaceDetection) TableName() string {
	return "face_detections"
}

// FaceSummary is the derived per-photo face aggregate, maintained in lockstep
// with FaceDetection rows. It corresponds to the 'face_summaries' table.
type FaceSummary struct {
	ID                uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotoID           uint `gorm:"uniqueIndex;not null" json:"photo_id"`
	TotalFaces        int  `gorm:"not null" json:"total_faces"`
	RecognizedFaces   int  `gorm:"not null" json:"recognized_faces"`
	UnrecognizedFaces int  `gorm:"not null" json:"unrecognized_faces"`
}

// TableName explicitly sets the table name for GORM.
func (FaceSummary) TableName() string {
	return "face_summaries"
}
