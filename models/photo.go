package models

// Photo represents a processed photo record in the database using GORM.
// It corresponds to the 'photos' table and is the aggregation root for all
// per-photo metadata: EXIF attributes, object detections and face detections.
type Photo struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FilePath string `gorm:"uniqueIndex;size:500;not null" json:"file_path"`
	FileName string `gorm:"size:255;not null" json:"file_name"`
	FileSize int64  `gorm:"not null" json:"file_size"`

	Format *string `gorm:"size:50" json:"format,omitempty"` // Nullable
	Width  *int    `gorm:"" json:"width,omitempty"`         // Nullable
	Height *int    `gorm:"" json:"height,omitempty"`        // Nullable

	// opaque identifier of the detector model used for the last ingestion
	ProcessingModel *string `gorm:"size:100" json:"processing_model,omitempty"`

	CreatedAt int64 `gorm:"not null;index" json:"created_at"` // Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"`       // Unix timestamp

	// Relationships; all dependent rows are replaced together on re-ingestion
	Exif             *ExifAttributes   `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE" json:"exif,omitempty"`
	ObjectDetections []ObjectDetection `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE" json:"object_detections,omitempty"`
	ObjectSummaries  []ObjectSummary   `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE" json:"object_summaries,omitempty"`
	FaceDetections   []FaceDetection   `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE" json:"face_detections,omitempty"`
	FaceSummary      *FaceSummary      `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE" json:"face_summary,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Photo) TableName() string {
	return "photos"
}
