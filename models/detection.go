package models

// ObjectDetection is a single raw detector result for a photo.
// Rows correspond to the 'object_detections' table; they are created in bulk
// per ingestion and never mutated, only replaced wholesale on re-processing.
type ObjectDetection struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotoID    uint    `gorm:"index;not null" json:"photo_id"`
	ClassLabel string  `gorm:"size:100;index;not null" json:"class_label"`
	Confidence float64 `gorm:"not null" json:"confidence"` // 0.0 - 1.0

	// bounding box in pixel units
	X int `gorm:"not null" json:"x"`
	Y int `gorm:"not null" json:"y"`
	W int `gorm:"not null" json:"w"`
	H int `gorm:"not null" json:"h"`

	// opaque detector model identifier, e.g. "yolov8n"
	ModelID string `gorm:"size:100" json:"model_id"`
}

// TableName explicitly sets the table name for GORM.
func (ObjectDetection) TableName() string {
	return "object_detections"
}

// ObjectSummary is the derived per-(photo, class) aggregate of ObjectDetection
// rows. It corresponds to the 'object_summaries' table and is written in the
// same transaction as the raw detections so the two can never drift.
type ObjectSummary struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotoID       uint    `gorm:"uniqueIndex:idx_summary_photo_class;index;not null" json:"photo_id"`
	ClassLabel    string  `gorm:"size:100;uniqueIndex:idx_summary_photo_class;index;not null" json:"class_label"`
	TotalCount    int     `gorm:"not null" json:"total_count"`
	AvgConfidence float64 `gorm:"not null" json:"avg_confidence"`
	MaxConfidence float64 `gorm:"not null" json:"max_confidence"`
}

// TableName explicitly sets the table name for GORM.
func (ObjectSummary) TableName() string {
	return "object_summaries"
}
