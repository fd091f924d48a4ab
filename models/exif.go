package models

// ExifAttributes holds the EXIF metadata extracted from a photo.
// It corresponds to the 'exif_attributes' table; at most one row exists per
// photo and the row is simply omitted for photos without EXIF data.
type ExifAttributes struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotoID uint `gorm:"uniqueIndex;not null" json:"photo_id"`

	CameraMake  *string `gorm:"size:100;index" json:"camera_make,omitempty"`  // Nullable
	CameraModel *string `gorm:"size:100;index" json:"camera_model,omitempty"` // Nullable
	Software    *string `gorm:"size:200" json:"software,omitempty"`           // Nullable

	ExposureTime *string  `gorm:"size:50" json:"exposure_time,omitempty"` // Nullable, e.g. "1/125"
	Aperture     *float64 `gorm:"" json:"aperture,omitempty"`             // Nullable, F-number
	ISO          *int     `gorm:"" json:"iso,omitempty"`                  // Nullable
	FocalLength  *float64 `gorm:"" json:"focal_length,omitempty"`         // Nullable, mm

	// many photos lack GPS data; all three stay null in that case
	GPSLatitude  *float64 `gorm:"index:idx_exif_gps" json:"gps_latitude,omitempty"`
	GPSLongitude *float64 `gorm:"index:idx_exif_gps" json:"gps_longitude,omitempty"`
	GPSAltitude  *float64 `gorm:"" json:"gps_altitude,omitempty"`

	TakenAt *int64 `gorm:"index" json:"taken_at,omitempty"` // Nullable, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (ExifAttributes) TableName() string {
	return "exif_attributes"
}
