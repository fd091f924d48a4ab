package repository

import (
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/avisionlabs/avision/database"
	"github.com/avisionlabs/avision/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// QueryRepository answers read-only searches over the normalized tables
type QueryRepository struct {
	DB *gorm.DB
}

// Ensure QueryRepository implements QueryRepositoryInterface
var _ QueryRepositoryInterface = (*QueryRepository)(nil)

// NewQueryRepository creates a new instance of QueryRepository
func NewQueryRepository(db *gorm.DB) *QueryRepository {
	return &QueryRepository{DB: db}
}

// PhotoDetail joins everything known about one photo
type PhotoDetail struct {
	Photo            models.Photo             `json:"photo"`
	Exif             *models.ExifAttributes   `json:"exif,omitempty"`
	ObjectDetections []models.ObjectDetection `json:"object_detections"`
	ObjectSummaries  []models.ObjectSummary   `json:"object_summaries"`
	FaceDetections   []models.FaceDetection   `json:"face_detections"`
	FaceSummary      *models.FaceSummary      `json:"face_summary,omitempty"`
}

// ClassCount is one entry of the class distribution in Stats
type ClassCount struct {
	ClassLabel string `json:"class_label"`
	Total      int64  `json:"total"`
}

// Stats aggregates store-wide statistics, computed entirely in SQL
type Stats struct {
	TotalPhotos       int64        `json:"total_photos"`
	TotalDetections   int64        `json:"total_detections"`
	TopClasses        []ClassCount `json:"top_classes"`
	PhotosWithGPS     int64        `json:"photos_with_gps"`
	RecognizedFaces   int64        `json:"recognized_faces"`
	UnrecognizedFaces int64        `json:"unrecognized_faces"`
	KnownFaces        int64        `json:"known_faces"`
	KnownIdentities   int64        `json:"known_identities"`
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// SearchByObjects returns the IDs of photos whose summaries satisfy
// total_count >= minCount for EVERY requested class (intersection semantics,
// deliberately not union), ordered by photo ID ascending.
func (r *QueryRepository) SearchByObjects(classLabels []string, minCount int) ([]uint, error) {
	classLabels = dedupe(classLabels)
	if len(classLabels) == 0 {
		return nil, &database.ValidationError{Field: "class_labels", Reason: "must not be empty"}
	}
	if minCount < 1 {
		minCount = 1
	}

	queryBuilder := psql.Select("photo_id").
		From("object_summaries").
		Where(sq.Eq{"class_label": classLabels}).
		Where(sq.GtOrEq{"total_count": minCount}).
		GroupBy("photo_id").
		Having("COUNT(DISTINCT class_label) = ?", len(classLabels)).
		OrderBy("photo_id ASC")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for SearchByObjects: %w", err)
	}

	var photoIDs []uint
	if err := r.DB.Raw(sqlStr, args...).Scan(&photoIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to search photos by objects: %w", err)
	}
	return photoIDs, nil
}

// SearchByFaces returns the IDs of photos containing a recognized face bound
// to ANY of the requested identity names (union semantics: multi-person
// photos are the common case), ordered by photo ID ascending.
func (r *QueryRepository) SearchByFaces(names []string) ([]uint, error) {
	names = dedupe(names)
	if len(names) == 0 {
		return nil, &database.ValidationError{Field: "names", Reason: "must not be empty"}
	}

	queryBuilder := psql.Select("face_detections.photo_id").
		Distinct().
		From("face_detections").
		Join("known_faces ON known_faces.id = face_detections.known_face_id").
		Where(sq.Eq{"known_faces.name": names}).
		OrderBy("face_detections.photo_id ASC")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for SearchByFaces: %w", err)
	}

	var photoIDs []uint
	if err := r.DB.Raw(sqlStr, args...).Scan(&photoIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to search photos by faces: %w", err)
	}
	return photoIDs, nil
}

// GetPhotoInfo retrieves one photo with its EXIF attributes, detections and
// summaries. Returns *database.NotFoundError for an unknown photo ID.
func (r *QueryRepository) GetPhotoInfo(photoID uint) (*PhotoDetail, error) {
	var photo models.Photo
	err := r.DB.
		Preload("Exif").
		Preload("ObjectDetections", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("ObjectSummaries", func(db *gorm.DB) *gorm.DB { return db.Order("class_label ASC") }).
		Preload("FaceDetections", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("FaceDetections.KnownFace").
		Preload("FaceSummary").
		First(&photo, photoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &database.NotFoundError{Entity: "photo", ID: photoID}
		}
		return nil, fmt.Errorf("failed to get photo info for ID %d: %w", photoID, err)
	}

	detail := &PhotoDetail{
		Photo:            photo,
		Exif:             photo.Exif,
		ObjectDetections: photo.ObjectDetections,
		ObjectSummaries:  photo.ObjectSummaries,
		FaceDetections:   photo.FaceDetections,
		FaceSummary:      photo.FaceSummary,
	}
	return detail, nil
}

// GetStatistics computes store-wide statistics with aggregate queries; no
// detection rows are ever loaded into memory.
func (r *QueryRepository) GetStatistics() (*Stats, error) {
	stats := &Stats{}

	if err := r.DB.Model(&models.Photo{}).Count(&stats.TotalPhotos).Error; err != nil {
		return nil, fmt.Errorf("failed to count photos: %w", err)
	}
	if err := r.DB.Model(&models.ObjectDetection{}).Count(&stats.TotalDetections).Error; err != nil {
		return nil, fmt.Errorf("failed to count object detections: %w", err)
	}

	err := r.DB.Model(&models.ObjectSummary{}).
		Select("class_label, SUM(total_count) AS total").
		Group("class_label").
		Order("total DESC").
		Limit(10).
		Scan(&stats.TopClasses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute class distribution: %w", err)
	}

	err = r.DB.Model(&models.ExifAttributes{}).
		Where("gps_latitude IS NOT NULL AND gps_longitude IS NOT NULL").
		Count(&stats.PhotosWithGPS).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count photos with GPS: %w", err)
	}

	var faceTotals struct {
		Recognized   int64
		Unrecognized int64
	}
	err = r.DB.Model(&models.FaceSummary{}).
		Select("COALESCE(SUM(recognized_faces), 0) AS recognized, COALESCE(SUM(unrecognized_faces), 0) AS unrecognized").
		Scan(&faceTotals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum face summaries: %w", err)
	}
	stats.RecognizedFaces = faceTotals.Recognized
	stats.UnrecognizedFaces = faceTotals.Unrecognized

	if err := r.DB.Model(&models.KnownFace{}).Count(&stats.KnownFaces).Error; err != nil {
		return nil, fmt.Errorf("failed to count known faces: %w", err)
	}
	if err := r.DB.Model(&models.KnownFace{}).Distinct("name").Count(&stats.KnownIdentities).Error; err != nil {
		return nil, fmt.Errorf("failed to count known identities: %w", err)
	}

	return stats, nil
}

// ListPhotos enumerates photos ordered by identity ascending so pagination is
// deterministic
func (r *QueryRepository) ListPhotos(limit, offset int) ([]models.Photo, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var photos []models.Photo
	err := r.DB.Order("id ASC").Limit(limit).Offset(offset).Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}
