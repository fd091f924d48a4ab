package repository

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avisionlabs/avision/database"
	"github.com/avisionlabs/avision/media"
	"github.com/avisionlabs/avision/models"
)

// PhotoRepository handles ingestion and lifecycle of Photo aggregates
type PhotoRepository struct {
	DB *gorm.DB
}

// Ensure PhotoRepository implements PhotoRepositoryInterface
var _ PhotoRepositoryInterface = (*PhotoRepository)(nil)

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// validateIngest rejects malformed input before any persistence is attempted
func validateIngest(in *media.PhotoIngest) error {
	if in.File.Path == "" {
		return &database.ValidationError{Field: "file_path", Reason: "must not be empty"}
	}
	for i, obj := range in.Objects {
		if obj.ClassLabel == "" {
			return &database.ValidationError{Field: fmt.Sprintf("objects[%d].class_label", i), Reason: "must not be empty"}
		}
		if obj.Confidence < 0 || obj.Confidence > 1 {
			return &database.ValidationError{Field: fmt.Sprintf("objects[%d].confidence", i), Reason: fmt.Sprintf("must be in [0,1], got %v", obj.Confidence)}
		}
		if obj.Box.X < 0 || obj.Box.Y < 0 || obj.Box.W < 0 || obj.Box.H < 0 {
			return &database.ValidationError{Field: fmt.Sprintf("objects[%d].box", i), Reason: "coordinates must be non-negative"}
		}
	}
	for i, face := range in.Faces {
		if face.Box.Top < 0 || face.Box.Left < 0 || face.Box.Bottom < face.Box.Top || face.Box.Right < face.Box.Left {
			return &database.ValidationError{Field: fmt.Sprintf("faces[%d].box", i), Reason: "region must be non-negative with bottom >= top and right >= left"}
		}
		if face.Confidence != nil && (*face.Confidence < 0 || *face.Confidence > 1) {
			return &database.ValidationError{Field: fmt.Sprintf("faces[%d].confidence", i), Reason: fmt.Sprintf("must be in [0,1], got %v", *face.Confidence)}
		}
	}
	return nil
}

// Ingest commits one photo's raw detection/EXIF/face payloads atomically.
// Re-ingestion of an existing file path is a full replace: every prior
// dependent row is deleted and the aggregates are recomputed from the new set,
// all inside one transaction so readers never observe detections without
// matching summaries.
func (r *PhotoRepository) Ingest(in media.PhotoIngest) (uint, error) {
	if err := validateIngest(&in); err != nil {
		return 0, err
	}

	cleanPath := filepath.ToSlash(in.File.Path)
	var photoID uint

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().Unix()

		// upsert the photo row by path; on MySQL a row lock serializes
		// concurrent re-ingestion of the same path (SQLite serializes
		// writers at the connection level already)
		q := tx.Where("file_path = ?", cleanPath)
		if tx.Dialector.Name() == "mysql" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var photo models.Photo
		err := q.First(&photo).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			photo = models.Photo{
				FilePath:        cleanPath,
				FileName:        path.Base(cleanPath),
				FileSize:        in.File.Size,
				Format:          in.File.Format,
				Width:           in.File.Width,
				Height:          in.File.Height,
				ProcessingModel: in.ProcessingModel,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := tx.Create(&photo).Error; err != nil {
				return fmt.Errorf("failed to create photo record: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up photo record: %w", err)
		default:
			updates := map[string]interface{}{
				"file_name":        path.Base(cleanPath),
				"file_size":        in.File.Size,
				"format":           in.File.Format,
				"width":            in.File.Width,
				"height":           in.File.Height,
				"processing_model": in.ProcessingModel,
				"updated_at":       now,
			}
			if err := tx.Model(&models.Photo{}).Where("id = ?", photo.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update photo record: %w", err)
			}
		}
		photoID = photo.ID

		// full replace: drop every prior dependent row before inserting the
		// new set, so re-processing can never double count
		dependents := []interface{}{
			&models.ExifAttributes{},
			&models.ObjectDetection{},
			&models.ObjectSummary{},
			&models.FaceDetection{},
			&models.FaceSummary{},
		}
		for _, model := range dependents {
			if err := tx.Where("photo_id = ?", photo.ID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete prior rows: %w", err)
			}
		}

		if in.Exif != nil {
			exifRow := models.ExifAttributes{
				PhotoID:      photo.ID,
				CameraMake:   in.Exif.CameraMake,
				CameraModel:  in.Exif.CameraModel,
				Software:     in.Exif.Software,
				ExposureTime: in.Exif.ExposureTime,
				Aperture:     in.Exif.Aperture,
				ISO:          in.Exif.ISO,
				FocalLength:  in.Exif.FocalLength,
				GPSLatitude:  in.Exif.GPSLatitude,
				GPSLongitude: in.Exif.GPSLongitude,
				GPSAltitude:  in.Exif.GPSAltitude,
				TakenAt:      in.Exif.TakenAt,
			}
			if err := tx.Create(&exifRow).Error; err != nil {
				return fmt.Errorf("failed to insert EXIF attributes: %w", err)
			}
		}

		if err := insertObjectRows(tx, photo.ID, in.Objects); err != nil {
			return err
		}
		if err := insertFaceRows(tx, photo.ID, in.Faces); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return 0, &database.StorageError{Op: "ingest", Path: cleanPath, Err: err}
	}

	return photoID, nil
}

// insertObjectRows bulk-inserts the raw detections and the per-class summary
// rows derived from them
func insertObjectRows(tx *gorm.DB, photoID uint, objects []media.ObjectResult) error {
	if len(objects) > 0 {
		rows := make([]models.ObjectDetection, len(objects))
		for i, obj := range objects {
			rows[i] = models.ObjectDetection{
				PhotoID:    photoID,
				ClassLabel: obj.ClassLabel,
				Confidence: obj.Confidence,
				X:          obj.Box.X,
				Y:          obj.Box.Y,
				W:          obj.Box.W,
				H:          obj.Box.H,
				ModelID:    obj.ModelID,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert object detections: %w", err)
		}
	}

	type classAgg struct {
		count int
		sum   float64
		max   float64
	}
	aggs := make(map[string]*classAgg)
	for _, obj := range objects {
		agg, ok := aggs[obj.ClassLabel]
		if !ok {
			agg = &classAgg{}
			aggs[obj.ClassLabel] = agg
		}
		agg.count++
		agg.sum += obj.Confidence
		if obj.Confidence > agg.max {
			agg.max = obj.Confidence
		}
	}

	labels := make([]string, 0, len(aggs))
	for label := range aggs {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		agg := aggs[label]
		summary := models.ObjectSummary{
			PhotoID:       photoID,
			ClassLabel:    label,
			TotalCount:    agg.count,
			AvgConfidence: agg.sum / float64(agg.count),
			MaxConfidence: agg.max,
		}
		if err := tx.Create(&summary).Error; err != nil {
			return fmt.Errorf("failed to insert object summary for class %s: %w", label, err)
		}
	}

	return nil
}

// insertFaceRows inserts the raw face detections, resolving matched names to
// enrolled identities, and writes the per-photo face summary
func insertFaceRows(tx *gorm.DB, photoID uint, faces []media.FaceResult) error {
	knownIDs, err := resolveKnownFaceIDs(tx, faces)
	if err != nil {
		return err
	}

	recognized := 0
	for _, face := range faces {
		row := models.FaceDetection{
			PhotoID:       photoID,
			Top:           face.Box.Top,
			Right:         face.Box.Right,
			Bottom:        face.Box.Bottom,
			Left:          face.Box.Left,
			MatchDistance: face.MatchDistance,
			Confidence:    face.Confidence,
			ModelID:       face.ModelID,
		}
		if face.MatchedName != nil {
			if id, ok := knownIDs[*face.MatchedName]; ok {
				knownID := id
				row.KnownFaceID = &knownID
				recognized++
			}
			// a matched name without an enrolled identity is stored as
			// unrecognized: the store never invents KnownFace rows
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert face detection: %w", err)
		}
	}

	summary := models.FaceSummary{
		PhotoID:           photoID,
		TotalFaces:        len(faces),
		RecognizedFaces:   recognized,
		UnrecognizedFaces: len(faces) - recognized,
	}
	if err := tx.Create(&summary).Error; err != nil {
		return fmt.Errorf("failed to insert face summary: %w", err)
	}

	return nil
}

// resolveKnownFaceIDs maps each matched name in the payload to the lowest
// enrolled KnownFace ID carrying that name
func resolveKnownFaceIDs(tx *gorm.DB, faces []media.FaceResult) (map[string]uint, error) {
	names := make([]string, 0, len(faces))
	seen := make(map[string]bool)
	for _, face := range faces {
		if face.MatchedName != nil && !seen[*face.MatchedName] {
			seen[*face.MatchedName] = true
			names = append(names, *face.MatchedName)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}

	var rows []struct {
		Name string
		ID   uint
	}
	err := tx.Model(&models.KnownFace{}).
		Select("name, MIN(id) AS id").
		Where("name IN ?", names).
		Group("name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve known face names: %w", err)
	}

	ids := make(map[string]uint, len(rows))
	for _, row := range rows {
		ids[row.Name] = row.ID
	}
	return ids, nil
}

// GetByPath retrieves a photo record by its file path
func (r *PhotoRepository) GetByPath(filePath string) (*models.Photo, error) {
	cleanPath := filepath.ToSlash(filePath)
	var photo models.Photo
	err := r.DB.Where("file_path = ?", cleanPath).First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by path %s: %w", cleanPath, err)
	}
	return &photo, nil
}

// Delete removes a photo and all of its dependent rows
func (r *PhotoRepository) Delete(filePath string) error {
	cleanPath := filepath.ToSlash(filePath)

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var photo models.Photo
		if err := tx.Where("file_path = ?", cleanPath).First(&photo).Error; err != nil {
			return err
		}

		dependents := []interface{}{
			&models.ExifAttributes{},
			&models.ObjectDetection{},
			&models.ObjectSummary{},
			&models.FaceDetection{},
			&models.FaceSummary{},
		}
		for _, model := range dependents {
			if err := tx.Where("photo_id = ?", photo.ID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete dependent rows: %w", err)
			}
		}

		return tx.Delete(&models.Photo{}, photo.ID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return &database.StorageError{Op: "delete", Path: cleanPath, Err: err}
	}
	return nil
}
