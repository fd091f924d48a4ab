package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avisionlabs/avision/database"
	"github.com/avisionlabs/avision/models"
)

// KnownFaceRepository handles database operations for enrolled identities
type KnownFaceRepository struct {
	DB *gorm.DB
}

// Ensure KnownFaceRepository implements KnownFaceRepositoryInterface
var _ KnownFaceRepositoryInterface = (*KnownFaceRepository)(nil)

// NewKnownFaceRepository creates a new instance of KnownFaceRepository
func NewKnownFaceRepository(db *gorm.DB) *KnownFaceRepository {
	return &KnownFaceRepository{DB: db}
}

// Enroll inserts or updates a reference encoding for a named identity.
// Enrollment is keyed by source image path: re-enrolling the same source
// updates its name and encoding, a new source appends another encoding row
// for the name. Per-photo tables are never touched.
func (r *KnownFaceRepository) Enroll(name string, encoding []float32, sourceImagePath string) (uint, error) {
	if name == "" {
		return 0, &database.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(encoding) == 0 {
		return 0, &database.ValidationError{Field: "encoding", Reason: "must not be empty"}
	}

	var faceID uint
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if sourceImagePath != "" {
			var existing models.KnownFace
			err := tx.Where("source_image_path = ?", sourceImagePath).First(&existing).Error
			if err == nil {
				existing.Name = name
				existing.SetEncoding(encoding)
				if err := tx.Model(&models.KnownFace{}).Where("id = ?", existing.ID).
					Updates(map[string]interface{}{"name": existing.Name, "encoding": existing.Encoding}).Error; err != nil {
					return fmt.Errorf("failed to update known face %s: %w", name, err)
				}
				faceID = existing.ID
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up known face by source path: %w", err)
			}
		}

		face := models.KnownFace{
			Name:      name,
			CreatedAt: time.Now().Unix(),
		}
		face.SetEncoding(encoding)
		if sourceImagePath != "" {
			face.SourceImagePath = &sourceImagePath
		}
		if err := tx.Create(&face).Error; err != nil {
			return fmt.Errorf("failed to create known face %s: %w", name, err)
		}
		faceID = face.ID
		return nil
	})
	if err != nil {
		return 0, &database.StorageError{Op: "enroll known face", Path: sourceImagePath, Err: err}
	}
	return faceID, nil
}

// ListAll retrieves all known faces ordered by identity ascending
func (r *KnownFaceRepository) ListAll() ([]models.KnownFace, error) {
	var faces []models.KnownFace
	err := r.DB.Order("id ASC").Find(&faces).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list known faces: %w", err)
	}
	return faces, nil
}

// Delete removes an enrolled identity encoding. Face detections referencing
// it are nulled out (never cascade-deleted) and the face summaries of the
// affected photos are recomputed in the same transaction so the recognized
// counts stay in lockstep.
func (r *KnownFaceRepository) Delete(id uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		// collect and null the references before the row goes away, so the
		// affected photos are known even when the backend enforces the
		// ON DELETE SET NULL constraint itself
		var photoIDs []uint
		err := tx.Model(&models.FaceDetection{}).
			Where("known_face_id = ?", id).
			Distinct().
			Pluck("photo_id", &photoIDs).Error
		if err != nil {
			return fmt.Errorf("failed to find detections referencing known face ID %d: %w", id, err)
		}

		if len(photoIDs) > 0 {
			if err := tx.Model(&models.FaceDetection{}).
				Where("known_face_id = ?", id).
				Updates(map[string]interface{}{"known_face_id": gorm.Expr("NULL"), "match_distance": gorm.Expr("NULL")}).Error; err != nil {
				return fmt.Errorf("failed to null references to known face ID %d: %w", id, err)
			}
		}

		result := tx.Delete(&models.KnownFace{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete known face ID %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// the nulled references change recognized counts
		for _, photoID := range photoIDs {
			if err := recomputeFaceSummary(tx, photoID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return &database.StorageError{Op: "delete known face", Err: err}
	}
	return nil
}

// recomputeFaceSummary rewrites a photo's face summary from its detection rows
func recomputeFaceSummary(tx *gorm.DB, photoID uint) error {
	var total, recognized int64
	if err := tx.Model(&models.FaceDetection{}).Where("photo_id = ?", photoID).Count(&total).Error; err != nil {
		return fmt.Errorf("failed to count faces for photo ID %d: %w", photoID, err)
	}
	if err := tx.Model(&models.FaceDetection{}).
		Where("photo_id = ? AND known_face_id IS NOT NULL", photoID).
		Count(&recognized).Error; err != nil {
		return fmt.Errorf("failed to count recognized faces for photo ID %d: %w", photoID, err)
	}

	updates := map[string]interface{}{
		"total_faces":        total,
		"recognized_faces":   recognized,
		"unrecognized_faces": total - recognized,
	}
	if err := tx.Model(&models.FaceSummary{}).Where("photo_id = ?", photoID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to recompute face summary for photo ID %d: %w", photoID, err)
	}
	return nil
}
