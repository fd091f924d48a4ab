package repository

import (
	"github.com/avisionlabs/avision/media"
	"github.com/avisionlabs/avision/models"
)

// PhotoRepositoryInterface defines the methods for photo ingestion and lifecycle
type PhotoRepositoryInterface interface {
	Ingest(in media.PhotoIngest) (uint, error)
	GetByPath(filePath string) (*models.Photo, error)
	Delete(filePath string) error
}

// KnownFaceRepositoryInterface defines the methods for identity enrollment
type KnownFaceRepositoryInterface interface {
	Enroll(name string, encoding []float32, sourceImagePath string) (uint, error)
	ListAll() ([]models.KnownFace, error)
	Delete(id uint) error
}

// QueryRepositoryInterface defines the read-only query operations
type QueryRepositoryInterface interface {
	SearchByObjects(classLabels []string, minCount int) ([]uint, error)
	SearchByFaces(names []string) ([]uint, error)
	GetPhotoInfo(photoID uint) (*PhotoDetail, error)
	GetStatistics() (*Stats, error)
	ListPhotos(limit, offset int) ([]models.Photo, error)
}
