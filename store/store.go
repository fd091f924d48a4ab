// Package store exposes the metadata store behind a single facade: external
// callers (CLI commands, HTTP handlers, the ingest worker pool) construct one
// Store from an explicit configuration value and go through its methods only.
package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/avisionlabs/avision/config"
	"github.com/avisionlabs/avision/database"
	"github.com/avisionlabs/avision/media"
	"github.com/avisionlabs/avision/models"
	"github.com/avisionlabs/avision/repository"
)

// Store is the single entry point to ingestion and query operations.
type Store struct {
	DB         *gorm.DB
	Photos     repository.PhotoRepositoryInterface
	KnownFaces repository.KnownFaceRepositoryInterface
	Queries    repository.QueryRepositoryInterface
}

// New opens the configured database, ensures the schema exists and wires the
// repositories. A *database.SchemaError here is fatal: the store must not
// operate against a mismatched schema.
func New(cfg config.Config) (*Store, error) {
	db, err := database.InitGormDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(db); err != nil {
		return nil, err
	}
	return Open(db), nil
}

// Open wires a Store over an already-initialized database handle. Used by
// tests running against disposable databases.
func Open(db *gorm.DB) *Store {
	return &Store{
		DB:         db,
		Photos:     repository.NewPhotoRepository(db),
		KnownFaces: repository.NewKnownFaceRepository(db),
		Queries:    repository.NewQueryRepository(db),
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// IngestPhoto commits one photo's raw payloads atomically and returns the
// photo identity. Re-ingestion of the same path is a full replace.
func (s *Store) IngestPhoto(in media.PhotoIngest) (uint, error) {
	return s.Photos.Ingest(in)
}

// GetPhotoByPath looks up a photo record by file path.
func (s *Store) GetPhotoByPath(filePath string) (*models.Photo, error) {
	return s.Photos.GetByPath(filePath)
}

// DeletePhoto removes a photo and every dependent row.
func (s *Store) DeletePhoto(filePath string) error {
	return s.Photos.Delete(filePath)
}

// EnrollKnownFace inserts or appends a reference encoding for a name.
func (s *Store) EnrollKnownFace(name string, encoding []float32, sourceImagePath string) (uint, error) {
	return s.KnownFaces.Enroll(name, encoding, sourceImagePath)
}

// ListKnownFaces enumerates enrolled identities, ordered by ID ascending.
func (s *Store) ListKnownFaces() ([]models.KnownFace, error) {
	return s.KnownFaces.ListAll()
}

// DeleteKnownFace removes an enrolled encoding, nulling out references.
func (s *Store) DeleteKnownFace(id uint) error {
	return s.KnownFaces.Delete(id)
}

// SearchByObjects returns photos containing every requested class with at
// least minCount instances.
func (s *Store) SearchByObjects(classLabels []string, minCount int) ([]uint, error) {
	return s.Queries.SearchByObjects(classLabels, minCount)
}

// SearchByFaces returns photos containing any of the named identities.
func (s *Store) SearchByFaces(names []string) ([]uint, error) {
	return s.Queries.SearchByFaces(names)
}

// GetPhotoInfo retrieves everything known about one photo.
func (s *Store) GetPhotoInfo(photoID uint) (*repository.PhotoDetail, error) {
	return s.Queries.GetPhotoInfo(photoID)
}

// GetStatistics computes store-wide statistics.
func (s *Store) GetStatistics() (*repository.Stats, error) {
	return s.Queries.GetStatistics()
}

// ListPhotos enumerates photos with deterministic pagination.
func (s *Store) ListPhotos(limit, offset int) ([]models.Photo, error) {
	return s.Queries.ListPhotos(limit, offset)
}
