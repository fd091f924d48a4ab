package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avisionlabs/avision/config"
	"github.com/avisionlabs/avision/models"
)

// InitGormDB opens the configured database backend and returns a GORM instance
func InitGormDB(cfg config.Config) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var db *gorm.DB
	var err error
	switch cfg.Driver {
	case config.DriverMySQL:
		db, err = gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{Logger: gormLogger})
	default:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{Logger: gormLogger})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database using GORM: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// write-ahead logging and a busy timeout so independent ingest workers
		// queue on the write lock instead of failing immediately
		if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
			log.Printf("warning: failed to set WAL mode: %v", err)
		}
		if err := db.Exec("PRAGMA busy_timeout=5000;").Error; err != nil {
			log.Printf("warning: failed to set busy timeout: %v", err)
		}
		if err := db.Exec("PRAGMA foreign_keys=ON;").Error; err != nil {
			log.Printf("warning: failed to enable foreign keys: %v", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Printf("GORM database initialized successfully (%s)", cfg.Driver)
	return db, nil
}

// expectedColumns maps each table to the column set the store depends on.
// VerifySchema checks these rather than trusting that a table with the right
// name has the right shape.
var expectedColumns = map[string][]string{
	"photos":            {"id", "file_path", "file_name", "file_size", "format", "width", "height", "processing_model", "created_at", "updated_at"},
	"exif_attributes":   {"id", "photo_id", "camera_make", "camera_model", "software", "exposure_time", "aperture", "iso", "focal_length", "gps_latitude", "gps_longitude", "gps_altitude", "taken_at"},
	"object_detections": {"id", "photo_id", "class_label", "confidence", "x", "y", "w", "h", "model_id"},
	"object_summaries":  {"id", "photo_id", "class_label", "total_count", "avg_confidence", "max_confidence"},
	"known_faces":       {"id", "name", "encoding", "source_image_path", "created_at"},
	"face_detections":   {"id", "photo_id", "top", "right", "bottom", "left", "known_face_id", "match_distance", "confidence", "model_id"},
	"face_summaries":    {"id", "photo_id", "total_faces", "recognized_faces", "unrecognized_faces"},
}

// EnsureSchema creates all tables and indexes if absent. It is safe to call
// repeatedly; a connection lacking privileges or an existing table with an
// incompatible shape yields a *SchemaError.
func EnsureSchema(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Photo{},
		&models.ExifAttributes{},
		&models.ObjectDetection{},
		&models.ObjectSummary{},
		&models.KnownFace{},
		&models.FaceDetection{},
		&models.FaceSummary{},
	)
	if err != nil {
		return &SchemaError{Err: fmt.Errorf("GORM AutoMigrate failed: %w", err)}
	}

	return VerifySchema(db)
}

// VerifySchema confirms that every table the store depends on exists with its
// expected column set. AutoMigrate extends tables but silently skips changes
// it cannot apply, so existence alone is not trusted.
func VerifySchema(db *gorm.DB) error {
	migrator := db.Migrator()

	for table, columns := range expectedColumns {
		if !migrator.HasTable(table) {
			return &SchemaError{Table: table, Err: fmt.Errorf("table does not exist")}
		}

		columnTypes, err := migrator.ColumnTypes(table)
		if err != nil {
			return &SchemaError{Table: table, Err: fmt.Errorf("failed to inspect columns: %w", err)}
		}

		present := make(map[string]bool, len(columnTypes))
		for _, ct := range columnTypes {
			present[ct.Name()] = true
		}

		for _, col := range columns {
			if !present[col] {
				return &SchemaError{Table: table, Err: fmt.Errorf("missing expected column %q", col)}
			}
		}
	}

	return nil
}
