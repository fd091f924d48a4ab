package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avisionlabs/avision/config"
	"github.com/avisionlabs/avision/database"
	"github.com/avisionlabs/avision/media"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(db))
	return db
}

// setupFileTestDB creates a file-backed SQLite database for tests exercising
// concurrent writers; :memory: databases are per-connection
func setupFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Config{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.InitGormDB(cfg)
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(db))
	return db
}

func strPtr(s string) *string { return &s }

func objectResult(class string, confidence float64) media.ObjectResult {
	return media.ObjectResult{
		ClassLabel: class,
		Confidence: confidence,
		Box:        media.Box{X: 10, Y: 20, W: 100, H: 150},
		ModelID:    "yolov8n",
	}
}

func faceResult(matchedName *string) media.FaceResult {
	var distance *float64
	if matchedName != nil {
		d := 0.35
		distance = &d
	}
	return media.FaceResult{
		Box:           media.FaceBox{Top: 10, Right: 90, Bottom: 80, Left: 20},
		MatchedName:   matchedName,
		MatchDistance: distance,
		ModelID:       "hog",
	}
}

func ingestPayload(path string, objects []media.ObjectResult, faces []media.FaceResult) media.PhotoIngest {
	width, height := 1920, 1080
	format := "jpeg"
	return media.PhotoIngest{
		File: media.FileMeta{
			Path:   path,
			Size:   123456,
			Format: &format,
			Width:  &width,
			Height: &height,
		},
		ProcessingModel: strPtr("yolov8n"),
		Objects:         objects,
		Faces:           faces,
	}
}
