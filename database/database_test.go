package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avisionlabs/avision/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestEnsureSchemaCreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureSchema(db))

	migrator := db.Migrator()
	for table := range expectedColumns {
		assert.True(t, migrator.HasTable(table), "table %s missing", table)
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureSchema(db))
	require.NoError(t, EnsureSchema(db))

	// data written between calls survives the second pass
	photo := models.Photo{FilePath: "photos/keep.jpg", FileName: "keep.jpg", CreatedAt: 1, UpdatedAt: 1}
	require.NoError(t, db.Create(&photo).Error)
	require.NoError(t, EnsureSchema(db))

	var count int64
	require.NoError(t, db.Model(&models.Photo{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVerifySchemaMissingTable(t *testing.T) {
	db := openTestDB(t)

	err := VerifySchema(db)
	var sErr *SchemaError
	require.ErrorAs(t, err, &sErr)
	assert.NotEmpty(t, sErr.Table)
}

func TestVerifySchemaMissingColumn(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, EnsureSchema(db))

	require.NoError(t, db.Migrator().DropColumn(&models.Photo{}, "file_name"))

	err := VerifySchema(db)
	var sErr *SchemaError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "photos", sErr.Table)
	assert.Contains(t, sErr.Error(), "file_name")
}
