package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

const (
	defaultIngestWorkers       = 4
	defaultConfidenceThreshold = 0.25
)

// MySQLConfig holds the connection parameters for a MySQL-backed store.
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN builds the go-sql-driver connection string.
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		m.User, m.Password, m.Host, m.Port, m.Database)
}

type Config struct {
	// database backend: sqlite (default) or mysql
	Driver string

	// sqlite database path
	SQLitePath string

	// mysql connection parameters, used when Driver is mysql
	MySQL MySQLConfig

	// detections below this confidence are dropped before ingestion
	ConfidenceThreshold float64

	// number of concurrent ingest workers for directory processing
	IngestWorkers int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val < 0 || val > 1 {
		log.Printf("Warning: Invalid %s '%s'. Using default %.2f. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	driver := getEnvOrDefault("AVISION_DB_DRIVER", DriverSQLite)
	if driver != DriverSQLite && driver != DriverMySQL {
		return Config{}, fmt.Errorf("unsupported database driver %q (expected %q or %q)", driver, DriverSQLite, DriverMySQL)
	}

	cfg := Config{
		Driver:     driver,
		SQLitePath: getEnvOrDefault("AVISION_SQLITE_PATH", "photos.db"),
		MySQL: MySQLConfig{
			Host:     getEnvOrDefault("AVISION_MYSQL_HOST", "localhost"),
			Port:     getEnvIntOrDefault("AVISION_MYSQL_PORT", 3306),
			User:     getEnvOrDefault("AVISION_MYSQL_USER", "root"),
			Password: getEnvOrDefault("AVISION_MYSQL_PASSWORD", ""),
			Database: getEnvOrDefault("AVISION_MYSQL_DATABASE", "photo_analysis"),
		},
		ConfidenceThreshold: getEnvFloatOrDefault("AVISION_CONFIDENCE_THRESHOLD", defaultConfidenceThreshold),
		IngestWorkers:       getEnvIntOrDefault("AVISION_INGEST_WORKERS", defaultIngestWorkers),
	}

	return cfg, nil
}
