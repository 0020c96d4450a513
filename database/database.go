package database

import (
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/config"
)

// Connect opens the SQLite data file and returns the shared gorm handle.
// The connection pool is capped at one writer: the application is
// single-user and the backup/restore path depends on a single data file.
func Connect(cfg *config.Config) *gorm.DB {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("failed to create data directory %s: %v", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open database %s: %v", cfg.DBPath, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		log.Printf("warning: could not enable foreign keys: %v", err)
	}

	return db
}
