package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/projethon/projethon/internal/apperror"
	"github.com/projethon/projethon/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase opens the backend selected by DB_DRIVER ("postgres" or
// "sqlite", default sqlite) and leaves the handle in DB. The postgres pool
// is kept small with aggressive idle timeouts so cold-started instances do
// not pin connections; the embedded backend is a single file and gets no
// pool tuning.
func ConnectDatabase() error {
	driver := strings.ToLower(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "sqlite"
	}

	var err error

	switch driver {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return err
		}

		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}

		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)

		if err := sqlDB.Ping(); err != nil {
			DB = nil
			return err
		}

	case "sqlite":
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = filepath.Join("data", "projethon.db")
		}

		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
		}

		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	return nil
}

// MigrateDatabase creates missing tables and applies additive column
// migrations. Safe to re-run: existing tables are skipped and duplicate
// column errors from earlier runs are ignored.
func MigrateDatabase() error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Review{},
		&models.Attachment{},
	}

	migrator := DB.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := DB.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	// Columns added after the initial schema shipped. AddColumn on an
	// up-to-date schema would fail with a duplicate-column error, so probe
	// first; a lost race here is harmless.
	additive := []struct {
		model  interface{}
		column string
	}{
		{&models.User{}, "AvatarURL"},
		{&models.User{}, "Bio"},
		{&models.Project{}, "Section"},
		{&models.Project{}, "Group"},
		{&models.Project{}, "FullName"},
		{&models.Project{}, "Matricule"},
	}

	for _, a := range additive {
		if !migrator.HasColumn(a.model, a.column) {
			if err := migrator.AddColumn(a.model, a.column); err != nil {
				return err
			}
		}
	}

	return nil
}

// Available reports whether the bootstrap managed to reach the backend.
// Stores call Conn to fail data operations with a 503 instead of panicking
// when the service came up without its database.
func Available() bool {
	return DB != nil
}

func Conn() (*gorm.DB, error) {
	if DB == nil {
		return nil, apperror.BackendUnavailable()
	}
	return DB, nil
}
