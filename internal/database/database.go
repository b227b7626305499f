package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/entities"
)

type Database struct {
	DB   *gorm.DB
	Path string
}

// NewDatabase opens the catalog database at dbPath and makes sure the schema
// exists. It is safe to call on every startup.
func NewDatabase(dbPath string, log *logrus.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db, Path: dbPath}
	if err := database.Initialize(); err != nil {
		database.Close()
		return nil, err
	}

	if log != nil {
		log.WithField("path", dbPath).Debug("database initialized")
	}

	return database, nil
}

// Initialize creates the books table if it does not exist yet.
func (d *Database) Initialize() error {
	if err := d.DB.AutoMigrate(&entities.Book{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newGormLogger routes GORM's own logging through logrus. Only slow queries
// and errors are reported; record-not-found is an expected outcome here.
func newGormLogger(log *logrus.Logger) logger.Interface {
	if log == nil {
		return logger.Discard
	}
	return logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
