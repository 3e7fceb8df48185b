package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/quizforge/config"
	"github.com/lshigami/quizforge/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the store configured by cfg.Database.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return OpenSQLite(cfg.Database.Path)
	case "postgres", "":
		return OpenPostgres(cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Database.Driver)
	}
}

func OpenPostgres(c config.Database) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Str("host", c.Host).Str("db", c.Name).Msg("Connected to postgres")
	return db, nil
}

// OpenSQLite opens a SQLite file, or a private in-memory database when path
// is ":memory:". Foreign keys are switched on so question rows cascade.
func OpenSQLite(path string) (*gorm.DB, error) {
	memory := path == ":memory:" || path == ""
	dsn := path
	if memory {
		dsn = "file::memory:"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=foreign_keys(1)"

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// each connection to ":memory:" is its own database
	sqlDB.SetMaxOpenConns(1)
	log.Info().Str("path", path).Msg("Opened sqlite database")
	return db, nil
}

// Migrate creates or updates the quiz tables.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(&model.Quiz{}, &model.Question{}); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...interface{}) {
	log.Debug().Str("component", "gorm").Msgf(format, args...)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(zerologWriter{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}
