package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quizfit/internal/config"
	"quizfit/internal/model"
)

// models lists every table in dependency order; tables are dropped in reverse.
var models = []interface{}{
	&model.User{},
	&model.Member{},
	&model.Quiz{},
	&model.Question{},
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey on every driver.
		TranslateError: true,
		Logger:         newGormLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn)),
	}
}

// newGormLogger reports slow queries and real errors to w. Missing rows are an
// expected outcome of lookups and are not logged.
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// New opens the database selected by cfg.DBDriver.
func New(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "", "mysql":
		return NewMySQL(cfg.MySQLDSN)
	case "sqlite":
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql pool: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	return db, nil
}

// NewSQLite opens a single-connection SQLite database at path.
func NewSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates every table. With reset set, existing tables are dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
