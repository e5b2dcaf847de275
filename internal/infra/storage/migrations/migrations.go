package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

var (
	// ErrSource возвращается, если не удалось открыть встроенные миграции
	ErrSource = errors.New("migrations: failed to open embedded source")

	// ErrDriver возвращается, если не удалось создать драйвер базы данных
	ErrDriver = errors.New("migrations: failed to create database driver")

	// ErrUp возвращается при ошибке применения миграций
	ErrUp = errors.New("migrations: failed to apply migrations")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Up применяет все встроенные миграции к базе данных
// Экземпляр migrate не закрывается: он закрыл бы переданный *sql.DB
func Up(db *sql.DB, logger Logger) error {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSource, err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDriver, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUp, err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Database migration: no changes")
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUp, err)
	}

	version, _, _ := m.Version()
	logger.Info("Database migration: applied up to version %d", version)
	return nil
}
