// Package migration применяет встроенные SQL-миграции схемы поверх
// существующего pgx-пула через golang-migrate.
package migration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const lockTimeout = 30 * time.Second

// Config содержит настройки для миграций.
type Config struct {
	// MigrationsPath - путь к каталогу с .sql файлами внутри MigrationsFS.
	MigrationsPath string
	MigrationsFS   fs.FS
}

// Migrator выполняет миграции базы данных.
type Migrator struct {
	config Config
	pool   *pgxpool.Pool
}

// NewMigrator создает новый экземпляр Migrator.
func NewMigrator(config Config, pool *pgxpool.Pool) *Migrator {
	return &Migrator{
		config: config,
		pool:   pool,
	}
}

// Up применяет все доступные миграции.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(mig *migrate.Migrate) error {
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info().Msg("database migrations applied successfully")
		return nil
	})
}

// Down откатывает все миграции.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, func(mig *migrate.Migrate) error {
		if err := mig.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to rollback migrations: %w", err)
		}
		log.Info().Msg("database migrations rolled back successfully")
		return nil
	})
}

// ForceVersion устанавливает версию миграции принудительно.
// Используется для ручного восстановления после dirty-состояния.
func (m *Migrator) ForceVersion(ctx context.Context, version uint) error {
	return m.run(ctx, func(mig *migrate.Migrate) error {
		if err := mig.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
		log.Info().Uint("version", version).Msg("database migration version forced")
		return nil
	})
}

// Version возвращает текущую версию миграции и признак dirty.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	var version uint
	var dirty bool
	err := m.run(ctx, func(mig *migrate.Migrate) error {
		v, d, err := mig.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				return nil
			}
			return fmt.Errorf("failed to get migration version: %w", err)
		}
		version, dirty = uint(v), d
		return nil
	})
	return version, dirty, err
}

// run собирает migrate.Migrate поверх пула, выполняет fn и закрывает инстанс.
func (m *Migrator) run(ctx context.Context, fn func(*migrate.Migrate) error) error {
	// Проверяем доступность БД до запуска migrate
	if err := m.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}

	db := stdlib.OpenDBFromPool(m.pool)
	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable:       "schema_migrations",
		MigrationsTableQuoted: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(m.config.MigrationsFS, m.config.MigrationsPath)
	if err != nil {
		return fmt.Errorf("failed to create source driver: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer mig.Close()
	mig.LockTimeout = lockTimeout

	return fn(mig)
}
