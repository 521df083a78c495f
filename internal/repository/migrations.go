package repository

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations brings the vector schema up to date and returns the schema
// version. A dirty schema left by an interrupted run is rolled back one
// version and migrated again.
func RunMigrations(databaseURL string) (uint, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return 0, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return 0, fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	err = up(m)
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		err = recoverDirty(m, dirty.Version)
	}
	if err != nil {
		return 0, err
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func recoverDirty(m *migrate.Migrate, version int) error {
	previous := max(version-1, 0)
	if err := m.Force(previous); err != nil {
		return fmt.Errorf("force schema version %d after dirty %d: %w", previous, version, err)
	}
	if err := up(m); err != nil {
		return fmt.Errorf("migrate after dirty version %d: %w", version, err)
	}
	return nil
}
