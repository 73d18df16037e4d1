package postgres

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Migration pairs a unique key with the function applying that schema change.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := m.Executor(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	return nil
}

// MigrateUp runs, in order, every Migration whose Key has not yet been recorded
// in the migrations table, recording each one as it completes.
func MigrateUp(db *gorm.DB, migrations []Migration) error {
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	toRun, err := determineMigrationsToRun(db, migrations)
	if err != nil {
		return err
	}

	for _, m := range toRun {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("migration %q: %w", m.Key, err)
		}

		if err := createMigrationRecord(db, m.Key); err != nil {
			return fmt.Errorf("migration %q: %w", m.Key, err)
		}
	}

	return nil
}

func ensureMigrationsTable(db *gorm.DB) error {
	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	return nil
}

type migrationKeyCol struct {
	Key string
}

func determineMigrationsToRun(db *gorm.DB, allMigrations []Migration) ([]Migration, error) {
	ran := []migrationKeyCol{}
	if err := db.Raw("SELECT key FROM migrations;").Scan(&ran).Error; err != nil {
		return nil, fmt.Errorf("fetching ran migrations: %w", err)
	}

	if len(ran) == 0 {
		return allMigrations, nil
	}

	ranKeys := make(map[string]bool, len(ran))
	for _, r := range ran {
		ranKeys[r.Key] = true
	}

	toRun := []Migration{}
	for _, m := range allMigrations {
		if !ranKeys[m.Key] {
			toRun = append(toRun, m)
		}
	}

	return toRun, nil
}

func createMigrationRecord(db *gorm.DB, key string) error {
	return db.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, key, time.Now().Unix()).Error
}
