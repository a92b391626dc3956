package store

import (
	"database/sql"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// EnsureMigrations brings the bet-log schema at dbPath up to date from
// the migration files at migrationsPath (a file:// source URL). Call
// once at startup, before opening the store. Migration failure is not
// recoverable, so it panics rather than returning.
func EnsureMigrations(migrationsPath, dbPath string) {
	sqliteDb, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		panic(err)
	}
	driver, err := sqlite3.WithInstance(sqliteDb, &sqlite3.Config{})
	if err != nil {
		panic(err)
	}
	m, err := migrate.NewWithDatabaseInstance(migrationsPath, dbPath, driver)
	if err != nil {
		panic(err)
	}
	log.Info().Str("dbPath", dbPath).Msg("bringing up migration")
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		panic(err)
	}
	e1, e2 := m.Close()
	log.Err(e1).Msg("close-source")
	log.Err(e2).Msg("close-database")
}
