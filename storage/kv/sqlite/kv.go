// Package sqlitekv persists the portal's key-value state in a local SQLite
// file, the Go stand-in for the browser's origin-scoped storage.
package sqlitekv

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/kisanhq/kisan/core/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Open opens (creating if needed) the key-value database at path.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating kv table")
	}
	return db, nil
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) session.Repository {
	return &repository{db: db}
}

func (repo *repository) Get(key string) (string, error) {
	var value string
	err := repo.db.Get(&value, `SELECT value FROM kv WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return "", session.ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading key %s", key)
	}
	return value, nil
}

func (repo *repository) Set(key, value string) error {
	_, err := repo.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return errors.Wrapf(err, "writing key %s", key)
}

func (repo *repository) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM kv WHERE key IN (?)`, keys)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = repo.db.Exec(query, args...)
	return errors.Wrap(err, "deleting keys")
}
