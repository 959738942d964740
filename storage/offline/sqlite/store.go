// Package sqlitecache persists offline cache generations in a local SQLite
// file so cached pages survive process restarts.
package sqlitecache

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/kisanhq/kisan/core/offline"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_entry (
	generation TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	status     INTEGER NOT NULL,
	header     TEXT    NOT NULL,
	body       BLOB    NOT NULL,
	PRIMARY KEY (generation, key)
);`

const upsertQuery = `
INSERT INTO cache_entry (generation, key, status, header, body) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (generation, key) DO UPDATE SET
	status = excluded.status, header = excluded.header, body = excluded.body`

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating cache_entry table")
	}
	return db, nil
}

type store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) offline.Store {
	return &store{db: db}
}

type entryRow struct {
	Status int    `db:"status"`
	Header string `db:"header"`
	Body   []byte `db:"body"`
}

func (s *store) Get(generation, key string) (offline.Entry, error) {
	var row entryRow
	err := s.db.Get(&row,
		`SELECT status, header, body FROM cache_entry WHERE generation = ? AND key = ?`,
		generation, key,
	)
	if err == sql.ErrNoRows {
		return offline.Entry{}, offline.ErrEntryNotFound
	}
	if err != nil {
		return offline.Entry{}, errors.Wrapf(err, "reading entry %s", key)
	}

	var header http.Header
	if err := json.Unmarshal([]byte(row.Header), &header); err != nil {
		return offline.Entry{}, errors.Wrapf(err, "decoding header of entry %s", key)
	}
	return offline.Entry{Status: row.Status, Header: header, Body: row.Body}, nil
}

func (s *store) Put(generation, key string, entry offline.Entry) error {
	header, err := json.Marshal(entry.Header)
	if err != nil {
		return errors.Wrapf(err, "encoding header of entry %s", key)
	}
	_, err = s.db.Exec(upsertQuery, generation, key, entry.Status, string(header), entry.Body)
	return errors.Wrapf(err, "writing entry %s", key)
}

// PutAll writes all entries in one transaction so a failed install commits
// nothing.
func (s *store) PutAll(generation string, entries map[string]offline.Entry) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	for key, entry := range entries {
		header, err := json.Marshal(entry.Header)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "encoding header of entry %s", key)
		}
		if _, err := tx.Exec(upsertQuery, generation, key, entry.Status, string(header), entry.Body); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "writing entry %s", key)
		}
	}
	return errors.Wrap(tx.Commit(), "committing entries")
}

func (s *store) Generations() ([]string, error) {
	var names []string
	err := s.db.Select(&names, `SELECT DISTINCT generation FROM cache_entry ORDER BY generation`)
	return names, errors.Wrap(err, "listing generations")
}

func (s *store) DeleteGeneration(name string) error {
	_, err := s.db.Exec(`DELETE FROM cache_entry WHERE generation = ?`, name)
	return errors.Wrapf(err, "deleting generation %s", name)
}
