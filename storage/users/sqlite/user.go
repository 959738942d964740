// Package sqliteusers persists registered accounts in a local SQLite file.
package sqliteusers

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/kisanhq/kisan/core/user"
)

const schema = `
CREATE TABLE IF NOT EXISTS account (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT    NOT NULL,
	email         TEXT    NOT NULL UNIQUE,
	role          TEXT    NOT NULL,
	is_verified   INTEGER NOT NULL DEFAULT 0,
	password_hash BLOB    NOT NULL,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);`

// Open opens (creating if needed) the accounts database at path.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating account table")
	}
	return db, nil
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) user.Repository {
	return &repository{db: db}
}

type accountRow struct {
	ID           int       `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	IsVerified   bool      `db:"is_verified"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r accountRow) account() user.Account {
	return user.Account{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		IsVerified:   r.IsVerified,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func (repo *repository) CheckEmailUniqueness(email string, excludedAccounts ...user.Account) error {
	var row accountRow
	err := repo.db.Get(&row, `SELECT id, name, email, role, is_verified, password_hash, created_at, updated_at
		FROM account WHERE email = ?`, email)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	for _, excl := range excludedAccounts {
		if excl.ID == row.ID {
			return nil
		}
	}
	return user.ErrEmailExists
}

func (repo *repository) CreateAccount(acct user.Account) (user.Account, error) {
	res, err := repo.db.Exec(
		`INSERT INTO account (name, email, role, is_verified, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		acct.Name, acct.Email, acct.Role, acct.IsVerified, acct.PasswordHash, acct.CreatedAt, acct.UpdatedAt,
	)
	if err != nil {
		return user.Account{}, errors.Wrap(err, "inserting account")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.Account{}, errors.Wrap(err, "reading inserted id")
	}
	acct.ID = int(id)
	return acct, nil
}

func (repo *repository) GetAccountByEmail(email string) (user.Account, error) {
	var row accountRow
	err := repo.db.Get(&row, `SELECT id, name, email, role, is_verified, password_hash, created_at, updated_at
		FROM account WHERE email = ?`, email)
	if err == sql.ErrNoRows {
		return user.Account{}, user.ErrNotFound
	}
	if err != nil {
		return user.Account{}, errors.Wrap(err, "reading account")
	}
	return row.account(), nil
}

func (repo *repository) QueryAllAccounts() ([]user.Account, error) {
	var rows []accountRow
	if err := repo.db.Select(&rows, `SELECT id, name, email, role, is_verified, password_hash, created_at, updated_at
		FROM account ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "listing accounts")
	}
	accounts := make([]user.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.account())
	}
	return accounts, nil
}

func (repo *repository) UpdateAccount(acct user.Account) (user.Account, error) {
	res, err := repo.db.Exec(
		`UPDATE account SET name = ?, email = ?, role = ?, is_verified = ?, password_hash = ?, updated_at = ?
		 WHERE id = ?`,
		acct.Name, acct.Email, acct.Role, acct.IsVerified, acct.PasswordHash, acct.UpdatedAt, acct.ID,
	)
	if err != nil {
		return user.Account{}, errors.Wrap(err, "updating account")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return user.Account{}, errors.Wrap(err, "reading affected rows")
	}
	if affected == 0 {
		return user.Account{}, user.ErrNotFound
	}
	return acct, nil
}
