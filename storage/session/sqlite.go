package sessionstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/17dpatra/studentassignmenttracker/core/session"
)

const schema = `CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// Open opens (or creates) the sqlite file at path and makes sure the settings table exists.
// ":memory:" opens a throwaway database.
func Open(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, errors.Wrap(err, "creating session directory")
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening session database")
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating settings table")
	}
	return db, nil
}

type sqliteStore struct {
	db *sqlx.DB
}

var _ session.Store = (*sqliteStore)(nil)

// NewSQLiteStore persists the session as plain `token` and `username` settings rows.
func NewSQLiteStore(db *sqlx.DB) session.Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Get(ctx context.Context) (session.Session, error) {
	var rows []setting
	err := s.db.SelectContext(ctx, &rows,
		"SELECT key, value FROM settings WHERE key IN (?, ?)", session.TokenKey, session.UsernameKey)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "reading session")
	}

	var sess session.Session
	for _, row := range rows {
		switch row.Key {
		case session.TokenKey:
			sess.Token = row.Value
		case session.UsernameKey:
			sess.Username = row.Value
		}
	}
	return sess, nil
}

func (s *sqliteStore) Set(ctx context.Context, token, username string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting session transaction")
	}
	defer func() { _ = tx.Rollback() }()

	upsert := `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for _, kv := range []setting{{session.TokenKey, token}, {session.UsernameKey, username}} {
		if _, err = tx.ExecContext(ctx, upsert, kv.Key, kv.Value); err != nil {
			return errors.Wrapf(err, "saving %s", kv.Key)
		}
	}
	return errors.Wrap(tx.Commit(), "saving session")
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM settings WHERE key IN (?, ?)", session.TokenKey, session.UsernameKey)
	return errors.Wrap(err, "clearing session")
}
