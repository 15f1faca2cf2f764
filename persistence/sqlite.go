// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CrawX/go-mail-triage/log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

// SqliteBlobStore keeps blobs as rows of a local sqlite database.
type SqliteBlobStore struct {
	db *sqlx.DB
	l  *logrus.Logger
}

func NewSqliteBlobStore(datasource string) (*SqliteBlobStore, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("file", datasource).Info("Connected")

	return newSqliteBlobStore(db, l)
}

// newSqliteBlobStore prepares a connected db and takes ownership of it, the db is closed if preparing fails.
func newSqliteBlobStore(db *sqlx.DB, l *logrus.Logger) (*SqliteBlobStore, error) {
	if err := prepare(db, l); err != nil {
		if cerr := db.Close(); cerr != nil {
			l.WithField("error", cerr).Warn("Could not close db")
		}
		return nil, err
	}

	return &SqliteBlobStore{
		db: db,
		l:  l,
	}, nil
}

func prepare(db *sqlx.DB, l *logrus.Logger) error {
	_, err := db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		return fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=normal`)
	if err != nil {
		return fmt.Errorf("could not set synchronous mode: %w", err)
	}

	appliedMigrations, err := migrate.Exec(db.DB, "sqlite3", migrationSource, migrate.Up)
	if err != nil {
		return fmt.Errorf("could not migrate to newest version: %w", err)
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")
	return nil
}

func (s *SqliteBlobStore) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	s.l.Info("Disconnected")
	return nil
}

func (s *SqliteBlobStore) Exists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM blobs WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("could not query db: %w", err)
	}

	return count > 0, nil
}

func (s *SqliteBlobStore) Read(ctx context.Context, name string) (string, error) {
	var data string
	err := s.db.GetContext(ctx, &data, `SELECT data FROM blobs WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("blob %s does not exist", name)
	}
	if err != nil {
		return "", fmt.Errorf("could not query db: %w", err)
	}

	return data, nil
}

func (s *SqliteBlobStore) Write(ctx context.Context, name string, data string) error {
	result, err := s.db.ExecContext(
		ctx,
		"INSERT OR REPLACE INTO blobs (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		name,
		data,
	)
	if err != nil {
		return fmt.Errorf("could not save blob: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get num of affected rows: %w", err)
	}

	if affected != 1 {
		return fmt.Errorf("unexpected number of affected rows, expected 1 got %d", affected)
	}

	s.l.WithFields(logrus.Fields{"name": name, "bytes": len(data)}).Debug("Persisted blob")
	return nil
}
