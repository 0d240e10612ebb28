package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/poi-parking/internal/model"
)

// SQLiteStore keeps one snapshot row per name in a checkpoints table.
type SQLiteStore struct {
	db   *sql.DB
	name string
}

// NewSQLite opens a SQLite database at dsn and configures WAL mode.
func NewSQLite(dsn, name string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, name: name}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS checkpoints (
	name         TEXT PRIMARY KEY,
	records      TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) ([]model.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT records FROM checkpoints WHERE name = ?`, s.name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load checkpoint %s", s.name)
	}
	return decode([]byte(data))
}

func (s *SQLiteStore) Save(ctx context.Context, records []model.Record) error {
	data, err := encode(records)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (name, records, record_count, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET records = excluded.records,
		 record_count = excluded.record_count, updated_at = excluded.updated_at`,
		s.name, string(data), len(records), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save checkpoint %s", s.name)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE name = ?`, s.name)
	return eris.Wrapf(err, "sqlite: clear checkpoint %s", s.name)
}
