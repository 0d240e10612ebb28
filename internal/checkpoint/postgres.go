package checkpoint

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/poi-parking/internal/model"
)

// Pool is the subset of *pgxpool.Pool the store needs. pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore keeps one JSONB snapshot row per name.
type PostgresStore struct {
	pool Pool
	name string
}

// NewPostgres connects a small pool to connString and pings it.
func NewPostgres(ctx context.Context, connString, name string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, name: name}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS checkpoints (
	name         TEXT PRIMARY KEY,
	records      JSONB NOT NULL,
	record_count INTEGER NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]model.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT records FROM checkpoints WHERE name = $1`, s.name,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: load checkpoint %s", s.name)
	}
	return decode(data)
}

func (s *PostgresStore) Save(ctx context.Context, records []model.Record) error {
	data, err := encode(records)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO checkpoints (name, records, record_count, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE SET records = $2, record_count = $3, updated_at = $4`,
		s.name, data, len(records), time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: save checkpoint %s", s.name)
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM checkpoints WHERE name = $1`, s.name)
	return eris.Wrapf(err, "postgres: clear checkpoint %s", s.name)
}
