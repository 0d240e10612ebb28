// Package checkpoint persists the partial record sequence of a pipeline run so
// an interrupted run can resume where it stopped.
package checkpoint

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/poi-parking/internal/model"
)

// Store holds at most one snapshot. Save overwrites it, Clear removes it and
// Load returns an empty slice when there is none.
type Store interface {
	Load(ctx context.Context) ([]model.Record, error)
	Save(ctx context.Context, records []model.Record) error
	Clear(ctx context.Context) error
	Close() error
}

// ErrCorrupt is returned by Load when a snapshot exists but cannot be decoded.
var ErrCorrupt = eris.New("checkpoint: corrupt snapshot")

// Driver names a Store backend.
type Driver string

const (
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

// Config selects and addresses a backend.
type Config struct {
	Driver Driver
	// Path is the snapshot file for the file driver.
	Path string
	// DSN is the database for the sqlite and postgres drivers.
	DSN string
	// Name keys the snapshot row in database backends, normally the profile.
	Name string
}

// Open returns the Store described by cfg. Database backends are migrated
// before they are returned.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFile, "":
		if cfg.Path == "" {
			return nil, eris.New("checkpoint: file driver requires a path")
		}
		return NewFileStore(cfg.Path), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		s, err := NewSQLite(cfg.DSN, cfg.Name)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := NewPostgres(ctx, cfg.DSN, cfg.Name)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("checkpoint: unknown driver %q", cfg.Driver)
	}
}

func encode(records []model.Record) ([]byte, error) {
	if records == nil {
		records = []model.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "checkpoint: encode")
	}
	return data, nil
}

func decode(data []byte) ([]model.Record, error) {
	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrap(ErrCorrupt, err.Error())
	}
	return records, nil
}
