// Package backend opens the storage.Storage named by the configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/storage/postgres"
	"github.com/aanand-mishra/student-records/internal/storage/remote"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
)

// Open returns the backend for cfg.Storage.Driver. For the remote driver
// token overrides cfg.Remote.Token when non-empty.
func Open(ctx context.Context, cfg *config.Config, token string) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite, "":
		st, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverPostgres:
		st, err := postgres.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverRemote:
		if token == "" {
			token = cfg.Remote.Token
		}
		return remote.New(cfg.Remote.BaseURL, token, cfg.Remote.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
