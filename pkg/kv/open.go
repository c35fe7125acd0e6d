package kv

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Open constructs the backend named by cfg.Backend.
// db is only consulted for the postgres backend and may be nil otherwise.
func Open(cfg *Config, db *sql.DB, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(cfg.Dir, logger)
	case BackendRedis:
		return NewRedis(cfg, logger)
	case BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres backend requires a database connection")
		}
		return NewPostgres(db, cfg, logger), nil
	case BackendAzure:
		return NewAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
