package kv

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/nanohunter/pkg/lifecycle"
	"github.com/JaimeStill/nanohunter/pkg/repository"
)

type postgres struct {
	db        *sql.DB
	table     string
	namespace string
	logger    *slog.Logger
}

// NewPostgres creates a store backed by a key/value table.
// The connection pool is owned and started by the database system.
func NewPostgres(db *sql.DB, cfg *Config, logger *slog.Logger) System {
	return &postgres{
		db:        db,
		table:     cfg.Table,
		namespace: cfg.Namespace,
		logger:    logger.With("system", "kv", "backend", BackendPostgres),
	}
}

func (p *postgres) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("postgres store ready", "table", p.table)
	return nil
}

func (p *postgres) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	q := fmt.Sprintf("SELECT value FROM %s WHERE key = $1", p.table)

	value, err := repository.QueryOne(ctx, p.db, q, []any{p.qualify(key)}, scanValue)
	if err != nil {
		return "", repository.MapError(err, ErrNotFound, err)
	}

	return value, nil
}

func (p *postgres) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		p.table,
	)

	if err := repository.ExecExpectOne(ctx, p.db, q, p.qualify(key), value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}

	return nil
}

func (p *postgres) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE key = $1", p.table)

	if _, err := p.db.ExecContext(ctx, q, p.qualify(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

func (p *postgres) qualify(key string) string {
	return qualify(p.namespace, ":", key)
}

func scanValue(s repository.Scanner) (string, error) {
	var v string
	err := s.Scan(&v)
	return v, err
}
