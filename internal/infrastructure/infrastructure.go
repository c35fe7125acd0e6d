// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, persistence, imaging, vision) that
// domain systems require.
package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/nanohunter/internal/config"
	"github.com/JaimeStill/nanohunter/internal/vision"
	"github.com/JaimeStill/nanohunter/pkg/database"
	"github.com/JaimeStill/nanohunter/pkg/imaging"
	"github.com/JaimeStill/nanohunter/pkg/kv"
	"github.com/JaimeStill/nanohunter/pkg/lifecycle"
)

// probeKey is read by the store readiness probe. It is never written.
const probeKey = "readiness_probe"

// Infrastructure holds the core systems required by all domain modules.
// Database is nil unless the postgres store backend is selected.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Store     kv.System
	Imaging   *imaging.Normalizer
	Vision    vision.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit log destination.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(&cfg.Logging, w)

	var db database.System
	if cfg.UsesDatabase() {
		var err error
		if db, err = database.New(&cfg.Database, logger); err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
	}

	store, err := kv.Open(&cfg.Store, connection(db), logger)
	if err != nil {
		return nil, fmt.Errorf("store init failed: %w", err)
	}

	client, err := vision.New(&cfg.Vision, logger)
	if err != nil {
		return nil, fmt.Errorf("vision init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Store:     store,
		Imaging:   imaging.New(logger),
		Vision:    client,
	}, nil
}

// NewLogger builds the process logger from the logging config.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers all infrastructure systems with the lifecycle coordinator
// along with their readiness probes.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
		i.Lifecycle.AddProbe("database", i.Database.Ping)
	}

	if err := i.Store.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("store start failed: %w", err)
	}
	i.Lifecycle.AddProbe("store", i.probeStore)

	return nil
}

func (i *Infrastructure) probeStore(ctx context.Context) error {
	if _, err := i.Store.Get(ctx, probeKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	return nil
}

func connection(db database.System) *sql.DB {
	if db == nil {
		return nil
	}
	return db.Connection()
}
