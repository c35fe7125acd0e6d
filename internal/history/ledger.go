package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/JaimeStill/nanohunter/pkg/kv"
	"github.com/JaimeStill/nanohunter/pkg/lifecycle"
)

const (
	// Capacity is the maximum number of entries retained.
	Capacity = 20
	// DefaultKey is the store key holding the serialized ledger.
	DefaultKey = "nanohunter_history"
)

// System defines the public contract for the history ledger.
//
// Entries are always ordered newest first. Once the ledger holds Capacity
// entries, each append evicts the oldest one. Every mutation is persisted
// before it becomes visible, and a failed write leaves the ledger as it was.
type System interface {
	Handler() *Handler
	Start(lc *lifecycle.Coordinator) error

	Load(ctx context.Context) ([]Entry, error)
	Append(ctx context.Context, e Entry) ([]Entry, error)
	Clear(ctx context.Context) error

	Entries() []Entry
	Find(id string) (Entry, error)
}

type ledger struct {
	mu      sync.RWMutex
	store   kv.Store
	key     string
	entries []Entry
	loaded  bool
	logger  *slog.Logger
}

// New creates a ledger persisted at key in store. It starts empty until
// Load runs, either directly or through the Start lifecycle hook.
func New(store kv.Store, key string, logger *slog.Logger) System {
	if key == "" {
		key = DefaultKey
	}
	return &ledger{
		store:  store,
		key:    key,
		logger: logger.With("system", "history"),
	}
}

func (l *ledger) Handler() *Handler {
	return NewHandler(l, l.logger)
}

func (l *ledger) Start(lc *lifecycle.Coordinator) error {
	l.logger.Info("starting history ledger", "key", l.key)

	lc.OnStartup(func() {
		entries, err := l.Load(lc.Context())
		if err != nil {
			l.logger.Error("history load failed", "error", err)
			return
		}
		l.logger.Info("history loaded", "entries", len(entries))
	})

	return nil
}

// Load replaces the in-memory view with the persisted ledger.
// An absent key yields an empty ledger. Undecodable data is logged as
// ErrCorrupt and also yields an empty ledger.
func (l *ledger) Load(ctx context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.load(ctx); err != nil {
		return nil, err
	}

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

// ensureLoaded reads the persisted ledger if no load has succeeded yet,
// so a mutation never overwrites entries it has not seen.
func (l *ledger) ensureLoaded(ctx context.Context) error {
	if l.loaded {
		return nil
	}
	return l.load(ctx)
}

func (l *ledger) load(ctx context.Context) error {
	raw, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			l.entries = nil
			l.loaded = true
			return nil
		}
		return fmt.Errorf("load history: %w", err)
	}

	entries, err := decode(raw)
	if err != nil {
		l.logger.WarnContext(ctx, "discarding persisted history",
			"error", fmt.Errorf("%w: %w", ErrCorrupt, err),
			"key", l.key,
		)
		entries = nil
	}

	l.entries = entries
	l.loaded = true
	return nil
}

// Append prepends e, evicts beyond Capacity, and persists the result.
// If the ledger has never loaded, it loads first and fails on a store error.
func (l *ledger) Append(ctx context.Context, e Entry) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	next := make([]Entry, 0, min(len(l.entries)+1, Capacity))
	next = append(next, e)
	next = append(next, l.entries[:min(len(l.entries), Capacity-1)]...)

	if err := l.persist(ctx, next); err != nil {
		return nil, err
	}

	l.entries = next
	return slices.Clone(next), nil
}

// Clear deletes the persisted key and empties the ledger.
func (l *ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	l.entries = nil
	l.loaded = true
	l.logger.InfoContext(ctx, "history cleared")
	return nil
}

func (l *ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *ledger) Find(id string) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := slices.IndexFunc(l.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, ErrNotFound
	}
	return l.entries[i], nil
}

func (l *ledger) persist(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := l.store.Set(ctx, l.key, string(data)); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

func decode(raw string) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	if len(entries) > Capacity {
		entries = entries[:Capacity]
	}
	for i := range entries {
		entries[i] = entries[i].withDefaults()
	}
	return entries, nil
}
