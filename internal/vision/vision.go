// Package vision sends an instruction and one or more normalized images to
// a generative vision model and returns the model's text reply.
package vision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/nanohunter/pkg/imaging"
)

// Request is a single vision call. Images are attached in order, followed
// by the instruction text.
type Request struct {
	Instruction string
	Images      []*imaging.Payload
}

// Client performs vision calls.
type Client interface {
	Describe(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Describe calls f.
func (f ClientFunc) Describe(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// New builds the configured provider wrapped with per-attempt timeouts
// and retries.
func New(cfg *Config, logger *slog.Logger) (Client, error) {
	logger = logger.With("system", "vision", "provider", cfg.Provider)

	var (
		base Client
		err  error
	)

	switch cfg.Provider {
	case ProviderAgent:
		base = newAgentClient(&cfg.Agent)
	case ProviderGemini:
		base, err = newGeminiClient(context.Background(), &cfg.Gemini)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(base, Policy{
		Timeout: cfg.TimeoutDuration(),
		Retries: uint64(cfg.Retries),
		Backoff: cfg.BackoffDuration(),
	}, logger), nil
}
