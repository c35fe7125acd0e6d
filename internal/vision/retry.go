package vision

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/genai"
)

// Policy bounds each attempt and the number of retries after the first.
type Policy struct {
	Timeout time.Duration
	Retries uint64
	Backoff time.Duration
}

type retrying struct {
	next   Client
	policy Policy
	logger *slog.Logger
}

// WithRetry wraps next so every attempt runs under policy.Timeout and
// failures are retried with exponential backoff. Client errors reported by
// the provider and cancellation of the caller's context stop retries
// immediately.
func WithRetry(next Client, policy Policy, logger *slog.Logger) Client {
	if policy.Backoff <= 0 {
		policy.Backoff = 100 * time.Millisecond
	}
	return &retrying{next: next, policy: policy, logger: logger}
}

func (r *retrying) Describe(ctx context.Context, req Request) (string, error) {
	if len(req.Images) == 0 {
		return "", ErrNoImages
	}

	backoff := retry.WithMaxRetries(r.policy.Retries, retry.NewExponential(r.policy.Backoff))

	var (
		text    string
		attempt int
	)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		callCtx := ctx
		if r.policy.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.policy.Timeout)
			defer cancel()
		}

		out, err := r.next.Describe(callCtx, req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if permanent(err) {
				r.logger.WarnContext(ctx, "vision attempt rejected", "attempt", attempt, "error", err)
				return err
			}
			r.logger.WarnContext(ctx, "vision attempt failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		if out == "" {
			r.logger.WarnContext(ctx, "vision attempt returned no content", "attempt", attempt)
			return retry.RetryableError(ErrEmptyResponse)
		}

		text = out
		return nil
	})
	if err != nil {
		return "", err
	}

	r.logger.DebugContext(ctx, "vision call complete", "attempts", attempt, "chars", len(text))
	return text, nil
}

// permanent reports whether the provider rejected the request itself.
// Timeouts and rate limits are 4xx but clear up on their own.
func permanent(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return false
		}
		apiErr = *ptr
	}

	switch apiErr.Code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return apiErr.Code >= 400 && apiErr.Code < 500
}
