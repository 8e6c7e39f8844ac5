package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/AlvesGus/finbot/internal/model"
)

// Interpreter is the public entry point of the extraction pipeline. It
// drives the primary adapter through the credential rotation budget and
// falls back to the secondary adapter once, gating each path on the
// completeness of the extracted record.
type Interpreter struct {
	primary  Extractor
	fallback Extractor
	keys     *Keyring
	backoff  time.Duration
	logger   *slog.Logger
}

// NewInterpreter wires the pipeline. fallback may be nil, in which case
// the primary path is the only one. backoff is the cooldown applied after
// a rate-limited attempt; zero disables it.
func NewInterpreter(primary, fallback Extractor, keys *Keyring, backoff time.Duration, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{
		primary:  primary,
		fallback: fallback,
		keys:     keys,
		backoff:  backoff,
		logger:   logger,
	}
}

// Interpret converts a free-text statement into a complete movement
// record, or nil when neither provider yields one. Provider failures are
// absorbed here; the only error surfaced is context cancellation.
func (i *Interpreter) Interpret(ctx context.Context, text string) (*model.Movement, error) {
	mv := i.resolvePrimary(ctx, text)
	if mv.Complete() {
		mv.NormalizeCategory()
		i.logger.Info("primary provider produced a complete record", "place", mv.Place)
		return mv, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if mv != nil {
		i.logger.Warn("primary provider returned an incomplete record, falling back")
	}

	if i.fallback == nil {
		return nil, nil
	}

	mv, err := i.fallback.Extract(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		i.logger.Warn("fallback provider failed", "error", err)
		return nil, nil
	}
	if !mv.Complete() {
		i.logger.Warn("fallback provider returned no usable record")
		return nil, nil
	}

	mv.NormalizeCategory()
	i.logger.Info("fallback provider produced a complete record", "place", mv.Place)
	return mv, nil
}

// resolvePrimary runs the primary adapter through at most Len(keys)
// attempts. Rate-limited attempts rotate the credential and wait out the
// backoff, dead-key attempts rotate without waiting, and any other error
// abandons the remaining budget.
func (i *Interpreter) resolvePrimary(ctx context.Context, text string) *model.Movement {
	budget := i.keys.Len()

	for attempt := 0; attempt < budget; attempt++ {
		mv, err := i.primary.Extract(ctx, text)
		if err == nil {
			// A nil record (unparsable answer) is a definitive outcome
			// for this path; retrying the same prompt will not fix it.
			return mv
		}

		switch classifyProviderError(err) {
		case failureRetryable:
			i.logger.Warn("primary provider rate limited, rotating credential",
				"attempt", attempt+1, "budget", budget, "error", err)
			i.keys.Advance()
			if !sleepContext(ctx, i.backoff) {
				return nil
			}
		case failureCredential:
			i.logger.Warn("primary credential rejected, rotating",
				"attempt", attempt+1, "budget", budget, "error", err)
			i.keys.Advance()
		default:
			i.logger.Error("primary provider failed fatally",
				"attempt", attempt+1, "error", err)
			return nil
		}
	}

	i.logger.Warn("primary credential budget exhausted", "budget", budget)
	return nil
}

// sleepContext waits for d unless the context ends first. Returns false
// when the wait was cut short.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
