package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlvesGus/finbot/internal/common"
)

// failureClass is the outcome class of a provider call that did not
// produce a response.
type failureClass int

const (
	// failureFatal aborts the adapter's attempt chain immediately.
	failureFatal failureClass = iota
	// failureRetryable means quota/rate-limit pressure: rotate the
	// credential, back off, try again.
	failureRetryable
	// failureCredential means the key itself is bad: rotate without a
	// cooldown.
	failureCredential
)

// classifyProviderError buckets a provider error by substring inspection
// of its message. Both provider clients surface unstructured error
// strings, so this is a documented heuristic: "429", "quota" and
// "resource exhausted" mark rate-limit pressure, "expired" marks a dead
// key, anything else is fatal for this provider.
func classifyProviderError(err error) failureClass {
	if err == nil {
		return failureFatal
	}

	// Prefer the sentinel when an adapter already classified the failure.
	if errors.Is(err, common.ErrRateLimit) {
		return failureRetryable
	}
	if errors.Is(err, common.ErrCredentialExpired) {
		return failureCredential
	}
	if errors.Is(err, common.ErrProviderFatal) {
		return failureFatal
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource exhausted"):
		return failureRetryable
	case strings.Contains(msg, "expired"):
		return failureCredential
	default:
		return failureFatal
	}
}

// wrapProviderError attaches the matching sentinel so callers can test
// with errors.Is instead of re-inspecting message text.
func wrapProviderError(err error) error {
	if err == nil {
		return nil
	}
	switch classifyProviderError(err) {
	case failureRetryable:
		return fmt.Errorf("%w: %v", common.ErrRateLimit, err)
	case failureCredential:
		return fmt.Errorf("%w: %v", common.ErrCredentialExpired, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrProviderFatal, err)
	}
}
