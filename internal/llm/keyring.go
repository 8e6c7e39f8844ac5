package llm

import (
	"fmt"
	"sync/atomic"

	"github.com/AlvesGus/finbot/internal/common"
)

// Keyring hands out one credential from an ordered set and advances
// round-robin when a credential is exhausted or rejected. The index is a
// process-wide atomic counter shared by all in-flight requests: rotation
// is a best-effort load spreader across keys, not a lock, so overlapping
// requests may observe the same key.
type Keyring struct {
	keys []string
	next atomic.Uint64
}

// NewKeyring builds a keyring from an ordered credential list, dropping
// duplicates while preserving first-seen order.
func NewKeyring(keys []string) *Keyring {
	seen := make(map[string]bool, len(keys))
	deduped := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, k)
	}
	return &Keyring{keys: deduped}
}

// Current returns the credential at the current index.
func (r *Keyring) Current() (string, error) {
	if len(r.keys) == 0 {
		return "", fmt.Errorf("%w: keyring is empty", common.ErrNoCredentials)
	}
	return r.keys[r.next.Load()%uint64(len(r.keys))], nil
}

// Advance moves the current index to the next credential, wrapping around.
func (r *Keyring) Advance() {
	r.next.Add(1)
}

// Len returns the number of credentials, which bounds the primary
// provider's retry budget.
func (r *Keyring) Len() int {
	return len(r.keys)
}
