package bot

import (
	"sync"
	"sync/atomic"
)

// inflight tracks which users currently have an interpretation running.
// A second message from the same user is rejected, not queued; the flag is
// released on every exit path by the handler's deferred Release.
type inflight struct {
	users sync.Map
}

// TryAcquire marks the user as busy. Returns false when the user already
// has a message being processed.
func (f *inflight) TryAcquire(userID int64) bool {
	_, loaded := f.users.LoadOrStore(userID, true)
	return !loaded
}

// Release clears the user's busy flag.
func (f *inflight) Release(userID int64) {
	f.users.Delete(userID)
}

// dedupe remembers only the most recent update identifier. It guards the
// narrow window where the platform redelivers the same update back to
// back; it is not full idempotent delivery.
type dedupe struct {
	last atomic.Int64
}

// Seen records id and reports whether it matches the previous one.
func (d *dedupe) Seen(id int64) bool {
	return d.last.Swap(id) == id
}
