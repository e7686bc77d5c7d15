package normalization

import "sync"

// ErrorTracker is the append-only sink for per-record failures. No
// deduplication: identical errors across records each count, since each
// corresponds to a distinct raw record.
type ErrorTracker interface {
	Record(err *NormalizationError)
}

// MemoryTracker keeps tracked errors in FIFO order in memory. Safe for
// concurrent use.
type MemoryTracker struct {
	mu     sync.Mutex
	errors []*NormalizationError
}

// NewMemoryTracker creates an empty tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{}
}

// Record appends one error.
func (t *MemoryTracker) Record(err *NormalizationError) {
	if err == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, err)
}

// Errors returns the tracked errors in arrival order.
func (t *MemoryTracker) Errors() []*NormalizationError {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*NormalizationError, len(t.errors))
	copy(out, t.errors)
	return out
}

// Len returns the number of tracked errors.
func (t *MemoryTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.errors)
}
