package stores

import (
	"context"
	"sync"

	"github.com/openfroyo/farmplan/pkg/jobs"
)

// MemoryQueue implements jobs.Queue as an in-process bus that delivers
// each published message once: a message that is received but never
// acked is not delivered again, and pending messages are lost when the
// process exits. Suitable for a single-worker deployment or tests; a
// multi-worker production deployment would back this interface with a
// real broker instead.
type MemoryQueue struct {
	mu      sync.Mutex
	pending chan string
	inFlight map[string]int
}

var _ jobs.Queue = (*MemoryQueue)(nil)

// NewMemoryQueue creates a queue buffering up to depth published
// messages that have not yet been received.
func NewMemoryQueue(depth int) *MemoryQueue {
	if depth <= 0 {
		depth = 256
	}
	return &MemoryQueue{
		pending:  make(chan string, depth),
		inFlight: make(map[string]int),
	}
}

// Publish implements jobs.Queue.
func (q *MemoryQueue) Publish(ctx context.Context, jobID string) error {
	select {
	case q.pending <- jobID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive implements jobs.Queue. The returned ack removes the message
// from the in-flight set; a message that is never acked stays in that
// set and is not delivered again.
func (q *MemoryQueue) Receive(ctx context.Context) (string, func(), error) {
	select {
	case jobID := <-q.pending:
		q.mu.Lock()
		q.inFlight[jobID]++
		q.mu.Unlock()

		ack := func() {
			q.mu.Lock()
			delete(q.inFlight, jobID)
			q.mu.Unlock()
		}
		return jobID, ack, nil
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}
