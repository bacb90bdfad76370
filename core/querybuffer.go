package coordination

import "sync"

// queryBuffer holds user queries submitted before the session is usable.
// They are held in arrival order and replayed one by one once the session
// becomes active.
type queryBuffer struct {
	mu       sync.Mutex
	queries  []string
	consumed int
	closed   bool
	signal   *sync.Cond
}

func newQueryBuffer() *queryBuffer {
	b := &queryBuffer{}
	b.signal = sync.NewCond(&b.mu)
	return b
}

func (b *queryBuffer) Add(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.queries = append(b.queries, query)
	b.signal.Broadcast()
}

// Queries yields buffered queries in arrival order, blocking for more until
// Close is called. Each query is yielded exactly once.
func (b *queryBuffer) Queries(yield func(string) bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		for b.consumed < len(b.queries) {
			query := b.queries[b.consumed]
			b.consumed++
			b.mu.Unlock()
			ok := yield(query)
			b.mu.Lock()
			if !ok {
				return
			}
		}
		if b.closed {
			return
		}
		b.signal.Wait()
	}
}

// Drain returns the queries buffered so far and marks them consumed, without
// blocking for more.
func (b *queryBuffer) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := append([]string(nil), b.queries[b.consumed:]...)
	b.consumed = len(b.queries)
	return pending
}

// Close unblocks Queries once everything buffered has been yielded.
func (b *queryBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.signal.Broadcast()
}

func (b *queryBuffer) pendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queries) - b.consumed
}
