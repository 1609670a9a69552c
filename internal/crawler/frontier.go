package crawler

import "sync"

// Target is one unit of crawl work: a normalized URL and the number of
// link-hops it sits from the seed. Targets are immutable and consumed by
// exactly one worker.
type Target struct {
	// URL is the normalized absolute URL to fetch.
	URL string

	// Depth is the number of link-hops from the seed (the seed itself
	// is depth 0). No target with Depth > maxDepth is ever dispatched.
	Depth int
}

// Frontier is the shared crawl frontier: a visited-URL set fused with a
// FIFO queue of pending targets. It is the sole deduplication gate of a
// run; the test-and-insert in TryEnqueue is atomic, so no two workers can
// both believe they are first to visit a URL.
//
// The frontier also detects quiescence. It counts outstanding work
// (queued targets plus targets currently held by workers); when the count
// drops to zero the frontier closes itself, which is the race-free
// "all workers observed an empty, closed frontier" completion signal.
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue   []Target
	visited map[string]bool

	// outstanding counts enqueued targets that have not yet been
	// released via Done. Queue length alone cannot detect completion:
	// a worker holding the last target may still enqueue more.
	outstanding int

	closed bool
}

// NewFrontier creates an empty, open frontier.
func NewFrontier() *Frontier {
	f := &Frontier{visited: make(map[string]bool)}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// TryEnqueue atomically tests the visited set and, if the target's URL is
// new and the frontier is still open, inserts it and queues the target.
// It returns false when the URL was already visited (the target is
// discarded) or the frontier has closed.
func (f *Frontier) TryEnqueue(t Target) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.visited[t.URL] {
		return false
	}

	f.visited[t.URL] = true
	f.queue = append(f.queue, t)
	f.outstanding++
	f.cond.Signal()
	return true
}

// Dequeue blocks until a target is available or the frontier is closed
// with nothing left. The second return value is false only in the latter
// case, which is the worker's signal to exit.
func (f *Frontier) Dequeue() (Target, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) == 0 && !f.closed {
		f.cond.Wait()
	}

	if len(f.queue) == 0 {
		return Target{}, false
	}

	t := f.queue[0]
	f.queue = f.queue[1:]
	return t, true
}

// Done releases one previously dequeued target. The worker that releases
// the last outstanding target closes the frontier, waking every blocked
// Dequeue and completing the run.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.outstanding--
	if f.outstanding <= 0 && !f.closed {
		f.closed = true
		f.cond.Broadcast()
	}
}

// Close marks the frontier as closed and wakes all blocked dequeuers.
// Queued targets are discarded; no future TryEnqueue succeeds. Close is
// how the run controller enforces the timeout, and it is idempotent.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	f.queue = nil
	f.cond.Broadcast()
}

// Visited reports whether the normalized URL has ever been enqueued.
func (f *Frontier) Visited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited[url]
}

// VisitedCount returns the number of distinct URLs ever enqueued.
// The visited set grows monotonically for the lifetime of the run.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}
