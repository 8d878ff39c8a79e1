package frontier

import (
	"net/url"
	"strings"
	"sync"
)

// Frontier tracks which URLs have been visited and which are pending.
// All state is guarded by a single mutex so that the visited check and the
// pending enqueue happen in one critical section; this is what guarantees
// each URL is fetched at most once under concurrent discovery.
type Frontier struct {
	// mu guards visited, pending, and queued.
	mu sync.Mutex

	// host is the target authority. Only URLs whose authority matches it
	// exactly are eligible.
	host string

	// excludedExtensions are lowercase path suffixes that are never
	// eligible (binary and document formats).
	excludedExtensions []string

	// visited contains every URL that has been handed out by TakeBatch.
	visited map[string]struct{}

	// queued contains every URL currently in pending, for O(1) duplicate
	// checks on Offer.
	queued map[string]struct{}

	// pending is the FIFO queue of discovered-but-unvisited URLs.
	pending []string
}

// New creates a Frontier for the given target host.
// The host must match URL authorities exactly (including any port).
// Extensions are compared case-insensitively against the URL path.
func New(host string, excludedExtensions []string) *Frontier {
	lowered := make([]string, len(excludedExtensions))
	for i, ext := range excludedExtensions {
		lowered[i] = strings.ToLower(ext)
	}

	return &Frontier{
		host:               host,
		excludedExtensions: lowered,
		visited:            make(map[string]struct{}),
		queued:             make(map[string]struct{}),
	}
}

// IsEligible reports whether the URL may be fetched: its authority must
// match the target host exactly and its path must not end in an excluded
// extension. The extension check is case-insensitive.
func (f *Frontier) IsEligible(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	if u.Host != f.host {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range f.excludedExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	return true
}

// Offer appends each eligible URL that is neither visited nor already
// pending to the pending queue. Ineligible and duplicate URLs are silently
// dropped. Safe for concurrent callers.
func (f *Frontier) Offer(urls []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range urls {
		if !f.IsEligible(u) {
			continue
		}
		if _, ok := f.visited[u]; ok {
			continue
		}
		if _, ok := f.queued[u]; ok {
			continue
		}
		f.queued[u] = struct{}{}
		f.pending = append(f.pending, u)
	}
}

// TakeBatch atomically removes up to n URLs from the front of the pending
// queue and marks each as visited before returning. Returns fewer than n
// when the queue is shorter, and nil when it is empty.
//
// Marking visited inside the same critical section as the dequeue is what
// prevents another caller from taking or re-offering the same URL.
func (f *Frontier) TakeBatch(n int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n <= 0 || len(f.pending) == 0 {
		return nil
	}

	if n > len(f.pending) {
		n = len(f.pending)
	}

	batch := make([]string, n)
	copy(batch, f.pending[:n])
	f.pending = f.pending[n:]

	for _, u := range batch {
		delete(f.queued, u)
		f.visited[u] = struct{}{}
	}

	return batch
}

// IsEmpty reports whether the pending queue is empty. It does not imply
// crawl completion while fetches are still in flight.
func (f *Frontier) IsEmpty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending) == 0
}

// PendingCount returns the number of URLs awaiting dispatch.
func (f *Frontier) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// VisitedCount returns the number of URLs handed out so far.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}
