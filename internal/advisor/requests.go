package advisor

import "sync"

// Requests tracks in-flight advisory calls with a monotonically increasing
// sequence number. Advisory calls are fire-and-forget with no cancellation;
// when two race, the presentation layer must keep only the response that
// belongs to the newest request, otherwise a slow first response can
// overwrite a fresher second one.
type Requests struct {
	mu     sync.Mutex
	next   uint64
	latest uint64
}

// NewRequests creates an empty request tracker.
func NewRequests() *Requests {
	return &Requests{}
}

// Begin registers a new advisory request and returns its sequence number.
func (r *Requests) Begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.latest = r.next
	return r.next
}

// Adopt reports whether the response for the given sequence number should
// be adopted. It is false when a newer request has since been issued.
func (r *Requests) Adopt(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return seq == r.latest
}
