package otp

import (
	"sync"
	"time"
)

// flowTTL is how long an inactive flow stays registered. It outlives
// the code validity window so a slow client can still verify.
const flowTTL = 15 * time.Minute

// Registry keeps the live verification flows keyed by canonical phone
// and drives their one-second cooldown ticks from a single background
// ticker. The ticker also prunes flows that finished or went stale, so
// unverified send attempts cannot grow the map without bound.
type Registry struct {
	mu    sync.Mutex
	flows map[string]*Flow
	stop  chan struct{}
	once  sync.Once
}

// NewRegistry constructs an empty registry. Call Run to start the
// cooldown ticker and Stop on shutdown.
func NewRegistry() *Registry {
	return &Registry{
		flows: make(map[string]*Flow),
		stop:  make(chan struct{}),
	}
}

// Run ticks every live flow once per second until Stop is called.
// Meant to be started as a goroutine from main.
func (r *Registry) Run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tickAll()
		case <-r.stop:
			return
		}
	}
}

// Stop terminates the cooldown ticker.
func (r *Registry) Stop() {
	r.once.Do(func() { close(r.stop) })
}

func (r *Registry) tickAll() {
	r.mu.Lock()
	live := make([]*Flow, 0, len(r.flows))
	for _, f := range r.flows {
		live = append(live, f)
	}
	r.mu.Unlock()

	for _, f := range live {
		f.Tick()
	}

	r.prune(time.Now())
}

// prune drops flows that reached Verified or saw no activity within
// flowTTL.
func (r *Registry) prune(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for phone, f := range r.flows {
		if f.State() == StateVerified || now.Sub(f.LastActivity()) > flowTTL {
			delete(r.flows, phone)
		}
	}
}

// Begin returns the live flow for the raw phone/purpose pair, creating
// one when none exists. A flow left over from a different purpose is
// replaced so a signup attempt never inherits a login cooldown.
func (r *Registry) Begin(rawPhone, purpose string) (*Flow, error) {
	flow, err := NewFlow(rawPhone, purpose)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.flows[flow.Phone]; ok && existing.Purpose == purpose {
		return existing, nil
	}
	r.flows[flow.Phone] = flow
	return flow, nil
}

// Lookup returns the live flow for a canonical phone, if any.
func (r *Registry) Lookup(canonicalPhone string) (*Flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[canonicalPhone]
	return f, ok
}

// Finish removes a flow once verification completes or the client
// abandons it.
func (r *Registry) Finish(canonicalPhone string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, canonicalPhone)
}
