package blockchain

import (
	"fmt"
	"sync"
)

// Pool holds the failover-ordered list of RPC endpoints and the current
// selection. Advancing wraps around, so the pool is never exhausted.
type Pool struct {
	mu        sync.Mutex
	endpoints []string
	index     int
}

// NewPool creates an endpoint pool. The order of endpoints is the failover order.
func NewPool(endpoints []string) (*Pool, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("endpoint pool requires at least one endpoint")
	}
	return &Pool{endpoints: endpoints}, nil
}

// Current returns the endpoint at the current index.
func (p *Pool) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.endpoints[p.index]
}

// Advance moves the selection to the next endpoint, wrapping around at the
// end of the list, and returns the new current endpoint.
func (p *Pool) Advance() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = (p.index + 1) % len(p.endpoints)
	return p.endpoints[p.index]
}

// Index returns the current selection index.
func (p *Pool) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Len returns the number of endpoints in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.endpoints)
}
