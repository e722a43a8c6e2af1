package ogimage

import (
	"errors"
	"sync"
)

// Pool manages Renderers for parallel rendering. Each Renderer owns its own
// browser, so renderers are created lazily on first acquire.
type Pool struct {
	size      int
	factory   func() *Renderer
	renderers []*Renderer
	sem       chan *Renderer
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewPool creates a pool with capacity for n renderers built by factory.
func NewPool(n int, factory func() *Renderer) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{
		size:      n,
		factory:   factory,
		renderers: make([]*Renderer, 0, n),
		sem:       make(chan *Renderer, n),
	}
}

// Acquire gets a renderer, creating one if capacity allows.
// Blocks while all renderers are in use. Returns nil after Close.
func (p *Pool) Acquire() *Renderer {
	select {
	case r := <-p.sem:
		return r
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		r := p.factory()

		p.mu.Lock()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()
		return r
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns a renderer to the pool. It is a no-op after Close.
// The channel holds every renderer the pool can create, so the send
// never blocks under the lock.
func (p *Pool) Release(r *Renderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- r
}

// Close releases every renderer created so far.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}
