package video

import (
	"context"
	"sync"
)

// State is the lifecycle of a Proxy. Loaded is terminal.
type State int

const (
	Unloaded State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unloaded"
}

// Proxy stands in for a Real. Creating one is O(1); the Real is loaded on the
// first Play and kept for the life of the Proxy.
type Proxy struct {
	id     string
	sizeMB int
	opts   Options

	mu      sync.Mutex
	real    *Real
	loading chan struct{} // non-nil while a load is in flight; closed when it ends
}

var _ Video = (*Proxy)(nil)

// NewProxy returns an unloaded proxy for id. The size is taken from opts.Library
// (0 when the library does not know id; Play then fails with ErrNotFound).
func NewProxy(id string, opts Options) *Proxy {
	sizeMB, _ := opts.SizeOf(id)
	p := &Proxy{id: id, sizeMB: sizeMB, opts: opts}
	if opts.Observer != nil {
		opts.Observer.OnHandleCreated(id)
	}
	return p
}

func (p *Proxy) ID() string { return p.id }

// State reports whether the backing Real has been loaded.
func (p *Proxy) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.real != nil {
		return Loaded
	}
	return Unloaded
}

// Describe answers from the proxy's own metadata until loaded, then delegates.
func (p *Proxy) Describe() string {
	p.mu.Lock()
	r := p.real
	p.mu.Unlock()
	if r != nil {
		return r.Describe()
	}
	return describe(p.id, p.sizeMB) + " [not loaded]"
}

// Play loads the Real on first use, then plays it. Concurrent callers share one
// in-flight load; a failed load leaves the proxy unloaded so a later Play retries.
func (p *Proxy) Play(ctx context.Context) error {
	r, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	return r.Play(ctx)
}

func (p *Proxy) acquire(ctx context.Context) (*Real, error) {
	for {
		p.mu.Lock()
		if p.real != nil {
			r := p.real
			p.mu.Unlock()
			return r, nil
		}
		wait := p.loading
		if wait == nil {
			break
		}
		p.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wait:
		}
	}
	done := make(chan struct{})
	p.loading = done
	p.mu.Unlock()

	p.opts.logger().Printf("proxy: starting on-demand load...")
	r, err := Load(ctx, p.id, p.opts)

	p.mu.Lock()
	if err == nil {
		p.real = r
	}
	p.loading = nil
	close(done)
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if p.opts.Observer != nil {
		p.opts.Observer.OnHandleLoaded(p.id)
	}
	return r, nil
}
