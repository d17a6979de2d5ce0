package exiftool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Pool keeps a fixed number of workers alive and replaces the ones
// that die. Calls are spread round-robin; each worker still serializes
// its own commands, so the pool bounds parallelism at its size.
type Pool struct {
	bin string

	// OnReplace, when set before first use, is invoked every time a
	// dead worker is replaced. Used for restart metrics.
	OnReplace func()

	mu      sync.Mutex
	workers []*Worker
	next    int
	closed  bool
}

// NewPool resolves the tool binary and starts size workers. A size
// below 1 is raised to 1.
func NewPool(resolver BinaryResolver, binName string, size int) (*Pool, error) {
	bin, err := resolver.Resolve(binName)
	if err != nil {
		return nil, err
	}
	if size < 1 {
		size = 1
	}
	p := &Pool{bin: bin, workers: make([]*Worker, 0, size)}
	for i := 0; i < size; i++ {
		w, err := StartWorker(bin)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("starting worker %d: %w", i, err)
		}
		p.workers = append(p.workers, w)
	}
	slog.Info("exiftool pool started", "binary", bin, "workers", size)
	return p, nil
}

// Call submits one command to a live worker. The retry applies only
// to commands a worker refused outright, which the tool never saw. A
// worker that dies with the command in flight may already have
// executed it, so that failure propagates to the caller as is; blind
// resubmission could apply a mutation twice.
func (p *Pool) Call(ctx context.Context, args []string) (string, []string, error) {
	for attempt := 0; ; attempt++ {
		w, err := p.checkout()
		if err != nil {
			return "", nil, err
		}
		text, warnings, err := w.Call(ctx, args)
		if errors.Is(err, errRefused) && attempt == 0 {
			continue
		}
		return text, warnings, err
	}
}

// Ping verifies a worker answers the version query.
func (p *Pool) Ping(ctx context.Context) error {
	_, _, err := p.Call(ctx, []string{"-ver"})
	return err
}

// checkout returns the next worker in rotation, replacing it first if
// it has died.
func (p *Pool) checkout() (*Worker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrTerminated
	}
	idx := p.next
	p.next = (p.next + 1) % len(p.workers)
	w := p.workers[idx]
	if w.Alive() {
		return w, nil
	}
	slog.Warn("exiftool worker died, replacing", "index", idx)
	replacement, err := StartWorker(p.bin)
	if err != nil {
		return nil, fmt.Errorf("replacing worker: %w", err)
	}
	p.workers[idx] = replacement
	if p.OnReplace != nil {
		p.OnReplace()
	}
	return replacement, nil
}

// Close stops every worker gracefully and refuses further calls. It
// does not wait for the processes to exit.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	var firstErr error
	for _, w := range p.workers {
		if err := w.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
