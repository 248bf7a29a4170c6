// Package barrier implements the round barrier: a level-triggered phase
// signal written by one coordinator and awaited by many actors.
package barrier

import (
	"context"
	"sync"
)

// Phase is the barrier state.
type Phase int

const (
	Closed Phase = iota
	Open
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// Barrier starts closed. Each Open releases every current and future waiter
// until the next Close.
type Barrier struct {
	lock       sync.Mutex
	phase      Phase
	generation int
	opened     chan struct{}
}

// New returns a closed barrier.
func New() *Barrier {
	return &Barrier{
		phase:  Closed,
		opened: make(chan struct{}),
	}
}

// Open flips the barrier to Open and wakes every waiter. Opening an already
// open barrier has no effect.
func (b *Barrier) Open() {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.phase == Open {
		return
	}
	b.phase = Open
	b.generation++
	close(b.opened)
}

// Close re-arms the barrier for the next round.
func (b *Barrier) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.phase == Closed {
		return
	}
	b.phase = Closed
	b.opened = make(chan struct{})
}

// AwaitOpen blocks until the barrier is open or ctx is done. It returns
// immediately if the barrier is already open.
func (b *Barrier) AwaitOpen(ctx context.Context) error {
	b.lock.Lock()
	opened := b.opened
	b.lock.Unlock()

	select {
	case <-opened:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Barrier) Phase() Phase {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.phase
}

// Generation counts how many times the barrier has been opened.
func (b *Barrier) Generation() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.generation
}
