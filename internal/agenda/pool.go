package agenda

import (
	"context"
	"sync"
)

// pool runs extraction jobs with at most size in flight.
type pool struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

func newPool(size int) *pool {
	if size <= 0 {
		size = 1
	}
	return &pool{slots: make(chan struct{}, size)}
}

// spawn waits for a free slot and runs job in its own goroutine. It returns
// ctx.Err() without running job when ctx ends first.
func (p *pool) spawn(ctx context.Context, job func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.slots }()
		job()
	}()
	return nil
}

func (p *pool) wait() {
	p.wg.Wait()
}
