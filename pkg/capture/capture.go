// Package capture runs independent tasks concurrently and hands their outcome
// back to a single coordinator.
//
// A task's error never escapes its goroutine. It is stored in the task's
// [Future] and re-raised only when the coordinator asks for the result, so a
// failing task cannot disturb its siblings. Before the task finishes, [Future.Result]
// reports [ErrNotDone] instead of a zero value.
//
//	g := capture.NewGroup(ctx)
//	defer g.Wait()
//	conda := capture.Go(g, "conda leaves", fetchConda)
//	pip := capture.Go(g, "pip leaves", fetchPip)
//	condaLeaves, err := conda.Wait(ctx)
//	if err != nil {
//	    return err
//	}
//	pipLeaves, err := pip.Wait(ctx)
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrNotDone is returned by [Future.Result] while the task is still running.
var ErrNotDone = errors.New("capture: task not done")

// Future is the eventual result of one task.
type Future[T any] struct {
	name string
	done chan struct{}

	mu    sync.Mutex
	value T
	err   error
}

// Name returns the task name used in error messages.
func (f *Future[T]) Name() string { return f.name }

// Result returns the task's value, its error wrapped with the task name, or
// ErrNotDone if the task has not finished yet. It never blocks.
func (f *Future[T]) Result() (T, error) {
	select {
	case <-f.done:
	default:
		var zero T
		return zero, ErrNotDone
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", f.name, f.err)
	}
	return f.value, nil
}

// Wait blocks until the task finishes or ctx is done, then returns Result.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) finish(v T, err error) {
	f.mu.Lock()
	f.value, f.err = v, err
	f.mu.Unlock()
	close(f.done)
}

// Group launches tasks that share a context but not a fate: unlike
// errgroup.WithContext, one failing task does not cancel the others.
type Group struct {
	ctx context.Context
	eg  errgroup.Group
}

// NewGroup creates a group whose tasks receive ctx.
func NewGroup(ctx context.Context) *Group {
	return &Group{ctx: ctx}
}

// Go starts fn in a new goroutine and returns its future. A panic in fn is
// recovered and reported as the task's error.
func Go[T any](g *Group, name string, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{name: name, done: make(chan struct{})}
	g.eg.Go(func() (err error) {
		var v T
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			f.finish(v, err)
			if err != nil {
				err = fmt.Errorf("%s: %w", name, err)
			}
		}()
		v, err = fn(g.ctx)
		return err
	})
	return f
}

// Wait blocks until every task has finished and returns the first error
// observed, wrapped with its task name.
func (g *Group) Wait() error {
	return g.eg.Wait()
}
