// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Work is a unit of remote work run by the Coordinator.
type Work func(ctx context.Context) (any, error)

// Coordinator deduplicates remote calls per logical key.
//
// Shared executions run on a context detached from the caller that started them,
// bounded by the configured timeout. A caller whose own context ends stops waiting
// but does not cancel the shared execution.
type Coordinator struct {
	group   singleflight.Group
	timeout time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	pending map[string]*debounced
}

type debounced struct {
	timer *time.Timer
	fn    Work
	ctx   context.Context
	done  chan struct{}
	val   any
	err   error
}

// NewCoordinator returns a Coordinator whose executions are bounded by timeout
// (zero means unbounded).
func NewCoordinator(timeout time.Duration, log zerolog.Logger) *Coordinator {
	return &Coordinator{timeout: timeout, log: log, pending: make(map[string]*debounced)}
}

// RunExclusive runs fn unless a call under key is already outstanding, in which
// case the caller joins that call and receives its result.
func (c *Coordinator) RunExclusive(ctx context.Context, key string, fn Work) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		runCtx, cancel := c.detach(ctx)
		defer cancel()
		return fn(runCtx)
	})

	select {
	case r := <-ch:
		if r.Shared {
			c.log.Debug().Str("key", key).Msg("joined in-flight call")
		}
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Debounce collapses calls under key that arrive within window of each other into
// one trailing execution of the most recently supplied fn. Every caller in the
// burst receives that execution's result.
func (c *Coordinator) Debounce(ctx context.Context, key string, window time.Duration, fn Work) (any, error) {
	c.mu.Lock()
	d, ok := c.pending[key]
	if ok && d.timer.Stop() {
		d.fn, d.ctx = fn, ctx
		d.timer.Reset(window)
		c.log.Debug().Str("key", key).Dur("window", window).Msg("debounce window reset")
	} else {
		d = &debounced{fn: fn, ctx: ctx, done: make(chan struct{})}
		c.pending[key] = d
		d.timer = time.AfterFunc(window, func() { c.fire(key, d) })
	}
	c.mu.Unlock()

	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Coordinator) fire(key string, d *debounced) {
	c.mu.Lock()
	if c.pending[key] == d {
		delete(c.pending, key)
	}
	fn, ctx := d.fn, d.ctx
	c.mu.Unlock()

	runCtx, cancel := c.detach(ctx)
	defer cancel()
	d.val, d.err = fn(runCtx)
	close(d.done)
}

func (c *Coordinator) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if c.timeout <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, c.timeout)
}
