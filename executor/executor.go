/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package executor

import (
	"context"
	"fmt"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/serviceless/log"
	"github.com/tochemey/serviceless/service"
)

// Group runs services, each on its own goroutine, and waits for them to stop.
// A service returning an error cancels the Run context of every other service
// of the group, so they drain their mailbox and stop as well.
type Group struct {
	ctx     context.Context
	cancel  context.CancelFunc
	group   *errgroup.Group
	logger  log.Logger
	running atomic.Int32
}

// New creates a Group bound to ctx. Canceling ctx stops every service of the group.
func New(ctx context.Context, logger log.Logger) *Group {
	if logger == nil {
		logger = log.DefaultLogger
	}

	cctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(cctx)
	return &Group{
		ctx:    gctx,
		cancel: cancel,
		group:  group,
		logger: logger,
	}
}

// Go runs the given service on a new goroutine.
// The name only identifies the service in the group logs.
func (g *Group) Go(name string, runnable service.Runnable) {
	g.running.Inc()
	g.group.Go(func() error {
		defer g.running.Dec()
		if err := runnable.Run(g.ctx); err != nil {
			g.logger.Errorf("service %s exited with error: %v", name, err)
			return fmt.Errorf("service %s: %w", name, err)
		}
		g.logger.Debugf("service %s exited", name)
		return nil
	})
}

// Context returns the context given to every service of the group
func (g *Group) Context() context.Context {
	return g.ctx
}

// Running returns the number of services still running
func (g *Group) Running() int {
	return int(g.running.Load())
}

// Shutdown stops every service of the group.
// Each service handles the messages already queued before it stops.
func (g *Group) Shutdown() {
	g.cancel()
}

// Wait blocks until every service of the group stopped and returns
// the first error reported by a service.
func (g *Group) Wait() error {
	defer g.cancel()
	return g.group.Wait()
}
