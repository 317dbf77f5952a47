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

package service

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/serviceless/errors"
	imetric "github.com/tochemey/serviceless/internal/metric"
	"github.com/tochemey/serviceless/log"
)

// Context is the runtime of a single service.
// It is handed to every handler and lifecycle hook and lets the service
// stop, pause or address itself.
//
// A Context can be created ahead of time with NewContext so that its Address
// is known before the service value exists, then started with StartWithContext.
type Context[S any] struct {
	// ctx is the context given to Run
	ctx     atomic.Pointer[context.Context]
	id      string
	name    string
	config  *config
	logger  log.Logger
	metrics *imetric.ServiceMetric

	mailbox *mailbox[S]
	state   atomic.Uint32
	paused  atomic.Bool
	started atomic.Bool
}

// NewContext creates a Context for a service of type S
func NewContext[S any](opts ...Option) *Context[S] {
	config := newConfig(opts...)

	name := config.name
	if name == "" {
		name = reflect.TypeFor[S]().String()
	}

	id := uuid.NewString()
	sc := &Context[S]{
		id:      id,
		name:    name,
		config:  config,
		logger:  config.logger.With("service", name, "id", id),
		mailbox: newMailbox[S](),
	}
	sc.state.Store(uint32(Created))
	sc.setContext(context.Background())

	if config.metricsEnabled {
		provider := imetric.NewProvider(config.meterProvider)
		metrics, err := imetric.NewServiceMetric(provider.Meter(), name, id)
		if err != nil {
			sc.logger.Warnf("failed to create service metrics: %v", err)
		} else {
			sc.metrics = metrics
		}
	}

	return sc
}

// Context returns the context given to Run.
// It is canceled when the caller of Run wants the service gone.
func (sc *Context[S]) Context() context.Context {
	return *sc.ctx.Load()
}

func (sc *Context[S]) setContext(ctx context.Context) {
	sc.ctx.Store(&ctx)
}

// Logger returns the service logger
func (sc *Context[S]) Logger() log.Logger {
	return sc.logger
}

// Name returns the service name
func (sc *Context[S]) Name() string {
	return sc.name
}

// ID returns the unique identifier of the service
func (sc *Context[S]) ID() string {
	return sc.id
}

// State returns the lifecycle state of the service
func (sc *Context[S]) State() State {
	return State(sc.state.Load())
}

// Address returns a new address of the service
func (sc *Context[S]) Address() *Address[S] {
	return &Address[S]{sc: sc}
}

// Stop closes the mailbox of the service.
// Messages already queued are still handled, new ones are rejected
// with ErrServiceStopped. Stop can be called any number of times.
func (sc *Context[S]) Stop() {
	if !sc.mailbox.close() {
		return
	}

	sc.state.CompareAndSwap(uint32(Running), uint32(Stopping))
	// a paused service must drain its mailbox to stop
	sc.paused.Store(false)
	sc.logger.Debug("service stopping")
}

// Pause suspends message handling until Resume is called.
// The message being handled when Pause is called completes normally.
// A stopping service cannot be paused.
func (sc *Context[S]) Pause() {
	if sc.mailbox.isClosed() {
		return
	}

	if !sc.paused.CompareAndSwap(false, true) {
		return
	}

	// Stop may have closed the mailbox and cleared the flag since the check above
	if sc.mailbox.isClosed() {
		sc.paused.CompareAndSwap(true, false)
		return
	}
	sc.logger.Debug("service paused")
}

// Resume restarts message handling of a paused service
func (sc *Context[S]) Resume() {
	if sc.paused.CompareAndSwap(true, false) {
		sc.logger.Debug("service resumed")
		sc.mailbox.notify()
	}
}

// IsPaused reports whether the service is paused
func (sc *Context[S]) IsPaused() bool {
	return sc.paused.Load()
}

// enqueue adds the envelope to the mailbox of the service
func (sc *Context[S]) enqueue(ctx context.Context, envelope *Envelope[S]) error {
	if sc.config.rejectWhilePaused && sc.paused.Load() && !sc.mailbox.isClosed() {
		return gerrors.ErrServicePaused
	}

	if sc.metrics != nil {
		sc.metrics.RecordEnqueued(ctx)
	}

	if err := sc.mailbox.enqueue(envelope); err != nil {
		if sc.metrics != nil {
			sc.metrics.RecordDiscarded(ctx)
		}
		return err
	}
	return nil
}
