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
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	gerrors "github.com/tochemey/serviceless/errors"
)

// Runnable runs the message loop of a started service.
// Run blocks until the service stopped and its mailbox is drained.
// Canceling ctx stops the service.
type Runnable interface {
	Run(ctx context.Context) error
}

// Start prepares the service to run and returns its address together with the
// Runnable to schedule. Messages can be sent through the address right away,
// they are handled once Run is called.
// svc is shared by every handler and hook, so S must be a pointer type.
func Start[S any](svc S, opts ...Option) (*Address[S], Runnable) {
	sc := NewContext[S](opts...)
	addr, runnable, _ := StartWithContext(sc, svc)
	return addr, runnable
}

// StartWithContext prepares the service to run on a Context created with NewContext.
// It returns ErrAlreadyStarted when the Context was already used to start a service.
func StartWithContext[S any](sc *Context[S], svc S) (*Address[S], Runnable, error) {
	if !sc.started.CompareAndSwap(false, true) {
		return nil, nil, gerrors.ErrAlreadyStarted
	}
	return sc.Address(), &runner[S]{svc: svc, sc: sc}, nil
}

// runner is the Runnable of a service
type runner[S any] struct {
	svc     S
	sc      *Context[S]
	running atomic.Bool
}

var _ Runnable = (*runner[any])(nil)

// Run implements Runnable
func (r *runner[S]) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return gerrors.ErrAlreadyStarted
	}

	sc := r.sc
	sc.setContext(ctx)
	logger := sc.logger

	logger.Debug("service starting")
	if err := r.started(ctx); err != nil {
		logger.Errorf("service failed to start: %v", err)
		sc.mailbox.close()
		sc.state.Store(uint32(Stopping))
		r.discardAll()
		stopErr := r.stopped()
		sc.state.Store(uint32(Stopped))
		return multierr.Combine(gerrors.NewErrStartFailure(err), stopErr)
	}

	sc.state.Store(uint32(Running))
	if sc.mailbox.isClosed() {
		sc.state.Store(uint32(Stopping))
	}
	logger.Info("service started")

	r.process(ctx)

	sc.state.Store(uint32(Stopping))
	err := r.stopped()
	sc.state.Store(uint32(Stopped))
	logger.Info("service stopped")
	return err
}

// process handles the envelopes one at a time until the mailbox is closed and drained
func (r *runner[S]) process(ctx context.Context) {
	sc := r.sc
	done := ctx.Done()
	for {
		if sc.paused.Load() && !sc.mailbox.isClosed() {
			done = r.wait(done)
			continue
		}

		if envelope, ok := sc.mailbox.pop(); ok {
			r.dispatch(ctx, envelope)
			continue
		}

		if sc.mailbox.drained() {
			return
		}

		done = r.wait(done)
	}
}

// wait blocks until the mailbox signals or done is closed.
// Once done is closed the service is stopped and done is no longer watched.
func (r *runner[S]) wait(done <-chan struct{}) <-chan struct{} {
	select {
	case <-r.sc.mailbox.signal:
		return done
	case <-done:
		r.sc.logger.Debug("run context done")
		r.sc.Stop()
		return nil
	}
}

func (r *runner[S]) dispatch(ctx context.Context, envelope *Envelope[S]) {
	sc := r.sc
	start := time.Now()
	err := envelope.Dispatch(r.svc, sc)
	if sc.metrics != nil {
		sc.metrics.RecordDispatched(ctx, time.Since(start), err != nil)
	}

	if err != nil && sc.config.stopOnPanic {
		sc.logger.Warn("stopping service after handler panic")
		sc.Stop()
	}
}

// discardAll answers every queued envelope with ErrServiceStopped.
// The mailbox must be closed.
func (r *runner[S]) discardAll() {
	sc := r.sc
	for {
		if envelope, ok := sc.mailbox.pop(); ok {
			envelope.discard(gerrors.ErrServiceStopped)
			if sc.metrics != nil {
				sc.metrics.RecordDiscarded(context.Background())
			}
			continue
		}

		if sc.mailbox.drained() {
			return
		}
		<-sc.mailbox.signal
	}
}

// started runs the Started hook of the service, when implemented, with the configured retries
func (r *runner[S]) started(ctx context.Context) error {
	starter, ok := any(r.svc).(Starter[S])
	if !ok {
		return nil
	}

	config := r.sc.config
	if config.startMaxTries < 2 {
		return hook(starter.Started, r.sc)
	}

	retrier := retry.NewRetrier(config.startMaxTries, startRetryInitialDelay, config.startMaxDelay)
	return retrier.RunContext(ctx, func(_ context.Context) error {
		if err := hook(starter.Started, r.sc); err != nil {
			r.sc.logger.Warnf("service Started hook failed, retrying: %v", err)
			return err
		}
		return nil
	})
}

// stopped runs the Stopped hook of the service, when implemented
func (r *runner[S]) stopped() error {
	stopper, ok := any(r.svc).(Stopper[S])
	if !ok {
		return nil
	}

	if err := hook(stopper.Stopped, r.sc); err != nil {
		r.sc.logger.Errorf("service Stopped hook failed: %v", err)
		return err
	}
	return nil
}

// hook runs a lifecycle hook and turns a panic into an error
func hook[S any](fn func(sc *Context[S]) error, sc *Context[S]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toPanicError(r)
		}
	}()
	return fn(sc)
}
