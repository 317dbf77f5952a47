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

	gerrors "github.com/tochemey/serviceless/errors"
)

// Address is a handle used to send messages to a running service.
// Addresses are cheap to copy and safe for concurrent use.
// Messages sent through the same Address are handled in the order they were sent.
type Address[S any] struct {
	sc *Context[S]
}

// ID returns the unique identifier of the addressed service
func (a *Address[S]) ID() string {
	return a.sc.id
}

// Name returns the name of the addressed service
func (a *Address[S]) Name() string {
	return a.sc.name
}

// IsStopped reports whether the service no longer accepts messages
func (a *Address[S]) IsStopped() bool {
	return a.sc.mailbox.isClosed()
}

// IsPaused reports whether the service is paused
func (a *Address[S]) IsPaused() bool {
	return a.sc.IsPaused()
}

// Stop stops the service once the messages already queued are handled
func (a *Address[S]) Stop() {
	a.sc.Stop()
}

// Resume resumes a paused service
func (a *Address[S]) Resume() {
	a.sc.Resume()
}

// Clone returns another address of the same service
func (a *Address[S]) Clone() *Address[S] {
	return &Address[S]{sc: a.sc}
}

// Call sends the message to the service and waits for the result of the handler.
//
// It returns ErrServiceStopped when the service stopped before handling the message,
// a *errors.PanicError when the handler panicked, or the context error when
// ctx is done first. In the latter case the message stays queued and its result is dropped.
func Call[S any, M Message[R], R any](ctx context.Context, addr *Address[S], handler Handler[S, M, R], message M) (R, error) {
	var zero R
	if handler == nil {
		return zero, gerrors.ErrInvalidHandler
	}

	reply := make(chan Reply[R], 1)
	if err := addr.sc.enqueue(ctx, Pack(handler, message, reply)); err != nil {
		return zero, err
	}

	select {
	case result := <-reply:
		return result.Value, result.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Send enqueues the message without waiting for it to be handled.
// The result of the handler is dropped.
// It returns ErrServiceStopped when the service no longer accepts messages.
func Send[S any, M Message[R], R any](addr *Address[S], handler Handler[S, M, R], message M) error {
	if handler == nil {
		return gerrors.ErrInvalidHandler
	}
	return addr.sc.enqueue(context.Background(), Pack(handler, message, nil))
}
