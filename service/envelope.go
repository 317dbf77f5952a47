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
	"errors"
	"fmt"
	"runtime/debug"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/serviceless/errors"
)

// Reply carries the outcome of a handled message back to its caller.
// Err is set when the handler panicked or when the message was never handled.
type Reply[R any] struct {
	Value R
	Err   error
}

// Envelope is a message packed together with its handler and an optional reply channel.
// It erases the message type so envelopes of different messages share
// the same mailbox.
type Envelope[S any] struct {
	proxy      dispatcher[S]
	dispatched atomic.Bool
}

// dispatcher is implemented once per message type
type dispatcher[S any] interface {
	dispatch(svc S, sc *Context[S]) error
	discard(err error)
}

// Pack creates an Envelope for the given message.
// When reply is nil the result of the handler is dropped.
// The reply channel is written to without blocking, so it should have room for one value.
func Pack[S any, M Message[R], R any](handler Handler[S, M, R], message M, reply chan<- Reply[R]) *Envelope[S] {
	return &Envelope[S]{
		proxy: &envelopeWithMessage[S, M, R]{
			handler: handler,
			message: message,
			reply:   reply,
		},
	}
}

// Dispatch runs the handler against the service and delivers the result.
// Only the first call has an effect. A panic in the handler is recovered,
// delivered to the caller and returned as a *errors.PanicError.
func (e *Envelope[S]) Dispatch(svc S, sc *Context[S]) error {
	if !e.dispatched.CompareAndSwap(false, true) {
		return nil
	}
	return e.proxy.dispatch(svc, sc)
}

// discard replies with the given error without running the handler
func (e *Envelope[S]) discard(err error) {
	if !e.dispatched.CompareAndSwap(false, true) {
		return
	}
	e.proxy.discard(err)
}

type envelopeWithMessage[S any, M Message[R], R any] struct {
	handler Handler[S, M, R]
	message M
	reply   chan<- Reply[R]
}

func (x *envelopeWithMessage[S, M, R]) dispatch(svc S, sc *Context[S]) (err error) {
	message := x.message
	var zero M
	x.message = zero

	defer func() {
		if r := recover(); r != nil {
			err = toPanicError(r)
			sc.Logger().Errorf("recovered from handler panic: %v\n%s", r, debug.Stack())
			x.deliver(Reply[R]{Err: err})
		}
	}()

	result := x.handler(svc, message, sc)
	x.deliver(Reply[R]{Value: result})
	return nil
}

func (x *envelopeWithMessage[S, M, R]) discard(err error) {
	var zero M
	x.message = zero
	x.deliver(Reply[R]{Err: err})
}

// deliver never blocks: a caller that is gone or not listening loses the reply
func (x *envelopeWithMessage[S, M, R]) deliver(reply Reply[R]) {
	if x.reply == nil {
		return
	}
	select {
	case x.reply <- reply:
	default:
	}
}

// toPanicError turns a recovered value into a PanicError
func toPanicError(r any) *gerrors.PanicError {
	if err, ok := r.(error); ok {
		var pe *gerrors.PanicError
		if errors.As(err, &pe) {
			return pe
		}
		return gerrors.NewPanicError(err)
	}
	return gerrors.NewPanicError(fmt.Errorf("%#v", r))
}
