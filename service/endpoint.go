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
)

// Endpoint is an address restricted to a single message type.
// It hides the type of the service behind it, so endpoints of different
// services handling the same message can be used interchangeably.
type Endpoint[M Message[R], R any] struct {
	name      string
	call      func(ctx context.Context, message M) (R, error)
	send      func(message M) error
	isStopped func() bool
}

// Bind creates an Endpoint that delivers its messages to handler on the addressed service
func Bind[S any, M Message[R], R any](addr *Address[S], handler Handler[S, M, R]) *Endpoint[M, R] {
	addr = addr.Clone()
	return &Endpoint[M, R]{
		name: addr.Name(),
		call: func(ctx context.Context, message M) (R, error) {
			return Call(ctx, addr, handler, message)
		},
		send: func(message M) error {
			return Send(addr, handler, message)
		},
		isStopped: addr.IsStopped,
	}
}

// Name returns the name of the service behind the endpoint
func (e *Endpoint[M, R]) Name() string {
	return e.name
}

// Call sends the message and waits for its result
func (e *Endpoint[M, R]) Call(ctx context.Context, message M) (R, error) {
	return e.call(ctx, message)
}

// Send enqueues the message without waiting for it to be handled
func (e *Endpoint[M, R]) Send(message M) error {
	return e.send(message)
}

// IsStopped reports whether the service behind the endpoint no longer accepts messages
func (e *Endpoint[M, R]) IsStopped() bool {
	return e.isStopped()
}
