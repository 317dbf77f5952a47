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

// Message is implemented by every value a service can handle.
// R is the type of the result produced when the message is handled.
//
// The interface is sealed: embed Returns[R] in the message type to implement it.
//
//	type Increment struct {
//		service.Returns[int64]
//	}
type Message[R any] interface {
	returns(R)
}

// Returns binds a message type to its result type R
type Returns[R any] struct{}

func (Returns[R]) returns(R) {}

// Handler handles a message of type M for a service of type S and produces R.
// S must be a pointer type: a handler of a value type works on a copy and
// its changes to the service state are lost.
// A Handler is usually a method expression of the service type:
//
//	func (c *Counter) Increment(_ Increment, _ *service.Context[*Counter]) int64
//
//	service.Call(ctx, addr, (*Counter).Increment, Increment{})
type Handler[S any, M Message[R], R any] func(svc S, msg M, sc *Context[S]) R

// Starter is implemented by services that need to run some logic
// before the first message is handled.
// Returning an error prevents the service from running any message.
type Starter[S any] interface {
	Started(sc *Context[S]) error
}

// Stopper is implemented by services that need to run some logic
// after the last message is handled.
type Stopper[S any] interface {
	Stopped(sc *Context[S]) error
}
