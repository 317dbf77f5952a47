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

// Package service runs Go values as services.
//
// A service owns its state and handles the messages sent to it one at a time,
// in the order they were enqueued, on the goroutine that calls Runnable.Run.
// Handlers are plain methods of the service type, so no locking is needed
// inside a service.
//
//	type Counter struct{ count int64 }
//
//	type Increment struct{ service.Returns[int64] }
//
//	func (c *Counter) Increment(_ Increment, _ *service.Context[*Counter]) int64 {
//		c.count++
//		return c.count
//	}
//
//	addr, runnable := service.Start(&Counter{})
//	go runnable.Run(ctx)
//	count, err := service.Call(ctx, addr, (*Counter).Increment, Increment{})
//
// Stopping a service closes its mailbox: messages already queued are still
// handled, later ones fail with errors.ErrServiceStopped.
package service
