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

package queue

import (
	"go.uber.org/atomic"
)

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// Mpsc is an unbounded, lock-free Multi-Producer-Single-Consumer FIFO queue.
//
// Push may be called from any number of goroutines. Pop and IsEmpty must only be
// called from the single consumer goroutine. A Push is visible to Pop once it
// has returned; a Pop racing with an in-progress Push may miss that value and
// find it on the next attempt.
//
// reference: https://www.1024cores.net/home/lock-free-algorithms/queues/non-intrusive-mpsc-node-based-queue
type Mpsc[T any] struct {
	// head is owned by the consumer
	head *node[T]
	// tail is shared by the producers
	tail   atomic.Pointer[node[T]]
	length atomic.Int64
}

// NewMpsc creates an instance of Mpsc
func NewMpsc[T any]() *Mpsc[T] {
	stub := new(node[T])
	q := &Mpsc[T]{head: stub}
	q.tail.Store(stub)
	return q
}

// Push appends the given value at the tail of the queue.
func (q *Mpsc[T]) Push(value T) {
	n := &node[T]{value: value}
	q.length.Inc()
	prev := q.tail.Swap(n)
	prev.next.Store(n)
}

// Pop removes the value at the head of the queue.
// Returns false when the queue is empty.
func (q *Mpsc[T]) Pop() (T, bool) {
	var zero T
	next := q.head.next.Load()
	if next == nil {
		return zero, false
	}

	q.head = next
	value := next.value
	// release the reference held by the new stub node
	next.value = zero
	q.length.Dec()
	return value, true
}

// IsEmpty reports whether there is nothing to pop
func (q *Mpsc[T]) IsEmpty() bool {
	return q.head.next.Load() == nil
}

// Len returns an approximate number of queued values.
func (q *Mpsc[T]) Len() int64 {
	return q.length.Load()
}
