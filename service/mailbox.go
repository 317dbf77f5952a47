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
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/serviceless/errors"
	"github.com/tochemey/serviceless/internal/queue"
)

const (
	// closedFlag marks the mailbox as closed
	closedFlag uint64 = 1
	// producerUnit is added to the state for every producer inside enqueue
	producerUnit uint64 = 2
)

// mailbox is the unbounded queue of envelopes of a single service.
//
// The state word packs the closed flag in its lowest bit and the number of
// producers currently pushing in the remaining bits. Once the closed flag is
// set no producer can enter, so the consumer knows it has seen every envelope
// when the mailbox is closed, no producer is inside and the queue is empty.
type mailbox[S any] struct {
	queue  *queue.Mpsc[*Envelope[S]]
	state  atomic.Uint64
	signal chan struct{}
}

func newMailbox[S any]() *mailbox[S] {
	return &mailbox[S]{
		queue:  queue.NewMpsc[*Envelope[S]](),
		signal: make(chan struct{}, 1),
	}
}

// enqueue adds the envelope to the mailbox.
// It returns ErrServiceStopped when the mailbox is closed.
func (m *mailbox[S]) enqueue(envelope *Envelope[S]) error {
	for {
		state := m.state.Load()
		if state&closedFlag != 0 {
			return gerrors.ErrServiceStopped
		}
		if m.state.CompareAndSwap(state, state+producerUnit) {
			break
		}
	}

	m.queue.Push(envelope)
	m.state.Sub(producerUnit)
	m.notify()
	return nil
}

// close prevents any further enqueue.
// It returns false when the mailbox was already closed.
func (m *mailbox[S]) close() bool {
	for {
		state := m.state.Load()
		if state&closedFlag != 0 {
			return false
		}
		if m.state.CompareAndSwap(state, state|closedFlag) {
			m.notify()
			return true
		}
	}
}

func (m *mailbox[S]) isClosed() bool {
	return m.state.Load()&closedFlag != 0
}

// pop must only be called by the consumer
func (m *mailbox[S]) pop() (*Envelope[S], bool) {
	return m.queue.Pop()
}

// drained reports whether the mailbox is closed and every enqueued envelope has been popped.
// It must only be called by the consumer.
func (m *mailbox[S]) drained() bool {
	return m.state.Load() == closedFlag && m.queue.IsEmpty()
}

// notify wakes up the consumer without blocking
func (m *mailbox[S]) notify() {
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *mailbox[S]) len() int64 {
	return m.queue.Len()
}
