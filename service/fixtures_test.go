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
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/serviceless/log"
)

var (
	errStart = errors.New("failed to start")
	errStop  = errors.New("failed to stop")
)

type increment struct{ Returns[int64] }

type add struct {
	Returns[int64]
	value int64
}

type getCount struct{ Returns[int64] }

type boom struct{ Returns[int64] }

type pause struct{ Returns[struct{}] }

type selfIncrement struct{ Returns[struct{}] }

type block struct {
	Returns[int64]
	release <-chan struct{}
}

type tagged struct {
	Returns[struct{}]
	sender int
	seq    int
}

// counter is the service used across the tests.
// Its fields without atomics are only touched by the message loop
// and read by the tests once Run returned.
type counter struct {
	count int64
	// stopAt stops the service when count reaches it
	stopAt int64
	// failStarts makes the first attempts of Started fail
	failStarts int32
	startErr   error
	stopErr    error

	self   *Address[*counter]
	events []string
	seqs   map[int][]int

	inFlight      atomic.Int32
	maxInFlight   atomic.Int32
	startAttempts atomic.Int32
	stoppedCount  atomic.Int32
}

var (
	_ Starter[*counter] = (*counter)(nil)
	_ Stopper[*counter] = (*counter)(nil)
)

func (c *counter) Started(sc *Context[*counter]) error {
	c.enter()
	defer c.inFlight.Dec()

	attempt := c.startAttempts.Inc()
	c.events = append(c.events, "started")
	if c.startErr != nil {
		return c.startErr
	}
	if attempt <= c.failStarts {
		return errStart
	}
	c.self = sc.Address()
	return nil
}

func (c *counter) Stopped(*Context[*counter]) error {
	c.enter()
	defer c.inFlight.Dec()

	c.stoppedCount.Inc()
	c.events = append(c.events, "stopped")
	return c.stopErr
}

func (c *counter) Increment(_ increment, sc *Context[*counter]) int64 {
	c.enter()
	defer c.inFlight.Dec()

	c.count++
	c.events = append(c.events, "increment")
	if c.stopAt != 0 && c.count == c.stopAt {
		sc.Stop()
	}
	return c.count
}

func (c *counter) Add(msg add, _ *Context[*counter]) int64 {
	c.count += msg.value
	return c.count
}

func (c *counter) GetCount(_ getCount, _ *Context[*counter]) int64 {
	return c.count
}

func (c *counter) Boom(_ boom, _ *Context[*counter]) int64 {
	panic("boom")
}

func (c *counter) Pause(_ pause, sc *Context[*counter]) struct{} {
	sc.Pause()
	return struct{}{}
}

func (c *counter) SelfIncrement(_ selfIncrement, sc *Context[*counter]) struct{} {
	if err := Send(c.self, (*counter).Increment, increment{}); err != nil {
		sc.Logger().Error(err)
	}
	return struct{}{}
}

func (c *counter) Block(msg block, _ *Context[*counter]) int64 {
	<-msg.release
	return c.count
}

func (c *counter) Tagged(msg tagged, _ *Context[*counter]) struct{} {
	if c.seqs == nil {
		c.seqs = make(map[int][]int)
	}
	c.seqs[msg.sender] = append(c.seqs[msg.sender], msg.seq)
	return struct{}{}
}

// enter records the number of handlers running at the same time
func (c *counter) enter() {
	n := c.inFlight.Inc()
	for {
		highest := c.maxInFlight.Load()
		if n <= highest || c.maxInFlight.CompareAndSwap(highest, n) {
			break
		}
	}
	runtime.Gosched()
}

// run starts the service loop and returns the group to wait on
func run(ctx context.Context, runnable Runnable) *errgroup.Group {
	eg := new(errgroup.Group)
	eg.Go(func() error {
		return runnable.Run(ctx)
	})
	return eg
}

// startCounter starts and runs the given counter with a discard logger
func startCounter(t *testing.T, svc *counter, opts ...Option) (*Address[*counter], *errgroup.Group) {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	addr, runnable := Start(svc, opts...)
	require.NotNil(t, addr)
	require.NotNil(t, runnable)
	return addr, run(context.Background(), runnable)
}

// waitQueued waits until the service mailbox holds the given number of envelopes
func waitQueued[S any](t *testing.T, addr *Address[S], count int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return addr.sc.mailbox.len() == count
	}, time.Second, time.Millisecond)
}
