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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceStopped is returned when the service mailbox was closed before
	// or while a message was being delivered. It is the only failure reported by
	// Send and the default failure reported by Call.
	ErrServiceStopped = errors.New("service already stopped")

	// ErrServicePaused is returned when a message is sent to a paused service
	// that was started with the reject-while-paused policy.
	ErrServicePaused = errors.New("service is paused")

	// ErrAlreadyStarted is returned when a Context or a Runnable is started more than once.
	ErrAlreadyStarted = errors.New("service has already started")

	// ErrStartFailure is returned by Runnable.Run when the Started hook failed.
	ErrStartFailure = errors.New("service started hook failed")

	// ErrInvalidHandler is returned when a nil handler is used to call or send a message.
	ErrInvalidHandler = errors.New("invalid message handler")
)

// NewErrStartFailure wraps a base error with ErrStartFailure to indicate a startup failure.
func NewErrStartFailure(err error) error {
	return errors.Join(ErrStartFailure, err)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
