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
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/serviceless/log"
)

const (
	// DefaultStartRetryDelay is the maximum delay between two attempts of the Started hook
	DefaultStartRetryDelay = time.Second
	// startRetryInitialDelay is the delay before the second attempt of the Started hook
	startRetryInitialDelay = time.Millisecond
)

// config defines the configuration to apply when starting a service
type config struct {
	// name of the service used in logs and metrics.
	// Defaults to the service type name
	name string
	// logger used by the service
	logger log.Logger
	// specifies whether metrics are recorded
	metricsEnabled bool
	// meterProvider used to create the service instruments.
	// The global provider is used when nil
	meterProvider metric.MeterProvider
	// startMaxTries is the number of attempts of the Started hook.
	// The hook runs only once when it is lower than two
	startMaxTries int
	// startMaxDelay caps the delay between two attempts of the Started hook
	startMaxDelay time.Duration
	// rejectWhilePaused makes senders fail fast while the service is paused
	rejectWhilePaused bool
	// stopOnPanic stops the service after a handler panicked
	stopOnPanic bool
}

// newConfig creates an instance of config
func newConfig(opts ...Option) *config {
	config := &config{
		logger:        log.DefaultLogger,
		startMaxTries: 1,
		startMaxDelay: DefaultStartRetryDelay,
	}

	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *config)

// Apply sets the Option value of a config.
func (f OptionFunc) Apply(c *config) {
	f(c)
}

// WithName sets the name of the service.
// The name shows up in every log entry and metric of the service.
func WithName(name string) Option {
	return OptionFunc(func(config *config) {
		config.name = name
	})
}

// WithLogger sets the logger of the service
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(config *config) {
		if logger != nil {
			config.logger = logger
		}
	})
}

// WithMetrics enables the OpenTelemetry instruments of the service.
// When provider is nil the global MeterProvider is used.
func WithMetrics(provider metric.MeterProvider) Option {
	return OptionFunc(func(config *config) {
		config.metricsEnabled = true
		config.meterProvider = provider
	})
}

// WithStartRetry retries the Started hook until it succeeds or maxTries attempts failed.
// The delay between attempts grows exponentially and never exceeds maxDelay.
func WithStartRetry(maxTries int, maxDelay time.Duration) Option {
	return OptionFunc(func(config *config) {
		config.startMaxTries = maxTries
		if maxDelay > 0 {
			config.startMaxDelay = maxDelay
		}
	})
}

// WithRejectWhilePaused makes Call and Send fail with ErrServicePaused while the service is paused.
// By default messages sent to a paused service are queued and handled once it resumes.
func WithRejectWhilePaused() Option {
	return OptionFunc(func(config *config) {
		config.rejectWhilePaused = true
	})
}

// WithStopOnPanic stops the service once a handler panicked.
// Messages already queued are still handled.
func WithStopOnPanic() Option {
	return OptionFunc(func(config *config) {
		config.stopOnPanic = true
	})
}
