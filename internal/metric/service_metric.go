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

package metric

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ServiceMetric defines the service instrumentation
type ServiceMetric struct {
	// Specifies the total number of envelopes dispatched
	processedCount metric.Int64Counter
	// Specifies the total number of handler panics recovered
	panicCount metric.Int64Counter
	// Specifies the handling latency in milliseconds
	handleDuration metric.Int64Histogram
	// Specifies the number of envelopes waiting in the mailbox
	mailboxSize metric.Int64UpDownCounter
	// attributes added to every measurement
	attrs metric.MeasurementOption
}

// NewServiceMetric creates an instance of ServiceMetric.
// Every measurement carries the service name and id.
func NewServiceMetric(meter metric.Meter, name, id string) (*ServiceMetric, error) {
	serviceMetric := &ServiceMetric{
		attrs: metric.WithAttributes(
			attribute.String("service.name", name),
			attribute.String("service.id", id),
		),
	}

	var err error
	if serviceMetric.processedCount, err = meter.Int64Counter(
		"service_processed_count",
		metric.WithDescription("Total number of envelopes dispatched"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	if serviceMetric.panicCount, err = meter.Int64Counter(
		"service_panic_count",
		metric.WithDescription("Total number of handler panics recovered"),
	); err != nil {
		return nil, fmt.Errorf("failed to create panicCount instrument, %w", err)
	}

	if serviceMetric.handleDuration, err = meter.Int64Histogram(
		"service_handle_duration",
		metric.WithDescription("The latency of a dispatched envelope in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create handleDuration instrument, %w", err)
	}

	if serviceMetric.mailboxSize, err = meter.Int64UpDownCounter(
		"service_mailbox_size",
		metric.WithDescription("Number of envelopes waiting in the mailbox"),
	); err != nil {
		return nil, fmt.Errorf("failed to create mailboxSize instrument, %w", err)
	}

	return serviceMetric, nil
}

// RecordEnqueued accounts for an envelope entering the mailbox
func (x *ServiceMetric) RecordEnqueued(ctx context.Context) {
	x.mailboxSize.Add(ctx, 1, x.attrs)
}

// RecordDispatched accounts for an envelope leaving the mailbox and being handled
func (x *ServiceMetric) RecordDispatched(ctx context.Context, duration time.Duration, panicked bool) {
	x.mailboxSize.Add(ctx, -1, x.attrs)
	x.processedCount.Add(ctx, 1, x.attrs)
	x.handleDuration.Record(ctx, duration.Milliseconds(), x.attrs)
	if panicked {
		x.panicCount.Add(ctx, 1, x.attrs)
	}
}

// RecordDiscarded accounts for an envelope removed from the mailbox without being handled
func (x *ServiceMetric) RecordDiscarded(ctx context.Context) {
	x.mailboxSize.Add(ctx, -1, x.attrs)
}
