// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// StackMetric defines the stack instrumentation
type StackMetric struct {
	// Specifies the total number of successful pushes
	pushCount metric.Int64Counter
	// Specifies the total number of pops that returned a value
	popCount metric.Int64Counter
	// Specifies the total number of pops that found the stack empty
	emptyPopCount metric.Int64Counter
	// Specifies the total number of failed compare-and-swap attempts on the head
	casRetryCount metric.Int64Counter
	// Specifies the number of nodes allocated and not yet reclaimed
	liveNodes metric.Int64ObservableGauge

	registration metric.Registration
}

// NewStackMetric creates an instance of StackMetric. live is sampled on every
// collection to report the number of nodes not yet reclaimed.
func NewStackMetric(meter metric.Meter, live func() int64) (*StackMetric, error) {
	stackMetric := new(StackMetric)
	var err error

	if stackMetric.pushCount, err = meter.Int64Counter(
		"lfstack_push_count",
		metric.WithDescription("Total number of values pushed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create pushCount instrument, %w", err)
	}

	if stackMetric.popCount, err = meter.Int64Counter(
		"lfstack_pop_count",
		metric.WithDescription("Total number of values popped"),
	); err != nil {
		return nil, fmt.Errorf("failed to create popCount instrument, %w", err)
	}

	if stackMetric.emptyPopCount, err = meter.Int64Counter(
		"lfstack_empty_pop_count",
		metric.WithDescription("Total number of pops that found the stack empty"),
	); err != nil {
		return nil, fmt.Errorf("failed to create emptyPopCount instrument, %w", err)
	}

	if stackMetric.casRetryCount, err = meter.Int64Counter(
		"lfstack_cas_retry_count",
		metric.WithDescription("Total number of failed compare-and-swap attempts on the stack head"),
	); err != nil {
		return nil, fmt.Errorf("failed to create casRetryCount instrument, %w", err)
	}

	if stackMetric.liveNodes, err = meter.Int64ObservableGauge(
		"lfstack_live_nodes",
		metric.WithDescription("Number of nodes allocated and not yet reclaimed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create liveNodes instrument, %w", err)
	}

	if stackMetric.registration, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(stackMetric.liveNodes, live())
		return nil
	}, stackMetric.liveNodes); err != nil {
		return nil, fmt.Errorf("failed to register liveNodes callback, %w", err)
	}

	return stackMetric, nil
}

// RecordPush records a successful push together with the retries it took
func (x *StackMetric) RecordPush(ctx context.Context, retries int64) {
	x.pushCount.Add(ctx, 1)
	x.recordRetries(ctx, retries)
}

// RecordPop records a pop. empty reports whether the stack had no value to return.
func (x *StackMetric) RecordPop(ctx context.Context, empty bool, retries int64) {
	if empty {
		x.emptyPopCount.Add(ctx, 1)
	} else {
		x.popCount.Add(ctx, 1)
	}
	x.recordRetries(ctx, retries)
}

// Unregister stops sampling the live nodes gauge
func (x *StackMetric) Unregister() error {
	return x.registration.Unregister()
}

func (x *StackMetric) recordRetries(ctx context.Context, retries int64) {
	if retries > 0 {
		x.casRetryCount.Add(ctx, retries)
	}
}
