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

package stack

import (
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/lfstack/log"
)

// Option is the interface that applies a Stack option.
type Option interface {
	// Apply sets the Option value of a Stack.
	Apply(options *options)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(options *options)

// Apply applies the Stack's option
func (f OptionFunc) Apply(options *options) {
	f(options)
}

type options struct {
	capacity      uint64
	logger        log.Logger
	meterProvider otelmetric.MeterProvider
	metricEnabled bool
}

func defaultOptions() *options {
	return &options{
		capacity: MaxCapacity,
		logger:   log.DiscardLogger,
	}
}

// WithCapacity bounds the number of nodes the stack may hold at once.
// Push returns errors.ErrOutOfMemory beyond that point. Zero, or anything
// above MaxCapacity, means MaxCapacity.
func WithCapacity(capacity uint64) Option {
	return OptionFunc(func(options *options) {
		options.capacity = capacity
	})
}

// WithLogger sets the logger used to report arena growth, exhaustion and drains
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(options *options) {
		if logger != nil {
			options.logger = logger
		}
	})
}

// WithMetric enables the OpenTelemetry instrumentation of the stack.
// A nil provider means the global MeterProvider.
func WithMetric(meterProvider otelmetric.MeterProvider) Option {
	return OptionFunc(func(options *options) {
		options.metricEnabled = true
		options.meterProvider = meterProvider
	})
}
