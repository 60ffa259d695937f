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

// Package stack provides a multi-producer multi-consumer lock-free LIFO stack.
//
// Stack reclaims its nodes with split reference counting: a popper first
// claims the head by bumping the claim count packed next to the head
// reference, and only then dereferences the node. Once a node is unlinked the
// claims it collected are reconciled on a per-node counter, and the goroutine
// that brings that counter to zero returns the node slot to the arena, where a
// later push may reuse it. No goroutine ever reads a slot that was reused
// under it, and no slot is leaked.
//
// Treiber is the same unlink algorithm with reclamation left to the garbage
// collector.
package stack

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.uber.org/atomic"

	"github.com/tochemey/lfstack/internal/metric"
	"github.com/tochemey/lfstack/log"
)

// Interface is the contract collaborators of a stack rely on.
type Interface[T any] interface {
	// Push adds value at the top of the stack.
	Push(value T) error
	// Pop removes and returns the value at the top of the stack.
	// It returns false if the stack is empty.
	Pop() (value T, ok bool)
}

// Stats is a point in time view of the node accounting of a Stack.
type Stats struct {
	// Allocated is the total number of nodes handed out to pushes
	Allocated uint64
	// Released is the total number of nodes reclaimed
	Released uint64
	// Live is the number of nodes not yet reclaimed
	Live uint64
	// Capacity is the maximum number of live nodes
	Capacity uint64
}

// Stack is a lock-free concurrent LIFO stack. The zero value is not usable; create one with New.
type Stack[T any] struct {
	// head packs the claim count and the index of the top node
	head  atomic.Uint64
	nodes *arena[T]
	size  atomic.Int64

	logger log.Logger
	metric *metric.StackMetric
}

// enforce compilation error
var _ Interface[int] = (*Stack[int])(nil)

// New creates an empty Stack
func New[T any](opts ...Option) *Stack[T] {
	config := defaultOptions()
	for _, opt := range opts {
		opt.Apply(config)
	}

	s := &Stack[T]{
		nodes:  newArena[T](config.capacity, config.logger),
		logger: config.logger,
	}

	if config.metricEnabled {
		provider := metric.NewProvider(config.meterProvider)
		stackMetric, err := metric.NewStackMetric(provider.Meter(), func() int64 {
			return int64(s.nodes.live())
		})
		if err != nil {
			otel.Handle(err)
		} else {
			s.metric = stackMetric
		}
	}
	return s
}

// Push puts the given value at the top of the stack. It only fails when no
// node can be allocated, in which case errors.ErrOutOfMemory is returned and
// the stack is left unchanged.
func (s *Stack[T]) Push(value T) error {
	index, n, err := s.nodes.alloc()
	if err != nil {
		return err
	}

	n.value = value
	fresh := uint64(makeRef(0, index))

	var retries int64
	for {
		top := s.head.Load()
		n.storeNext(taggedRef(top))
		if s.head.CompareAndSwap(top, fresh) {
			break
		}
		retries++
	}

	s.size.Inc()
	if s.metric != nil {
		s.metric.RecordPush(context.Background(), retries)
	}
	return nil
}

// Pop removes and returns the value at the top of the stack.
// It returns false if the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	value, ok, _ := s.pop(context.Background())
	return value, ok
}

// PopContext is Pop with cancellation. The context is only checked before a
// fresh claim is taken, so a cancelled pop never leaves a claim behind.
// It returns the context error when cancelled before a value could be removed.
func (s *Stack[T]) PopContext(ctx context.Context) (T, bool, error) {
	return s.pop(ctx)
}

// Len returns the number of values in the stack.
// It is exact only when no push or pop is in flight.
func (s *Stack[T]) Len() int {
	if size := s.size.Load(); size > 0 {
		return int(size)
	}
	return 0
}

// IsEmpty reports whether the stack had no value when its head was read.
func (s *Stack[T]) IsEmpty() bool {
	return taggedRef(s.head.Load()).isNil()
}

// Stats returns the node accounting of the stack
func (s *Stack[T]) Stats() Stats {
	released := s.nodes.released.Load()
	allocated := s.nodes.allocated.Load()
	return Stats{
		Allocated: allocated,
		Released:  released,
		Live:      allocated - released,
		Capacity:  s.nodes.capacity,
	}
}

// Drain pops every value and returns how many were discarded.
// It must not run concurrently with any other operation on the stack.
func (s *Stack[T]) Drain() int {
	count := 0
	for {
		if _, ok := s.Pop(); !ok {
			break
		}
		count++
	}

	if count > 0 {
		s.logger.Debugf("stack drained, %d values discarded", count)
	}
	return count
}

// Close drains the stack and stops its instrumentation.
// It must not run concurrently with any other operation on the stack.
func (s *Stack[T]) Close() error {
	s.Drain()
	if s.metric != nil {
		return s.metric.Unregister()
	}
	return nil
}

func (s *Stack[T]) pop(ctx context.Context) (value T, ok bool, err error) {
	var retries int64
	defer func() {
		if s.metric != nil && err == nil {
			s.metric.RecordPop(ctx, !ok, retries)
		}
	}()

	current := taggedRef(s.head.Load())
	for {
		if err = ctx.Err(); err != nil {
			return value, false, err
		}

		var spins int64
		current, spins = s.claim(current)
		retries += spins
		if current.isNil() {
			return value, false, nil
		}

		index := current.index()
		n := s.nodes.at(index)
		if s.head.CompareAndSwap(uint64(current), uint64(n.loadNext())) {
			// the node is ours alone to unlink, hand the other claims over to it
			value = n.take()
			if n.settle(current.claims()) {
				s.nodes.release(index)
			}
			s.size.Dec()
			return value, true, nil
		}

		retries++
		if n.release() {
			s.nodes.release(index)
		}
		current = taggedRef(s.head.Load())
	}
}

// claim bumps the claim count of the current head. On return the referenced
// node cannot be reclaimed until the claim is settled or released. A nil head
// is returned as is, there is nothing to claim.
func (s *Stack[T]) claim(current taggedRef) (taggedRef, int64) {
	var retries int64
	for !current.isNil() {
		claimed := current.claimed()
		if s.head.CompareAndSwap(uint64(current), uint64(claimed)) {
			return claimed, retries
		}
		retries++
		current = taggedRef(s.head.Load())
	}
	return current, retries
}
