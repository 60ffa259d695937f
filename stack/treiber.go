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

import "go.uber.org/atomic"

// Treiber is a lock-free LIFO stack whose nodes are reclaimed by the garbage
// collector. A node cannot be reused while any goroutine still references it,
// so the head needs neither a claim count nor a generation.
type Treiber[T any] struct {
	top atomic.Pointer[treiberNode[T]]
	len atomic.Int64
}

type treiberNode[T any] struct {
	value T
	next  *treiberNode[T]
}

// enforce compilation error
var _ Interface[int] = (*Treiber[int])(nil)

// NewTreiber creates an empty Treiber stack
func NewTreiber[T any]() *Treiber[T] {
	return &Treiber[T]{}
}

// Push pushes a value on top of the stack. It always succeeds.
func (s *Treiber[T]) Push(value T) error {
	item := &treiberNode[T]{value: value}
	for {
		top := s.top.Load()
		item.next = top
		if s.top.CompareAndSwap(top, item) {
			s.len.Inc()
			return nil
		}
	}
}

// Pop pops value from the top of the stack.
func (s *Treiber[T]) Pop() (value T, ok bool) {
	for {
		top := s.top.Load()
		if top == nil {
			return value, false
		}
		if s.top.CompareAndSwap(top, top.next) {
			s.len.Dec()
			return top.value, true
		}
	}
}

// Len returns the length of the stack. It is exact only when no push or pop is in flight.
func (s *Treiber[T]) Len() int {
	if size := s.len.Load(); size > 0 {
		return int(size)
	}
	return 0
}
