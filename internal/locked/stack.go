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

// Package locked provides a mutex guarded LIFO stack. It serves as the
// sequential reference the lock-free stacks are checked and measured against.
package locked

import "sync"

// Stack is a last-in-first-out data structure
type Stack[T any] struct {
	mutex sync.Mutex
	items []T
}

// New creates a new stack
func New[T any]() *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0),
	}
}

// Push a new value onto the stack. It always succeeds.
func (s *Stack[T]) Push(item T) error {
	s.mutex.Lock()
	s.items = append(s.items, item)
	s.mutex.Unlock()
	return nil
}

// Pop removes and return top element of stack. Return false if stack is empty.
func (s *Stack[T]) Pop() (item T, ok bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	length := len(s.items)
	if length == 0 {
		return item, false
	}

	length--
	item = s.items[length]
	// clear the slot so the popped value is not kept reachable
	var zero T
	s.items[length] = zero
	s.items = s.items[:length]
	return item, true
}

// Len returns the length of the stack.
func (s *Stack[T]) Len() int {
	s.mutex.Lock()
	length := len(s.items)
	s.mutex.Unlock()
	return length
}
