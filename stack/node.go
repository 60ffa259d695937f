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

// settledBit marks the internal counter of a node that has been unlinked
const settledBit uint64 = 1 << 32

// node holds one stack element together with the bookkeeping used to decide
// when its arena slot can be reused.
//
// value is written by the pusher before the node is published on the head and
// read once by the popper whose unlink succeeds; the atomics on head and
// internal order those accesses. next is only dereferenced by goroutines that
// hold a claim on the node.
type node[T any] struct {
	value T
	next  atomic.Uint64

	// internal reconciles the claims on a node. The low 32 bits count modulo
	// 2^32: every claimant that loses the unlink race subtracts one, the
	// popper that unlinks adds the claims it observed minus its own and sets
	// the settled bit. The node is freed by whoever brings the count to zero
	// once the settled bit is set, never before.
	internal atomic.Uint64

	// freeNext links the slot into the arena free list while it is unused.
	freeNext atomic.Uint32
}

func (n *node[T]) loadNext() taggedRef {
	return taggedRef(n.next.Load())
}

func (n *node[T]) storeNext(ref taggedRef) {
	n.next.Store(uint64(ref))
}

// take moves the value out of the node, leaving the zero value behind so the
// slot does not keep it reachable.
func (n *node[T]) take() T {
	var zero T
	value := n.value
	n.value = zero
	return value
}

// settle adds the outstanding claims of the unlinking popper and reports
// whether the node has no observers left.
func (n *node[T]) settle(claims uint32) bool {
	for {
		current := n.internal.Load()
		pending := uint64(uint32(current) + claims - 1)
		if n.internal.CompareAndSwap(current, settledBit|pending) {
			return pending == 0
		}
	}
}

// release drops the claim of a popper that lost the unlink race and reports
// whether it was the last observer.
func (n *node[T]) release() bool {
	for {
		current := n.internal.Load()
		pending := uint64(uint32(current) - 1)
		if n.internal.CompareAndSwap(current, current&settledBit|pending) {
			return current&settledBit != 0 && pending == 0
		}
	}
}

func (n *node[T]) reset() {
	n.internal.Store(0)
	n.next.Store(0)
}
