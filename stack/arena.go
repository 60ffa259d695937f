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
	"go.uber.org/atomic"

	"github.com/tochemey/lfstack/errors"
	"github.com/tochemey/lfstack/log"
)

const (
	chunkBits = 12
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1

	// MaxCapacity is the largest number of nodes a stack can hold at once:
	// the 32-bit index space minus the nil index.
	MaxCapacity = 1<<32 - 1

	generationShift = 32
)

type chunk[T any] [chunkSize]node[T]

// directory is never mutated once published. Growth publishes a longer copy,
// so a node address stays valid for the lifetime of the arena.
type directory[T any] struct {
	chunks []*chunk[T]
}

// arena hands out node slots by index and takes them back once the
// reconciliation protocol decides nobody observes them anymore.
type arena[T any] struct {
	directory atomic.Pointer[directory[T]]
	capacity  uint64

	// bump counts the slots ever taken from fresh chunk space (1-based).
	bump atomic.Uint64
	// free is the head of the free list packed as generation<<32 | index.
	// The generation moves on every successful swap.
	free atomic.Uint64

	allocated atomic.Uint64
	released  atomic.Uint64
	exhausted atomic.Bool

	logger log.Logger
}

func newArena[T any](capacity uint64, logger log.Logger) *arena[T] {
	if capacity == 0 || capacity > MaxCapacity {
		capacity = MaxCapacity
	}
	a := &arena[T]{
		capacity: capacity,
		logger:   logger,
	}
	a.directory.Store(&directory[T]{})
	return a
}

// alloc returns a slot ready to receive a value. It fails with
// errors.ErrOutOfMemory when every slot up to the capacity is in use.
func (a *arena[T]) alloc() (uint32, *node[T], error) {
	index, ok := a.popFree()
	if !ok {
		slot := a.bump.Inc()
		if slot > a.capacity {
			// a slot may have come back while the bump space ran out
			if index, ok = a.popFree(); !ok {
				if !a.exhausted.Swap(true) {
					a.logger.Warnf("stack arena exhausted at %d nodes", a.capacity)
				}
				return nilIndex, nil, errors.ErrOutOfMemory
			}
		} else {
			index = uint32(slot)
			a.ensure((index - 1) >> chunkBits)
		}
	}

	n := a.at(index)
	n.reset()
	a.allocated.Inc()
	return index, n, nil
}

// release puts a slot back on the free list. The caller must be the single
// goroutine that observed the node's reconciliation counter reach zero.
func (a *arena[T]) release(index uint32) {
	n := a.at(index)
	for {
		head := a.free.Load()
		n.freeNext.Store(uint32(head))
		if a.free.CompareAndSwap(head, nextGeneration(head, index)) {
			a.released.Inc()
			return
		}
	}
}

// at returns the node stored at the given index, which must have been handed out by alloc.
func (a *arena[T]) at(index uint32) *node[T] {
	slot := index - 1
	return &a.directory.Load().chunks[slot>>chunkBits][slot&chunkMask]
}

// live returns the number of nodes allocated and not yet released
func (a *arena[T]) live() uint64 {
	released := a.released.Load()
	return a.allocated.Load() - released
}

func (a *arena[T]) popFree() (uint32, bool) {
	for {
		head := a.free.Load()
		index := uint32(head)
		if index == nilIndex {
			return nilIndex, false
		}

		next := a.at(index).freeNext.Load()
		if a.free.CompareAndSwap(head, nextGeneration(head, next)) {
			return index, true
		}
	}
}

// ensure makes sure the directory covers the given chunk
func (a *arena[T]) ensure(chunkIndex uint32) {
	for {
		current := a.directory.Load()
		size := uint32(len(current.chunks))
		if chunkIndex < size {
			return
		}

		chunks := make([]*chunk[T], chunkIndex+1)
		copy(chunks, current.chunks)
		for i := size; i <= chunkIndex; i++ {
			chunks[i] = new(chunk[T])
		}

		if a.directory.CompareAndSwap(current, &directory[T]{chunks: chunks}) {
			a.logger.Debugf("stack arena grown to %d chunks of %d nodes", len(chunks), chunkSize)
			return
		}
	}
}

func nextGeneration(head uint64, index uint32) uint64 {
	generation := uint32(head>>generationShift) + 1
	return uint64(generation)<<generationShift | uint64(index)
}
