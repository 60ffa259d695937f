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

// Package workerpool runs submitted tasks on a fixed set of goroutines.
// Pending tasks are kept on a lock-free stack, so the most recently
// submitted task is the next one picked up.
package workerpool

import (
	"runtime"
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/lfstack/errors"
	"github.com/tochemey/lfstack/log"
	"github.com/tochemey/lfstack/stack"
)

// WorkerPool manages a fixed set of workers draining a shared task stack.
type WorkerPool struct {
	numWorkers int
	capacity   uint64
	logger     log.Logger

	tasks *stack.Stack[func()]
	// wake holds at most one pending signal per worker
	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	mutex          sync.RWMutex
	started        atomic.Bool
	stopped        atomic.Bool
	spawnedWorkers atomic.Int64
	executedTasks  atomic.Uint64
}

// New creates a new worker pool with the given options.
// The pool defaults to one worker per CPU.
func New(opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		numWorkers: runtime.GOMAXPROCS(0),
		logger:     log.DiscardLogger,
	}

	for _, opt := range opts {
		opt.Apply(wp)
	}

	if wp.numWorkers < 1 {
		wp.numWorkers = 1
	}
	return wp
}

// Start spawns the workers. It's safe to call Start multiple times.
func (wp *WorkerPool) Start() {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.started.Load() {
		return
	}

	wp.tasks = stack.New[func()](stack.WithCapacity(wp.capacity), stack.WithLogger(wp.logger))
	wp.wake = make(chan struct{}, wp.numWorkers)
	wp.done = make(chan struct{})

	wp.wg.Add(wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		go wp.work()
	}

	wp.started.Store(true)
	wp.logger.Debugf("worker pool started with %d workers", wp.numWorkers)
}

// Stop prevents new submissions and waits until every task accepted so far has run.
// A pool cannot be restarted once stopped.
func (wp *WorkerPool) Stop() {
	wp.mutex.Lock()
	if !wp.started.Load() || wp.stopped.Swap(true) {
		wp.mutex.Unlock()
		return
	}
	close(wp.done)
	wp.mutex.Unlock()

	wp.wg.Wait()
	// workers only exit once the stack reported empty after the last submission
	if dropped := wp.tasks.Drain(); dropped > 0 {
		wp.logger.Warnf("worker pool stopped with %d tasks not run", dropped)
	}
	if err := wp.tasks.Close(); err != nil {
		wp.logger.Errorf("failed to close the worker pool task stack: %v", err)
	}
	wp.logger.Debugf("worker pool stopped after %d tasks", wp.executedTasks.Load())
}

// SubmitWork queues a task for execution. It returns errors.ErrPoolNotRunning
// when the pool is not started or already stopped, and errors.ErrOutOfMemory
// when the pending task capacity is exhausted.
func (wp *WorkerPool) SubmitWork(task func()) error {
	wp.mutex.RLock()
	defer wp.mutex.RUnlock()
	if !wp.started.Load() || wp.stopped.Load() {
		return errors.ErrPoolNotRunning
	}

	if err := wp.tasks.Push(task); err != nil {
		return err
	}

	select {
	case wp.wake <- struct{}{}:
	default:
		// every worker already has a wake up pending
	}
	return nil
}

// GetSpawnedWorkers returns the current count of running workers.
func (wp *WorkerPool) GetSpawnedWorkers() int {
	return int(wp.spawnedWorkers.Load())
}

// GetExecutedTasks returns the number of tasks run so far.
func (wp *WorkerPool) GetExecutedTasks() uint64 {
	return wp.executedTasks.Load()
}

// work runs tasks until the stack reports empty, then parks until woken up.
func (wp *WorkerPool) work() {
	wp.spawnedWorkers.Inc()
	defer func() {
		wp.spawnedWorkers.Dec()
		wp.wg.Done()
	}()

	for {
		wp.runPending()
		select {
		case <-wp.wake:
		case <-wp.done:
			wp.runPending()
			return
		}
	}
}

func (wp *WorkerPool) runPending() {
	for task, ok := wp.tasks.Pop(); ok; task, ok = wp.tasks.Pop() {
		wp.execute(task)
	}
}

func (wp *WorkerPool) execute(task func()) {
	defer func() {
		wp.executedTasks.Inc()
		if r := recover(); r != nil {
			wp.logger.Errorf("worker pool task panicked: %v", r)
		}
	}()
	task()
}
