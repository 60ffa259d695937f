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

package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/lfstack/internal/workerpool"
	"github.com/tochemey/lfstack/log"
	"github.com/tochemey/lfstack/stack"
)

// Report summarizes a successful run
type Report struct {
	Moved    int
	Pooled   int
	Duration time.Duration
}

// run moves Threads x Numbers values through a producer stack into a stream
// stack, then routes the same amount of pushes through the worker pool, and
// checks that both streams hold every value exactly once.
func run(ctx context.Context, cfg *Config, logger log.Logger) (*Report, error) {
	start := time.Now()

	moved, err := moveThrough(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("move phase failed: %w", err)
	}
	if err := validate(moved, cfg.Total()); err != nil {
		return nil, fmt.Errorf("move phase produced an invalid stream: %w", err)
	}
	logger.Infof("move phase passed with %d values", len(moved))

	pooled, err := poolThrough(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("pool phase failed: %w", err)
	}
	if err := validate(pooled, cfg.Total()); err != nil {
		return nil, fmt.Errorf("pool phase produced an invalid stream: %w", err)
	}
	logger.Infof("pool phase passed with %d values", len(pooled))

	return &Report{
		Moved:    len(moved),
		Pooled:   len(pooled),
		Duration: time.Since(start),
	}, nil
}

func moveThrough(ctx context.Context, cfg *Config, logger log.Logger) ([]int, error) {
	producer := stack.New[int](stack.WithCapacity(cfg.Capacity), stack.WithLogger(logger))
	stream := stack.New[int](stack.WithCapacity(cfg.Capacity), stack.WithLogger(logger))

	eg, ctx := errgroup.WithContext(ctx)
	for thread := 0; thread < cfg.Threads; thread++ {
		first := thread * cfg.Numbers
		eg.Go(func() error {
			for value := first; value < first+cfg.Numbers; value++ {
				if err := producer.Push(value); err != nil {
					return err
				}
				if err := pause(ctx, cfg.Delay); err != nil {
					return err
				}
				moved, ok := producer.Pop()
				if !ok {
					return fmt.Errorf("producer stack empty after pushing %d", value)
				}
				if err := stream.Push(moved); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	values := drain(stream)
	return values, checkReclaimed(producer.Stats(), stream.Stats())
}

func poolThrough(ctx context.Context, cfg *Config, logger log.Logger) ([]int, error) {
	stream := stack.New[int](stack.WithCapacity(cfg.Capacity), stack.WithLogger(logger))
	pool := workerpool.New(
		workerpool.WithNumWorkers(cfg.Threads),
		workerpool.WithCapacity(cfg.Capacity),
		workerpool.WithLogger(logger))
	pool.Start()

	var err error
	for value := 0; value < cfg.Total() && err == nil; value++ {
		if err = ctx.Err(); err != nil {
			break
		}
		err = pool.SubmitWork(func() {
			if pushErr := stream.Push(value); pushErr != nil {
				logger.Errorf("failed to push %d: %v", value, pushErr)
			}
		})
	}
	pool.Stop()
	if err != nil {
		return nil, err
	}

	values := drain(stream)
	return values, checkReclaimed(stream.Stats())
}

// validate checks that values holds every integer in [0, total) exactly once
func validate(values []int, total int) error {
	var err error
	if len(values) != total {
		err = multierr.Append(err, fmt.Errorf("expected %d values, got %d", total, len(values)))
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		switch delta := sorted[i] - sorted[i-1]; {
		case delta == 0:
			err = multierr.Append(err, fmt.Errorf("value %d delivered more than once", sorted[i]))
		case delta > 1:
			err = multierr.Append(err, fmt.Errorf("values %d to %d missing", sorted[i-1]+1, sorted[i]-1))
		}
	}
	if len(sorted) > 0 && (sorted[0] != 0 || sorted[len(sorted)-1] != total-1) {
		err = multierr.Append(err, fmt.Errorf("values span [%d, %d], expected [0, %d]", sorted[0], sorted[len(sorted)-1], total-1))
	}
	return err
}

// checkReclaimed reports the stacks that still hold unreclaimed nodes
func checkReclaimed(stats ...stack.Stats) error {
	var err error
	for i, stat := range stats {
		if stat.Live != 0 {
			err = multierr.Append(err, fmt.Errorf("stack %d leaked %d nodes (%d allocated, %d released)",
				i, stat.Live, stat.Allocated, stat.Released))
		}
	}
	return err
}

func drain(s *stack.Stack[int]) []int {
	values := make([]int, 0, s.Len())
	for value, ok := s.Pop(); ok; value, ok = s.Pop() {
		values = append(values, value)
	}
	return values
}

func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
