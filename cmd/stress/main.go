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

// Command stress hammers the lock-free stack with concurrent producers and
// consumers and exits with status 1 if any value is lost, duplicated or leaked.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tochemey/lfstack/log"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.NewZap(log.InfoLevel, os.Stderr).Fatal(err)
	}

	logger := log.NewZap(cfg.Level(), os.Stdout)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	report, err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error(err)
		_ = logger.Flush()
		os.Exit(1)
	}

	logger.With(
		"threads", cfg.Threads,
		"numbers", cfg.Numbers,
		"moved", report.Moved,
		"pooled", report.Pooled,
		"duration", report.Duration,
	).Info("stress run passed")
}
