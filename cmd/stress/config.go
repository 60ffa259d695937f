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
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/tochemey/lfstack/errors"
	"github.com/tochemey/lfstack/log"
)

const (
	envPrefix  = "LFSTACK"
	envFileKey = envPrefix + "_ENV_FILE"
)

// Config drives a stress run. Every field is read from an LFSTACK_ prefixed
// environment variable.
type Config struct {
	// Threads is the number of goroutines moving values
	Threads int `envconfig:"THREADS" default:"10"`
	// Numbers is the number of values each goroutine moves
	Numbers int `envconfig:"NUMBERS" default:"100"`
	// Delay is the pause between a push and the matching pop
	Delay time.Duration `envconfig:"DELAY" default:"1ms"`
	// Capacity bounds every stack, zero means unbounded
	Capacity uint64 `envconfig:"CAPACITY" default:"0"`
	// LogLevel is the minimum level logged, one of debug, info, warn, error
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// EnvFile is an optional dotenv file loaded before the environment is read
	EnvFile string `envconfig:"ENV_FILE"`
}

// LoadConfig reads the configuration from the environment, after loading the
// file named by LFSTACK_ENV_FILE when set. Variables already present in the
// environment win over the file.
func LoadConfig() (*Config, error) {
	if file := os.Getenv(envFileKey); file != "" {
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	cfg := new(Config)
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read the configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("%w: threads must be positive, got %d", errors.ErrInvalidConfig, c.Threads)
	}
	if c.Numbers < 1 {
		return fmt.Errorf("%w: numbers must be positive, got %d", errors.ErrInvalidConfig, c.Numbers)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: delay cannot be negative, got %s", errors.ErrInvalidConfig, c.Delay)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the configured log level
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Total returns the number of values a phase moves
func (c *Config) Total() int {
	return c.Threads * c.Numbers
}
