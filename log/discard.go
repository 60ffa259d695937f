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

package log

import (
	"fmt"
	"io"
	"os"
)

var discardOutputs = []io.Writer{io.Discard}

// discardLogger drops every entry below FatalLevel. Fatal and Panic keep
// their control flow so callers behave the same whichever logger is set.
type discardLogger struct{}

func (discardLogger) Debug(...any)          {}
func (discardLogger) Debugf(string, ...any) {}
func (discardLogger) Info(...any)           {}
func (discardLogger) Infof(string, ...any)  {}
func (discardLogger) Warn(...any)           {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Error(...any)          {}
func (discardLogger) Errorf(string, ...any) {}

// Fatal exits the process with status 1 without writing anything
func (discardLogger) Fatal(...any) { os.Exit(1) }

// Fatalf exits the process with status 1 without writing anything
func (discardLogger) Fatalf(string, ...any) { os.Exit(1) }

// Panic panics with the formatted message
func (discardLogger) Panic(v ...any) { panic(fmt.Sprint(v...)) }

// Panicf panics with the formatted message
func (discardLogger) Panicf(format string, v ...any) { panic(fmt.Sprintf(format, v...)) }

// LogLevel reports InfoLevel
func (discardLogger) LogLevel() Level {
	return InfoLevel
}

// Enabled returns false for all levels except Fatal and Panic, which always execute.
func (discardLogger) Enabled(level Level) bool {
	return level == FatalLevel || level == PanicLevel
}

// With returns DiscardLogger, there is nothing to attach the fields to.
func (discardLogger) With(...any) Logger {
	return DiscardLogger
}

// LogOutput reports io.Discard as the only output
func (discardLogger) LogOutput() []io.Writer {
	return discardOutputs
}

// Flush has nothing buffered to write
func (discardLogger) Flush() error {
	return nil
}
