// Copyright 2025 The SCE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package panichandler defines the panic handler functions for sce-clang.
// They need to be deferred at the beginning of each goroutine. The handler
// stops the program, writes the buffered bootstrap logs, and prints the panic
// with the information needed for a bug report.
package panichandler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/sce-editor/sce-clang/internal/log/logger"
	"github.com/sce-editor/sce-clang/internal/terminal"
	"github.com/sce-editor/sce-clang/internal/text"
	"github.com/sce-editor/sce-clang/internal/version"
)

const (
	header = "!!! SCE-CLANG CRASHED !%s"
	//nolint:lll
	panicInfo = `
sce-clang has encountered an unexpected error and stopped checking the documents of the editor. In your bug report, please include the version, the compiler command, and the stack trace shown below.
`
	footer = `
Please open an issue at:

	https://github.com/sce-editor/sce-clang/issues
`
)

// panicMu is a mutex used to lock the panic handler in case multiple goroutines
// panic simultaneously. It ensures that only the first one recovers, prints the
// message, and exits the program.
var panicMu sync.Mutex //nolint:gochecknoglobals // used be multiple goroutines

// cancel is the cancel function for the program context. It should be set at
// the beginning of the program. It must be run before exiting the program.
var cancel context.CancelFunc //nolint:gochecknoglobals // global cancel for the context

// cancelOnce is used to ensure that cancel is only set once.
var cancelOnce sync.Once //nolint:gochecknoglobals // global cancel for the context

// Handle recovers the panics of the program and prints the information included
// with them with the stack trace and a helpful message that guides the user to
// report the bug using the issue tracker.
func Handle() {
	panicMu.Lock()
	defer panicMu.Unlock()

	//revive:disable-next-line:defer This is a deferred function.
	r := recover()

	handlePanic(r, nil)
}

// WithStackTrace returns a function that is similar to Handle but it captures
// the current stack trace to it. This way the panic handler can print the full
// stack trace leading up to creating the panic handler with this function if a
// panic happens outside of the main goroutine.
func WithStackTrace() func() {
	trace := debug.Stack()

	return func() {
		panicMu.Lock()
		defer panicMu.Unlock()

		//revive:disable-next-line:defer This is a deferred function.
		r := recover()

		handlePanic(r, trace)
	}
}

// SetCancel sets the cancel function for the program context.
func SetCancel(c context.CancelFunc) {
	cancelOnce.Do(func() {
		cancel = c
	})
}

func handlePanic(r any, t []byte) {
	if r == nil {
		return
	}

	if cancel != nil {
		cancel()
	}

	var buf bytes.Buffer

	buf.WriteByte('\n')

	width := terminal.Width()

	buf.WriteString(fmt.Sprintf(header, strings.Repeat("!", max(width-len(header)+1, 1))))
	buf.WriteString("\n\n")
	buf.WriteString(text.Wrap(panicInfo, width))
	buf.WriteByte('\n')
	buf.WriteString(fmt.Sprintf("Version: %s\n", version.Version()))
	buf.WriteString(fmt.Sprintf("Panic: %v\n\n", r))
	buf.WriteString("Stack trace:\n\n")
	buf.Write(debug.Stack())

	if t != nil {
		buf.WriteString("\nWith goroutine called from:\n\n")
		buf.Write(t)
	}

	if err := logger.FlushBootstrap(); err != nil {
		buf.WriteString(fmt.Sprintf("\n%v\n", err))
	}

	buf.WriteString("\n" + footer)

	if _, err := os.Stderr.Write(buf.Bytes()); err != nil {
		os.Exit(2) //nolint:mnd // nothing else can be reported
	}

	//revive:disable-next-line:deep-exit Panic handler has to exit with error.
	os.Exit(1)
}
