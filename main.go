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

// Package main is the entry point of sce-clang. It connects to the SCE editor,
// checks the C++ documents open in it with clang, and annotates the buffers
// with the diagnostics of the compiler.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sce-editor/sce-clang/internal/cli"
	"github.com/sce-editor/sce-clang/internal/log"
	"github.com/sce-editor/sce-clang/internal/log/logger"
	"github.com/sce-editor/sce-clang/internal/panichandler"
	"github.com/sce-editor/sce-clang/internal/version"
)

func main() {
	code := run()
	if code != 0 {
		os.Exit(code)
	}
}

func run() int {
	defer panichandler.Handle()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	panichandler.SetCancel(cancel)

	// Cancel the context on signals so that the compiler is killed and
	// the notification stream is closed.
	sigc := make(chan os.Signal, 1)

	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	handlePanic := panichandler.WithStackTrace()

	go func() {
		defer handlePanic()

		select {
		case <-sigc:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := logger.InitBootstrap(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	log.Debug(ctx, "bootstrap logger initialized")
	log.Info(ctx, "bootstrapping "+cli.ProgramName, "version", version.Version(), "commit", version.Revision())

	c := cli.New()

	err := c.Execute(ctx, os.Args)
	if closeErr := c.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", closeErr)
	}

	if err == nil {
		return 0
	}

	log.Error(ctx, "exiting with error", log.Err(err))

	if flushErr := logger.FlushBootstrap(); flushErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", flushErr)
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Silent() {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr)
		}

		return exitErr.Code
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	return 1
}
