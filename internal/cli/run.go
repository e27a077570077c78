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

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sce-editor/sce-clang/internal/checker"
	"github.com/sce-editor/sce-clang/internal/compiler"
	"github.com/sce-editor/sce-clang/internal/log"
	"github.com/sce-editor/sce-clang/internal/panichandler"
	"github.com/sce-editor/sce-clang/pkg/notify"
	"github.com/sce-editor/sce-clang/pkg/sce"
	"golang.org/x/sync/errgroup"
)

var errUnexpectedArgs = errors.New("unexpected arguments")

func newRootCommand() *Command {
	return &Command{
		Name:      ProgramName,
		UsageLine: "[options] [command]",
		Short:     "Check the C++ documents open in the SCE editor with clang and annotate the diagnostics.",
		Run:       runBridge,
		Flags:     hostFlags,
	}
}

// runBridge connects to the host and checks the documents until the host
// closes the notification stream or the program is stopped.
func runBridge(ctx context.Context, c *CLI, args []string) error {
	if len(args) > 0 {
		return &ExitError{Code: exitUsage, err: fmt.Errorf("%w: %v", errUnexpectedArgs, args)}
	}

	cfg := c.Cfg

	comp, err := compiler.New(cfg.Compiler)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer comp.Close()

	client, err := sce.Dial(cfg.Host.RPCAddress)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	defer func() {
		if err := client.Close(); err != nil {
			log.Warn(ctx, "failed to close RPC connection", log.Err(err))
		}
	}()

	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", cfg.Host.NotificationAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to notification stream: %w", err)
	}

	log.Info(
		ctx,
		"connected to host",
		"rpc", cfg.Host.RPCAddress,
		"notifications", conn.RemoteAddr().String(),
		"compiler", cfg.Compiler.Command,
	)

	chk := checker.New(client, comp)
	eg, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	handlePanic := panichandler.WithStackTrace()

	eg.Go(func() error {
		defer handlePanic()
		defer close(done)

		return chk.Run(gctx, notify.NewReader(conn))
	})

	handleClosePanic := panichandler.WithStackTrace()

	// A blocked read only returns when the connection is closed.
	eg.Go(func() error {
		defer handleClosePanic()

		select {
		case <-gctx.Done():
		case <-done:
		}

		if err := conn.Close(); err != nil {
			log.Debug(ctx, "failed to close notification connection", log.Err(err))
		}

		return nil
	})

	err = eg.Wait()

	switch {
	case err == nil:
		log.Info(ctx, "host closed the notification stream")

		return nil
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		log.Info(ctx, "stopped")

		return nil
	default:
		return fmt.Errorf("%w", err)
	}
}
