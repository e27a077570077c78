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

// Command sce-rpc-call calls the query service of a running SCE editor and
// prints the result. It is a debugging aid for the host protocol.
//
// Usage:
//
//	sce-rpc-call [--rpc-address <addr>] [--interactive] [method]
//
// The method is one of "test", "current-file", "current-buffer", and
// "documents". The default method is "current-buffer", which prints the text
// of the current buffer as it is.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sce-editor/sce-clang/internal/fspath"
	"github.com/sce-editor/sce-clang/internal/terminal"
	"github.com/sce-editor/sce-clang/pkg/sce"
	"github.com/spf13/pflag"
)

const (
	methodTest          = "test"
	methodCurrentFile   = "current-file"
	methodCurrentBuffer = "current-buffer"
	methodDocuments     = "documents"
	historyFile         = "~/.cache/sce-clang/rpc_history"
)

var errUnknownMethod = errors.New("unknown method")

// methods lists the methods in the order they are shown in the help.
//
//nolint:gochecknoglobals // used like constant
var methods = []string{methodTest, methodCurrentFile, methodCurrentBuffer, methodDocuments}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdout)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("sce-rpc-call", pflag.ContinueOnError)
	addr := fs.String("rpc-address", sce.DefaultRPCAddress, "connect to the host RPC service at `<addr>`")
	interactive := fs.BoolP("interactive", "i", false, "read methods to call from a prompt")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sce-rpc-call [options] [%s]\n\nOptions:\n", strings.Join(methods, "|"))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}

		return fmt.Errorf("%w", err)
	}

	client, err := sce.Dial(*addr)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer client.Close()

	if *interactive {
		return prompt(ctx, client, out)
	}

	method := methodCurrentBuffer
	if fs.NArg() > 0 {
		method = fs.Arg(0)
	}

	return call(ctx, client, method, out)
}

// call calls the method and prints the result to out.
func call(ctx context.Context, client *sce.Client, method string, out io.Writer) error {
	var (
		result string
		err    error
	)

	switch method {
	case methodTest:
		result, err = client.Test(ctx)
		result += "\n"
	case methodCurrentFile:
		result, err = client.GetCurrentFileName(ctx)
		result += "\n"
	case methodCurrentBuffer:
		_, result, err = client.GetCurrentBuffer(ctx)
	case methodDocuments:
		var docs []sce.DocumentState

		docs, err = client.GetCurrentDocuments(ctx)

		var sb strings.Builder

		for _, d := range docs {
			sb.WriteString(d.String())
			sb.WriteByte('\n')
		}

		result = sb.String()
	default:
		return fmt.Errorf("%w: %q", errUnknownMethod, method)
	}

	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if _, err := io.WriteString(out, result); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// prompt reads methods from the user and calls them until the input ends.
func prompt(ctx context.Context, client *sce.Client, out io.Writer) error {
	history, err := fspath.NewAbs(historyFile)
	if err == nil {
		err = history.Dir().MkdirAll(0o700) //nolint:mnd // private directory
	}

	if err != nil {
		history = ""
	}

	p, err := terminal.NewPrompt("sce> ", history.String(), os.Stdin, out)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer p.Close()

	fmt.Fprintf(out, "Connected to %s. Methods: %s\n", client.Addr(), strings.Join(methods, ", "))

	for ctx.Err() == nil {
		line, err := p.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, terminal.ErrInterrupt) {
				return nil
			}

			return fmt.Errorf("%w", err)
		}

		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		if err := call(ctx, client, line, out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)

			continue
		}

		if line == methodCurrentBuffer {
			fmt.Fprintln(out)
		}
	}

	return nil
}
