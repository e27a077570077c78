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

// Package cli implements the command-line interface of sce-clang. It parses
// the command-line arguments, finds the command to run, loads the config, and
// sets up the logger before running the command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sce-editor/sce-clang/internal/config"
	"github.com/sce-editor/sce-clang/internal/log"
	"github.com/sce-editor/sce-clang/internal/log/logger"
	"github.com/sce-editor/sce-clang/internal/version"
	"github.com/spf13/pflag"
)

// ProgramName is the name of the program as it is shown to the user.
const ProgramName = "sce-clang"

// A CLI is the command-line interface of the program.
type CLI struct {
	// Cfg is the parsed config. It is set before the command is run.
	Cfg *config.Config

	out      io.Writer
	errOut   io.Writer
	root     *Command
	commands []*Command
	closers  []io.Closer
}

// New returns a new CLI that writes to the standard output streams.
func New() *CLI {
	c := &CLI{
		Cfg:      nil,
		out:      os.Stdout,
		errOut:   os.Stderr,
		root:     newRootCommand(),
		commands: nil,
		closers:  nil,
	}

	c.add(newCheckCommand())
	c.add(newVersionCommand())

	return c
}

// SetOutput sets the writers for the command output and the error output.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.out = out
	c.errOut = errOut
}

// Execute runs the command given in args. The first element of args is
// the program name.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		args = args[1:]
	}

	cmd, args := c.findSubcommand(args)
	flagSet := cmd.flagSet()

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}

		return &ExitError{Code: exitUsage, err: fmt.Errorf("%w", err)}
	}

	if help, _ := flagSet.GetBool("help"); help { //nolint:errcheck // flag is always defined
		return c.printUsage(cmd, flagSet)
	}

	if v, _ := flagSet.GetBool("version"); v || cmd.Name == "version" { //nolint:errcheck // flag is always defined
		return c.printVersion()
	}

	cfg, err := config.Parse(ctx, flagSet)
	if err != nil {
		return fmt.Errorf("failed to parse the config: %w", err)
	}

	c.Cfg = cfg

	closer, err := logger.Init(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	c.closers = append(c.closers, closer)

	log.Debug(ctx, "logging initialized")
	log.Info(ctx, "running "+ProgramName, "version", version.Version(), "cmd", cmd.Name)

	if cmd.Run == nil {
		panic(fmt.Sprintf("command %q has no Run function", cmd.Name))
	}

	if err := cmd.Run(ctx, c, flagSet.Args()); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// Close releases the resources of the CLI, such as the log file.
func (c *CLI) Close() error {
	var errs []error

	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	c.closers = nil

	return errors.Join(errs...)
}

func (c *CLI) add(cmd *Command) {
	c.commands = append(c.commands, cmd)
}

// findSubcommand returns the command named by the first argument that is not
// a flag and the arguments without the command name. If no command is named,
// the root command is returned.
func (c *CLI) findSubcommand(args []string) (*Command, []string) {
	fs := c.root.flagSet()

	for i := 0; i < len(args); i++ {
		a := args[i]

		if a == "--" {
			break
		}

		if strings.HasPrefix(a, "-") {
			// Skip the value of a flag that is not given with "=".
			name := strings.TrimLeft(a, "-")
			if !strings.Contains(name, "=") {
				f := fs.Lookup(name)
				if f == nil && len(name) == 1 {
					f = fs.ShorthandLookup(name)
				}

				if f != nil && f.NoOptDefVal == "" {
					i++
				}
			}

			continue
		}

		for _, cmd := range c.commands {
			if cmd.Name == a {
				rest := make([]string, 0, len(args)-1)
				rest = append(rest, args[:i]...)
				rest = append(rest, args[i+1:]...)

				return cmd, rest
			}
		}

		break
	}

	return c.root, args
}

func (c *CLI) printUsage(cmd *Command, flagSet *pflag.FlagSet) error {
	var sb strings.Builder

	sb.WriteString("Usage: " + ProgramName + " " + cmd.UsageLine + "\n\n")
	sb.WriteString(cmd.Short + "\n")

	if cmd == c.root {
		sb.WriteString("\nCommands:\n")

		for _, sub := range c.commands {
			fmt.Fprintf(&sb, "  %-10s%s\n", sub.Name, sub.Short)
		}
	}

	sb.WriteString("\nOptions:\n")
	sb.WriteString(flagSet.FlagUsages())

	if _, err := io.WriteString(c.out, sb.String()); err != nil {
		return fmt.Errorf("failed to print the usage info: %w", err)
	}

	return nil
}
