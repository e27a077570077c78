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

// Package terminal defines the terminal utilities of sce-clang: the color
// mode setting, the terminal width, and the line prompt of the interactive
// RPC client.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// Possible values for [ColorMode].
const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// defaultWidth is the width returned by Width if the width of the terminal
// cannot be determined.
const defaultWidth = 80

// ErrInterrupt is returned by [Prompt.ReadLine] when the user interrupts the
// prompt.
var ErrInterrupt = errors.New("interrupted")

// errColorMode is returned when an invalid value is parsed into [ColorMode].
var errColorMode = errors.New("invalid color mode")

// ColorMode represent the color output setting of the program.
type ColorMode int

// A Prompt reads lines from the user with line editing and history.
type Prompt struct {
	rl *readline.Instance
}

// Enabled reports whether colors should be used when writing to f.
func (c ColorMode) Enabled(f *os.File) bool {
	switch c {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		return f != nil && IsTerminal(f)
	default:
		panic(fmt.Sprintf("invalid color mode: %d", int(c)))
	}
}

// String returns the string representation of c.
func (c ColorMode) String() string {
	switch c {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(c))
	}
}

// Set sets the value of c from s. It implements [pflag.Value].
func (c *ColorMode) Set(s string) error {
	return c.UnmarshalText([]byte(s))
}

// Type returns the type name shown in the flag usage.
func (c *ColorMode) Type() string {
	return "mode"
}

// MarshalText implements [encoding.TextMarshaler].
func (c ColorMode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *ColorMode) UnmarshalText(data []byte) error {
	switch strings.ToLower(string(data)) {
	case "auto":
		*c = ColorAuto
	case "always", "true":
		*c = ColorAlways
	case "never", "false":
		*c = ColorNever
	default:
		return fmt.Errorf("%w: %s", errColorMode, string(data))
	}

	return nil
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// Width returns the width of the terminal connected to standard output, or
// a default width if it cannot be determined.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 { //nolint:gosec // fd fits in int
		return w
	}

	return defaultWidth
}

// NewPrompt returns a prompt that shows the given prompt string and reads from
// in. If historyFile is not empty, the entered lines are saved to it.
func NewPrompt(prompt, historyFile string, in io.ReadCloser, out io.Writer) (*Prompt, error) {
	cfg := &readline.Config{ //nolint:exhaustruct // use default values
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           in,
		Stdout:          out,
		Stderr:          out,
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt: %w", err)
	}

	return &Prompt{rl: rl}, nil
}

// ReadLine reads the next line from the user. It returns [io.EOF] when the
// input ends and [ErrInterrupt] on Ctrl-C.
func (p *Prompt) ReadLine() (string, error) {
	line, err := p.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", ErrInterrupt
		}

		return "", fmt.Errorf("%w", err)
	}

	return strings.TrimSpace(line), nil
}

// Close closes the prompt and restores the terminal.
func (p *Prompt) Close() error {
	if err := p.rl.Close(); err != nil {
		return fmt.Errorf("failed to close prompt: %w", err)
	}

	return nil
}
