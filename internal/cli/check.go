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
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sce-editor/sce-clang/internal/compiler"
	"github.com/sce-editor/sce-clang/internal/diag"
	"github.com/sce-editor/sce-clang/internal/fspath"
	"github.com/sce-editor/sce-clang/internal/log"
	"github.com/sce-editor/sce-clang/internal/text"
	"github.com/sce-editor/sce-clang/pkg/sce"
)

var errNoFiles = errors.New("no files given")

// A diagPrinter prints diagnostics in the format of the compiler with colors.
type diagPrinter struct {
	w        io.Writer
	location *color.Color
	err      *color.Color
	warning  *color.Color
	errors   int
	warnings int
}

func newCheckCommand() *Command {
	return &Command{
		Name:      "check",
		UsageLine: "check [options] <file>...",
		Short:     "Check files from disk without the editor and print the diagnostics",
		Run:       runCheck,
		Flags:     nil,
	}
}

// runCheck compiles each file and prints the diagnostics. It fails if any
// file has errors.
func runCheck(ctx context.Context, c *CLI, args []string) error {
	if len(args) == 0 {
		return &ExitError{Code: exitUsage, err: errNoFiles}
	}

	comp, err := compiler.New(c.Cfg.Compiler)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer comp.Close()

	enabled := false
	if f, ok := c.out.(*os.File); ok {
		enabled = c.Cfg.Color.Enabled(f)
	}

	p := newDiagPrinter(c.out, enabled)

	for _, a := range args {
		path, err := fspath.NewAbs(a)
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		source, err := path.ReadFile()
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		doc := sce.DocumentState{ID: path.String(), Version: 0}

		out, err := comp.Check(ctx, doc, source)
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		diags := diag.Parse(string(out))
		log.Debug(ctx, "checked file", "path", path, "diagnostics", len(diags))

		for _, d := range diags {
			if err := p.print(a, d); err != nil {
				return err
			}
		}
	}

	if err := p.summary(); err != nil {
		return err
	}

	if p.errors > 0 {
		return &ExitError{Code: exitFailure, err: nil}
	}

	return nil
}

func newDiagPrinter(w io.Writer, enabled bool) *diagPrinter {
	p := &diagPrinter{
		w:        w,
		location: color.New(color.Bold),
		err:      color.New(color.FgRed, color.Bold),
		warning:  color.New(color.FgYellow, color.Bold),
		errors:   0,
		warnings: 0,
	}

	for _, c := range []*color.Color{p.location, p.err, p.warning} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// print prints one diagnostic. The compiler reads the source from standard
// input, so the file name it reports is replaced with name.
func (p *diagPrinter) print(name string, d diag.Diagnostic) error {
	label := p.warning

	switch d.Severity {
	case diag.SeverityError, diag.SeverityFatalError:
		label = p.err
		p.errors++
	case diag.SeverityWarning:
		p.warnings++
	}

	loc := p.location.Sprintf("%s:%d:%d:", name, d.Line, d.Character)

	if _, err := fmt.Fprintf(p.w, "%s %s %s\n", loc, label.Sprint(d.Severity.String()+":"), d.Message); err != nil {
		return fmt.Errorf("failed to print diagnostic: %w", err)
	}

	return nil
}

func (p *diagPrinter) summary() error {
	if p.errors == 0 && p.warnings == 0 {
		return nil
	}

	parts := make([]string, 0, 2) //nolint:mnd // errors and warnings

	if p.errors > 0 {
		parts = append(parts, p.err.Sprint(text.Count(p.errors, "error")))
	}

	if p.warnings > 0 {
		parts = append(parts, p.warning.Sprint(text.Count(p.warnings, "warning")))
	}

	if _, err := fmt.Fprintf(p.w, "%s generated.\n", strings.Join(parts, " and ")); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	return nil
}
