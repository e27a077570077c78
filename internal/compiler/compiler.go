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

// Package compiler runs the syntax-only compiler pass on a document buffer
// and captures the diagnostics that the compiler prints.
package compiler

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sce-editor/sce-clang/internal/fspath"
	"github.com/sce-editor/sce-clang/internal/log"
	"github.com/sce-editor/sce-clang/pkg/sce"
)

// Default compiler invocation.
const (
	DefaultCommand = "clang++"
	stdinFileName  = "-"
)

// DefaultArgs returns the default arguments of the compiler. They select C++17,
// force the language because the source comes from standard input, and stop
// the compiler after the syntax check.
func DefaultArgs() []string {
	return []string{"-std=c++17", "-x", "c++", "-fsyntax-only"}
}

// Config is the configuration of the compiler runner.
type Config struct {
	Command     string        `mapstructure:"command"`      // compiler executable
	Args        []string      `mapstructure:"args"`         // arguments before the include directories
	IncludeDirs []fspath.Path `mapstructure:"include-dirs"` // extra include directories
	Cache       CacheConfig   `mapstructure:"cache"`
}

// A Compiler runs the compiler on document buffers. It is safe for
// concurrent use, but the checker runs at most one compiler at a time.
type Compiler struct {
	cache       *cache
	command     string
	args        []string
	includeDirs []string
}

// Error is returned when the compiler process cannot be run at all. A compiler
// that runs and exits with a non-zero status is not an error.
type Error struct {
	Err     error
	Command string
}

// DefaultConfig returns the default compiler configuration.
func DefaultConfig() Config {
	return Config{
		Command:     DefaultCommand,
		Args:        DefaultArgs(),
		IncludeDirs: nil,
		Cache:       DefaultCacheConfig(),
	}
}

// New returns a new Compiler for the given configuration. The include
// directories are resolved to absolute paths.
func New(cfg Config) (*Compiler, error) {
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}

	dirs := make([]string, 0, len(cfg.IncludeDirs))

	for _, d := range cfg.IncludeDirs {
		abs, err := d.Abs()
		if err != nil {
			return nil, fmt.Errorf("invalid include directory %q: %w", d, err)
		}

		dirs = append(dirs, abs.String())
	}

	c := &Compiler{
		cache:       nil,
		command:     cfg.Command,
		args:        append([]string(nil), cfg.Args...),
		includeDirs: dirs,
	}

	if cfg.Cache.Enabled {
		cc, err := newCache(cfg.Cache)
		if err != nil {
			return nil, err
		}

		c.cache = cc
	}

	return c, nil
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IncludeDir returns the include directory for the document with the given
// ID. It is the directory that contains the document.
func IncludeDir(id string) fspath.Path {
	return fspath.Path(id).Dir()
}

// Args returns the full argument list that is used for the given document,
// not including the command itself.
func (c *Compiler) Args(doc sce.DocumentState) []string {
	args := make([]string, 0, len(c.args)+len(c.includeDirs)+2) //nolint:mnd // -I<dir> and "-"
	args = append(args, c.args...)
	args = append(args, "-I"+IncludeDir(doc.ID).String())

	for _, d := range c.includeDirs {
		args = append(args, "-I"+d)
	}

	return append(args, stdinFileName)
}

// Check runs the compiler on source as the contents of doc and returns
// everything the compiler wrote to standard output and standard error.
// The compiler is run without a timeout, and ctx only stops the process when
// the program shuts down.
func (c *Compiler) Check(ctx context.Context, doc sce.DocumentState, source []byte) ([]byte, error) {
	args := c.Args(doc)

	var key string

	if c.cache != nil {
		key = cacheKey(c.command, args, source)
		if out, ok := c.cache.get(key); ok {
			log.Trace(ctx, "compiler output found in cache", "doc", doc.String())

			return out, nil
		}
	}

	log.Debug(ctx, "running compiler", "cmd", c.command, "args", strings.Join(args, " "))

	var out bytes.Buffer

	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.Stdin = bytes.NewReader(source)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return nil, &Error{Command: c.command, Err: err}
		}

		log.Trace(ctx, "compiler exited with non-zero status", "code", exitErr.ExitCode())
	}

	result := out.Bytes()

	if c.cache != nil {
		c.cache.set(key, result)
	}

	return result, nil
}

// Close releases the output cache, if any.
func (c *Compiler) Close() {
	if c.cache != nil {
		c.cache.close()
	}
}

// cacheKey returns the cache key of one compiler invocation.
func cacheKey(command string, args []string, source []byte) string {
	h := sha256.New()

	h.Write([]byte(command))

	for _, a := range args {
		h.Write([]byte{0})
		h.Write([]byte(a))
	}

	h.Write([]byte{0})
	h.Write(source)

	return hex.EncodeToString(h.Sum(nil))
}
