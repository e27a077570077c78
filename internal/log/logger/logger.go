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

// Package logger controls the default logger of sce-clang. It is a separate
// package to avoid import cycles.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sce-editor/sce-clang/internal/debugging"
	"github.com/sce-editor/sce-clang/internal/fspath"
	"github.com/sce-editor/sce-clang/internal/log/logconfig"
	"github.com/sce-editor/sce-clang/internal/log/logwriter"
)

// Default values for the logger.
const (
	defaultFilePerm     os.FileMode = 0o600 // log file permissions
	defaultDirPerm      os.FileMode = 0o700 // log directory permissions
	bootstrapLogFile                = "~/.cache/sce-clang/bootstrap.log"
	logFileOpenFlags                = os.O_WRONLY | os.O_APPEND | os.O_CREATE
)

// errInvalidFormat is returned when trying to create a logger with an invalid
// format.
var errInvalidFormat = errors.New("invalid log format")

// InitBootstrap initializes the bootstrap logger and sets it as the default
// logger in [log/slog]. The bootstrap logs are kept in memory and written to
// a file only if the program fails before the proper logger is set up.
func InitBootstrap() error {
	if debugging.IsDebug() {
		slog.SetDefault(slog.New(debugHandler()).With("bootstrap", "true"))

		return nil
	}

	path, err := fspath.NewAbs(bootstrapLogFile)
	if err != nil {
		return fmt.Errorf("failed to create path to bootstrap log file: %w", err)
	}

	logwriter.BootstrapWriter = logwriter.NewBufferedFileWriter(path)

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				logwriter.BootstrapWriter,
				&slog.HandlerOptions{AddSource: true, Level: logconfig.LevelTrace, ReplaceAttr: replaceAttrFunc()},
			),
		),
	)

	return nil
}

// Init initializes the proper logger of the program and sets it as the default
// logger in [log/slog]. The returned closer releases the log file, if any.
func Init(cfg logconfig.Config) (io.Closer, error) {
	if debugging.IsDebug() {
		slog.SetDefault(slog.New(debugHandler()))

		return nopCloser{}, nil
	}

	if !cfg.Enabled {
		slog.SetDefault(slog.New(slog.DiscardHandler))

		return nopCloser{}, nil
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)

	switch strings.ToLower(cfg.Output) {
	case logconfig.OutputStderr, "":
		w = os.Stderr
	case logconfig.OutputStdout:
		w = os.Stdout
	default:
		path, err := fspath.NewAbs(cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log output %q: %w", cfg.Output, err)
		}

		if err = path.Dir().MkdirAll(defaultDirPerm); err != nil {
			return nil, fmt.Errorf("failed to create directory for log output: %w", err)
		}

		f, err := path.OpenFile(logFileOpenFlags, defaultFilePerm)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		w = f
		closer = f
	}

	h, err := NewHandler(w, cfg)
	if err != nil {
		_ = closer.Close() //nolint:errcheck // the format error is more relevant

		return nil, err
	}

	slog.SetDefault(slog.New(h))

	return closer, nil
}

// NewHandler returns the handler for the given configuration that writes to w.
func NewHandler(w io.Writer, cfg logconfig.Config) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		AddSource:   true,
		Level:       cfg.Level,
		ReplaceAttr: replaceAttrFunc(),
	}

	switch strings.ToLower(cfg.Format) {
	case logconfig.FormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	case logconfig.FormatText, "":
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", errInvalidFormat, cfg.Format)
	}
}

// FlushBootstrap writes the buffered bootstrap logs to their file. It is
// called when the program fails.
func FlushBootstrap() error {
	bw, ok := logwriter.BootstrapWriter.(*logwriter.BufferedFileWriter)
	if !ok {
		return nil
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write bootstrap logs to %s: %w", bw.File(), err)
	}

	return nil
}

// debugHandler returns a handler that should be used when debugging is enabled.
func debugHandler() slog.Handler {
	return slog.NewJSONHandler(
		os.Stderr,
		&slog.HandlerOptions{AddSource: true, Level: logconfig.LevelTrace, ReplaceAttr: replaceAttrFunc()},
	)
}

func replaceAttrFunc() func([]string, slog.Attr) slog.Attr {
	return func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.SourceKey {
			src, ok := a.Value.Any().(*slog.Source)
			if !ok || src == nil || src.Line == 0 {
				return slog.Attr{} //nolint:exhaustruct // empty return value
			}
		}

		if a.Key == slog.LevelKey {
			level, ok := a.Value.Any().(slog.Level)
			if !ok {
				panic(fmt.Sprintf("failed to convert level value to slog.Level: %[1]v (%[1]T)", a.Value.Any()))
			}

			return slog.String(slog.LevelKey, logconfig.Level(level).String())
		}

		return a
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
