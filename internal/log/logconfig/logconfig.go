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

// Package logconfig defines the configuration options for the logger. It is
// a separate package to avoid import cycles.
package logconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Logging levels. The levels other than trace match the levels in
// [log/slog].
const (
	LevelTrace Level = Level(slog.LevelDebug - 4)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// Logging output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Special logging outputs. Any other output is a file path.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
)

var errInvalidLevel = errors.New("invalid log level")

// Config contains the configuration options for the logger.
type Config struct {
	Format  string `mapstructure:"format"`  // format of the logs, "json" or "text"
	Output  string `mapstructure:"output"`  // destination of the logs
	Level   Level  `mapstructure:"level"`   // logging level
	Enabled bool   `mapstructure:"enabled"` // whether logging is enabled
}

// A Level is the importance or severity of a log event. It extends
// [slog.Level] with a trace level.
type Level slog.Level

// Default returns the default logging configuration.
func Default() Config {
	return Config{
		Enabled: true,
		Format:  FormatText,
		Level:   LevelInfo,
		Output:  OutputStderr,
	}
}

// Level returns the receiver as a [slog.Level]. It implements [slog.Leveler].
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

// String returns the lower-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return strings.ToLower(slog.Level(l).String())
	}
}

// Set parses the level from s. It implements [pflag.Value].
func (l *Level) Set(s string) error {
	return l.UnmarshalText([]byte(s))
}

// Type returns the type name shown in the flag usage.
func (l *Level) Type() string {
	return "level"
}

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *Level) UnmarshalText(data []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(data))) {
	case "trace":
		*l = LevelTrace
	case "debug":
		*l = LevelDebug
	case "info":
		*l = LevelInfo
	case "warn", "warning":
		*l = LevelWarn
	case "error":
		*l = LevelError
	default:
		return fmt.Errorf("%w: %q", errInvalidLevel, string(data))
	}

	return nil
}
