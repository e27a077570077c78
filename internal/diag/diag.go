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

// Package diag parses the diagnostics that clang writes to its output.
package diag

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Severities recognized by the parser.
const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatalError
)

// errSeverity is returned when parsing an unknown severity.
var errSeverity = errors.New("unknown severity")

// diagnosticPattern matches one diagnostic line of the form
// "<file>:<line>[:<column>]: <severity>: <message>".
var diagnosticPattern = regexp.MustCompile(
	`([^:\n]+):(\d+)(?::(\d+))?: (error|warning|fatal error): ([^\n]*)`,
)

// Severity is the severity of a diagnostic.
type Severity int

// A Diagnostic is one diagnostic reported by the compiler.
type Diagnostic struct {
	File      string
	Message   string
	Line      uint32
	Character uint32 // column, 1 if the compiler did not report one
	Severity  Severity
}

// Parse returns the diagnostics in the compiler output in the order they
// appear. Text that is not a diagnostic, including notes and the source
// excerpts clang prints, is skipped.
func Parse(output string) []Diagnostic {
	matches := diagnosticPattern.FindAllStringSubmatch(output, -1)
	diags := make([]Diagnostic, 0, len(matches))

	for _, m := range matches {
		line, err := strconv.ParseUint(m[2], 10, 32)
		if err != nil {
			continue
		}

		var char uint64 = 1

		if m[3] != "" {
			if char, err = strconv.ParseUint(m[3], 10, 32); err != nil {
				continue
			}
		}

		severity, err := ParseSeverity(m[4])
		if err != nil {
			continue
		}

		diags = append(diags, Diagnostic{
			File:      m[1],
			Message:   m[5],
			Line:      uint32(line), //nolint:gosec // parsed with bit size 32
			Character: uint32(char), //nolint:gosec // parsed with bit size 32
			Severity:  severity,
		})
	}

	return diags
}

// ParseSeverity returns the Severity for its textual form used by clang.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "fatal error":
		return SeverityFatalError, nil
	default:
		return 0, fmt.Errorf("%w: %q", errSeverity, s)
	}
}

// String returns the severity as clang prints it.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatalError:
		return "fatal error"
	default:
		return "invalid"
	}
}

// MarshalText encodes s in a textual form.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText assigns the severity from its textual form to s.
func (s *Severity) UnmarshalText(data []byte) error {
	v, err := ParseSeverity(string(data))
	if err != nil {
		return err
	}

	*s = v

	return nil
}
