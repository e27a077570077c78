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

package diag_test

import (
	"slices"
	"testing"

	"github.com/sce-editor/sce-clang/internal/diag"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   []diag.Diagnostic
	}{
		{
			name:   "error with column",
			output: "foo.cpp:10:5: error: expected ';'\n",
			want: []diag.Diagnostic{
				{File: "foo.cpp", Line: 10, Character: 5, Severity: diag.SeverityError, Message: "expected ';'"},
			},
		},
		{
			name:   "column omitted",
			output: "foo.cpp:3: warning: unused variable\n",
			want: []diag.Diagnostic{
				{File: "foo.cpp", Line: 3, Character: 1, Severity: diag.SeverityWarning, Message: "unused variable"},
			},
		},
		{
			name:   "fatal error",
			output: "<stdin>:1:10: fatal error: 'missing.h' file not found\n",
			want: []diag.Diagnostic{
				{
					File:      "<stdin>",
					Line:      1,
					Character: 10,
					Severity:  diag.SeverityFatalError,
					Message:   "'missing.h' file not found",
				},
			},
		},
		{
			name:   "banner",
			output: "clang version 18.1.8\nTarget: x86_64-pc-linux-gnu\n",
			want:   []diag.Diagnostic{},
		},
		{
			name:   "empty",
			output: "",
			want:   []diag.Diagnostic{},
		},
		{
			name:   "note is skipped",
			output: "<stdin>:4:7: note: previous definition is here\n",
			want:   []diag.Diagnostic{},
		},
		{
			name: "clang output in order",
			output: "<stdin>:2:3: warning: unused variable 'x' [-Wunused-variable]\n" +
				"    2 |   int x;\n" +
				"      |       ^\n" +
				"<stdin>:3:11: error: expected ';' after return statement\n" +
				"    3 |   return 0\n" +
				"      |           ^\n" +
				"      |           ;\n" +
				"1 warning and 1 error generated.\n",
			want: []diag.Diagnostic{
				{
					File:      "<stdin>",
					Line:      2,
					Character: 3,
					Severity:  diag.SeverityWarning,
					Message:   "unused variable 'x' [-Wunused-variable]",
				},
				{
					File:      "<stdin>",
					Line:      3,
					Character: 11,
					Severity:  diag.SeverityError,
					Message:   "expected ';' after return statement",
				},
			},
		},
		{
			name:   "no trailing newline",
			output: "a.cc:7:1: error: unknown type name 'foo'",
			want: []diag.Diagnostic{
				{File: "a.cc", Line: 7, Character: 1, Severity: diag.SeverityError, Message: "unknown type name 'foo'"},
			},
		},
		{
			name:   "line out of range",
			output: "a.cc:99999999999:1: error: too far\n",
			want:   []diag.Diagnostic{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := diag.Parse(tt.output)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.output, got, tt.want)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s       string
		want    diag.Severity
		wantErr bool
	}{
		{"warning", diag.SeverityWarning, false},
		{"error", diag.SeverityError, false},
		{"fatal error", diag.SeverityFatalError, false},
		{"note", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := diag.ParseSeverity(tt.s)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeverity(%q) error = %v, wantErr %v", tt.s, err, tt.wantErr)

			continue
		}

		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.s, got, tt.want)
		}

		if !tt.wantErr && got.String() != tt.s {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tt.s)
		}
	}
}
