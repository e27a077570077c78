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

package text_test

import (
	"testing"

	"github.com/sce-editor/sce-clang/internal/text"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{"empty", "", 10, ""},
		{"fits", "no errors", 20, "no errors\n"},
		{"wraps", "expected ';' after expression", 12, "expected ';'\nafter\nexpression\n"},
		{"long word", "a verylongidentifier b", 5, "a\nverylongidentifier\nb\n"},
		{"paragraphs", "one two\n\nthree", 20, "one two\n\nthree\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := text.Wrap(tt.s, tt.width); got != tt.want {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want string
	}{
		{0, "0 errors"},
		{1, "1 error"},
		{2, "2 errors"},
	}

	for _, tt := range tests {
		if got := text.Count(tt.n, "error"); got != tt.want {
			t.Errorf("Count(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
