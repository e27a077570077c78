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

package terminal_test

import (
	"testing"

	"github.com/sce-editor/sce-clang/internal/terminal"
)

func TestColorModeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		want    terminal.ColorMode
		wantErr bool
	}{
		{"auto", terminal.ColorAuto, false},
		{"always", terminal.ColorAlways, false},
		{"true", terminal.ColorAlways, false},
		{"Never", terminal.ColorNever, false},
		{"sometimes", 0, true},
	}

	for _, tt := range tests {
		var c terminal.ColorMode

		err := c.Set(tt.text)
		if (err != nil) != tt.wantErr {
			t.Errorf("Set(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)

			continue
		}

		if !tt.wantErr && c != tt.want {
			t.Errorf("Set(%q) = %v, want %v", tt.text, c, tt.want)
		}
	}
}

func TestColorModeEnabled(t *testing.T) {
	t.Parallel()

	if !terminal.ColorAlways.Enabled(nil) {
		t.Error("ColorAlways.Enabled() = false, want true")
	}

	if terminal.ColorNever.Enabled(nil) {
		t.Error("ColorNever.Enabled() = true, want false")
	}

	if terminal.ColorAuto.Enabled(nil) {
		t.Error("ColorAuto.Enabled(nil) = true, want false")
	}
}
