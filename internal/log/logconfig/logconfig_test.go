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

package logconfig_test

import (
	"log/slog"
	"testing"

	"github.com/sce-editor/sce-clang/internal/log/logconfig"
)

func TestLevelText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		want    logconfig.Level
		wantErr bool
	}{
		{"trace", logconfig.LevelTrace, false},
		{"debug", logconfig.LevelDebug, false},
		{"INFO", logconfig.LevelInfo, false},
		{"warn", logconfig.LevelWarn, false},
		{"warning", logconfig.LevelWarn, false},
		{" error ", logconfig.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			var l logconfig.Level

			err := l.UnmarshalText([]byte(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}

			if !tt.wantErr && l != tt.want {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tt.text, l, tt.want)
			}
		})
	}
}

func TestLevelOrder(t *testing.T) {
	t.Parallel()

	if logconfig.LevelTrace.Level() >= slog.LevelDebug {
		t.Errorf("trace level %d is not below debug", logconfig.LevelTrace)
	}

	if got := logconfig.LevelTrace.String(); got != "trace" {
		t.Errorf("LevelTrace.String() = %q, want %q", got, "trace")
	}

	if got := logconfig.Level(slog.LevelInfo + 2).String(); got != "info+2" {
		t.Errorf("String() = %q, want %q", got, "info+2")
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := logconfig.Default()

	if !cfg.Enabled || cfg.Format != logconfig.FormatText || cfg.Level != logconfig.LevelInfo ||
		cfg.Output != logconfig.OutputStderr {
		t.Errorf("Default() = %+v", cfg)
	}
}
