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

package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/sce-editor/sce-clang/internal/log/logconfig"
	"github.com/sce-editor/sce-clang/internal/log/logger"
)

func TestNewHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := logconfig.Config{Format: "json", Output: "stderr", Level: logconfig.LevelTrace, Enabled: true}

	h, err := logger.NewHandler(&buf, cfg)
	if err != nil {
		t.Fatalf("NewHandler() failed: %v", err)
	}

	slog.New(h).Log(context.Background(), logconfig.LevelTrace.Level(), "checking document", "doc", "/a.cc@1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON log record %q: %v", buf.String(), err)
	}

	if rec["level"] != "trace" {
		t.Errorf("level = %v, want %q", rec["level"], "trace")
	}

	if rec["doc"] != "/a.cc@1" {
		t.Errorf("doc = %v, want %q", rec["doc"], "/a.cc@1")
	}
}

func TestNewHandlerLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	h, err := logger.NewHandler(&buf, logconfig.Config{Format: "text", Level: logconfig.LevelWarn, Enabled: true})
	if err != nil {
		t.Fatalf("NewHandler() failed: %v", err)
	}

	l := slog.New(h)
	l.Info("hidden")
	l.Warn("shown")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("unexpected log output %q", buf.String())
	}
}

func TestNewHandlerInvalidFormat(t *testing.T) {
	t.Parallel()

	if _, err := logger.NewHandler(&bytes.Buffer{}, logconfig.Config{Format: "xml"}); err == nil {
		t.Error("NewHandler() succeeded unexpectedly")
	}
}
