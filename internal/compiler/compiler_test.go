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

package compiler_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/sce-editor/sce-clang/internal/compiler"
	"github.com/sce-editor/sce-clang/internal/fspath"
	"github.com/sce-editor/sce-clang/pkg/sce"
)

// shell returns a config that runs script with sh in place of the compiler.
// The arguments of the compiler are available to the script as "$@".
func shell(t *testing.T, script string) compiler.Config {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	cfg := compiler.DefaultConfig()
	cfg.Command = "sh"
	cfg.Args = []string{"-c", script, "sh"}

	return cfg
}

func newCompiler(t *testing.T, cfg compiler.Config) *compiler.Compiler {
	t.Helper()

	c, err := compiler.New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	t.Cleanup(c.Close)

	return c
}

func TestArgs(t *testing.T) {
	t.Parallel()

	cfg := compiler.DefaultConfig()
	cfg.IncludeDirs = []fspath.Path{"/opt/include"}

	c := newCompiler(t, cfg)

	got := c.Args(sce.DocumentState{ID: "/src/project/main.cc", Version: 1})
	want := []string{"-std=c++17", "-x", "c++", "-fsyntax-only", "-I/src/project", "-I/opt/include", "-"}

	if !slices.Equal(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestIncludeDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want fspath.Path
	}{
		{"/src/project/main.cc", "/src/project"},
		{"main.cc", "."},
		{"", "."},
	}

	for _, tt := range tests {
		if got := compiler.IncludeDir(tt.id); got != tt.want {
			t.Errorf("IncludeDir(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestCheckCapturesOutput(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, shell(t, `cat; echo "<stdin>:1:1: error: include $1" >&2; exit 1`))
	doc := sce.DocumentState{ID: "/src/project/main.cc", Version: 1}

	out, err := c.Check(t.Context(), doc, []byte("int main() {}\n"))
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}

	if !strings.HasPrefix(string(out), "int main() {}\n") {
		t.Errorf("Check() output = %q, want the source first", out)
	}

	if !strings.Contains(string(out), "error: include -I/src/project") {
		t.Errorf("Check() output = %q, want the include directory of the document", out)
	}
}

func TestCheckMissingCompiler(t *testing.T) {
	t.Parallel()

	cfg := compiler.DefaultConfig()
	cfg.Command = filepath.Join(t.TempDir(), "no-such-compiler")

	c := newCompiler(t, cfg)

	_, err := c.Check(t.Context(), sce.DocumentState{ID: "/src/a.cc"}, nil)

	var compilerErr *compiler.Error
	if !errors.As(err, &compilerErr) {
		t.Fatalf("Check() error = %v, want *compiler.Error", err)
	}

	if compilerErr.Command != cfg.Command {
		t.Errorf("Error.Command = %q, want %q", compilerErr.Command, cfg.Command)
	}
}

func TestCheckCache(t *testing.T) {
	t.Parallel()

	counter := filepath.Join(t.TempDir(), "runs")
	cfg := shell(t, `echo run >> '`+counter+`'; echo "<stdin>:1:1: warning: cached"`)
	cfg.Cache.Enabled = true

	c := newCompiler(t, cfg)
	doc := sce.DocumentState{ID: "/src/a.cc", Version: 1}

	for range 3 {
		out, err := c.Check(t.Context(), doc, []byte("int x;\n"))
		if err != nil {
			t.Fatalf("Check() failed: %v", err)
		}

		if !strings.Contains(string(out), "warning: cached") {
			t.Errorf("Check() output = %q", out)
		}
	}

	if _, err := c.Check(t.Context(), doc, []byte("int y;\n")); err != nil {
		t.Fatalf("Check() failed: %v", err)
	}

	data, err := os.ReadFile(counter)
	if err != nil {
		t.Fatal(err)
	}

	if runs := strings.Count(string(data), "run"); runs != 2 {
		t.Errorf("compiler ran %d times, want 2", runs)
	}
}
