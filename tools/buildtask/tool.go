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

//go:build tool

// Buildtask builds the programs of the module. Run it with
// "go run -tags tool ./tools/buildtask [task]".
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const versionPackage = "github.com/sce-editor/sce-clang/internal/version"

// A target is a program that the build task can build.
type target struct {
	pkg    string // package to build
	output string // default output file
	stamp  bool   // whether to set the version
}

var targets = map[string]target{ //nolint:gochecknoglobals // task table
	"sce-clang":    {pkg: ".", output: "sce-clang", stamp: true},
	"sce-rpc-call": {pkg: "./cmd/sce-rpc-call", output: "sce-rpc-call", stamp: false},
}

func main() {
	log.SetFlags(0)

	task := "sce-clang"
	if len(os.Args) > 1 {
		task = os.Args[1]
	}

	self := filepath.Base(os.Args[0])
	if self == "buildtask" {
		self = "buildtask.go"
	}

	var err error

	switch task {
	case "all":
		for _, name := range []string{"sce-clang", "sce-rpc-call"} {
			if err = build(self, targets[name]); err != nil {
				break
			}
		}
	case "clean":
		err = clean()
	default:
		t, ok := targets[task]
		if !ok {
			log.Fatalf("Don't know how to build task `%s`", task)
		}

		err = build(self, t)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintf(os.Stderr, "%s: building task `%s` failed\n", self, task)
		os.Exit(1)
	}
}

func build(self string, t target) error {
	output := t.output
	if env := os.Getenv("OUTPUT"); env != "" && t.stamp {
		output = env
	}

	if isWindows() {
		output += ".exe"
	}

	info, err := os.Stat(output)
	if err == nil && !sourceFilesLaterThan(info.ModTime()) {
		fmt.Printf("%s: `%s` is up to date.\n", self, output)

		return nil
	}

	exe := os.Getenv("GO")
	if exe == "" {
		exe = "go"
	}

	args := []string{exe, "build", "-trimpath"}
	args = append(args, strings.Fields(os.Getenv("GOFLAGS"))...)

	if t.stamp {
		version, err := buildVersion()
		if err != nil {
			return err
		}

		args = append(args, "-ldflags", "-X "+versionPackage+".buildVersion="+version)
	}

	args = append(args, "-o", output, t.pkg)

	return run(args...)
}

// buildVersion returns the version from the environment or a development
// version based on the VERSION file.
func buildVersion() (string, error) {
	if v := os.Getenv("VERSION"); v != "" {
		return v, nil
	}

	data, err := os.ReadFile("VERSION")
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	return strings.TrimSpace(string(data)) + "-0.dev." + time.Now().UTC().Format("20060102150405"), nil
}

func clean() error {
	for _, t := range targets {
		for _, name := range []string{t.output, t.output + ".exe"} {
			if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w", err)
			}
		}
	}

	return nil
}

// run prints and executes the given command.
func run(args ...string) error {
	exe, err := exec.LookPath(args[0])
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	fmt.Println(quote(args))

	cmd := exec.Command(exe, args[1:]...) //nolint:gosec // arguments are built by this program
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func quote(args []string) string {
	quoted := make([]string, len(args))

	for i, arg := range args {
		if strings.ContainsAny(arg, " \t'\"") {
			quoted[i] = fmt.Sprintf("%q", arg)
		} else {
			quoted[i] = arg
		}
	}

	return strings.Join(quoted, " ")
}

func isAccessDenied(err error) bool {
	var pathError *os.PathError

	return errors.As(err, &pathError) && strings.Contains(pathError.Err.Error(), "Access is denied")
}

func isWindows() bool {
	return os.Getenv("GOOS") == "windows" || runtime.GOOS == "windows"
}

// sourceFilesLaterThan reports whether a Go source file or the module files
// have been modified after t.
func sourceFilesLaterThan(t time.Time) bool {
	foundLater := false

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Ignore symlinks to volumes that Windows can't access.
			if path != "." && isAccessDenied(err) {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)

				return nil
			}

			return err
		}

		if foundLater {
			return filepath.SkipDir
		}

		if len(path) > 1 && (path[0] == '.' || path[0] == '_') {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.IsDir() {
			return nil
		}

		if path == "go.mod" || path == "go.sum" ||
			(strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go")) {
			if info.ModTime().After(t) {
				foundLater = true
			}
		}

		return nil
	})
	if err != nil {
		panic(err)
	}

	return foundLater
}
