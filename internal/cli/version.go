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

package cli

import (
	"context"
	"fmt"

	"github.com/sce-editor/sce-clang/internal/version"
)

func newVersionCommand() *Command {
	return &Command{
		Name:      "version",
		UsageLine: "version",
		Short:     "Print the version information",
		Run: func(_ context.Context, c *CLI, _ []string) error {
			return c.printVersion()
		},
		Flags: nil,
	}
}

// printVersion prints the version information to the output of c.
func (c *CLI) printVersion() error {
	if _, err := fmt.Fprintf(c.out, "%s %v (%s)\n", ProgramName, version.Version(), version.Revision()); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
