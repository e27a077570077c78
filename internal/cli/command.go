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

	"github.com/spf13/pflag"
)

// A Command is a CLI command. The root command runs the bridge, and the other
// commands are selected by their name.
type Command struct {
	// Name is the name of the command as it should be written by the user when
	// they run the command.
	Name string

	// UsageLine is the one-line usage synopsis for the command without
	// the program name.
	UsageLine string

	// Short is the one-line description of the command.
	Short string

	// Run runs the command with the positional arguments.
	Run func(ctx context.Context, c *CLI, args []string) error

	// Flags adds the command-specific flags to the flag set.
	Flags func(fs *pflag.FlagSet)
}

// flagSet returns a new flag set with the global flags and the flags of cmd.
func (cmd *Command) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(cmd.Name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {}

	globalFlags(fs)

	if cmd.Flags != nil {
		cmd.Flags(fs)
	}

	return fs
}
