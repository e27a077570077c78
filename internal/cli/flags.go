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
	"github.com/sce-editor/sce-clang/internal/compiler"
	"github.com/sce-editor/sce-clang/internal/config"
	"github.com/sce-editor/sce-clang/internal/log/logconfig"
	"github.com/sce-editor/sce-clang/internal/terminal"
	"github.com/spf13/pflag"
)

// globalFlags adds the flags that every command accepts to fs. The defaults
// shown in the usage are the built-in defaults, and a flag only overrides
// the config when it is given.
func globalFlags(fs *pflag.FlagSet) {
	logDefaults := logconfig.Default()
	level := logDefaults.Level
	color := terminal.ColorAuto

	fs.BoolP("help", "h", false, "show the help message and exit")
	fs.BoolP("version", "v", false, "show the version information and exit")
	fs.StringP(
		config.FlagConfig,
		"c",
		"",
		"use `<path>` as the configuration file instead of resolving it from the standard locations",
	)
	fs.String(config.FlagCompiler, compiler.DefaultCommand, "run `<command>` as the compiler")
	fs.StringSliceP(
		config.FlagIncludeDir,
		"I",
		nil,
		"add `<dir>` to the include directories of the compiler (can be repeated)",
	)
	fs.Bool(config.FlagCache, false, "cache the compiler output of unchanged buffers")
	fs.Var(&level, config.FlagLogLevel, "set the logging level (trace, debug, info, warn, error)")
	fs.String(config.FlagLogFormat, logDefaults.Format, "set the logging format (text, json)")
	fs.String(config.FlagLogOutput, logDefaults.Output, "write the logs to `<output>` (stderr, stdout, or a file)")
	fs.Bool(config.FlagNoLog, false, "disable logging")
	fs.Var(&color, config.FlagColor, "use colors in the output (auto, always, never)")
}

// hostFlags adds the flags for the addresses of the host.
func hostFlags(fs *pflag.FlagSet) {
	defaults := config.Default()

	fs.String(config.FlagRPCAddress, defaults.Host.RPCAddress, "connect to the host RPC service at `<addr>`")
	fs.String(
		config.FlagNotificationAddress,
		defaults.Host.NotificationAddress,
		"read the notifications of the host from `<addr>`",
	)
}
