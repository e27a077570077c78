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

// Package config defines the configuration of sce-clang and parses it from
// the configuration file, the environment, and the command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sce-editor/sce-clang/internal/compiler"
	"github.com/sce-editor/sce-clang/internal/fspath"
	"github.com/sce-editor/sce-clang/internal/log/logconfig"
	"github.com/sce-editor/sce-clang/internal/terminal"
	"github.com/sce-editor/sce-clang/pkg/sce"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of the environment variables of sce-clang.
const EnvPrefix = "SCE_CLANG"

// defaultFileName is the base name of the config file without the extension.
const defaultFileName = "sce-clang"

// Names of the command-line flags that override config values.
const (
	FlagConfig              = "config"
	FlagRPCAddress          = "rpc-address"
	FlagNotificationAddress = "notification-address"
	FlagCompiler            = "compiler"
	FlagIncludeDir          = "include-dir"
	FlagCache               = "cache"
	FlagLogLevel            = "log-level"
	FlagLogFormat           = "log-format"
	FlagLogOutput           = "log-output"
	FlagNoLog               = "no-log"
	FlagColor               = "color"
)

// errConfigFileNotFound is returned when the config file that was given
// explicitly does not exist.
var errConfigFileNotFound = errors.New("config file not found")

// Config is the configuration of the program.
type Config struct {
	Host     Host               `mapstructure:"host"`
	Compiler compiler.Config    `mapstructure:"compiler"`
	Logging  logconfig.Config   `mapstructure:"logging"`
	Color    terminal.ColorMode `mapstructure:"color"`
}

// Host contains the addresses of the host services.
type Host struct {
	RPCAddress          string `mapstructure:"rpc-address"`
	NotificationAddress string `mapstructure:"notification-address"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Host: Host{
			RPCAddress:          sce.DefaultRPCAddress,
			NotificationAddress: sce.DefaultNotificationAddress,
		},
		Compiler: compiler.DefaultConfig(),
		Logging:  logconfig.Default(),
		Color:    terminal.ColorAuto,
	}
}

// resolveFile looks up the config file. The file given with the "--config"
// flag or the environment must exist. Otherwise the standard locations are
// checked, and an empty path is returned if there is no config file.
func resolveFile(flagSet *pflag.FlagSet) (fspath.Path, error) {
	var (
		err       error
		fileValue string
	)

	if env := os.Getenv(EnvPrefix + "_CONFIG_FILE"); env != "" {
		fileValue = env
	}

	if flagSet != nil && flagSet.Changed(FlagConfig) {
		fileValue, err = flagSet.GetString(FlagConfig)
		if err != nil {
			return "", fmt.Errorf("failed to get the value for command-line option '--%s': %w", FlagConfig, err)
		}
	}

	if fileValue != "" {
		file, err := fspath.NewAbs(fileValue)
		if err != nil {
			return "", fmt.Errorf("%w", err)
		}

		ok, err := file.IsFile()
		if err != nil {
			return "", fmt.Errorf("%w", err)
		}

		// Fail so that the program doesn't use a config file from some other
		// location by surprise.
		if !ok {
			return "", fmt.Errorf("%w: %q", errConfigFileNotFound, fileValue)
		}

		return file, nil
	}

	dirs, err := configDirs()
	if err != nil {
		return "", err
	}

	names := []string{defaultFileName, "." + defaultFileName}
	extensions := []string{".toml", ".yaml", ".yml"}

	for _, dir := range dirs {
		for _, name := range names {
			for _, ext := range extensions {
				file := dir.Join(name + ext)

				ok, err := file.IsFile()
				if err != nil {
					return "", fmt.Errorf("%w", err)
				}

				if ok {
					return file, nil
				}
			}
		}
	}

	return "", nil
}

// configDirs returns the directories that are searched for the config file in
// the order of precedence.
func configDirs() ([]fspath.Path, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	dirs := []fspath.Path{fspath.Path(wd)}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, fspath.New(xdg, defaultFileName))
	}

	home, err := fspath.NewAbs("~", ".config", defaultFileName)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return append(dirs, home), nil
}

// isYAML reports whether the file should be decoded as YAML.
func isYAML(file fspath.Path) bool {
	ext := strings.ToLower(string(file))

	return strings.HasSuffix(ext, ".yaml") || strings.HasSuffix(ext, ".yml")
}
