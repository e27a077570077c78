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

package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/sce-editor/sce-clang/internal/fspath"
	"github.com/sce-editor/sce-clang/internal/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// envOverrides lists the config values that can be set with environment
// variables. The key is the suffix of the variable after the prefix, and
// the value is the path of the config value.
//
//nolint:gochecknoglobals // used like constant
var envOverrides = map[string][]string{
	"RPC_ADDRESS":          {"host", "rpc-address"},
	"NOTIFICATION_ADDRESS": {"host", "notification-address"},
	"COMPILER":             {"compiler", "command"},
	"COMPILER_ARGS":        {"compiler", "args"},
	"INCLUDE_DIRS":         {"compiler", "include-dirs"},
	"CACHE":                {"compiler", "cache", "enabled"},
	"LOG_LEVEL":            {"logging", "level"},
	"LOG_FORMAT":           {"logging", "format"},
	"LOG_OUTPUT":           {"logging", "output"},
	"LOG":                  {"logging", "enabled"},
	"COLOR":                {"color"},
}

// Parse parses the configuration. The values are read from the defaults,
// the config file, the environment variables, and the command-line flags in
// flagSet, each source overriding the previous one. Flags are only used if
// they were set on the command line.
func Parse(ctx context.Context, flagSet *pflag.FlagSet) (*Config, error) {
	file, err := resolveFile(flagSet)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config file: %w", err)
	}

	rawCfg := make(map[string]any)

	if file != "" {
		log.Trace(ctx, "reading config file", "path", file)

		rawCfg, err = readFile(file)
		if err != nil {
			return nil, err
		}
	}

	normalizeKeys(rawCfg)
	log.Trace(ctx, "normalized keys", "cfg", rawCfg)
	applyEnv(rawCfg, os.LookupEnv)

	cfg := Default()

	if err = decode(rawCfg, cfg); err != nil {
		return nil, err
	}

	if err = applyFlags(cfg, flagSet); err != nil {
		return nil, err
	}

	log.Debug(ctx, "parsed config", "file", file, "cfg", cfg)

	return cfg, nil
}

// readFile reads the config file and decodes it into a map.
func readFile(file fspath.Path) (map[string]any, error) {
	data, err := file.ReadFile()
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	rawCfg := make(map[string]any)

	if isYAML(file) {
		err = yaml.Unmarshal(data, &rawCfg)
	} else {
		err = toml.Unmarshal(data, &rawCfg)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode the config file %s: %w", file, err)
	}

	return rawCfg, nil
}

// decode decodes the raw config map into cfg. The values that are not in
// the map keep their current values.
func decode(rawCfg map[string]any, cfg *Config) error {
	decoderConfig := &mapstructure.DecoderConfig{ //nolint:exhaustruct // use default values
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	}

	d, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := d.Decode(rawCfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// applyEnv sets the values of the environment variables into the raw config
// map.
func applyEnv(rawCfg map[string]any, lookup func(string) (string, bool)) {
	for name, path := range envOverrides {
		v, ok := lookup(EnvPrefix + "_" + name)
		if !ok {
			continue
		}

		m := rawCfg

		for _, k := range path[:len(path)-1] {
			sub, ok := m[k].(map[string]any)
			if !ok {
				sub = make(map[string]any)
				m[k] = sub
			}

			m = sub
		}

		m[path[len(path)-1]] = v
	}
}

// applyFlags sets the values of the changed flags to cfg.
func applyFlags(cfg *Config, flagSet *pflag.FlagSet) error {
	if flagSet == nil {
		return nil
	}

	var err error

	get := func(name string, fn func(name string)) {
		if err == nil && flagSet.Lookup(name) != nil && flagSet.Changed(name) {
			fn(name)
		}
	}

	get(FlagRPCAddress, func(name string) { cfg.Host.RPCAddress, err = flagSet.GetString(name) })
	get(FlagNotificationAddress, func(name string) { cfg.Host.NotificationAddress, err = flagSet.GetString(name) })
	get(FlagCompiler, func(name string) { cfg.Compiler.Command, err = flagSet.GetString(name) })
	get(FlagIncludeDir, func(name string) {
		var dirs []string

		dirs, err = flagSet.GetStringSlice(name)
		for _, d := range dirs {
			cfg.Compiler.IncludeDirs = append(cfg.Compiler.IncludeDirs, fspath.Path(d).Clean())
		}
	})
	get(FlagCache, func(name string) { cfg.Compiler.Cache.Enabled, err = flagSet.GetBool(name) })
	get(FlagLogLevel, func(name string) { err = cfg.Logging.Level.Set(flagSet.Lookup(name).Value.String()) })
	get(FlagLogFormat, func(name string) { cfg.Logging.Format, err = flagSet.GetString(name) })
	get(FlagLogOutput, func(name string) { cfg.Logging.Output, err = flagSet.GetString(name) })
	get(FlagNoLog, func(name string) {
		var off bool

		off, err = flagSet.GetBool(name)
		cfg.Logging.Enabled = !off
	})
	get(FlagColor, func(name string) { err = cfg.Color.Set(flagSet.Lookup(name).Value.String()) })

	if err != nil {
		return fmt.Errorf("failed to read command-line options: %w", err)
	}

	return nil
}

// normalizeKeys changes the keys in the raw config map into "kebab-case" in
// case the config contains "camelCase" or "snake_case" keys. This way the YAML
// files may use the keys more idiomatic for that format.
func normalizeKeys(cfg map[string]any) {
	if cfg == nil {
		return
	}

	for k, v := range cfg {
		var key strings.Builder

		for i, r := range k {
			if r == '_' {
				key.WriteByte('-')

				continue
			}

			if i > 0 && unicode.IsUpper(r) && !strings.HasSuffix(key.String(), "-") {
				key.WriteByte('-')
			}

			key.WriteRune(unicode.ToLower(r))
		}

		if k != key.String() {
			delete(cfg, k)

			cfg[key.String()] = v
		}

		if m, ok := v.(map[string]any); ok {
			normalizeKeys(m)
		}
	}
}
