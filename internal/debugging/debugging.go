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

// Package debugging contains debugging utilities for sce-clang.
package debugging

import (
	"os"
	"strconv"
)

// EnvVar is the environment variable that enables the debug mode.
const EnvVar = "SCE_CLANG_DEBUG"

// IsDebug reports whether the program should run in debug mode. Debug mode is
// enabled when [EnvVar] is set to a true value. Invalid values disable it.
func IsDebug() bool {
	v, ok := os.LookupEnv(EnvVar)
	if !ok {
		return false
	}

	debug, err := strconv.ParseBool(v)

	return err == nil && debug
}
