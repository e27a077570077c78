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

import "strconv"

// Exit codes of the program.
const (
	exitFailure = 1
	exitUsage   = 2
)

// An ExitError is an error returned by the CLI that wraps an error that is
// causing the program to exit and associates an exit code with it.
type ExitError struct {
	err error

	// Code is the exit code associated with this error.
	Code int
}

// Error returns the value of e as a string.
func (e *ExitError) Error() string {
	if e.err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}

	return e.err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.err
}

// Silent reports whether the error has already been reported to the user.
func (e *ExitError) Silent() bool {
	return e.err == nil
}
