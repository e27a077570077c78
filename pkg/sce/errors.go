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

package sce

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errNotMessage is returned by the codec for values that are not host
// messages.
var errNotMessage = errors.New("value is not a host message")

// A TransportError is returned when a call to the host fails. The call may have
// failed to reach the host or the host may have refused it, for example because
// the requested document version is no longer current.
type TransportError struct {
	Err    error  // error returned by gRPC, carries the status
	Method string // method that was called
}

// Error returns the value of e as a string.
func (e *TransportError) Error() string {
	return fmt.Sprintf("call to %s failed: %v", e.Method, e.Err)
}

// Unwrap returns the underlying error of e.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Code returns the gRPC status code of the failed call.
func (e *TransportError) Code() codes.Code {
	return status.Code(e.Err)
}
