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

import "fmt"

// codecName is the name of the codec. It is the same as the name of the
// default protocol buffers codec of gRPC so that the content type of
// the messages is "application/grpc+proto".
const codecName = "proto"

// Codec is the gRPC codec for the host messages.
type Codec struct{}

// Marshal returns the wire format of v.
func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(message)
	if !ok {
		return nil, fmt.Errorf("%w: %T", errNotMessage, v)
	}

	return m.appendWire(nil), nil
}

// Unmarshal parses the wire format into v.
func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(message)
	if !ok {
		return fmt.Errorf("%w: %T", errNotMessage, v)
	}

	return m.consumeWire(data)
}

// Name returns the name of the codec.
func (Codec) Name() string {
	return codecName
}
