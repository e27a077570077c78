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

// Package sce implements the client side of the SCE host protocol. The host
// serves the "sce.proto.Query" service over gRPC. The messages are protocol
// buffers and they are encoded by this package directly with
// [google.golang.org/protobuf/encoding/protowire], so the package has no
// generated code.
package sce

import "fmt"

// Default addresses of the host services.
const (
	DefaultRPCAddress          = "localhost:53676"
	DefaultNotificationAddress = "127.0.0.1:53677"
)

// ServiceName is the full name of the gRPC service of the host.
const ServiceName = "sce.proto.Query"

// Method names of the host service.
const (
	MethodAddNote             = "AddNote"
	MethodGetBuffer           = "GetBuffer"
	MethodGetCurrentBuffer    = "GetCurrentBuffer"
	MethodGetCurrentDocuments = "GetCurrentDocuments"
	MethodGetCurrentFileName  = "GetCurrentFileName"
	MethodTest                = "Test"
)

// Kinds of notes.
const (
	NoteKindError NoteKind = iota
	NoteKindWarning
)

// A DocumentState identifies one snapshot of a document buffer in the host.
// The host increments the version on every edit and refuses to return
// the buffer for a version that is no longer current.
type DocumentState struct {
	ID      string // path of the document
	Version uint64 // opaque version token
}

// A Position is a position in a document. Both values are passed to the host
// as they are reported by the compiler.
type Position struct {
	Line      uint32
	Character uint32
}

// A Range is a span of text in a document.
type Range struct {
	Start Position
	End   Position
}

// Color is an RGB color in the 0xRRGGBB form.
type Color uint32

// NoteKind tells the host how to render a note.
type NoteKind int32

// A Note is an annotation of a range of a document that the host renders in
// the editor.
type Note struct {
	State DocumentState
	Range Range
	Text  string
	Color Color
	Kind  NoteKind
}

// String returns the value of s as a string.
func (s DocumentState) String() string {
	return fmt.Sprintf("%s@%d", s.ID, s.Version)
}

// String returns the color in the hexadecimal "#rrggbb" form.
func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// String returns the value of k as a string.
func (k NoteKind) String() string {
	switch k {
	case NoteKindError:
		return "ERROR"
	case NoteKindWarning:
		return "WARNING"
	default:
		return fmt.Sprintf("NoteKind(%d)", int32(k))
	}
}
