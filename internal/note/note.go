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

// Package note turns compiler diagnostics into notes for the host.
package note

import (
	"math"

	"github.com/sce-editor/sce-clang/internal/diag"
	"github.com/sce-editor/sce-clang/pkg/sce"
)

// Colors of the notes.
const (
	ColorWarning  sce.Color = 0x7F7F00
	ColorError    sce.Color = 0xFF0000
	ColorFallback sce.Color = 0x0000FF
)

// Map returns the note for the diagnostic in the document at state. The note
// always covers a single character starting at the reported position.
func Map(d diag.Diagnostic, state sce.DocumentState) sce.Note {
	end := d.Character
	if end < math.MaxUint32 {
		end++
	}

	return sce.Note{
		State: state,
		Range: sce.Range{
			Start: sce.Position{Line: d.Line, Character: d.Character},
			End:   sce.Position{Line: d.Line, Character: end},
		},
		Text:  d.Message,
		Color: ColorFor(d.Severity),
		Kind:  KindFor(d.Severity),
	}
}

// ColorFor returns the note color for the severity.
func ColorFor(s diag.Severity) sce.Color {
	switch s {
	case diag.SeverityWarning:
		return ColorWarning
	case diag.SeverityError, diag.SeverityFatalError:
		return ColorError
	default:
		return ColorFallback
	}
}

// KindFor returns the note kind for the severity. Everything except warnings
// is reported as an error.
func KindFor(s diag.Severity) sce.NoteKind {
	if s == diag.SeverityWarning {
		return sce.NoteKindWarning
	}

	return sce.NoteKindError
}
