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

// Package text defines the text utilities for the terminal output.
package text

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Wrap wraps s to the given width. Paragraphs separated by an empty line are
// wrapped separately. A word longer than width is put on its own line.
func Wrap(s string, width int) string {
	var sb strings.Builder

	for p := range strings.SplitSeq(s, "\n\n") {
		words := strings.Fields(p)
		if len(words) == 0 {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}

		n := 0

		for _, w := range words {
			wl := utf8.RuneCountInString(w)

			switch {
			case n == 0:
			case n+1+wl > width:
				sb.WriteByte('\n')

				n = 0
			default:
				sb.WriteByte(' ')

				n++
			}

			sb.WriteString(w)

			n += wl
		}
	}

	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Count returns n followed by the singular or plural form of noun, for
// example "1 error" or "3 errors".
func Count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return strconv.Itoa(n) + " " + noun + "s"
}
