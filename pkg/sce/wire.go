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

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the host messages.
const (
	fieldFileStateID    protowire.Number = 1
	fieldFileStateState protowire.Number = 2

	fieldEditNotificationFileState protowire.Number = 1

	fieldDocumentsFileStates protowire.Number = 1

	fieldGetBufferFileState protowire.Number = 1

	fieldCurrentBufferFileState protowire.Number = 1
	fieldCurrentBufferBuffer    protowire.Number = 2

	fieldStringValue protowire.Number = 1

	fieldPositionLine      protowire.Number = 1
	fieldPositionCharacter protowire.Number = 2

	fieldRangeStart protowire.Number = 1
	fieldRangeEnd   protowire.Number = 2

	fieldColorRGB protowire.Number = 1

	fieldAddNoteState protowire.Number = 1
	fieldAddNoteRange protowire.Number = 2
	fieldAddNoteNote  protowire.Number = 3
	fieldAddNoteColor protowire.Number = 4
	fieldAddNoteType  protowire.Number = 5
)

// errWireType is returned when a known field has an unexpected wire type.
var errWireType = errors.New("unexpected wire type")

// A message is a host message that can be encoded in the protocol buffers wire
// format.
type message interface {
	appendWire(b []byte) []byte
	consumeWire(b []byte) error
}

// A fieldFunc consumes the value of one field from b. It returns the number of
// bytes consumed or zero if the field is not known and should be skipped.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// emptyMsg is a message without fields.
type emptyMsg struct{}

// stringMsg is a message with a single string field.
type stringMsg struct {
	value string
}

// editNotificationMsg is the payload of the "EditNotification" frames.
type editNotificationMsg struct {
	state DocumentState
}

// documentsMsg is the result of the "GetCurrentDocuments" method.
type documentsMsg struct {
	docs []DocumentState
}

// getBufferMsg is the parameter message of the "GetBuffer" method.
type getBufferMsg struct {
	state DocumentState
}

// currentBufferMsg is the result of the "GetCurrentBuffer" method.
type currentBufferMsg struct {
	state  DocumentState
	buffer string
}

// addNoteMsg is the parameter message of the "AddNote" method.
type addNoteMsg struct {
	note Note
}

// MarshalEditNotification returns the payload of an "EditNotification" frame
// for the given document state.
func MarshalEditNotification(state DocumentState) []byte {
	msg := &editNotificationMsg{state: state}

	return msg.appendWire(nil)
}

// UnmarshalEditNotification decodes the payload of an "EditNotification"
// frame.
func UnmarshalEditNotification(data []byte) (DocumentState, error) {
	var msg editNotificationMsg

	if err := msg.consumeWire(data); err != nil {
		return DocumentState{}, fmt.Errorf("failed to decode EditNotification: %w", err)
	}

	return msg.state, nil
}

func (*emptyMsg) appendWire(b []byte) []byte {
	return b
}

func (*emptyMsg) consumeWire(b []byte) error {
	return consumeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) {
		return 0, nil
	})
}

func (m *stringMsg) appendWire(b []byte) []byte {
	return appendString(b, fieldStringValue, m.value)
}

func (m *stringMsg) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == fieldStringValue {
			return consumeString(typ, b, &m.value)
		}

		return 0, nil
	})
}

func (m *editNotificationMsg) appendWire(b []byte) []byte {
	return appendFileState(b, fieldEditNotificationFileState, m.state)
}

func (m *editNotificationMsg) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == fieldEditNotificationFileState {
			return consumeFileState(typ, b, &m.state)
		}

		return 0, nil
	})
}

func (m *documentsMsg) appendWire(b []byte) []byte {
	for _, doc := range m.docs {
		b = appendFileState(b, fieldDocumentsFileStates, doc)
	}

	return b
}

func (m *documentsMsg) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldDocumentsFileStates {
			return 0, nil
		}

		var doc DocumentState

		n, err := consumeFileState(typ, b, &doc)
		if err != nil {
			return 0, err
		}

		m.docs = append(m.docs, doc)

		return n, nil
	})
}

func (m *getBufferMsg) appendWire(b []byte) []byte {
	return appendFileState(b, fieldGetBufferFileState, m.state)
}

func (m *getBufferMsg) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == fieldGetBufferFileState {
			return consumeFileState(typ, b, &m.state)
		}

		return 0, nil
	})
}

func (m *currentBufferMsg) appendWire(b []byte) []byte {
	b = appendFileState(b, fieldCurrentBufferFileState, m.state)

	return appendString(b, fieldCurrentBufferBuffer, m.buffer)
}

func (m *currentBufferMsg) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldCurrentBufferFileState:
			return consumeFileState(typ, b, &m.state)
		case fieldCurrentBufferBuffer:
			return consumeString(typ, b, &m.buffer)
		default:
			return 0, nil
		}
	})
}

func (m *addNoteMsg) appendWire(b []byte) []byte {
	b = appendFileState(b, fieldAddNoteState, m.note.State)
	b = appendMessage(b, fieldAddNoteRange, func(b []byte) []byte {
		b = appendPosition(b, fieldRangeStart, m.note.Range.Start)

		return appendPosition(b, fieldRangeEnd, m.note.Range.End)
	})
	b = appendString(b, fieldAddNoteNote, m.note.Text)
	b = appendMessage(b, fieldAddNoteColor, func(b []byte) []byte {
		return appendVarint(b, fieldColorRGB, uint64(m.note.Color))
	})

	return appendVarint(b, fieldAddNoteType, uint64(m.note.Kind)) //nolint:gosec // enum values are never negative
}

func (m *addNoteMsg) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldAddNoteState:
			return consumeFileState(typ, b, &m.note.State)
		case fieldAddNoteRange:
			return consumeMessage(typ, b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
				switch num {
				case fieldRangeStart:
					return consumePosition(typ, b, &m.note.Range.Start)
				case fieldRangeEnd:
					return consumePosition(typ, b, &m.note.Range.End)
				default:
					return 0, nil
				}
			})
		case fieldAddNoteNote:
			return consumeString(typ, b, &m.note.Text)
		case fieldAddNoteColor:
			return consumeMessage(typ, b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
				if num != fieldColorRGB {
					return 0, nil
				}

				var v uint64

				n, err := consumeVarint(typ, b, &v)
				m.note.Color = Color(uint32(v)) //nolint:gosec // the field is uint32 on the wire

				return n, err
			})
		case fieldAddNoteType:
			var v uint64

			n, err := consumeVarint(typ, b, &v)
			m.note.Kind = NoteKind(int32(v)) //nolint:gosec // the field is an enum on the wire

			return n, err
		default:
			return 0, nil
		}
	})
}

func appendFileState(b []byte, num protowire.Number, s DocumentState) []byte {
	return appendMessage(b, num, func(b []byte) []byte {
		b = appendString(b, fieldFileStateID, s.ID)

		return appendVarint(b, fieldFileStateState, s.Version)
	})
}

func appendPosition(b []byte, num protowire.Number, p Position) []byte {
	return appendMessage(b, num, func(b []byte) []byte {
		b = appendVarint(b, fieldPositionLine, uint64(p.Line))

		return appendVarint(b, fieldPositionCharacter, uint64(p.Character))
	})
}

// appendMessage appends an embedded message field to b. The message is
// written by fn.
func appendMessage(b []byte, num protowire.Number, fn func(b []byte) []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendBytes(b, fn(nil))
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)

	return protowire.AppendVarint(b, v)
}

// consumeFields calls fn for every field in b. Fields that fn does not consume
// are skipped.
func consumeFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w", protowire.ParseError(n))
		}

		b = b[n:]

		n, err := fn(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}

		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
		}

		b = b[n:]
	}

	return nil
}

func consumeFileState(typ protowire.Type, b []byte, s *DocumentState) (int, error) {
	return consumeMessage(typ, b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldFileStateID:
			return consumeString(typ, b, &s.ID)
		case fieldFileStateState:
			return consumeVarint(typ, b, &s.Version)
		default:
			return 0, nil
		}
	})
}

func consumePosition(typ protowire.Type, b []byte, p *Position) (int, error) {
	return consumeMessage(typ, b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		var (
			v   uint64
			n   int
			err error
		)

		switch num {
		case fieldPositionLine:
			n, err = consumeVarint(typ, b, &v)
			p.Line = uint32(v) //nolint:gosec // the field is uint32 on the wire
		case fieldPositionCharacter:
			n, err = consumeVarint(typ, b, &v)
			p.Character = uint32(v) //nolint:gosec // the field is uint32 on the wire
		}

		return n, err
	})
}

// consumeMessage consumes an embedded message and passes its fields to fn.
func consumeMessage(typ protowire.Type, b []byte, fn fieldFunc) (int, error) {
	if typ != protowire.BytesType {
		return 0, fmt.Errorf("%w: %v", errWireType, typ)
	}

	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, fmt.Errorf("%w", protowire.ParseError(n))
	}

	if err := consumeFields(v, fn); err != nil {
		return 0, err
	}

	return n, nil
}

func consumeString(typ protowire.Type, b []byte, s *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, fmt.Errorf("%w: %v", errWireType, typ)
	}

	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, fmt.Errorf("%w", protowire.ParseError(n))
	}

	*s = v

	return n, nil
}

func consumeVarint(typ protowire.Type, b []byte, v *uint64) (int, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("%w: %v", errWireType, typ)
	}

	u, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, fmt.Errorf("%w", protowire.ParseError(n))
	}

	*v = u

	return n, nil
}
