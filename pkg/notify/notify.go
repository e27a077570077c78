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

// Package notify implements the framing of the SCE notification stream. The
// host writes each notification as a frame of the form
//
//	<name>:<size>:<data>
//
// where name is the kind of the notification, size is the length of data as an
// unsigned decimal number, and data is the raw payload. There is no delimiter
// after the data.
package notify

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"fortio.org/safecast"
)

// Separator is the byte that terminates the name and the size of a frame.
const Separator = ':'

// MaxFrameSize is the largest data size a frame may declare. Larger sizes are
// treated as malformed frames so that a corrupted stream cannot make the reader
// allocate arbitrary amounts of memory.
const MaxFrameSize = 64 << 20

// Frame names sent by the host.
const (
	NameEditNotification = "EditNotification"
)

// Errors returned by the frame functions.
var (
	ErrInvalidName = errors.New("frame name contains the separator")
	errEmptySize   = errors.New("size is empty")
	errInvalidSize = errors.New("size is not an unsigned decimal number")
	errSizeLimit   = errors.New("size exceeds the maximum frame size")
	errTruncated   = errors.New("stream closed before the size separator")
)

// A Frame is one message of the notification stream.
type Frame struct {
	Name string // kind of the notification, never contains the separator
	Data []byte // payload, shorter than declared only if the stream closed early
}

// A FramingError is returned when the notification stream contains a frame
// that cannot be decoded. The stream cannot be resynchronized after it.
type FramingError struct {
	Err   error  // reason for the error
	Name  string // name of the frame, if it was read
	Value string // raw value of the size field
}

// A Reader reads frames from a notification stream.
type Reader struct {
	src io.Reader
	br  *bufio.Reader
}

// Error returns the value of e as a string.
func (e *FramingError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("malformed frame size %q: %v", e.Value, e.Err)
	}

	return fmt.Sprintf("malformed size %q in frame %q: %v", e.Value, e.Name, e.Err)
}

// Unwrap returns the underlying reason of e.
func (e *FramingError) Unwrap() error {
	return e.Err
}

// NewReader returns a new Reader that reads frames from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		src: r,
		br:  bufio.NewReader(r),
	}
}

// Read reads the next frame from the stream.
//
// If the stream is closed before the separator after the name is read, Read
// returns the zero Frame and [io.EOF]. If the stream is closed while the data
// is being read, Read returns the frame with the data received so far and no
// error. A size field that is missing or not a valid size results in
// a [*FramingError].
func (r *Reader) Read() (Frame, error) {
	name, err := r.br.ReadString(Separator)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}

		return Frame{}, fmt.Errorf("failed to read frame name: %w", err)
	}

	name = strings.TrimSuffix(name, string(Separator))

	sizeField, err := r.br.ReadString(Separator)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, &FramingError{Err: errTruncated, Name: name, Value: sizeField}
		}

		return Frame{}, fmt.Errorf("failed to read size of frame %q: %w", name, err)
	}

	sizeField = strings.TrimSuffix(sizeField, string(Separator))

	size, err := parseSize(sizeField)
	if err != nil {
		return Frame{}, &FramingError{Err: err, Name: name, Value: sizeField}
	}

	data := make([]byte, size)

	n, err := io.ReadFull(r.br, data)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{Name: name, Data: data[:n]}, nil
		}

		return Frame{}, fmt.Errorf("failed to read data of frame %q: %w", name, err)
	}

	return Frame{Name: name, Data: data}, nil
}

// Ready reports whether more bytes can be read from the stream without
// blocking. It checks the internal buffer of r first and, if the underlying
// reader is a connection that exposes its file descriptor, polls
// the descriptor.
func (r *Reader) Ready() bool {
	if r.br.Buffered() > 0 {
		return true
	}

	conn, ok := r.src.(syscall.Conn)
	if !ok {
		return false
	}

	return pollReadable(conn)
}

// Encode returns the frame encoding of the given name and data.
func Encode(name string, data []byte) ([]byte, error) {
	if strings.IndexByte(name, Separator) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	buf := make([]byte, 0, len(name)+len(data)+22) //nolint:mnd // room for the size and separators
	buf = append(buf, name...)
	buf = append(buf, Separator)
	buf = strconv.AppendInt(buf, int64(len(data)), 10)
	buf = append(buf, Separator)
	buf = append(buf, data...)

	return buf, nil
}

// Write writes f to w as one frame.
func Write(w io.Writer, f Frame) error {
	buf, err := Encode(f.Name, f.Data)
	if err != nil {
		return err
	}

	if _, err = w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame %q: %w", f.Name, err)
	}

	return nil
}

// parseSize parses the size field of a frame.
func parseSize(s string) (int, error) {
	if s == "" {
		return 0, errEmptySize
	}

	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidSize, err)
	}

	if u > MaxFrameSize {
		return 0, fmt.Errorf("%w: %d > %d", errSizeLimit, u, MaxFrameSize)
	}

	size, err := safecast.Conv[int](u)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidSize, err)
	}

	return size, nil
}
