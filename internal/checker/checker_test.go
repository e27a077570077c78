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

package checker_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sce-editor/sce-clang/internal/checker"
	"github.com/sce-editor/sce-clang/pkg/notify"
	"github.com/sce-editor/sce-clang/pkg/sce"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const clangOutput = "<stdin>:2:3: warning: unused variable 'x'\n" +
	"    2 |   int x;\n" +
	"<stdin>:3:11: error: expected ';' after return statement\n" +
	"1 warning and 1 error generated.\n"

var errCompilerMissing = errors.New("executable file not found")

type fakeHost struct {
	docs          []sce.DocumentState
	docsErr       error
	staleVersions map[sce.DocumentState]bool
	failNotes     int
	gotBuffers    []sce.DocumentState
	notes         []sce.Note
	mu            sync.Mutex
}

func (h *fakeHost) GetCurrentDocuments(context.Context) ([]sce.DocumentState, error) {
	return h.docs, h.docsErr
}

func (h *fakeHost) GetBuffer(_ context.Context, state sce.DocumentState) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.staleVersions[state] {
		return "", &sce.TransportError{
			Err:    status.Error(codes.FailedPrecondition, "stale"),
			Method: sce.MethodGetBuffer,
		}
	}

	h.gotBuffers = append(h.gotBuffers, state)

	return "int main() {\n  int x;\n  return 0\n}\n", nil
}

func (h *fakeHost) AddNote(_ context.Context, n sce.Note) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.failNotes > 0 {
		h.failNotes--

		return &sce.TransportError{Err: status.Error(codes.Unavailable, "down"), Method: sce.MethodAddNote}
	}

	h.notes = append(h.notes, n)

	return nil
}

type fakeCompiler struct {
	output []byte
	err    error
	calls  []sce.DocumentState
	mu     sync.Mutex
}

func (c *fakeCompiler) Check(_ context.Context, doc sce.DocumentState, _ []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, doc)

	return c.output, c.err
}

// sequenceSource returns the frames one by one and never has the next frame
// ready, as if the host paused between the edits.
type sequenceSource struct {
	frames []notify.Frame
	err    error
}

func (s *sequenceSource) Read() (notify.Frame, error) {
	if len(s.frames) == 0 {
		if s.err != nil {
			return notify.Frame{}, s.err
		}

		return notify.Frame{}, io.EOF
	}

	f := s.frames[0]
	s.frames = s.frames[1:]

	return f, nil
}

func (*sequenceSource) Ready() bool {
	return false
}

func edit(state sce.DocumentState) notify.Frame {
	return notify.Frame{Name: notify.NameEditNotification, Data: sce.MarshalEditNotification(state)}
}

func stream(t *testing.T, frames ...notify.Frame) *notify.Reader {
	t.Helper()

	var buf bytes.Buffer

	for _, f := range frames {
		if err := notify.Write(&buf, f); err != nil {
			t.Fatal(err)
		}
	}

	return notify.NewReader(&buf)
}

func TestRunChecksOpenDocuments(t *testing.T) {
	t.Parallel()

	docs := []sce.DocumentState{{ID: "/src/a.cc", Version: 1}, {ID: "/src/b.cc", Version: 4}}
	host := &fakeHost{docs: docs}
	comp := &fakeCompiler{output: []byte(clangOutput)}

	if err := checker.New(host, comp).Run(t.Context(), stream(t)); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(comp.calls) != 2 || comp.calls[0] != docs[0] || comp.calls[1] != docs[1] {
		t.Errorf("compiler calls = %v, want %v", comp.calls, docs)
	}

	if len(host.notes) != 4 {
		t.Fatalf("host received %d notes, want 4", len(host.notes))
	}

	for i, n := range host.notes {
		if want := docs[i/2]; n.State != want {
			t.Errorf("note %d state = %v, want %v", i, n.State, want)
		}
	}
}

func TestRunStartsWhenDocumentsFail(t *testing.T) {
	t.Parallel()

	host := &fakeHost{docsErr: &sce.TransportError{Err: status.Error(codes.Unavailable, "down"), Method: "x"}}
	comp := &fakeCompiler{output: nil}
	state := sce.DocumentState{ID: "/src/a.cc", Version: 2}

	if err := checker.New(host, comp).Run(t.Context(), stream(t, edit(state))); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(comp.calls) != 1 || comp.calls[0] != state {
		t.Errorf("compiler calls = %v, want [%v]", comp.calls, state)
	}
}

func TestRunCoalescesBacklog(t *testing.T) {
	t.Parallel()

	host := &fakeHost{}
	comp := &fakeCompiler{output: []byte(clangOutput)}
	last := sce.DocumentState{ID: "/src/a.cc", Version: 3}
	src := stream(
		t,
		edit(sce.DocumentState{ID: "/src/a.cc", Version: 1}),
		edit(sce.DocumentState{ID: "/src/a.cc", Version: 2}),
		edit(last),
	)

	if err := checker.New(host, comp).Run(t.Context(), src); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(comp.calls) != 1 || comp.calls[0] != last {
		t.Errorf("compiler calls = %v, want [%v]", comp.calls, last)
	}

	if len(host.notes) != 2 {
		t.Errorf("host received %d notes, want 2", len(host.notes))
	}
}

func TestRunDiscardsUnknownFrames(t *testing.T) {
	t.Parallel()

	host := &fakeHost{}
	comp := &fakeCompiler{output: nil}
	state := sce.DocumentState{ID: "/src/a.cc", Version: 1}
	src := &sequenceSource{
		frames: []notify.Frame{
			{Name: "CursorMoved", Data: []byte("12:4")},
			edit(state),
			{Name: "", Data: []byte{}},
			{Name: notify.NameEditNotification, Data: []byte{0x0a, 0x10, 0x0a}},
		},
	}

	if err := checker.New(host, comp).Run(t.Context(), src); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(comp.calls) != 1 || comp.calls[0] != state {
		t.Errorf("compiler calls = %v, want [%v]", comp.calls, state)
	}
}

func TestRunAbandonsStaleBuffer(t *testing.T) {
	t.Parallel()

	stale := sce.DocumentState{ID: "/src/a.cc", Version: 1}
	current := sce.DocumentState{ID: "/src/a.cc", Version: 2}
	host := &fakeHost{staleVersions: map[sce.DocumentState]bool{stale: true}}
	comp := &fakeCompiler{output: []byte(clangOutput)}
	src := &sequenceSource{frames: []notify.Frame{edit(stale), edit(current)}}

	if err := checker.New(host, comp).Run(t.Context(), src); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(comp.calls) != 1 || comp.calls[0] != current {
		t.Errorf("compiler calls = %v, want [%v]", comp.calls, current)
	}
}

func TestRunStopsOnFramingError(t *testing.T) {
	t.Parallel()

	host := &fakeHost{}
	comp := &fakeCompiler{}
	src := notify.NewReader(strings.NewReader("EditNotification:1x:abc"))

	err := checker.New(host, comp).Run(t.Context(), src)

	var framingErr *notify.FramingError
	if !errors.As(err, &framingErr) {
		t.Fatalf("Run() error = %v, want *notify.FramingError", err)
	}

	if len(comp.calls) != 0 {
		t.Errorf("compiler calls = %v, want none", comp.calls)
	}
}

func TestRunReturnsReadError(t *testing.T) {
	t.Parallel()

	readErr := errors.New("connection reset by peer")
	src := &sequenceSource{err: readErr}

	err := checker.New(&fakeHost{}, &fakeCompiler{}).Run(t.Context(), src)
	if !errors.Is(err, readErr) {
		t.Errorf("Run() error = %v, want %v", err, readErr)
	}
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	src := &sequenceSource{frames: []notify.Frame{edit(sce.DocumentState{ID: "/src/a.cc", Version: 1})}}
	comp := &fakeCompiler{}

	err := checker.New(&fakeHost{}, comp).Run(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}

	if len(comp.calls) != 0 {
		t.Errorf("compiler calls = %v, want none", comp.calls)
	}
}

func TestProcess(t *testing.T) {
	t.Parallel()

	state := sce.DocumentState{ID: "/src/a.cc", Version: 5}

	tests := []struct {
		name      string
		host      *fakeHost
		comp      *fakeCompiler
		want      checker.Result
		wantErr   bool
		wantNotes int
	}{
		{
			name:      "all notes sent",
			host:      &fakeHost{},
			comp:      &fakeCompiler{output: []byte(clangOutput)},
			want:      checker.Result{State: state, Diagnostics: 2, Sent: 2, Failed: 0},
			wantNotes: 2,
		},
		{
			name:      "failed note does not stop the rest",
			host:      &fakeHost{failNotes: 1},
			comp:      &fakeCompiler{output: []byte(clangOutput)},
			want:      checker.Result{State: state, Diagnostics: 2, Sent: 1, Failed: 1},
			wantNotes: 1,
		},
		{
			name:      "clean compile",
			host:      &fakeHost{},
			comp:      &fakeCompiler{output: []byte{}},
			want:      checker.Result{State: state},
			wantNotes: 0,
		},
		{
			name:      "compiler cannot run",
			host:      &fakeHost{},
			comp:      &fakeCompiler{err: errCompilerMissing},
			want:      checker.Result{State: state},
			wantErr:   true,
			wantNotes: 0,
		},
		{
			name:      "stale buffer",
			host:      &fakeHost{staleVersions: map[sce.DocumentState]bool{state: true}},
			comp:      &fakeCompiler{output: []byte(clangOutput)},
			want:      checker.Result{State: state},
			wantErr:   true,
			wantNotes: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := checker.New(tt.host, tt.comp).Process(t.Context(), state)

			if (got.Err != nil) != tt.wantErr {
				t.Errorf("Process().Err = %v, wantErr %v", got.Err, tt.wantErr)
			}

			if got.ID == "" {
				t.Error("Process().ID is empty")
			}

			if got.State != tt.want.State ||
				got.Diagnostics != tt.want.Diagnostics ||
				got.Sent != tt.want.Sent ||
				got.Failed != tt.want.Failed {
				t.Errorf("Process() = %+v, want %+v", got, tt.want)
			}

			if len(tt.host.notes) != tt.wantNotes {
				t.Errorf("host received %d notes, want %d", len(tt.host.notes), tt.wantNotes)
			}
		})
	}
}
