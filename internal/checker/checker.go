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

// Package checker implements the notification loop of sce-clang. It reacts to
// the edit notifications of the host by compiling the edited buffer and
// sending the resulting diagnostics back to the host as notes.
package checker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sce-editor/sce-clang/internal/diag"
	"github.com/sce-editor/sce-clang/internal/log"
	"github.com/sce-editor/sce-clang/internal/note"
	"github.com/sce-editor/sce-clang/pkg/notify"
	"github.com/sce-editor/sce-clang/pkg/sce"
)

// Host is the part of the host protocol that the checker uses. It is
// implemented by [*sce.Client].
type Host interface {
	GetCurrentDocuments(ctx context.Context) ([]sce.DocumentState, error)
	GetBuffer(ctx context.Context, state sce.DocumentState) (string, error)
	AddNote(ctx context.Context, note sce.Note) error
}

// Compiler runs the syntax check on a buffer and returns the raw compiler
// output. It is implemented by [*compiler.Compiler].
type Compiler interface {
	Check(ctx context.Context, doc sce.DocumentState, source []byte) ([]byte, error)
}

// Source is the stream of notification frames. It is implemented by
// [*notify.Reader].
type Source interface {
	Read() (notify.Frame, error)
	Ready() bool
}

// A Checker checks documents of the host and annotates them with
// the diagnostics of the compiler.
type Checker struct {
	host     Host
	compiler Compiler
}

// Result is the outcome of checking one document.
type Result struct {
	// Err is the error that made the pass fail. The pass is abandoned when
	// the buffer cannot be fetched. A compiler that cannot be run yields no
	// diagnostics.
	Err         error
	ID          string            // correlation ID of the pass in the logs
	State       sce.DocumentState // checked document
	Diagnostics int               // number of diagnostics found
	Sent        int               // number of notes the host accepted
	Failed      int               // number of notes the host rejected
}

// New returns a new Checker that uses the given host and compiler.
func New(host Host, compiler Compiler) *Checker {
	if host == nil {
		panic("checker: nil host")
	}

	if compiler == nil {
		panic("checker: nil compiler")
	}

	return &Checker{host: host, compiler: compiler}
}

// Run checks every open document of the host once and then checks the
// documents named by the edit notifications read from src until the stream
// ends.
//
// If the next notification is already waiting when a notification has been
// read, the earlier one is skipped, so that a burst of edits results in one
// check of the latest version. The readiness is checked only after the frame
// has been read.
//
// Run returns nil when the stream ends cleanly. A malformed frame stops
// the loop and Run returns the [*notify.FramingError]. If ctx is canceled, Run
// returns the error of the context after the current read returns.
func (c *Checker) Run(ctx context.Context, src Source) error {
	c.checkOpenDocuments(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w", err)
		}

		frame, err := src.Read()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("%w", ctxErr)
			}

			if errors.Is(err, io.EOF) {
				log.Info(ctx, "notification stream closed")

				return nil
			}

			var framingErr *notify.FramingError
			if errors.As(err, &framingErr) {
				log.Error(ctx, "malformed notification frame", log.Err(err))

				return err
			}

			return fmt.Errorf("failed to read notification: %w", err)
		}

		if frame.Name != notify.NameEditNotification {
			log.Debug(ctx, "discarding notification", "name", frame.Name, "size", len(frame.Data))

			continue
		}

		state, err := sce.UnmarshalEditNotification(frame.Data)
		if err != nil {
			log.Warn(ctx, "failed to decode edit notification", log.Err(err))

			continue
		}

		if src.Ready() {
			log.Trace(ctx, "skipping notification, another one is waiting", "doc", state.String())

			continue
		}

		c.Process(ctx, state)
	}
}

// Process checks the document at state once: it fetches the buffer, runs
// the compiler, and sends a note for every diagnostic. The failures of
// the host calls are logged, and a failing note does not stop the rest.
func (c *Checker) Process(ctx context.Context, state sce.DocumentState) Result {
	res := Result{
		Err:         nil,
		ID:          uuid.NewString(),
		State:       state,
		Diagnostics: 0,
		Sent:        0,
		Failed:      0,
	}

	log.Debug(ctx, "checking document", "pass", res.ID, "doc", state.String())

	buf, err := c.host.GetBuffer(ctx, state)
	if err != nil {
		log.Warn(ctx, "failed to get buffer", "pass", res.ID, "doc", state.String(), log.Err(err))

		res.Err = err

		return res
	}

	out, err := c.compiler.Check(ctx, state, []byte(buf))
	if err != nil {
		log.Error(ctx, "failed to run compiler", "pass", res.ID, "doc", state.String(), log.Err(err))

		res.Err = err
	}

	diags := diag.Parse(string(out))
	res.Diagnostics = len(diags)

	for _, d := range diags {
		n := note.Map(d, state)

		if err := c.host.AddNote(ctx, n); err != nil {
			log.Warn(ctx, "failed to add note", "pass", res.ID, "line", d.Line, "col", d.Character, log.Err(err))

			res.Failed++

			continue
		}

		res.Sent++
	}

	log.Info(
		ctx,
		"document checked",
		"pass", res.ID,
		"doc", state.String(),
		"diagnostics", res.Diagnostics,
		"sent", res.Sent,
		"failed", res.Failed,
	)

	return res
}

// checkOpenDocuments checks every document that is open in the host when
// the loop starts.
func (c *Checker) checkOpenDocuments(ctx context.Context) {
	docs, err := c.host.GetCurrentDocuments(ctx)
	if err != nil {
		log.Warn(ctx, "failed to get current documents", log.Err(err))

		return
	}

	log.Debug(ctx, "checking open documents", "count", len(docs))

	for _, d := range docs {
		if ctx.Err() != nil {
			return
		}

		c.Process(ctx, d)
	}
}
