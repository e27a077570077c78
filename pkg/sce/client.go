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
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// A Client calls the methods of the host. A Client is safe for concurrent use
// but the program uses it from a single goroutine.
type Client struct {
	conn *grpc.ClientConn
	addr string
}

// Dial returns a new Client for the host at addr. The connection is made lazily
// on the first call. The given options are applied after the defaults, which
// use an insecure connection and the host message codec.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
	}

	conn, err := grpc.NewClient(addr, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client for %s: %w", addr, err)
	}

	return &Client{conn: conn, addr: addr}, nil
}

// Addr returns the address of the host.
func (c *Client) Addr() string {
	return c.addr
}

// Close closes the connection to the host.
func (c *Client) Close() error {
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("failed to close RPC connection to %s: %w", c.addr, err)
	}

	return nil
}

// Test calls the "Test" method and returns the message of the host.
func (c *Client) Test(ctx context.Context) (string, error) {
	var out stringMsg
	if err := c.invoke(ctx, MethodTest, &emptyMsg{}, &out); err != nil {
		return "", err
	}

	return out.value, nil
}

// GetCurrentFileName returns the path of the document that is currently
// focused in the host.
func (c *Client) GetCurrentFileName(ctx context.Context) (string, error) {
	var out stringMsg
	if err := c.invoke(ctx, MethodGetCurrentFileName, &emptyMsg{}, &out); err != nil {
		return "", err
	}

	return out.value, nil
}

// GetCurrentBuffer returns the state and the buffer of the document that is
// currently focused in the host.
func (c *Client) GetCurrentBuffer(ctx context.Context) (DocumentState, string, error) {
	var out currentBufferMsg
	if err := c.invoke(ctx, MethodGetCurrentBuffer, &emptyMsg{}, &out); err != nil {
		return DocumentState{}, "", err
	}

	return out.state, out.buffer, nil
}

// GetCurrentDocuments returns the states of the documents open in the host.
func (c *Client) GetCurrentDocuments(ctx context.Context) ([]DocumentState, error) {
	var out documentsMsg
	if err := c.invoke(ctx, MethodGetCurrentDocuments, &emptyMsg{}, &out); err != nil {
		return nil, err
	}

	return out.docs, nil
}

// GetBuffer returns the buffer of the document at exactly the given state.
// The host refuses the call if the document has been edited after state.
func (c *Client) GetBuffer(ctx context.Context, state DocumentState) (string, error) {
	var out stringMsg
	if err := c.invoke(ctx, MethodGetBuffer, &getBufferMsg{state: state}, &out); err != nil {
		return "", err
	}

	return out.value, nil
}

// AddNote adds the note to the document in the host.
func (c *Client) AddNote(ctx context.Context, note Note) error {
	return c.invoke(ctx, MethodAddNote, &addNoteMsg{note: note}, &emptyMsg{})
}

// invoke calls the given method of the host service.
func (c *Client) invoke(ctx context.Context, method string, in, out message) error {
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return &TransportError{Err: err, Method: method}
	}

	return nil
}

// fullMethod returns the full gRPC method name for method.
func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}
