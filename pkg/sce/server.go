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
	"errors"
	"fmt"

	"google.golang.org/grpc"
)

// errServerType is returned when the registered implementation is not
// a QueryServer.
var errServerType = errors.New("service implementation is not a QueryServer")

// QueryServer is the server side of the host service. It lets the host, or
// a stand-in for it, be served from Go.
type QueryServer interface {
	Test(ctx context.Context) (string, error)
	GetCurrentFileName(ctx context.Context) (string, error)
	GetCurrentBuffer(ctx context.Context) (DocumentState, string, error)
	GetCurrentDocuments(ctx context.Context) ([]DocumentState, error)
	GetBuffer(ctx context.Context, state DocumentState) (string, error)
	AddNote(ctx context.Context, note Note) error
}

// handlerFunc calls one method of a QueryServer with a decoded parameter
// message.
type handlerFunc func(ctx context.Context, srv QueryServer, in message) (message, error)

//nolint:gochecknoglobals // service descriptors are static
var queryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodTest,
			Handler: handler(MethodTest, newEmptyMsg, func(ctx context.Context, srv QueryServer, _ message) (message, error) {
				s, err := srv.Test(ctx)
				if err != nil {
					return nil, err
				}

				return &stringMsg{value: s}, nil
			}),
		},
		{
			MethodName: MethodGetCurrentFileName,
			Handler: handler(MethodGetCurrentFileName, newEmptyMsg,
				func(ctx context.Context, srv QueryServer, _ message) (message, error) {
					s, err := srv.GetCurrentFileName(ctx)
					if err != nil {
						return nil, err
					}

					return &stringMsg{value: s}, nil
				}),
		},
		{
			MethodName: MethodGetCurrentBuffer,
			Handler: handler(MethodGetCurrentBuffer, newEmptyMsg,
				func(ctx context.Context, srv QueryServer, _ message) (message, error) {
					state, buf, err := srv.GetCurrentBuffer(ctx)
					if err != nil {
						return nil, err
					}

					return &currentBufferMsg{state: state, buffer: buf}, nil
				}),
		},
		{
			MethodName: MethodGetCurrentDocuments,
			Handler: handler(MethodGetCurrentDocuments, newEmptyMsg,
				func(ctx context.Context, srv QueryServer, _ message) (message, error) {
					docs, err := srv.GetCurrentDocuments(ctx)
					if err != nil {
						return nil, err
					}

					return &documentsMsg{docs: docs}, nil
				}),
		},
		{
			MethodName: MethodGetBuffer,
			Handler: handler(MethodGetBuffer, func() message { return &getBufferMsg{} },
				func(ctx context.Context, srv QueryServer, in message) (message, error) {
					req, ok := in.(*getBufferMsg)
					if !ok {
						return nil, fmt.Errorf("%w: %T", errNotMessage, in)
					}

					buf, err := srv.GetBuffer(ctx, req.state)
					if err != nil {
						return nil, err
					}

					return &stringMsg{value: buf}, nil
				}),
		},
		{
			MethodName: MethodAddNote,
			Handler: handler(MethodAddNote, func() message { return &addNoteMsg{} },
				func(ctx context.Context, srv QueryServer, in message) (message, error) {
					req, ok := in.(*addNoteMsg)
					if !ok {
						return nil, fmt.Errorf("%w: %T", errNotMessage, in)
					}

					if err := srv.AddNote(ctx, req.note); err != nil {
						return nil, err
					}

					return &emptyMsg{}, nil
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sce.proto",
}

// NewServer returns a new gRPC server that uses the host message codec.
func NewServer(opts ...grpc.ServerOption) *grpc.Server {
	return grpc.NewServer(append([]grpc.ServerOption{grpc.ForceServerCodec(Codec{})}, opts...)...)
}

// RegisterQueryServer registers srv as the host service on s. The server must
// use the host message codec, see [NewServer].
func RegisterQueryServer(s grpc.ServiceRegistrar, srv QueryServer) {
	s.RegisterService(&queryServiceDesc, srv)
}

func newEmptyMsg() message {
	return &emptyMsg{}
}

// handler returns the gRPC method handler that decodes the parameters with
// newIn and passes them to call.
func handler(method string, newIn func() message, call handlerFunc) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		qs, ok := srv.(QueryServer)
		if !ok {
			return nil, fmt.Errorf("%w: %T", errServerType, srv)
		}

		in := newIn()
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(ctx, qs, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}

		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			m, ok := req.(message)
			if !ok {
				return nil, fmt.Errorf("%w: %T", errNotMessage, req)
			}

			return call(ctx, qs, m)
		})
	}
}
