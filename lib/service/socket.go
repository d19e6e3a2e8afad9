// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bureau-foundation/nexus/lib/codec"
	"github.com/bureau-foundation/nexus/lib/ipc"
	"github.com/bureau-foundation/nexus/lib/status"
)

// ActionFunc processes one decoded, validated request. It always
// produces a response: failures are reported through the response's
// Status field, usually built with [Failure].
type ActionFunc func(ctx context.Context, request *ipc.Request) *ipc.Response

// Failure returns a response carrying code's errno and err's message.
func Failure(code status.Code, err error) *ipc.Response {
	response := &ipc.Response{Status: int32(code.Errno())}
	if err != nil {
		response.Error = err.Error()
	}
	return response
}

// SocketServer serves the CBOR request-response protocol on a Unix
// socket. Each connection handles exactly one request-response cycle:
// the client writes an [ipc.Request], the server processes it and
// writes an [ipc.Response], then the connection closes.
//
// Actions are registered with Handle before calling Serve.
type SocketServer struct {
	socketPath     string
	socketMode     os.FileMode
	requestTimeout time.Duration
	handlers       map[string]ActionFunc
	logger         *slog.Logger

	// activeConnections tracks in-flight request handlers. Serve waits
	// for all of them before returning.
	activeConnections sync.WaitGroup
}

// NewSocketServer creates a server that will listen on socketPath with
// the given permission bits. requestTimeout bounds each action handler
// (zero means no bound).
func NewSocketServer(socketPath string, socketMode os.FileMode, requestTimeout time.Duration, logger *slog.Logger) *SocketServer {
	return &SocketServer{
		socketPath:     socketPath,
		socketMode:     socketMode,
		requestTimeout: requestTimeout,
		handlers:       make(map[string]ActionFunc),
		logger:         logger,
	}
}

// Handle registers a handler for the given action name. Panics if the
// action is already registered.
func (s *SocketServer) Handle(action string, handler ActionFunc) {
	if _, exists := s.handlers[action]; exists {
		panic(fmt.Sprintf("service.SocketServer: duplicate handler for action %q", action))
	}
	s.handlers[action] = handler
}

// Serve accepts connections until ctx is cancelled, then stops
// accepting and waits for active handlers to complete.
//
// Any existing socket file at the configured path is removed before
// listening. The socket file is removed on return.
func (s *SocketServer) Serve(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer func() {
		listener.Close()
		os.Remove(s.socketPath)
	}()

	if err := os.Chmod(s.socketPath, s.socketMode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", s.socketPath, err)
	}

	// Unblock Accept when the context is cancelled.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("socket server listening", "path", s.socketPath, "mode", fmt.Sprintf("%#o", s.socketMode))

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.activeConnections.Wait()
	return nil
}

// readTimeout is how long we wait for the client to send its request.
const readTimeout = 30 * time.Second

const writeTimeout = 10 * time.Second

// maxRequestSize bounds a single CBOR request. The largest legitimate
// request is an envelope plus one output buffer.
const maxRequestSize = codec.MaxByteStringLength + 64*1024

func (s *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))

	// CBOR is self-delimiting so no framing protocol is needed.
	var request ipc.Request
	if err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&request); err != nil {
		if errors.Is(err, io.EOF) {
			// Client connected but sent nothing.
			return
		}
		s.write(conn, Failure(status.InvalidArgument, fmt.Errorf("invalid request: %w", err)))
		return
	}
	if err := request.Validate(); err != nil {
		s.write(conn, Failure(status.InvalidArgument, fmt.Errorf("invalid request: %w", err)))
		return
	}

	handler, exists := s.handlers[request.Action]
	if !exists {
		s.write(conn, Failure(status.NotSupported, fmt.Errorf("action %q is not served here", request.Action)))
		return
	}

	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	response := handler(ctx, &request)
	if response.Status != 0 {
		s.logger.Debug("action failed",
			"action", request.Action,
			"status", response.Status,
			"error", response.Error,
		)
	}
	s.write(conn, response)
}

// write sends response. Write failures are logged at debug level: the
// connection is closing regardless.
func (s *SocketServer) write(conn net.Conn, response *ipc.Response) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}
