// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bureau-foundation/nexus/lib/codec"
	"github.com/bureau-foundation/nexus/lib/ipc"
	"github.com/bureau-foundation/nexus/lib/status"
	"github.com/bureau-foundation/nexus/lib/testutil"
)

// sendRequest connects to a Unix socket, sends a CBOR request, and
// returns the decoded response.
func sendRequest(t *testing.T, socketPath string, request any) ipc.Response {
	t.Helper()

	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		t.Errorf("connecting to socket: %v", err)
		return ipc.Response{}
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		t.Errorf("writing request: %v", err)
		return ipc.Response{}
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	var response ipc.Response
	if err := codec.NewDecoder(conn).Decode(&response); err != nil {
		t.Errorf("decoding response: %v", err)
	}
	return response
}

func testSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(testutil.SocketDir(t), "brain.sock")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// startServer runs server until the test ends and waits for its socket
// to appear.
func startServer(t *testing.T, server *SocketServer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := testutil.RequireReceive(t, done, 5*time.Second, "Serve did not return after cancellation"); err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	})
	waitForSocket(t, server.socketPath)
}

// waitForSocket polls until the socket file exists. Bounded by the
// test context timeout.
func waitForSocket(t *testing.T, path string) {
	t.Helper()
	for {
		if _, err := os.Stat(path); err == nil {
			return
		}
		if t.Context().Err() != nil {
			t.Fatalf("socket %s did not appear before test context expired", path)
		}
		runtime.Gosched()
	}
}

func TestSocketServerRoutesByAction(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), 0o600, 0, testLogger())
	server.Handle(ipc.ActionStatus, func(ctx context.Context, request *ipc.Request) *ipc.Response {
		return &ipc.Response{Version: "test", Children: 2}
	})
	startServer(t, server)

	response := sendRequest(t, server.socketPath, ipc.Request{Action: ipc.ActionStatus})
	if response.Status != 0 {
		t.Fatalf("status = %d (%s), want 0", response.Status, response.Error)
	}
	if response.Version != "test" || response.Children != 2 {
		t.Errorf("response = %+v, want version test with 2 children", response)
	}
}

func TestSocketServerAppliesMode(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), 0o660, 0, testLogger())
	server.Handle(ipc.ActionStatus, func(ctx context.Context, request *ipc.Request) *ipc.Response {
		return &ipc.Response{}
	})
	startServer(t, server)

	// The mode is applied just after the socket appears; a round trip
	// guarantees Serve has reached Accept.
	sendRequest(t, server.socketPath, ipc.Request{Action: ipc.ActionStatus})

	info, err := os.Stat(server.socketPath)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o660 {
		t.Errorf("socket mode = %#o, want 0660", got)
	}
}

func TestSocketServerRejectsInvalidRequests(t *testing.T) {
	var called atomic.Bool
	server := NewSocketServer(testSocketPath(t), 0o600, 0, testLogger())
	server.Handle(ipc.ActionSubmit, func(ctx context.Context, request *ipc.Request) *ipc.Response {
		called.Store(true)
		return &ipc.Response{}
	})
	startServer(t, server)

	tests := []struct {
		name    string
		request any
	}{
		{"unknown action", map[string]string{"action": "reboot"}},
		{"missing action", map[string]any{"goal_address": 4096}},
		{"submit without segments", ipc.Request{Action: ipc.ActionSubmit}},
		{"too many segments", ipc.Request{
			Action:   ipc.ActionSubmit,
			Segments: make([]ipc.Segment, ipc.MaxSegments+1),
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := sendRequest(t, server.socketPath, test.request)
			if got := status.FromErrno(int(response.Status)); got != status.InvalidArgument {
				t.Errorf("status = %v (%s), want InvalidArgument", got, response.Error)
			}
		})
	}
	if called.Load() {
		t.Error("handler ran for an invalid request")
	}
}

func TestSocketServerInvalidCBOR(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), 0o600, 0, testLogger())
	startServer(t, server)

	conn, err := net.DialTimeout("unix", server.socketPath, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb})
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	var response ipc.Response
	if err := codec.NewDecoder(conn).Decode(&response); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if got := status.FromErrno(int(response.Status)); got != status.InvalidArgument {
		t.Errorf("status = %v, want InvalidArgument", got)
	}
}

func TestSocketServerUnregisteredAction(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), 0o600, 0, testLogger())
	startServer(t, server)

	response := sendRequest(t, server.socketPath, ipc.Request{Action: ipc.ActionStatus})
	if got := status.FromErrno(int(response.Status)); got != status.NotSupported {
		t.Errorf("status = %v (%s), want NotSupported", got, response.Error)
	}
}

func TestSocketServerRequestTimeout(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), 0o600, 50*time.Millisecond, testLogger())
	server.Handle(ipc.ActionStatus, func(ctx context.Context, request *ipc.Request) *ipc.Response {
		<-ctx.Done()
		return Failure(status.Unknown, ctx.Err())
	})
	startServer(t, server)

	response := sendRequest(t, server.socketPath, ipc.Request{Action: ipc.ActionStatus})
	if got := status.FromErrno(int(response.Status)); got != status.Unknown {
		t.Errorf("status = %v, want Unknown", got)
	}
	if response.Error != context.DeadlineExceeded.Error() {
		t.Errorf("error = %q, want %q", response.Error, context.DeadlineExceeded.Error())
	}
}

func TestSocketServerConcurrentRequests(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), 0o600, 0, testLogger())
	server.Handle(ipc.ActionSubmit, func(ctx context.Context, request *ipc.Request) *ipc.Response {
		return &ipc.Response{Segments: request.Segments}
	})
	startServer(t, server)

	const concurrency = 20
	var wg sync.WaitGroup
	for i := range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			response := sendRequest(t, server.socketPath, ipc.Request{
				Action:   ipc.ActionSubmit,
				Segments: []ipc.Segment{{Address: uint64(i), Data: []byte{byte(i)}}},
			})
			if len(response.Segments) != 1 || response.Segments[0].Address != uint64(i) {
				t.Errorf("request %d: got segments %+v", i, response.Segments)
			}
		}()
	}
	wg.Wait()
}

func TestSocketServerGracefulShutdown(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, 0o600, 0, testLogger())

	handlerStarted := make(chan struct{})
	handlerRelease := make(chan struct{})
	server.Handle(ipc.ActionStatus, func(ctx context.Context, request *ipc.Request) *ipc.Response {
		close(handlerStarted)
		<-handlerRelease
		return &ipc.Response{Version: "completed"}
	})

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(ctx)
	}()
	waitForSocket(t, socketPath)

	responses := make(chan ipc.Response, 1)
	go func() {
		responses <- sendRequest(t, socketPath, ipc.Request{Action: ipc.ActionStatus})
	}()

	testutil.RequireClosed(t, handlerStarted, 5*time.Second, "handler did not start")
	close(handlerRelease)
	cancel()

	response := testutil.RequireReceive(t, responses, 5*time.Second, "in-flight request did not complete")
	if response.Version != "completed" {
		t.Errorf("in-flight response = %+v", response)
	}
	if err := testutil.RequireReceive(t, serveDone, 5*time.Second, "Serve did not return after cancellation"); err != nil {
		t.Errorf("Serve returned error: %v", err)
	}
	if _, err := os.Stat(socketPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("socket file not cleaned up after Serve returned")
	}
}

func TestSocketServerDuplicateHandlerPanics(t *testing.T) {
	server := NewSocketServer("/tmp/test.sock", 0o600, 0, testLogger())
	server.Handle(ipc.ActionStatus, func(ctx context.Context, request *ipc.Request) *ipc.Response { return nil })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate handler registration")
		}
	}()
	server.Handle(ipc.ActionStatus, func(ctx context.Context, request *ipc.Request) *ipc.Response { return nil })
}
