// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package goalclient submits goals to nexus-brain over its Unix socket.
//
// The client plays the caller's side of the memory model: it lays the
// encoded envelope out at [GoalAddress] and, for GetSystemInfo goals,
// sets aside a zeroed output buffer at [OutputAddress]. The daemon
// returns whatever it wrote and the client hands it back as
// [Result].Output.
package goalclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/bureau-foundation/nexus/lib/codec"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/ipc"
	"github.com/bureau-foundation/nexus/lib/status"
)

// Caller memory layout. The addresses are arbitrary but fixed so that
// request dumps are comparable.
const (
	GoalAddress   = 0x1000
	OutputAddress = 0x10000
)

// MaxOutputSize caps the output buffer the client sets aside, whatever
// capacity the goal declares. A goal that declares more than it gets
// sees a fault when the daemon writes past the end.
const MaxOutputSize = 64 * 1024

// dialTimeout covers only the connect phase.
const dialTimeout = 5 * time.Second

// responseReadTimeout is how long the client waits for the daemon to
// answer after sending the request. Program launches wait for exec, so
// this is generous.
const responseReadTimeout = 30 * time.Second

// maxResponseSize bounds a single CBOR response.
const maxResponseSize = 1024 * 1024

// Result is the outcome of one goal.
type Result struct {
	// Code is the goal's status.
	Code status.Code

	// Message is the daemon's description of a failure.
	Message string

	// Output holds the bytes the daemon wrote to the output buffer, or
	// nil if it wrote nothing.
	Output []byte
}

// Err returns nil for a successful result and a *status.Error
// otherwise.
func (r *Result) Err() error {
	if r.Code == status.OK {
		return nil
	}
	return &status.Error{Code: r.Code, Message: r.Message}
}

// Client talks to one daemon socket. Each call opens a new connection,
// matching the daemon's one-request-per-connection model.
type Client struct {
	socketPath string
}

// New returns a client for the daemon listening on socketPath.
func New(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Submit encodes g and submits it. See NewRequest for the layout.
func (c *Client) Submit(ctx context.Context, g goal.Goal) (*Result, error) {
	request := NewRequest(g)
	return c.SubmitRequest(ctx, &request)
}

// SubmitEnvelope submits raw envelope bytes with an output buffer of
// outputSize bytes at OutputAddress (none if zero). The envelope is
// sent as-is, so malformed goals can be exercised.
func (c *Client) SubmitEnvelope(ctx context.Context, envelope []byte, outputSize int) (*Result, error) {
	request := BuildRequest(envelope, outputSize)
	return c.SubmitRequest(ctx, &request)
}

// SubmitRequest sends a prepared submit request.
func (c *Client) SubmitRequest(ctx context.Context, request *ipc.Request) (*Result, error) {
	response, err := c.send(ctx, request)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Code:    status.FromErrno(int(response.Status)),
		Message: response.Error,
	}
	for _, segment := range response.Segments {
		if segment.Address == OutputAddress {
			result.Output = segment.Data
		}
	}
	return result, nil
}

// Status asks the daemon to describe itself.
func (c *Client) Status(ctx context.Context) (*ipc.Response, error) {
	return c.send(ctx, &ipc.Request{Action: ipc.ActionStatus})
}

// NewRequest lays out a submit request for g. For GetInfoParams the
// client places the output buffer itself: OutputLocation is
// overwritten with OutputAddress and the buffer is sized from
// OutputCapacity, capped at MaxOutputSize.
func NewRequest(g goal.Goal) ipc.Request {
	if info, ok := g.(goal.GetInfoParams); ok {
		info.OutputLocation = OutputAddress
		g = info
	}
	return BuildRequest(goal.Encode(g), outputSize(g))
}

// BuildRequest lays out a submit request for envelope with an
// outputSize-byte output buffer.
func BuildRequest(envelope []byte, outputSize int) ipc.Request {
	request := ipc.Request{
		Action:      ipc.ActionSubmit,
		GoalAddress: GoalAddress,
		Segments:    []ipc.Segment{{Address: GoalAddress, Data: envelope}},
	}
	if outputSize > 0 {
		request.Segments = append(request.Segments, ipc.Segment{
			Address: OutputAddress,
			Data:    make([]byte, outputSize),
		})
	}
	return request
}

func outputSize(g goal.Goal) int {
	info, ok := g.(goal.GetInfoParams)
	if !ok {
		return 0
	}
	return int(min(info.OutputCapacity, MaxOutputSize))
}

// send connects to the socket, writes the request, and reads the
// response.
func (c *Client) send(ctx context.Context, request *ipc.Request) (*ipc.Response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	if _, ok := ctx.Deadline(); !ok {
		conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	}
	var response ipc.Response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &response, nil
}
