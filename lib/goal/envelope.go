// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package goal

import (
	"encoding/binary"
	"fmt"

	"github.com/bureau-foundation/nexus/lib/status"
)

// EnvelopeSize is the size of an encoded envelope in bytes.
const EnvelopeSize = 784

// Byte offsets of the envelope layout. The union starts at 8 because
// the GetInfo and Configure shapes carry 8-byte members.
const (
	offsetID    = 0
	offsetUnion = 8

	offsetInfoSubsystem = offsetUnion
	offsetInfoLocation  = offsetUnion + 8
	offsetInfoCapacity  = offsetUnion + 16

	offsetConfigureSubsystem = offsetUnion
	offsetConfigureValue     = offsetUnion + 8

	offsetFileOperation = offsetUnion
	offsetFilePath1     = offsetUnion + 4
	offsetFilePath2     = offsetFilePath1 + PathCapacity
	offsetFileMode      = offsetFilePath2 + PathCapacity

	offsetAppOperation = offsetUnion
	offsetAppPath      = offsetUnion + 4
	offsetAppArgs      = offsetAppPath + PathCapacity
)

var byteOrder = binary.LittleEndian

// Envelope is a decoded request with every parameter shape read out of
// the union independently. Only the shape selected by ID is meaningful;
// the others hold whatever bytes the caller put there and are never
// handed to a handler.
type Envelope struct {
	ID        ID
	GetInfo   GetInfoParams
	Configure ConfigureParams
	Files     FileOpParams
	App       AppOpParams
}

// DecodeEnvelope reads an envelope from exactly EnvelopeSize bytes. The
// string fields are copied as-is; call Terminate before inspecting them.
func DecodeEnvelope(data []byte) (Envelope, error) {
	if len(data) != EnvelopeSize {
		return Envelope{}, fmt.Errorf("envelope is %d bytes, want %d", len(data), EnvelopeSize)
	}

	var envelope Envelope
	envelope.ID = ID(byteOrder.Uint32(data[offsetID:]))

	envelope.GetInfo = GetInfoParams{
		Subsystem:      Subsystem(byteOrder.Uint32(data[offsetInfoSubsystem:])),
		OutputLocation: byteOrder.Uint64(data[offsetInfoLocation:]),
		OutputCapacity: byteOrder.Uint32(data[offsetInfoCapacity:]),
	}

	envelope.Configure = ConfigureParams{
		Subsystem: Subsystem(byteOrder.Uint32(data[offsetConfigureSubsystem:])),
		Value:     int64(byteOrder.Uint64(data[offsetConfigureValue:])),
	}

	envelope.Files.Operation = FileOp(byteOrder.Uint32(data[offsetFileOperation:]))
	copy(envelope.Files.Path1[:], data[offsetFilePath1:offsetFilePath2])
	copy(envelope.Files.Path2[:], data[offsetFilePath2:offsetFileMode])
	envelope.Files.Mode = byteOrder.Uint32(data[offsetFileMode:])

	envelope.App.Operation = AppOp(byteOrder.Uint32(data[offsetAppOperation:]))
	copy(envelope.App.Path[:], data[offsetAppPath:offsetAppArgs])
	copy(envelope.App.Args[:], data[offsetAppArgs:offsetAppArgs+ArgsCapacity])

	return envelope, nil
}

// Terminate forces every fixed-capacity string field of every shape to
// end in NUL, whatever ID says. It cannot fail.
func (e *Envelope) Terminate() {
	e.Files.Path1.Terminate()
	e.Files.Path2.Terminate()
	e.App.Path.Terminate()
	e.App.Args.Terminate()
}

// Goal returns the shape selected by ID. Unspecified and unknown IDs
// are InvalidArgument.
func (e *Envelope) Goal() (Goal, error) {
	switch e.ID {
	case GetSystemInfo:
		return e.GetInfo, nil
	case ConfigureSubsystem:
		return e.Configure, nil
	case ManageFiles:
		return e.Files, nil
	case ManageApplication:
		return e.App, nil
	}
	return nil, status.Errorf(status.InvalidArgument, "unknown goal id %d", uint32(e.ID))
}

// NewEnvelope wraps g for encoding.
func NewEnvelope(g Goal) Envelope {
	envelope := Envelope{ID: g.ID()}
	switch params := g.(type) {
	case GetInfoParams:
		envelope.GetInfo = params
	case ConfigureParams:
		envelope.Configure = params
	case FileOpParams:
		envelope.Files = params
	case AppOpParams:
		envelope.App = params
	}
	return envelope
}

// Encode writes the shape selected by ID into a fresh EnvelopeSize
// buffer. For an unknown ID only the identifier is written.
func (e *Envelope) Encode() []byte {
	data := make([]byte, EnvelopeSize)
	byteOrder.PutUint32(data[offsetID:], uint32(e.ID))

	switch e.ID {
	case GetSystemInfo:
		byteOrder.PutUint32(data[offsetInfoSubsystem:], uint32(e.GetInfo.Subsystem))
		byteOrder.PutUint64(data[offsetInfoLocation:], e.GetInfo.OutputLocation)
		byteOrder.PutUint32(data[offsetInfoCapacity:], e.GetInfo.OutputCapacity)
	case ConfigureSubsystem:
		byteOrder.PutUint32(data[offsetConfigureSubsystem:], uint32(e.Configure.Subsystem))
		byteOrder.PutUint64(data[offsetConfigureValue:], uint64(e.Configure.Value))
	case ManageFiles:
		byteOrder.PutUint32(data[offsetFileOperation:], uint32(e.Files.Operation))
		copy(data[offsetFilePath1:], e.Files.Path1[:])
		copy(data[offsetFilePath2:], e.Files.Path2[:])
		byteOrder.PutUint32(data[offsetFileMode:], e.Files.Mode)
	case ManageApplication:
		byteOrder.PutUint32(data[offsetAppOperation:], uint32(e.App.Operation))
		copy(data[offsetAppPath:], e.App.Path[:])
		copy(data[offsetAppArgs:], e.App.Args[:])
	}
	return data
}

// Encode is shorthand for encoding a single goal.
func Encode(g Goal) []byte {
	envelope := NewEnvelope(g)
	return envelope.Encode()
}
