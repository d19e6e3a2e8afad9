// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package status

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Code is the result of one submitted goal.
type Code int

const (
	OK Code = iota
	// InvalidArgument: malformed or unsupported discriminant, or an
	// out-of-range value.
	InvalidArgument
	// NotSupported: recognized discriminant whose target is not
	// implemented.
	NotSupported
	// OutOfMemory: the trusted buffer could not be allocated.
	OutOfMemory
	// BadAddress: caller memory could not be read or written.
	BadAddress
	NotFound
	PermissionDenied
	IsADirectory
	IOError
	// Unknown: a collaborator failure with no closer category.
	Unknown
)

var codeNames = [...]string{
	OK:               "ok",
	InvalidArgument:  "invalid argument",
	NotSupported:     "not supported",
	OutOfMemory:      "out of memory",
	BadAddress:       "bad address",
	NotFound:         "not found",
	PermissionDenied: "permission denied",
	IsADirectory:     "is a directory",
	IOError:          "i/o error",
	Unknown:          "unknown error",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("status(%d)", int(c))
	}
	return codeNames[c]
}

var codeErrnos = [...]syscall.Errno{
	InvalidArgument:  unix.EINVAL,
	NotSupported:     unix.ENOSYS,
	OutOfMemory:      unix.ENOMEM,
	BadAddress:       unix.EFAULT,
	NotFound:         unix.ENOENT,
	PermissionDenied: unix.EACCES,
	IsADirectory:     unix.EISDIR,
	IOError:          unix.EIO,
	Unknown:          unix.EPROTO,
}

// Errno returns the negative errno reported for c at the process
// boundary. OK is 0. Codes outside the vocabulary report Unknown's errno.
func (c Code) Errno() int {
	if c == OK {
		return 0
	}
	if c < 0 || int(c) >= len(codeErrnos) {
		c = Unknown
	}
	return -int(codeErrnos[c])
}

// FromErrno maps a boundary errno back to a Code. Both signs are
// accepted. Errnos outside the vocabulary are Unknown.
func FromErrno(errno int) Code {
	if errno < 0 {
		errno = -errno
	}
	if errno == 0 {
		return OK
	}
	switch syscall.Errno(errno) {
	case unix.EINVAL:
		return InvalidArgument
	case unix.ENOSYS, unix.EOPNOTSUPP:
		return NotSupported
	case unix.ENOMEM:
		return OutOfMemory
	case unix.EFAULT:
		return BadAddress
	case unix.ENOENT:
		return NotFound
	case unix.EACCES, unix.EPERM:
		return PermissionDenied
	case unix.EISDIR:
		return IsADirectory
	case unix.EIO:
		return IOError
	}
	return Unknown
}

// Error is a failure carrying its Code. Two Errors match under
// errors.Is when their codes are equal, so sentinel values built with
// New can be compared against wrapped instances.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New returns an Error with a fixed message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf formats a message for code. A %w verb in format is honored:
// the wrapped error is available through Unwrap.
func Errorf(code Code, format string, args ...any) *Error {
	formatted := fmt.Errorf(format, args...)
	return &Error{Code: code, Message: formatted.Error(), Err: errors.Unwrap(formatted)}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// FromError maps err to the closest Code. nil is OK. The outermost
// *Error in the chain wins over anything it wraps.
func FromError(err error) Code {
	if err == nil {
		return OK
	}

	var statusError *Error
	if errors.As(err, &statusError) {
		return statusError.Code
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return FromErrno(int(errno))
	}

	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, exec.ErrNotFound):
		return NotFound
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	case errors.Is(err, io.ErrShortWrite):
		return IOError
	}
	return Unknown
}
