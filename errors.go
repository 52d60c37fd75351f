// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package pod

import "go.e43.eu/pod/internal/errors"

const (
	// Decode or Read expected pointer parameter
	ErrNotPointer = errors.ErrNotPointer

	// Pointer was unexpectedly nil
	ErrNilPointer = errors.ErrNilPointer

	// Bytes read for a character or string were not well-formed UTF-8
	ErrInvalidUTF8 = errors.ErrInvalidUTF8

	// The requested operation is categorically unsupported: the wire form
	// carries no tags, lengths or discriminants, so booleans, optionals,
	// unions, maps and untyped values cannot be decoded. Match with errors.Is
	ErrUnsupported = errors.ErrUnsupported
)

// UnsupportedError is the concrete error behind ErrUnsupported; Op names the
// rejected operation
type UnsupportedError = errors.UnsupportedError

// FieldError wraps an error with the path of struct fields leading to it
type FieldError = errors.FieldError
