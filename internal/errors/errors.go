// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package errors

import (
	"fmt"
	"reflect"
	"strings"

	"go.e43.eu/pod/internal/tags"
)

type xerror string

func (e xerror) Error() string {
	return string(e)
}

const (
	// Decode or Read expected pointer parameter
	ErrNotPointer = xerror("pod: Expected pointer parameter")

	// Pointer was unexpectedly nil
	ErrNilPointer = xerror("pod: Unexpected nil pointer")

	// Bytes read for a character or string were not well-formed UTF-8
	//
	// This is the encoding error class: it is distinct from an I/O error in
	// that the source produced bytes, but they do not form a valid scalar
	// or string
	ErrInvalidUTF8 = xerror("pod: Invalid UTF-8 sequence")

	// The requested operation is categorically unsupported
	//
	// The pod format carries no tags, lengths or discriminants, so some shapes
	// which can be encoded cannot be reconstructed from undifferentiated bytes
	// (booleans, optionals, enumerations, maps, untyped values). Requests to
	// decode them always fail with an error matching this sentinel, without
	// consuming any input. Use errors.Is to test for it; the concrete error is
	// an UnsupportedError naming the operation.
	ErrUnsupported = xerror("pod: Operation not supported")
)

// UnsupportedError is returned when a shape which cannot be losslessly
// reconstructed is requested. Op names the rejected operation (e.g. "bool",
// "option", "enum", "map", "any").
type UnsupportedError struct {
	Op string
}

func (e UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupported, e.Op)
}

type InvalidTypeError struct {
	T reflect.Type
}

func (e InvalidTypeError) Error() string {
	return fmt.Sprintf("pod: Type '%s' unsupported", e.T)
}

type InvalidTagForTypeError struct {
	T   reflect.Type
	Tag tags.Tag
}

func (e InvalidTagForTypeError) Error() string {
	return fmt.Sprintf("pod: Tag '%s' unsupported for type '%s'", e.Tag, e.T)
}

type FieldError struct {
	Underlying error
	Path       string
}

func (err FieldError) Unwrap() error {
	return err.Underlying
}

func (err FieldError) Error() string {
	uerr := strings.TrimPrefix(err.Underlying.Error(), "pod: ")
	return fmt.Sprintf("pod: %s (at %s)", uerr, err.Path)
}

func WithFieldError(err error, parts ...string) error {
	if err == nil {
		return nil
	}

	var combined string
	if parts[0] == "" {
		parts[0] = "<anonymous>"
	}

	switch len(parts) {
	case 1:
		combined = parts[0]
	case 3:
		combined = fmt.Sprintf("%s.%s(%s)", parts[0], parts[1], parts[2])
	default:
		combined = strings.Join(parts, ".")
	}

	switch err := err.(type) {
	case FieldError:
		err.Path = fmt.Sprintf("%s %s", combined, err.Path)
		return err
	default:
		return FieldError{err, combined}
	}
}
