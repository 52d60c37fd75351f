// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package podinterfaces defines the primary interfaces of the pod codec
//
// (This package is primarily separated out in order to permit the implementation to
// be broken down into multiple packages)
package podinterfaces

import (
	"io"
	"reflect"
)

// Char is a single Unicode scalar value. It exists so that character fields can
// be told apart from ordinary int32/rune fields, which reflection cannot
// distinguish: a Char is written as its UTF-8 byte sequence (1-4 bytes, no
// length or terminator), while an int32 is written as 4 fixed-width bytes.
type Char rune

// U128 is an unsigned 128-bit integer, split into its high and low halves.
// On the wire it is a single 16 byte number laid out per the active byte order,
// not a two-field struct.
type U128 struct {
	Hi, Lo uint64
}

// I128 is a signed (two's complement) 128-bit integer, split into its high and
// low halves. Wire layout is the same as U128.
type I128 struct {
	Hi int64
	Lo uint64
}

// interface Marshaler is the interface implemented by a type which knows how to encode
// and decode itself to/from the pod representation
type Marshaler interface {
	MarshalPOD(e Encoder) error
	UnmarshalPOD(d Decoder) error
}

// interface Codec is the interface by which the marshalling of types which are
// not natively supported may be defined.
//
// Codecs may be registered with a Coder in order to specify how to handle a
// specific type.
//
// It is recommended to use a custom Marshaler (or `pod` struct tags) implementation
// when defining your own types instead of defining a Codec. However, this may be useful
// when dealing with third party types.
type Codec interface {
	// Encodes v into the encoder e.
	Encode(e Encoder, v reflect.Value) error

	// Decodes v from the decoder d.
	Decode(d Decoder, v reflect.Value) error
}

// interface Coder is the top-level interface to the pod library
//
// A coder (which may be safely used from multiple threads) provides the ability
// to marshal objects to and from the pod representation using the byte order it
// was constructed with. It also contains a repository of Codecs which know how
// to marshal various types
type Coder interface {
	// ByteOrder returns the byte order this coder reads and writes numbers in
	ByteOrder() ByteOrder

	// Marshals o into the returned buffer
	Marshal(o interface{}) ([]byte, error)

	// Unmarshals buf into the object pointed to by op
	Unmarshal(buf []byte, op interface{}) error

	// Write marshals o into the passed writer
	Write(w io.Writer, o interface{}) error

	// Read unmarshals *op out of the passed reader
	Read(r io.Reader, op interface{}) error

	// Constructs a new encoder which writes to w
	NewEncoder(w io.Writer) Encoder

	// Constructs a new decoder which reads from r
	NewDecoder(r io.Reader) Decoder

	// Registers the codec. Panics if a codec is already registered for
	// the type, or an attempt is made to register a codec for a type
	// for which it is not permitted to register codecs.
	RegisterCodec(template interface{}, c Codec)
	RegisterCodecReflect(type_ reflect.Type, c Codec)
}

// interface Encoder is the interface to the pod encoder
//
// Every shape the codec can describe is encodable. Multi-byte numbers are laid
// out per the encoder's byte order; everything else is byte-order independent.
type Encoder interface {
	// EncodeBool writes a single byte, 1 for true and 0 for false
	EncodeBool(b bool) error

	// EncodeInt8 writes a single byte
	EncodeInt8(i int8) error

	// EncodeUint8 writes a single byte
	EncodeUint8(i uint8) error

	// EncodeInt16 writes 2 bytes in the encoder's byte order
	EncodeInt16(i int16) error

	// EncodeUint16 writes 2 bytes in the encoder's byte order
	EncodeUint16(i uint16) error

	// EncodeInt32 writes 4 bytes in the encoder's byte order
	EncodeInt32(i int32) error

	// EncodeUint32 writes 4 bytes in the encoder's byte order
	EncodeUint32(i uint32) error

	// EncodeInt64 writes 8 bytes in the encoder's byte order
	EncodeInt64(i int64) error

	// EncodeUint64 writes 8 bytes in the encoder's byte order
	EncodeUint64(i uint64) error

	// EncodeInt128 writes 16 bytes in the encoder's byte order
	EncodeInt128(i I128) error

	// EncodeUint128 writes 16 bytes in the encoder's byte order
	EncodeUint128(i U128) error

	// EncodeFloat32 writes the 4 IEEE-754 bytes in the encoder's byte order
	EncodeFloat32(f float32) error

	// EncodeFloat64 writes the 8 IEEE-754 bytes in the encoder's byte order
	EncodeFloat64(f float64) error

	// EncodeChar writes the UTF-8 byte sequence (1-4 bytes) for the scalar
	EncodeChar(c rune) error

	// EncodeString writes the raw bytes of the string, with no length prefix
	// or terminator
	EncodeString(s string) error

	// EncodeBytes writes the bytes of the slice as-is
	EncodeBytes(b []byte) error

	// Encode writes an object to the pod encoder
	Encode(o interface{}) error

	// EncodeValue encodes an object to the pod encoder (via reflection)
	EncodeValue(v reflect.Value) error
}

// interface Decoder is the interface to the pod decoder
//
// There is deliberately no DecodeBool: an undifferentiated byte cannot be told
// apart from any other single-byte field, so decoding booleans is categorically
// unsupported. The same holds for optionals, enumerations, maps and untyped
// values at the reflection level.
type Decoder interface {
	DecodeInt8() (int8, error)
	DecodeUint8() (uint8, error)
	DecodeInt16() (int16, error)
	DecodeUint16() (uint16, error)
	DecodeInt32() (int32, error)
	DecodeUint32() (uint32, error)
	DecodeInt64() (int64, error)
	DecodeUint64() (uint64, error)
	DecodeInt128() (I128, error)
	DecodeUint128() (U128, error)

	// DecodeFloat32 reads a single precision floating point number from the decoder
	DecodeFloat32() (float32, error)

	// DecodeFloat64 reads a double precision floating point number from the decoder
	DecodeFloat64() (float64, error)

	// DecodeChar reads one UTF-8 encoded scalar (1-4 bytes) from the decoder.
	// Malformed sequences return an encoding error
	DecodeChar() (rune, error)

	// DecodeString reads all remaining bytes from the source and validates them
	// as UTF-8. There is no length field to bound the read, so a string is only
	// decodable as the last item of a source (or from a source pre-sliced to the
	// string's extent by the caller)
	DecodeString() (string, error)

	// DecodeBytes reads all remaining bytes from the source, unvalidated
	DecodeBytes() ([]byte, error)

	// DecodeFixedBytes fills buf from the source, failing with an I/O error
	// if fewer than len(buf) bytes remain
	DecodeFixedBytes(buf []byte) error

	// More reports whether the source has any bytes left, without consuming
	// any. It is how unknown-length sequences detect their end
	More() (bool, error)

	// Decode reads an object from the stream into *op.
	Decode(op interface{}) error

	// DecodeValue reads an object from the stream
	// v must be a settable value (v.CanSet() is true)
	DecodeValue(v reflect.Value) error
}
