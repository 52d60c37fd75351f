// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package pod implements encoding and decoding of a minimal "plain old data"
// binary format: values are laid out as their raw bytes, one after another,
// with no framing, field tags, lengths or padding of any kind. The only
// parameter is the byte order, which every function in this package takes
// explicitly (pod.BE or pod.LE).
//
// The Encoder/Decoder types in this package offer low level marshalling
// functions, but in most cases you will wish to use the higher level functions
// based upon reflection.
//
// The mapping from Go types to the wire is:
//
//                        Go | wire
//     ----------------------+------------------------------------------
//                      bool | 1 byte (0 or 1); not decodable
//       int8/uint8 (byte)   | 1 byte
//           int16/uint16    | 2 bytes in the coder's byte order
//           int32/uint32    | 4 bytes in the coder's byte order
//           int64/uint64    | 8 bytes in the coder's byte order
//          pod.I128/pod.U128| 16 bytes in the coder's byte order
//           float32/float64 | 4/8 IEEE-754 bytes in the coder's byte order
//     complex64/complex128  | real part then imaginary part
//                  pod.Char | 1-4 UTF-8 bytes
//                    string | its UTF-8 bytes, unterminated
//                    []byte | its bytes, as-is
//                  [N]byte  | N bytes
//                      [N]T | N elements back to back
//                       []T | the elements back to back, uncounted
//                  map[K]V  | key value pairs back to back; not decodable
//                        *T | T (Go pointers are transparent)
//                  struct{} | nothing
//             struct{ ... } | the fields in declaration order
//
// Because nothing on the wire delimits or describes the values, the format is
// asymmetric: everything above encodes, but some shapes cannot be read back.
// A lone encoded bool is just a byte; an absent optional is nothing at all; a
// map carries no entry count. Decoding any of these fails with an error
// matching ErrUnsupported. The shapes which do decode relearn their extent
// from the Go type: fixed width numbers read their exact width, arrays and
// structs read exactly their elements and fields, and strings, byte slices
// and other slices consume the remainder of the source. A consequence of the
// last rule is that such a value can only sit at the end of whatever it is
// decoded from.
//
// Additional control is provided using the `pod:"..."` struct tag. Some
// structure field definitions contain multiple layers of types: the type *T
// can be considered as having two layers (ptr T), while *[]T has three
// (ptr slice T). Tags are therefore applied hierarchically: tags separated by
// forward slashes and specified left to right apply in turn from the outer to
// the inner type. If it is necessary to skip a level, that level should be
// left empty.
//
// Defined tags:
//
//     `-`
//         Must comprise the entirety of the tag; indicates that the field is
//         to be skipped from (un)marshalling
//
//     `opt`
//         Applied to a pointer or interface type: when encoding, nil writes
//         nothing at all and a present value is written bare. With nothing to
//         mark presence, optional fields cannot be decoded
//
//     `char`
//         Applied to a rune (int32) type: the value is a single Unicode
//         scalar, written as its 1-4 UTF-8 bytes rather than as a fixed
//         width integer. The pod.Char type carries the same meaning without
//         needing a tag
//
// Go does not provide a direct analogue for a discriminated variant type.
// Instead, define a struct where the fields are annotated with union tags:
//
//     type Shape struct {
//         Kind   uint32  `pod:"union:switch"`
//         Circle float64 `pod:"union:0"`
//         Rect   [2]float64 `pod:"union:1"`
//     }
//
//     `union:switch`
//          Specifies that the enclosing structure is a union, and that this
//          field is the switch. The field must be of an integral or bool type.
//
//          Must be specified on the first field within the struct which is not
//          skipped using `-`. If specified, every field must have a case tag
//
//     `union:A,B,C`, `union:true`, `union:false`, `union:default`
//          Specifies which case(s) this field corresponds to. A/B/C must be
//          numeric values (unfortunately constants are not supported). `true`
//          and `false` may be used instead for boolean switch fields.
//          `default` specifies this is the default case
//
// Only the selected arm's payload is written: the switch field itself never
// reaches the wire. A switch value with no matching arm and no default is a
// valid unit arm which writes nothing. As the reader has no discriminant to
// go by, unions cannot be decoded.
//
// Union tags bind to the enclosing structure type; in this regard, they are a
// special case. They may be followed by type-related specifiers like normal.
//
// You can specify custom behaviour for your type using the Marshaler
// interface. If implemented, it replaces the default behaviour. You can
// override behaviour for third party types by implementing and registering a
// Codec; see the documentation for that type and the Coder with which they
// are registered.
//
// To avoid confusion and conflicts between different packages, it is not
// possible to register new codecs with the per-byte-order default Coders.
package pod

import podinterfaces "go.e43.eu/pod/interfaces"

// interface Coder is the top-level interface to the pod library
//
// A coder (which may be safely used from multiple threads) provides the
// ability to marshal objects to and from raw bytes in the byte order it was
// constructed with. It also contains a repository of Codecs which know how
// to marshal various types
type Coder = podinterfaces.Coder

// interface Encoder is the interface to the pod encoder
type Encoder = podinterfaces.Encoder

// interface Decoder is the interface to the pod decoder
type Decoder = podinterfaces.Decoder

// interface Codec describes the marshalling of a single type; see the
// interfaces package
type Codec = podinterfaces.Codec

// interface Marshaler is implemented by types which marshal themselves
type Marshaler = podinterfaces.Marshaler

// ByteOrder selects the layout of multi-byte numbers. It extends the standard
// binary.ByteOrder with 128-bit access
type ByteOrder = podinterfaces.ByteOrder

// Char is a single Unicode scalar, written as 1-4 UTF-8 bytes
type Char = podinterfaces.Char

// U128 and I128 are 128-bit integers, written as single 16 byte numbers
type U128 = podinterfaces.U128
type I128 = podinterfaces.I128

// The two byte orders
var (
	BE ByteOrder = podinterfaces.BE
	LE ByteOrder = podinterfaces.LE
)
