// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package podinterfaces

import "encoding/binary"

// interface ByteOrder is the byte order policy applied to every multi-byte
// number in one encode or decode call. It extends the standard library's
// binary.ByteOrder with 128-bit accessors.
//
// Exactly two policies exist, BE and LE; one is chosen per Coder and cannot
// vary field-by-field within a call. Single-byte values bypass the policy.
type ByteOrder interface {
	binary.ByteOrder

	// Uint128 reads a 128-bit number from the first 16 bytes of b
	Uint128(b []byte) U128

	// PutUint128 writes a 128-bit number into the first 16 bytes of b
	PutUint128(b []byte, v U128)
}

// The two byte order policies. Both are stateless and may be shared freely.
var (
	BE ByteOrder = bigEndian{binary.BigEndian}
	LE ByteOrder = littleEndian{binary.LittleEndian}
)

type bigEndian struct {
	binary.ByteOrder
}

func (o bigEndian) Uint128(b []byte) U128 {
	_ = b[15] // bounds check hint
	return U128{Hi: o.Uint64(b[0:8]), Lo: o.Uint64(b[8:16])}
}

func (o bigEndian) PutUint128(b []byte, v U128) {
	_ = b[15]
	o.PutUint64(b[0:8], v.Hi)
	o.PutUint64(b[8:16], v.Lo)
}

type littleEndian struct {
	binary.ByteOrder
}

func (o littleEndian) Uint128(b []byte) U128 {
	_ = b[15]
	return U128{Hi: o.Uint64(b[8:16]), Lo: o.Uint64(b[0:8])}
}

func (o littleEndian) PutUint128(b []byte, v U128) {
	_ = b[15]
	o.PutUint64(b[0:8], v.Lo)
	o.PutUint64(b[8:16], v.Hi)
}
