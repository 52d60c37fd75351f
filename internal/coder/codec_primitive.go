// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"

	podinterfaces "go.e43.eu/pod/interfaces"
	"go.e43.eu/pod/internal/errors"
)

// boolCodec handles booleans. Encoding writes a single 0 or 1 byte; decoding
// is unsupported, since that byte is indistinguishable from any other byte on
// the wire
type boolCodec struct{}

var boolCodecI xCodec = boolCodec{}

func (_ boolCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeBool(v.Bool())
}

func (_ boolCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	return errors.UnsupportedError{Op: "bool"}
}

// [u]intNCodec handle the fixed width integers
type int8Codec struct{}
type int16Codec struct{}
type int32Codec struct{}
type int64Codec struct{}
type uint8Codec struct{}
type uint16Codec struct{}
type uint32Codec struct{}
type uint64Codec struct{}

var (
	int8CodecI   xCodec = int8Codec{}
	int16CodecI  xCodec = int16Codec{}
	int32CodecI  xCodec = int32Codec{}
	int64CodecI  xCodec = int64Codec{}
	uint8CodecI  xCodec = uint8Codec{}
	uint16CodecI xCodec = uint16Codec{}
	uint32CodecI xCodec = uint32Codec{}
	uint64CodecI xCodec = uint64Codec{}
)

func (_ int8Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeInt8(int8(v.Int()))
}

func (_ int8Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	i, err := d.DecodeInt8()
	v.SetInt(int64(i))
	return err
}

func (_ int16Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeInt16(int16(v.Int()))
}

func (_ int16Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	i, err := d.DecodeInt16()
	v.SetInt(int64(i))
	return err
}

func (_ int32Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeInt32(int32(v.Int()))
}

func (_ int32Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	i, err := d.DecodeInt32()
	v.SetInt(int64(i))
	return err
}

func (_ int64Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeInt64(v.Int())
}

func (_ int64Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	i, err := d.DecodeInt64()
	v.SetInt(i)
	return err
}

func (_ uint8Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeUint8(uint8(v.Uint()))
}

func (_ uint8Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	u, err := d.DecodeUint8()
	v.SetUint(uint64(u))
	return err
}

func (_ uint16Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeUint16(uint16(v.Uint()))
}

func (_ uint16Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	u, err := d.DecodeUint16()
	v.SetUint(uint64(u))
	return err
}

func (_ uint32Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeUint32(uint32(v.Uint()))
}

func (_ uint32Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	u, err := d.DecodeUint32()
	v.SetUint(uint64(u))
	return err
}

func (_ uint64Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeUint64(v.Uint())
}

func (_ uint64Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	u, err := d.DecodeUint64()
	v.SetUint(u)
	return err
}

// [u]int128Codec handle the 128 bit integers. Their types are structs of two
// halves but the wire form is one 16 byte number
type int128Codec struct{}
type uint128Codec struct{}

var (
	int128CodecI  xCodec = int128Codec{}
	uint128CodecI xCodec = uint128Codec{}
)

func (_ int128Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeInt128(podinterfaces.I128{Hi: v.Field(0).Int(), Lo: v.Field(1).Uint()})
}

func (_ int128Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	i, err := d.DecodeInt128()
	v.Field(0).SetInt(i.Hi)
	v.Field(1).SetUint(i.Lo)
	return err
}

func (_ uint128Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeUint128(podinterfaces.U128{Hi: v.Field(0).Uint(), Lo: v.Field(1).Uint()})
}

func (_ uint128Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	u, err := d.DecodeUint128()
	v.Field(0).SetUint(u.Hi)
	v.Field(1).SetUint(u.Lo)
	return err
}

// float[32/64]Codec handle floats
type float32Codec struct{}
type float64Codec struct{}

var (
	float32CodecI xCodec = float32Codec{}
	float64CodecI xCodec = float64Codec{}
)

func (_ float32Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeFloat32(float32(v.Float()))
}

func (_ float32Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	f, err := d.DecodeFloat32()
	v.SetFloat(float64(f))
	return err
}

func (_ float64Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeFloat64(v.Float())
}

func (_ float64Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	f, err := d.DecodeFloat64()
	v.SetFloat(f)
	return err
}

// complex[64/128]Codec encode a complex number as its real then imaginary part
type complex64Codec struct{}
type complex128Codec struct{}

var (
	complex64CodecI  xCodec = complex64Codec{}
	complex128CodecI xCodec = complex128Codec{}
)

func (_ complex64Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	c := v.Complex()
	if err := e.EncodeFloat32(float32(real(c))); err != nil {
		return err
	}
	return e.EncodeFloat32(float32(imag(c)))
}

func (_ complex64Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	re, err := d.DecodeFloat32()
	if err != nil {
		return err
	}
	im, err := d.DecodeFloat32()
	v.SetComplex(complex(float64(re), float64(im)))
	return err
}

func (_ complex128Codec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	c := v.Complex()
	if err := e.EncodeFloat64(real(c)); err != nil {
		return err
	}
	return e.EncodeFloat64(imag(c))
}

func (_ complex128Codec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	re, err := d.DecodeFloat64()
	if err != nil {
		return err
	}
	im, err := d.DecodeFloat64()
	v.SetComplex(complex(re, im))
	return err
}
