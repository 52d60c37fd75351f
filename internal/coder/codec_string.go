// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"

	podinterfaces "go.e43.eu/pod/interfaces"
)

// stringCodec handles strings. There is no length prefix: a string is just its
// UTF-8 bytes, and so decoding consumes the remainder of the source
type stringCodec struct{}

var stringCodecI xCodec = stringCodec{}

func (_ stringCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeString(v.String())
}

func (_ stringCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	s, err := d.DecodeString()
	if err != nil {
		return err
	}
	v.SetString(s)
	return nil
}

// charCodec handles single Unicode scalars, written as their UTF-8 sequence
type charCodec struct{}

var charCodecI xCodec = charCodec{}

func (_ charCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeChar(rune(v.Int()))
}

func (_ charCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	r, err := d.DecodeChar()
	if err != nil {
		return err
	}
	v.SetInt(int64(r))
	return nil
}
