// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package pod

import (
	"io"
	"reflect"

	podinterfaces "go.e43.eu/pod/interfaces"
	"go.e43.eu/pod/internal/coder"
)

type defaultCoder struct {
	*coder.Coder
}

func (d defaultCoder) RegisterCodec(template interface{}, c podinterfaces.Codec) {
	panic("Cannot register type on default coder")
}

func (d defaultCoder) RegisterCodecReflect(type_ reflect.Type, c podinterfaces.Codec) {
	panic("Cannot register type on default coder")
}

// The default coders, one per byte order (used by the package global
// functions)
//
// These behave identically to coders created using NewCoder, except that it
// is not permitted to register any codecs upon them.
var (
	BECoder Coder = defaultCoder{coder.NewCoder(podinterfaces.BE)}
	LECoder Coder = defaultCoder{coder.NewCoder(podinterfaces.LE)}
)

func coderFor(order ByteOrder) Coder {
	switch order {
	case podinterfaces.BE:
		return BECoder
	case podinterfaces.LE:
		return LECoder
	default:
		return coder.NewCoder(order)
	}
}

// Marshals o into the returned buffer
func Marshal(order ByteOrder, o interface{}) ([]byte, error) {
	return coderFor(order).Marshal(o)
}

// Unmarshals buf into the object pointed to by op
func Unmarshal(order ByteOrder, buf []byte, op interface{}) error {
	return coderFor(order).Unmarshal(buf, op)
}

// Write marshals o into the passed writer
func Write(order ByteOrder, w io.Writer, o interface{}) error {
	return coderFor(order).Write(w, o)
}

// Read unmarshals *op out of the passed reader
func Read(order ByteOrder, r io.Reader, op interface{}) error {
	return coderFor(order).Read(r, op)
}

// Constructs a new encoder which writes to w
func NewEncoder(order ByteOrder, w io.Writer) Encoder {
	return coderFor(order).NewEncoder(w)
}

// Constructs a new decoder which reads from r
func NewDecoder(order ByteOrder, r io.Reader) Decoder {
	return coderFor(order).NewDecoder(r)
}

// Construct a new Coder using the given byte order
func NewCoder(order ByteOrder) Coder {
	return coder.NewCoder(order)
}
