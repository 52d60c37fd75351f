// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"

	podinterfaces "go.e43.eu/pod/interfaces"
	"go.e43.eu/pod/internal/errors"
	"go.e43.eu/pod/internal/tags"
)

// optCodec handles optional values (which must be pointerlike in Go). A
// present value is written bare and an absent one writes nothing at all,
// which leaves nothing to tell the two apart by on the wire: optionals
// encode but do not decode
type optCodec struct {
	elem xCodec
}

func makeOptCodec(cr *Coder, t reflect.Type, tag tags.Tag) xCodec {
	// Strip the Opt and replace it with tags.Noop
	tag = tag.Next().Prepend(tags.Noop).Trimmed()

	return &optCodec{
		elem: cr.getCodec(t, tag),
	}
}

func (c *optCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return c.elem.Encode(e, v)
}

func (c *optCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	return errors.UnsupportedError{Op: "option"}
}

// ptrCodec handles pointers, which are transparent: the pointee is written
// bare. Nil pointers cannot be encoded
type ptrCodec struct {
	elem  xCodec
	elemt reflect.Type
}

func makePtrCodec(cr *Coder, t reflect.Type, tag tags.Tag) xCodec {
	elemt := t.Elem()
	c := cr.getCodec(elemt, tag.Next())
	return &ptrCodec{
		elem:  c,
		elemt: elemt,
	}
}

func (pc *ptrCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	if v.IsNil() {
		return errors.ErrNilPointer
	}
	return pc.elem.Encode(e, v.Elem())
}

func (pc *ptrCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	v.Set(reflect.New(pc.elemt))
	return pc.elem.Decode(d, v.Elem())
}
