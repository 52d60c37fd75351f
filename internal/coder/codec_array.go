// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"
	"sync"

	podinterfaces "go.e43.eu/pod/interfaces"
	"go.e43.eu/pod/internal/errors"
	"go.e43.eu/pod/internal/tags"
)

func newForT(t reflect.Type) func() interface{} {
	return func() interface{} {
		return reflect.New(t)
	}
}

// byteArrayCodec handles [N]byte, read and written as one block
type byteArrayCodec struct {
	bufs sync.Pool
	len  int
}

var _ xCodec = &byteArrayCodec{}

// arrayCodec handles fixed length arrays of anything else, element by element
type arrayCodec struct {
	elem xCodec
	len  int
}

func makeArrayCodec(cr *Coder, t reflect.Type, tag tags.Tag) podinterfaces.Codec {
	switch {
	case tag.Kind() != tags.Noop:
		return &errorCodec{errors.InvalidTagForTypeError{T: t, Tag: tag}}
	case t.Elem().Kind() == reflect.Uint8 && tag.Next().Empty():
		c := new(byteArrayCodec)
		c.bufs.New = newForT(t)
		c.len = t.Len()
		return c
	default:
		return &arrayCodec{
			elem: cr.getCodec(t.Elem(), tag.Next()),
			len:  t.Len(),
		}
	}
}

func (c *byteArrayCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	// If the user passed in an on-the-stack struct, e.g.
	// e.Encode(struct{v [4]byte}{}), then v.CanAddr() may be false
	// which means we cannot slice it.
	//
	// In that scenario, we can either
	//   (1) Copy byte-by-byte, using v.Index(i) each time, or
	//   (2) Copy the data into a temporary buffer on the heap
	// We choose to do (2):
	//   * In cases where the buffer is small, the memory overhead is
	//     likely to be low
	//   * In cases where the buffer is large, the overhead of going
	//     byte-by-byte through the value is likely to be considerable
	//
	// We amortise any allocation overhead if we hit this frequently by
	// storing these temporary buffers in a sync.Pool.
	//
	// We can't hit this case on decode because Decode must always be
	// passed a pointer
	if !v.CanAddr() {
		p := c.bufs.Get().(reflect.Value)
		defer c.bufs.Put(p)

		e := p.Elem()
		e.Set(v)
		v = e
	}

	s := v.Slice(0, v.Len()).Bytes()
	return e.EncodeBytes(s)
}

func (c *byteArrayCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	s := v.Slice(0, v.Len()).Bytes()
	return d.DecodeFixedBytes(s)
}

func (c *arrayCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	for i, l := 0, v.Len(); i < l; i++ {
		if err := c.elem.Encode(e, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *arrayCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	for i, l := 0, v.Len(); i < l; i++ {
		if err := c.elem.Decode(d, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// bytesCodec handles []byte: written as-is, decoded by consuming the
// remainder of the source
type bytesCodec struct{}

var bytesCodecI xCodec = bytesCodec{}

// sliceCodec handles slices of anything else. There is no length prefix:
// elements are written back to back, and decoding consumes elements until
// the source is exhausted
type sliceCodec struct {
	elem xCodec
	t    reflect.Type
	et   reflect.Type
}

func makeSliceCodec(cr *Coder, t reflect.Type, tag tags.Tag) podinterfaces.Codec {
	if tag.Kind() != tags.Noop {
		return &errorCodec{errors.InvalidTagForTypeError{T: t, Tag: tag}}
	}

	if t.Elem().Kind() == reflect.Uint8 && tag.Next().Empty() {
		return bytesCodecI
	}

	return &sliceCodec{
		elem: cr.getCodec(t.Elem(), tag.Next()),
		t:    t,
		et:   t.Elem(),
	}
}

func (_ bytesCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return e.EncodeBytes(v.Bytes())
}

func (_ bytesCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	s, err := d.DecodeBytes()
	if err != nil {
		return err
	}
	v.SetBytes(s)
	return nil
}

func (c *sliceCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	for i, l := 0, v.Len(); i < l; i++ {
		if err := c.elem.Encode(e, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *sliceCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	var sl reflect.Value

	for {
		more, err := d.More()
		if err != nil {
			return err
		}
		if !more {
			break
		}

		if !sl.IsValid() {
			sl = reflect.MakeSlice(c.t, 0, 4)
		}

		ev := reflect.New(c.et).Elem()
		if err := c.elem.Decode(d, ev); err != nil {
			return err
		}
		sl = reflect.Append(sl, ev)
	}

	if !sl.IsValid() {
		// Tiny optimisation: Skip allocating zero-length slices
		sl = reflect.Zero(c.t)
	}
	v.Set(sl)
	return nil
}
