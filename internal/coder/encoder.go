// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"bytes"
	"io"
	"math"
	"reflect"
	"sync"
	"unicode/utf8"

	podinterfaces "go.e43.eu/pod/interfaces"
)

var encoderPool = sync.Pool{
	New: func() interface{} {
		return &encoder{}
	},
}

type encoder struct {
	cr *Coder
	bo podinterfaces.ByteOrder
	w  io.Writer

	// ws is w if w implements io.StringWriter, else nil
	ws io.StringWriter

	// Small cache of codecs. Since most of the time we are encoding
	// streams of identical objects, this is a huge win
	codecCache [4]struct {
		typ   reflect.Type
		codec xCodec
	}
	nextCacheSlot int

	scratch [16]byte
}

func (e *encoder) reset(cr *Coder, w io.Writer) {
	e.w = w
	e.ws, _ = w.(io.StringWriter)

	// The codec cache is only valid for the coder which populated it: a
	// pooled encoder may be reused by a different coder with different
	// registered codecs
	if e.cr != cr {
		for i := range e.codecCache {
			e.codecCache[i].typ = nil
			e.codecCache[i].codec = nil
		}
	}

	e.cr = cr
	e.bo = cr.order
}

func (e *encoder) release() {
	e.w = nil
	e.ws = nil
	encoderPool.Put(e)
}

func (e *encoder) cachedCodec(t reflect.Type) xCodec {
	for _, ent := range e.codecCache {
		if ent.typ == t {
			return ent.codec
		}
	}

	c := e.cr.getBaseCodec(t)
	slot := e.nextCacheSlot
	e.codecCache[slot].typ = t
	e.codecCache[slot].codec = c
	e.nextCacheSlot = (slot + 1) % len(e.codecCache)
	return c
}

func (e *encoder) EncodeBool(b bool) error {
	if b {
		e.scratch[0] = 1
	} else {
		e.scratch[0] = 0
	}
	_, err := e.w.Write(e.scratch[0:1])
	return err
}

func (e *encoder) EncodeInt8(i int8) error {
	return e.EncodeUint8(uint8(i))
}

func (e *encoder) EncodeUint8(u uint8) error {
	e.scratch[0] = u
	_, err := e.w.Write(e.scratch[0:1])
	return err
}

func (e *encoder) EncodeInt16(i int16) error {
	return e.EncodeUint16(uint16(i))
}

func (e *encoder) EncodeUint16(u uint16) error {
	e.bo.PutUint16(e.scratch[0:2], u)
	_, err := e.w.Write(e.scratch[0:2])
	return err
}

func (e *encoder) EncodeInt32(i int32) error {
	return e.EncodeUint32(uint32(i))
}

func (e *encoder) EncodeUint32(u uint32) error {
	e.bo.PutUint32(e.scratch[0:4], u)
	_, err := e.w.Write(e.scratch[0:4])
	return err
}

func (e *encoder) EncodeInt64(i int64) error {
	return e.EncodeUint64(uint64(i))
}

func (e *encoder) EncodeUint64(u uint64) error {
	e.bo.PutUint64(e.scratch[0:8], u)
	_, err := e.w.Write(e.scratch[0:8])
	return err
}

func (e *encoder) EncodeInt128(i podinterfaces.I128) error {
	return e.EncodeUint128(podinterfaces.U128{Hi: uint64(i.Hi), Lo: i.Lo})
}

func (e *encoder) EncodeUint128(u podinterfaces.U128) error {
	e.bo.PutUint128(e.scratch[0:16], u)
	_, err := e.w.Write(e.scratch[0:16])
	return err
}

func (e *encoder) EncodeFloat32(f float32) error {
	return e.EncodeUint32(math.Float32bits(f))
}

func (e *encoder) EncodeFloat64(f float64) error {
	return e.EncodeUint64(math.Float64bits(f))
}

func (e *encoder) EncodeChar(c rune) error {
	n := utf8.EncodeRune(e.scratch[0:4], c)
	_, err := e.w.Write(e.scratch[0:n])
	return err
}

func (e *encoder) EncodeString(s string) error {
	var err error
	if e.ws != nil {
		_, err = e.ws.WriteString(s)
	} else {
		_, err = e.w.Write([]byte(s))
	}
	return err
}

func (e *encoder) EncodeBytes(buf []byte) error {
	_, err := e.w.Write(buf)
	return err
}

func (e *encoder) Encode(o interface{}) error {
	v := reflect.ValueOf(o)
	t := v.Type()
	c := e.cachedCodec(t)
	return c.Encode(e, v)
}

func (e *encoder) EncodeValue(v reflect.Value) error {
	c := e.cachedCodec(v.Type())
	return c.Encode(e, v)
}

var marshalEncoderPool = sync.Pool{
	New: func() interface{} {
		me := &marshalEncoder{}
		me.encoder.w = &me.b
		me.encoder.ws = &me.b
		return me
	},
}

// marshalEncoder is an encoder writing into an owned buffer, used to
// implement Marshal without a separate allocation for the buffer
type marshalEncoder struct {
	encoder
	b bytes.Buffer
}

func (me *marshalEncoder) reset(cr *Coder) {
	if me.cr != cr {
		for i := range me.codecCache {
			me.codecCache[i].typ = nil
			me.codecCache[i].codec = nil
		}
	}

	me.cr = cr
	me.bo = cr.order
	me.b.Reset()
}

func (me *marshalEncoder) release() {
	marshalEncoderPool.Put(me)
}

var _ podinterfaces.Encoder = (*encoder)(nil)
