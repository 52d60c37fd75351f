// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"bufio"
	"io"
	"io/ioutil"
	"math"
	"reflect"
	"sync"
	"unicode/utf8"

	podinterfaces "go.e43.eu/pod/interfaces"
	"go.e43.eu/pod/internal/errors"
)

var decoderPool = sync.Pool{
	New: func() interface{} {
		return &decoder{own: bufio.NewReader(nil)}
	},
}

type decoder struct {
	cr *Coder
	bo podinterfaces.ByteOrder

	// r is the reader decoded from. It is always buffered: buffering is what
	// lets More peek ahead without consuming input
	r *bufio.Reader

	// own wraps the caller's reader when it is not already a *bufio.Reader
	own *bufio.Reader

	// Small cache of codecs, as per encoder
	codecCache [4]struct {
		typ   reflect.Type
		codec xCodec
	}
	nextCacheSlot int

	scratch [16]byte
}

func (d *decoder) reset(cr *Coder, r io.Reader) {
	// As per encoder: the codec cache is only valid for the coder which
	// populated it
	if d.cr != cr {
		for i := range d.codecCache {
			d.codecCache[i].typ = nil
			d.codecCache[i].codec = nil
		}
	}

	d.cr = cr
	d.bo = cr.order
	if br, ok := r.(*bufio.Reader); ok {
		d.r = br
	} else {
		d.own.Reset(r)
		d.r = d.own
	}
}

func (d *decoder) release() {
	d.r = nil
	d.own.Reset(nil)
	decoderPool.Put(d)
}

func (d *decoder) cachedCodec(t reflect.Type) xCodec {
	for _, ent := range d.codecCache {
		if ent.typ == t {
			return ent.codec
		}
	}

	c := d.cr.getBaseCodec(t)
	slot := d.nextCacheSlot
	d.codecCache[slot].typ = t
	d.codecCache[slot].codec = c
	d.nextCacheSlot = (slot + 1) % len(d.codecCache)
	return c
}

func (d *decoder) readFull(buf []byte) error {
	_, err := io.ReadFull(d.r, buf)
	return err
}

func (d *decoder) DecodeInt8() (int8, error) {
	b, err := d.r.ReadByte()
	return int8(b), err
}

func (d *decoder) DecodeUint8() (uint8, error) {
	return d.r.ReadByte()
}

func (d *decoder) DecodeInt16() (int16, error) {
	u, err := d.DecodeUint16()
	return int16(u), err
}

func (d *decoder) DecodeUint16() (uint16, error) {
	err := d.readFull(d.scratch[0:2])
	return d.bo.Uint16(d.scratch[0:2]), err
}

func (d *decoder) DecodeInt32() (int32, error) {
	u, err := d.DecodeUint32()
	return int32(u), err
}

func (d *decoder) DecodeUint32() (uint32, error) {
	err := d.readFull(d.scratch[0:4])
	return d.bo.Uint32(d.scratch[0:4]), err
}

func (d *decoder) DecodeInt64() (int64, error) {
	u, err := d.DecodeUint64()
	return int64(u), err
}

func (d *decoder) DecodeUint64() (uint64, error) {
	err := d.readFull(d.scratch[0:8])
	return d.bo.Uint64(d.scratch[0:8]), err
}

func (d *decoder) DecodeInt128() (podinterfaces.I128, error) {
	u, err := d.DecodeUint128()
	return podinterfaces.I128{Hi: int64(u.Hi), Lo: u.Lo}, err
}

func (d *decoder) DecodeUint128() (podinterfaces.U128, error) {
	err := d.readFull(d.scratch[0:16])
	return d.bo.Uint128(d.scratch[0:16]), err
}

func (d *decoder) DecodeFloat32() (float32, error) {
	u, err := d.DecodeUint32()
	return math.Float32frombits(u), err
}

func (d *decoder) DecodeFloat64() (float64, error) {
	u, err := d.DecodeUint64()
	return math.Float64frombits(u), err
}

// utf8CharWidth maps a UTF-8 leading byte to the total length of the
// sequence it starts. Continuation bytes and the invalid lead bytes
// 0xC0, 0xC1 and 0xF5-0xFF map to 0: those become one byte decode
// attempts which then fail validation.
var utf8CharWidth = [256]byte{
	// 0x00-0x7F
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	// 0x80-0xBF
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	// 0xC0-0xDF
	0, 0, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	// 0xE0-0xEF
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	// 0xF0-0xFF
	4, 4, 4, 4, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

func (d *decoder) DecodeChar() (rune, error) {
	b0, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}

	if b0 < utf8.RuneSelf {
		return rune(b0), nil
	}

	width := int(utf8CharWidth[b0])
	if width == 0 {
		width = 1
	}

	buf := d.scratch[0:width]
	buf[0] = b0
	if err := d.readFull(buf[1:]); err != nil {
		return 0, err
	}

	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		return 0, errors.ErrInvalidUTF8
	}
	return r, nil
}

func (d *decoder) DecodeString() (string, error) {
	buf, err := ioutil.ReadAll(d.r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", errors.ErrInvalidUTF8
	}
	return string(buf), nil
}

func (d *decoder) DecodeBytes() ([]byte, error) {
	return ioutil.ReadAll(d.r)
}

func (d *decoder) DecodeFixedBytes(buf []byte) error {
	return d.readFull(buf)
}

func (d *decoder) More() (bool, error) {
	_, err := d.r.Peek(1)
	switch err {
	case nil:
		return true, nil
	case io.EOF:
		return false, nil
	default:
		return false, err
	}
}

func (d *decoder) Decode(op interface{}) error {
	v := reflect.ValueOf(op)
	t := v.Type()
	if t.Kind() != reflect.Ptr {
		return errors.ErrNotPointer
	}
	if v.IsNil() {
		return errors.ErrNilPointer
	}

	v = v.Elem()
	c := d.cachedCodec(v.Type())
	return c.Decode(d, v)
}

func (d *decoder) DecodeValue(v reflect.Value) error {
	c := d.cachedCodec(v.Type())
	return c.Decode(d, v)
}

var _ podinterfaces.Decoder = (*decoder)(nil)
