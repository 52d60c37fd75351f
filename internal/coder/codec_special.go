// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"
	"sync"
	"sync/atomic"

	podinterfaces "go.e43.eu/pod/interfaces"
)

// codec embedding a fixed, memoised error (generally
// indicating that a type can't be marshalled)
type errorCodec struct {
	err error
}

func (c *errorCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	return c.err
}

func (c *errorCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	return c.err
}

// placeholder codec for types under construction, to handle cycles
type deferredCodec struct {
	real atomic.Value // xCodec
	wg   sync.WaitGroup
}

var _ xCodec = &deferredCodec{}

func newDeferredCodec() *deferredCodec {
	dc := new(deferredCodec)
	dc.wg.Add(1)
	return dc
}

func (dc *deferredCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	real := dc.real.Load()
	if real == nil {
		dc.wg.Wait()
		real = dc.real.Load()
	}
	return real.(xCodec).Encode(e, v)
}

func (dc *deferredCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	real := dc.real.Load()
	if real == nil {
		dc.wg.Wait()
		real = dc.real.Load()
	}
	return real.(xCodec).Decode(d, v)
}

func (dc *deferredCodec) resolve(real xCodec) {
	dc.real.Store(real)
	dc.wg.Done()
}

// marshalerCodec handles types which know how to self marshal. The methods
// are looked up on the pointer type so that UnmarshalPOD may use a pointer
// receiver and mutate its target
type marshalerCodec struct {
	t reflect.Type
}

func (mc *marshalerCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	var m podinterfaces.Marshaler
	if v.CanAddr() {
		m = v.Addr().Interface().(podinterfaces.Marshaler)
	} else {
		p := reflect.New(mc.t)
		p.Elem().Set(v)
		m = p.Interface().(podinterfaces.Marshaler)
	}
	return m.MarshalPOD(e)
}

func (mc *marshalerCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	return v.Addr().Interface().(podinterfaces.Marshaler).UnmarshalPOD(d)
}
