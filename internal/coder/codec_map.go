// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"

	podinterfaces "go.e43.eu/pod/interfaces"
	"go.e43.eu/pod/internal/errors"
	"go.e43.eu/pod/internal/tags"
)

// mapCodec handles maps. Entries are written as alternating key and value,
// in iteration order, with no count. With no count and no way to know where
// a key ends and a value begins, maps cannot be decoded
type mapCodec struct {
	keyCodec   xCodec
	valueCodec xCodec
}

func makeMapCodec(cr *Coder, t reflect.Type, tag tags.Tag) podinterfaces.Codec {
	if tag.Kind() != tags.Noop {
		return &errorCodec{errors.InvalidTagForTypeError{T: t, Tag: tag}}
	}

	return &mapCodec{
		keyCodec:   cr.getCodec(t.Key(), nil),
		valueCodec: cr.getCodec(t.Elem(), tag.Next()),
	}
}

func (c *mapCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	iter := v.MapRange()
	for iter.Next() {
		if err := c.keyCodec.Encode(e, iter.Key()); err != nil {
			return err
		}

		if err := c.valueCodec.Encode(e, iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func (c *mapCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	return errors.UnsupportedError{Op: "map"}
}
