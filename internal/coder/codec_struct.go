// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"fmt"
	"reflect"

	podinterfaces "go.e43.eu/pod/interfaces"
	"go.e43.eu/pod/internal/errors"
	"go.e43.eu/pod/internal/tags"
)

type field struct {
	index int
	codec xCodec
	name  string
}

func makeField(cr *Coder, f reflect.StructField, tag tags.Tag) field {
	if len(f.Index) != 1 {
		panic("Attempt to make field with index of depth >1")
	}

	return field{
		index: f.Index[0],
		codec: cr.getCodec(f.Type, tag),
		name:  f.Name,
	}
}

func (f *field) encode(e podinterfaces.Encoder, p reflect.Value) (reflect.Value, error) {
	v := p.Field(f.index)
	err := f.codec.Encode(e, v)
	return v, err
}

func (f *field) decode(d podinterfaces.Decoder, p reflect.Value) (reflect.Value, error) {
	v := p.Field(f.index)
	err := f.codec.Decode(d, v)
	return v, err
}

// structCodec writes the fields of a struct one after another, in declaration
// order, with nothing between them. A struct with no fields writes nothing
type structCodec struct {
	name   string
	fields []field
}

var _ xCodec = &structCodec{}

type switchKind byte

const (
	switchKindBool switchKind = iota
	switchKindInt
	switchKindUint
)

// unionCodec handles tagged unions. The switch field selects the arm but is
// never written: only the selected arm's payload goes on the wire, so the
// encoding is not self describing and unions cannot be decoded.
//
// A switch value with no matching arm and no default is a unit arm: it
// writes nothing.
type unionCodec struct {
	name        string
	switchIndex int
	switchName  string
	switchKind  switchKind
	bodyFields  []field
	cases       map[uint32]int
	defaultCase int
}

var _ xCodec = &unionCodec{}

func makeStructCodec(cr *Coder, t reflect.Type) podinterfaces.Codec {
	var (
		f   reflect.StructField
		tag tags.Tag
		err error
	)

	// Iterate until we figure out if we're a union or not
	isUnion := tags.MaybeInUnion
	i, fieldCount := 0, t.NumField()
	for ; i < fieldCount && isUnion == tags.MaybeInUnion; i++ {
		f = t.Field(i)
		tag, err = tags.ParseStructTag(f.Type, f.Tag, &isUnion)
		if err != nil {
			return &errorCodec{fmt.Errorf("Parsing tag of field '%s' of '%s': %v",
				f.Name, t, err)}
		}

		switch {
		case tag.Kind() == tags.Skip:
			continue
		case isUnion == tags.MaybeInUnion:
			// Should be unreachable
			panic("We found an unskipped field but somehow don't know if we're a union or not")
		}
	}

	switch isUnion {
	case tags.MaybeInUnion:
		// We never figured it out but also we didn't find any (unskipped) fields. This
		// is a degenerate empty case, so we'll just construct an empty struct codec
		return &structCodec{name: t.Name()}

	case tags.NotInUnion:
		// We're actually a struct
		c := &structCodec{
			name:   t.Name(),
			fields: make([]field, 0, fieldCount),
		}

		c.fields = append(c.fields, makeField(cr, f, tag))
		for ; i < fieldCount; i++ {
			f = t.Field(i)
			tag, err = tags.ParseStructTag(f.Type, f.Tag, &isUnion)
			if err != nil {
				return &errorCodec{fmt.Errorf("Parsing tag of field '%s' of '%s': %v",
					f.Name, t, err)}
			}

			if tag.Kind() == tags.Skip {
				continue
			}

			c.fields = append(c.fields, makeField(cr, f, tag))
		}

		return c

	case tags.InUnion:
		// We're actually a union, and f is our switch
		// Every following field is going to be prefixed by the UnionCases or UnionDefault tag
		if tag.Kind() != tags.UnionSwitch {
			// Shouldn't happen
			panic("First element of union not switch")
		}

		var switchKind switchKind
		switch f.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			switchKind = switchKindInt

		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
			switchKind = switchKindUint

		case reflect.Bool:
			switchKind = switchKindBool

		default:
			// Shouldn't happen - tag parsing should have validated legality
			panic("Switch field of union not valid (must be integral or bool)")
		}

		c := &unionCodec{
			name:        t.Name(),
			switchIndex: f.Index[0],
			switchName:  f.Name,
			switchKind:  switchKind,
			bodyFields:  make([]field, fieldCount),
			cases:       make(map[uint32]int, fieldCount-1),
			defaultCase: -1,
		}

		for ; i < fieldCount; i++ {
			f = t.Field(i)
			tag, err = tags.ParseStructTag(f.Type, f.Tag, &isUnion)
			if err != nil {
				return &errorCodec{fmt.Errorf("Parsing tag of field '%s' of '%s': %v",
					f.Name, t, err)}
			}

			if tag.Kind() == tags.Skip {
				continue
			}

			c.bodyFields[i] = makeField(cr, f, tag.Next())

			switch tag.Kind() {
			case tags.UnionCases:
				for j, e := tag.ValueRange(); j < e; j++ {
					v := tag.Value(j)
					if _, ok := c.cases[v]; ok {
						return &errorCodec{fmt.Errorf("Union value 0x%08x of %s duplicated", v, t)}
					}
					c.cases[v] = i
				}

			case tags.UnionDefault:
				if c.defaultCase != -1 {
					return &errorCodec{fmt.Errorf("Default case of %s duplicated", t)}
				}
				c.defaultCase = i
			}
		}

		return c

	default:
		panic("unreachable")
	}
}

func (c *structCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	for _, f := range c.fields {
		_, err := f.encode(e, v)
		if err != nil {
			return errors.WithFieldError(err, c.name, f.name)
		}
	}
	return nil
}

func (c *structCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	for _, f := range c.fields {
		_, err := f.decode(d, v)
		if err != nil {
			return errors.WithFieldError(err, c.name, f.name)
		}
	}
	return nil
}

func (c *unionCodec) Encode(e podinterfaces.Encoder, v reflect.Value) error {
	swv := v.Field(c.switchIndex)

	var swVal uint32
	switch c.switchKind {
	case switchKindBool:
		if swv.Bool() {
			swVal = 1
		}
	case switchKindUint:
		swVal = uint32(swv.Uint())
	default: //switchKindInt
		swVal = uint32(swv.Int())
	}

	caseField, exists := c.cases[swVal]
	if !exists {
		caseField = c.defaultCase
	}

	if caseField == -1 {
		// Unit arm: no payload
		return nil
	}

	f := c.bodyFields[caseField]
	_, err := f.encode(e, v)
	if err != nil {
		err = errors.WithFieldError(err, c.name, f.name, fmt.Sprintf("union:0x%x", swVal))
	}
	return err
}

func (c *unionCodec) Decode(d podinterfaces.Decoder, v reflect.Value) error {
	return errors.UnsupportedError{Op: "enum"}
}
