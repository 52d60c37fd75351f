// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package pod

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"io/ioutil"
	"testing"
)

func EncodeBenchmarkCommon(b *testing.B, ob interface{}) {
	b.Run("PODMarshal", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, err := Marshal(LE, ob)
			if err != nil {
				b.Fatalf("Marshal: %s", err)
			}
		}
	})

	b.Run("JSONMarshal", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, err := json.Marshal(ob)
			if err != nil {
				b.Fatalf("json.Marshal: %s", err)
			}
		}
	})

	b.Run("PODWriteDiscard", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			err := Write(LE, ioutil.Discard, ob)
			if err != nil {
				b.Fatalf("Write: %s", err)
			}
		}
	})

	b.Run("PODEncoderDiscard", func(b *testing.B) {
		w := NewEncoder(LE, ioutil.Discard)
		for i := 0; i < b.N; i++ {
			err := w.Encode(ob)
			if err != nil {
				b.Fatalf("Encode: %s", err)
			}
		}
	})

	b.Run("GobEncoderDiscard", func(b *testing.B) {
		w := gob.NewEncoder(ioutil.Discard)
		for i := 0; i < b.N; i++ {
			err := w.Encode(ob)
			if err != nil {
				b.Fatalf("Encode: %s", err)
			}
		}
	})

	b.Run("JSONEncoderDiscard", func(b *testing.B) {
		w := json.NewEncoder(ioutil.Discard)
		for i := 0; i < b.N; i++ {
			err := w.Encode(ob)
			if err != nil {
				b.Fatalf("Encode: %s", err)
			}
		}
	})

	b.Run("PODEncoderBuffer", func(b *testing.B) {
		var buf bytes.Buffer
		w := NewEncoder(LE, &buf)
		for i := 0; i < b.N; i++ {
			err := w.Encode(ob)
			if err != nil {
				b.Fatalf("Encode: %s", err)
			}

			if (i % 2048) == 0 {
				buf.Reset()
			}
		}
	})

	b.Run("GobEncoderBuffer", func(b *testing.B) {
		var buf bytes.Buffer
		w := gob.NewEncoder(&buf)
		for i := 0; i < b.N; i++ {
			err := w.Encode(ob)
			if err != nil {
				b.Fatalf("Encode: %s", err)
			}

			if (i % 2048) == 0 {
				buf.Reset()
			}
		}
	})

	b.Run("JSONEncoderBuffer", func(b *testing.B) {
		var buf bytes.Buffer
		w := json.NewEncoder(&buf)
		for i := 0; i < b.N; i++ {
			err := w.Encode(ob)
			if err != nil {
				b.Fatalf("Encode: %s", err)
			}

			if (i % 2048) == 0 {
				buf.Reset()
			}
		}
	})
}

func BenchmarkUint32Encode(b *testing.B) {
	EncodeBenchmarkCommon(b, uint32(123))
}

func BenchmarkInt64Encode(b *testing.B) {
	EncodeBenchmarkCommon(b, int64(768))
}

func BenchmarkStringEncode(b *testing.B) {
	EncodeBenchmarkCommon(b, "Hello World")
}

func BenchmarkSimpleStructEncode(b *testing.B) {
	type S struct {
		X int32
		Y int64
		O []byte
	}

	s := &S{
		X: 123456,
		Y: 12345678,
		O: []byte("Byte Slice"),
	}

	EncodeBenchmarkCommon(b, s)
}

func BenchmarkUnionStructsEncode(b *testing.B) {
	type S1 struct {
		Frob int32
		Glob int32
	}

	type S2 struct {
		Foo int32
		Bar [8]byte
	}

	type U struct {
		Switch uint32 `pod:"union:switch"`
		S1     *S1    `pod:"union:0" json:"s1,omitempty"`
		S2     *S2    `pod:"union:1" json:"s2,omitempty"`
	}

	vals := []U{
		{Switch: 0, S1: &S1{123, 456}},
		{Switch: 1, S2: &S2{789, [8]byte{'A', ' ', 's', 't', 'r', 'i', 'n', 'g'}}},
		{Switch: 0, S1: &S1{65535, 1024}},
	}
	EncodeBenchmarkCommon(b, vals)
}

func BenchmarkDecode(b *testing.B) {
	type S struct {
		X int32
		Y int64
		A [16]byte
	}

	buf, err := Marshal(LE, S{X: 1, Y: 2, A: [16]byte{3}})
	if err != nil {
		b.Fatalf("Marshal: %s", err)
	}

	b.Run("PODUnmarshal", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var s S
			if err := Unmarshal(LE, buf, &s); err != nil {
				b.Fatalf("Unmarshal: %s", err)
			}
		}
	})

	b.Run("PODRead", func(b *testing.B) {
		r := bytes.NewReader(nil)
		for i := 0; i < b.N; i++ {
			var s S
			r.Reset(buf)
			if err := Read(LE, r, &s); err != nil {
				b.Fatalf("Read: %s", err)
			}
		}
	})
}
