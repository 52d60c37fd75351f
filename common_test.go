// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package pod

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDirection int

const (
	bothTest testDirection = iota
	encodeTest
	decodeTest
)

// comparingWriter is an io.Writer which immediately compares every byte
// written to it against the values read from the passed reader. This
// enables capturing the call stack at the time any discrepancy in the
// written data occurs
//
// It captures the written data so that a final comparison (which may somtimes
// be more informative) can also be made
type comparingWriter struct {
	T *testing.T

	// The reader
	R io.Reader

	// Error returned by reader
	Rerr error

	// Bytes written
	B []byte

	// Bytes expected
	X []byte
}

func newComparingWriter(t *testing.T, r io.Reader) *comparingWriter {
	return &comparingWriter{
		T: t,
		R: r,
	}
}

func (w *comparingWriter) Write(buf []byte) (int, error) {
	w.T.Helper()

	w.B = append(w.B, buf...)

	// Gather the expected bytes
	var expected []byte
	if w.Rerr == nil {
		expected = make([]byte, len(buf))
		nr, err := io.ReadFull(w.R, expected)
		expected = expected[0:nr]
		w.X = append(w.X, expected...)
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}

		if err != nil {
			require.Equal(w.T, io.EOF, err, "comparingWriter: Comparison reader returned non-EOF error")
			assert.Failf(w.T, "Attempt to write after end", "Attempt to write %d bytes after end of expected data", len(buf)-nr)
			w.Rerr = err
		}
	}

	// If we read any bytes, cross compare them
	if len(expected) != 0 {
		assert.Equalf(w.T, expected, buf[0:len(expected)], "Expected equal value during %d byte write", len(buf))
	}

	return len(buf), nil
}

func (w *comparingWriter) Assert() {
	buf := make([]byte, 1024)
	err := w.Rerr

	var n int
	for err == nil {
		n, err = w.R.Read(buf)
		w.X = append(w.X, buf[0:n]...)
		require.Equal(w.T, io.EOF, err, "comparingWriter: Comparison reader must only return io.EOF error")
	}

	assert.Equalf(w.T, w.X, w.B, "Expected written data to match expected")
}

// singleByteReader is a really annoying io.Reader which returns a single byte at a time
type singleByteReader struct {
	R io.Reader
}

func (r *singleByteReader) Read(buf []byte) (int, error) {
	switch {
	case len(buf) == 0:
		return 0, nil
	default:
		return r.R.Read(buf[0:1])
	}
}

type testcase struct {
	// Name of this test case
	Name string

	// Which directions to run this test in (defaults to both)
	Direction testDirection

	// The object to marshal, or to use for comparison on unmarshalling
	Object interface{}

	// The encoded representation of the object when it is the same in
	// both byte orders
	Bytes []byte

	// The encoded representations per byte order; used when Bytes is nil
	BE, LE []byte

	// Error expected on en/decode
	EncErrorIs error
	DecErrorIs error

	// Comparator to use (instead of default) after successful decoding
	// The NaN tests use this because NaN != NaN, so normal comparisons won't work
	DecodeComparator func(t *testing.T, expt, actual interface{})
}

func (tc *testcase) bytesFor(order ByteOrder) []byte {
	if tc.Bytes != nil {
		return tc.Bytes
	}
	if order == BE {
		return tc.BE
	}
	return tc.LE
}

func runEncodeTest(t *testing.T, order ByteOrder, tc *testcase, expected []byte, obj interface{}) {
	t.Helper()

	var w io.Writer
	if tc.EncErrorIs != nil {
		w = ioutil.Discard
	} else {
		w = newComparingWriter(t, bytes.NewReader(expected))
	}
	e := NewEncoder(order, w)
	err := e.Encode(obj)
	if tc.EncErrorIs != nil {
		require.Error(t, err, "Encoding should have returned an error")
		require.Truef(t, errors.Is(err, tc.EncErrorIs), "Error expected to be %s, but was %s", tc.EncErrorIs, err)
	} else {
		require.NoError(t, err, "Encode should succeed")
		w.(*comparingWriter).Assert()
	}
}

func runDecodeTest(t *testing.T, order ByteOrder, tc *testcase, r io.Reader) {
	t.Helper()

	br := bufio.NewReader(r)
	d := NewDecoder(order, br)

	// If tc.Object is of type T, then construct new(T)
	tgtp := reflect.New(reflect.TypeOf(tc.Object)).Interface()

	err := d.Decode(tgtp)
	if tc.DecErrorIs != nil {
		if assert.Error(t, err, "Decoding should have returned an error") {
			assert.Truef(t, errors.Is(err, tc.DecErrorIs), "Error expected to be %s, but was %s", tc.DecErrorIs, err)

			if tc.DecErrorIs == ErrUnsupported {
				// Categorically unsupported decodes must fail before
				// touching the source
				left, rerr := ioutil.ReadAll(br)
				require.NoError(t, rerr, "Draining the source after a rejected decode")
				assert.Equal(t, tc.bytesFor(order), left, "Rejected decode should not consume input")
			}
		} else {
			t.Logf("Returned %+v", tgtp)
		}
	} else {
		require.NoError(t, err, "Decode should succeed")

		// Assert that we consumed the source exactly
		_, err := br.ReadByte()
		assert.Equal(t, io.EOF, err, "Decoder left trailing bytes after end")

		// Dereference the pointer to get a T for comparison purposes
		o := reflect.ValueOf(tgtp).Elem().Interface()
		tc.DecodeComparator(t, o, tc.Object)
	}
}

func RunTestcases(t *testing.T, tcs []testcase) {
	// Preprocess testcases: Insert the default DecodeComparator
	for i := range tcs {
		tc := &tcs[i]

		if tc.DecodeComparator == nil {
			tc.DecodeComparator = func(t *testing.T, l, r interface{}) {
				t.Helper()
				assert.Equal(t, l, r, "unmarshal output should match")
			}
		}
	}

	t.Parallel()

	orders := []struct {
		Name  string
		Order ByteOrder
	}{
		{"BE", BE},
		{"LE", LE},
	}

	for _, o := range orders {
		o := o
		t.Run(o.Name, func(t *testing.T) {
			t.Parallel()
			for _, tc := range tcs {
				tc := tc
				t.Run(tc.Name, func(t *testing.T) {
					t.Parallel()
					expected := tc.bytesFor(o.Order)

					if tc.Direction != decodeTest {
						t.Run("Encode", func(t *testing.T) {
							t.Parallel()
							runEncodeTest(t, o.Order, &tc, expected, tc.Object)
						})

						// We have optimisations which only kick in when you pass a pointer,
						// so run a variant with a pointer-to-object
						t.Run("EncodePtr", func(t *testing.T) {
							t.Parallel()
							v := reflect.ValueOf(tc.Object)
							vp := reflect.New(v.Type())
							vp.Elem().Set(v)
							runEncodeTest(t, o.Order, &tc, expected, vp.Interface())
						})

						t.Run("Marshal", func(t *testing.T) {
							t.Parallel()
							buf, err := Marshal(o.Order, tc.Object)
							if tc.EncErrorIs != nil {
								require.Error(t, err, "Marshal should have returned an error")
								require.Truef(t, errors.Is(err, tc.EncErrorIs), "Error expected to be %s, but was %s", tc.EncErrorIs, err)
							} else {
								require.NoError(t, err, "Marshal should succeed")
								if len(expected) == 0 {
									assert.Empty(t, buf, "Marshal output should be empty")
								} else {
									assert.Equal(t, expected, buf, "Marshal output should match")
								}
							}
						})
					}

					if tc.Direction != encodeTest {
						t.Run("Decode", func(t *testing.T) {
							t.Parallel()
							runDecodeTest(t, o.Order, &tc, bytes.NewReader(expected))
						})

						t.Run("Decode+singleByteReader", func(t *testing.T) {
							t.Parallel()
							runDecodeTest(t, o.Order, &tc, &singleByteReader{bytes.NewReader(expected)})
						})

						t.Run("Unmarshal", func(t *testing.T) {
							t.Parallel()
							tgtp := reflect.New(reflect.TypeOf(tc.Object)).Interface()
							err := Unmarshal(o.Order, expected, tgtp)
							if tc.DecErrorIs != nil {
								if assert.Error(t, err, "Unmarshal should have returned an error") {
									assert.Truef(t, errors.Is(err, tc.DecErrorIs), "Error expected to be %s, but was %s", tc.DecErrorIs, err)
								}
							} else {
								require.NoError(t, err, "Unmarshal should succeed")
								obj := reflect.ValueOf(tgtp).Elem().Interface()
								tc.DecodeComparator(t, obj, tc.Object)
							}
						})
					}
				})
			}
		})
	}
}
