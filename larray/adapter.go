// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

package larray

import "fmt"

// ByteInts presents a byte sequence as integer array with values in [0,255].
// The array may extend beyond the end of the bytes by a number of virtual
// elements, which read as zero and are never stored.
type ByteInts struct {
	b     Bytes
	extra int64
}

// NewByteInts creates the adapter with extra virtual zero elements after the
// end of b. The adapter owns b; closing the adapter closes b.
func NewByteInts(b Bytes, extra int64) *ByteInts {
	if extra < 0 {
		panic(fmt.Errorf("larray: negative number of zeros %d", extra))
	}
	return &ByteInts{b: b, extra: extra}
}

// OpenBytes maps the file read-only and presents it as integer array without
// virtual elements.
func OpenBytes(name string) (*ByteInts, error) {
	r, err := OpenFile(name)
	if err != nil {
		return nil, err
	}
	return NewByteInts(r, 0), nil
}

// Get returns element i.
func (a *ByteInts) Get(i int64) int64 {
	if n := a.b.Len(); i >= n {
		checkIndex(i, n+a.extra)
		return 0
	}
	return int64(a.b.Get(i))
}

// Set stores v at i. The value must be in the range [0,255] and i must not
// address a virtual element.
func (a *ByteInts) Set(i int64, v int64) {
	if !(0 <= v && v <= 255) {
		panic(fmt.Errorf("larray: value %d is not a byte", v))
	}
	a.b.Set(i, byte(v))
}

// Len returns the length including the virtual elements.
func (a *ByteInts) Len() int64 { return a.b.Len() + a.extra }

// Close closes the underlying byte sequence.
func (a *ByteInts) Close() error { return a.b.Close() }

// View is a window onto another integer array starting at a base offset.
// Index i of the view addresses element base+i of the underlying array. The
// view doesn't own the array.
type View struct {
	a    Ints
	base int64
}

// NewView returns the view of a starting at base.
func NewView(a Ints, base int64) *View {
	if !(0 <= base && base <= a.Len()) {
		panic(fmt.Errorf("larray: view base %d out of range [0,%d]",
			base, a.Len()))
	}
	if v, ok := a.(*View); ok {
		return &View{a: v.a, base: v.base + base}
	}
	return &View{a: a, base: base}
}

// Get returns element base+i of the underlying array.
func (v *View) Get(i int64) int64 {
	checkIndex(i, v.Len())
	return v.a.Get(v.base + i)
}

// Set stores x as element base+i of the underlying array.
func (v *View) Set(i int64, x int64) {
	checkIndex(i, v.Len())
	v.a.Set(v.base+i, x)
}

// Len returns the number of elements from base to the end of the
// underlying array.
func (v *View) Len() int64 { return v.a.Len() - v.base }

// Close doesn't release the underlying array.
func (v *View) Close() error { return nil }
