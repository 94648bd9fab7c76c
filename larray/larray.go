// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

// Package larray provides fixed-length byte and integer arrays addressed by
// 64-bit indexes. The arrays are backed by an owned [Region], which is either
// anonymous memory or a memory-mapped file. Algorithms are written against the
// [Bytes] and [Ints] interfaces and don't care about the physical encoding.
//
// An array is owned exclusively by its holder until Close is called. Close
// releases the backing memory or mapping exactly once; later calls are no-ops.
package larray

import (
	"errors"
	"fmt"
)

// Bytes is a fixed-length sequence of bytes.
type Bytes interface {
	Get(i int64) byte
	Set(i int64, v byte)
	Len() int64
	Close() error
}

// Ints is a fixed-length sequence of signed integers.
type Ints interface {
	Get(i int64) int64
	Set(i int64, v int64)
	Len() int64
	Close() error
}

// ErrEmptyFile is returned if a file of length zero should be mapped.
var ErrEmptyFile = errors.New("larray: cannot map empty file")

// ErrReadOnly is the panic value for writes into read-only regions.
var ErrReadOnly = errors.New("larray: region is read-only")

// checkIndex panics if i is not in the range [0,n).
func checkIndex(i, n int64) {
	if !(0 <= i && i < n) {
		panic(fmt.Errorf("larray: index %d out of range [0,%d)", i, n))
	}
}

// Update adds delta to the element a[i] and returns the new value.
func Update(a Ints, i, delta int64) int64 {
	v := a.Get(i) + delta
	a.Set(i, v)
	return v
}

// Copy copies all elements of src into dst. The arrays must have the same
// length.
func Copy(dst, src Ints) {
	n := src.Len()
	if dst.Len() != n {
		panic(fmt.Errorf("larray: copy of %d elements into array of length %d",
			n, dst.Len()))
	}
	for i := int64(0); i < n; i++ {
		dst.Set(i, src.Get(i))
	}
}
