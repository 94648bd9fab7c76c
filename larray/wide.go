// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

package larray

import (
	"encoding/binary"
	"fmt"
)

// WideWidth is the number of bytes used by a single Wide element.
const WideWidth = 8

// Wide is an integer array storing each element as 8 bytes little-endian.
// It is the format of the persisted sa, rsa and lcp files; element i is
// found at file offset 8*i.
type Wide struct {
	r *Region
	n int64
}

// NewWide interprets the region as wide integer array. The region length must
// be a multiple of [WideWidth].
func NewWide(r *Region) *Wide {
	if r.Len()%WideWidth != 0 {
		panic(fmt.Errorf("larray: region length %d is not a multiple of %d",
			r.Len(), WideWidth))
	}
	return &Wide{r: r, n: r.Len() / WideWidth}
}

// AllocWide allocates a zeroed wide array with n elements.
func AllocWide(a Allocator, n int64) (*Wide, error) {
	if n < 0 {
		panic(fmt.Errorf("larray: negative length %d", n))
	}
	r, err := a.Alloc(n * WideWidth)
	if err != nil {
		return nil, err
	}
	return NewWide(r), nil
}

// OpenWide maps the file read-only as wide integer array.
func OpenWide(name string) (*Wide, error) {
	r, err := OpenFile(name)
	if err != nil {
		return nil, err
	}
	if r.Len()%WideWidth != 0 {
		r.Close()
		return nil, fmt.Errorf("larray: size %d of %s is not a multiple of %d",
			r.Len(), name, WideWidth)
	}
	return NewWide(r), nil
}

// CreateWide creates the file name with room for exactly n elements and maps
// it read-write.
func CreateWide(name string, n int64) (*Wide, error) {
	r, err := CreateFile(name, n*WideWidth)
	if err != nil {
		return nil, err
	}
	return NewWide(r), nil
}

// Get returns element i.
func (w *Wide) Get(i int64) int64 {
	return int64(binary.LittleEndian.Uint64(w.r.span(i, w.n, WideWidth)))
}

// Set stores v as element i.
func (w *Wide) Set(i int64, v int64) {
	if w.r.readOnly {
		panic(ErrReadOnly)
	}
	binary.LittleEndian.PutUint64(w.r.span(i, w.n, WideWidth), uint64(v))
}

// Len returns the number of elements.
func (w *Wide) Len() int64 { return w.n }

// Close releases the backing region.
func (w *Wide) Close() error {
	w.n = 0
	return w.r.Close()
}
