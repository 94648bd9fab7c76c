// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

package larray

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Region is an owned byte buffer. It implements [Bytes]. The underlying memory
// never leaves the type; all access happens through indexes.
type Region struct {
	b        []byte
	readOnly bool
	release  func() error
}

// Allocator provides regions of anonymous memory. It is passed explicitly to
// every component that needs transient storage.
type Allocator interface {
	Alloc(size int64) (*Region, error)
}

// Heap allocates regions on the Go heap. It is useful for tests and small
// inputs.
type Heap struct{}

// Alloc returns a zeroed region of the given size.
func (Heap) Alloc(size int64) (*Region, error) {
	if size < 0 {
		panic(fmt.Errorf("larray: negative size %d", size))
	}
	return &Region{b: make([]byte, size)}, nil
}

// Anon allocates regions as anonymous memory mappings outside of the Go
// heap, so that the garbage collector never scans or copies them.
type Anon struct{}

// Alloc maps a zeroed anonymous region of the given size.
func (Anon) Alloc(size int64) (*Region, error) {
	if size < 0 {
		panic(fmt.Errorf("larray: negative size %d", size))
	}
	if size == 0 {
		return &Region{}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("larray: size %d exceeds address space", size)
	}
	m, err := mmap.MapRegion(nil, int(size), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("larray: anonymous map of %d bytes: %w",
			size, err)
	}
	return &Region{b: m, release: m.Unmap}, nil
}

// OpenFile maps an existing file read-only. Files of length zero are rejected
// with [ErrEmptyFile].
func OpenFile(name string) (r *Region, err error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%w %s", ErrEmptyFile, name)
	}
	m, err := mmap.MapRegion(f, -1, mmap.RDONLY, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("larray: map %s: %w", name, err)
	}
	r = &Region{
		b:        m,
		readOnly: true,
		release: func() error {
			return errors.Join(m.Unmap(), f.Close())
		},
	}
	return r, nil
}

// CreateFile creates or truncates the file name, sizes it to exactly size
// bytes and maps it read-write.
func CreateFile(name string, size int64) (r *Region, err error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w %s", ErrEmptyFile, name)
	}
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()
	if err = f.Truncate(size); err != nil {
		return nil, err
	}
	m, err := mmap.MapRegion(f, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("larray: map %s: %w", name, err)
	}
	r = &Region{
		b: m,
		release: func() error {
			return errors.Join(m.Flush(), m.Unmap(), f.Close())
		},
	}
	return r, nil
}

// Get returns the byte at index i.
func (r *Region) Get(i int64) byte {
	checkIndex(i, int64(len(r.b)))
	return r.b[i]
}

// Set stores v at index i.
func (r *Region) Set(i int64, v byte) {
	if r.readOnly {
		panic(ErrReadOnly)
	}
	checkIndex(i, int64(len(r.b)))
	r.b[i] = v
}

// Len returns the size of the region in bytes.
func (r *Region) Len() int64 { return int64(len(r.b)) }

// Close releases the region. Only the first call has an effect.
func (r *Region) Close() error {
	release := r.release
	r.b, r.release = nil, nil
	if release == nil {
		return nil
	}
	return release()
}

// span returns the bytes [i,i+n) after checking the element index k against
// the element count. The slice must not be retained.
func (r *Region) span(k, count int64, width int64) []byte {
	checkIndex(k, count)
	o := k * width
	return r.b[o : o+width : o+width]
}
