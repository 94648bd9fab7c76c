// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

package dict

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"

	"golang.org/x/exp/mmap"

	"github.com/ulikunitz/lzdict/larray"
)

// RecordSize is the size of a candidate record in bytes. A record stores
// the position as 8-byte integer, the length as 4-byte integer and the
// rating as 4-byte IEEE 754 float, all in big-endian byte order.
const RecordSize = 16

// ErrTruncated indicates that a record file doesn't end at a record
// boundary.
var ErrTruncated = errors.New("dict: truncated record")

func putRecord(p []byte, c Candidate) {
	binary.BigEndian.PutUint64(p, uint64(c.Pos))
	binary.BigEndian.PutUint32(p[8:], uint32(c.Length))
	binary.BigEndian.PutUint32(p[12:], math.Float32bits(c.Rating))
}

func parseRecord(p []byte) Candidate {
	return Candidate{
		Pos:    int64(binary.BigEndian.Uint64(p)),
		Length: int32(binary.BigEndian.Uint32(p[8:])),
		Rating: math.Float32frombits(binary.BigEndian.Uint32(p[12:])),
	}
}

// Writer writes candidate records to a buffered writer.
type Writer struct {
	w   *bufio.Writer
	buf [RecordSize]byte
	n   int64
}

// NewWriter creates a writer with a buffer of the given size. The writer
// must be flushed.
func NewWriter(w io.Writer, size int) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, size)}
}

// Write writes a single record.
func (w *Writer) Write(c Candidate) error {
	putRecord(w.buf[:], c)
	if _, err := w.w.Write(w.buf[:]); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int64 { return w.n }

// Flush writes the buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// ReadAll reads all records until the end of the stream. A partial record at
// the end results in [ErrTruncated].
func ReadAll(r io.Reader) ([]Candidate, error) {
	var (
		s   []Candidate
		buf [RecordSize]byte
	)
	for {
		_, err := io.ReadFull(r, buf[:])
		switch err {
		case nil:
			s = append(s, parseRecord(buf[:]))
		case io.EOF:
			return s, nil
		case io.ErrUnexpectedEOF:
			return s, ErrTruncated
		default:
			return s, err
		}
	}
}

// File provides random access to a memory-mapped record file.
type File struct {
	r *mmap.ReaderAt
}

// Open maps the record file read-only.
func Open(name string) (*File, error) {
	r, err := mmap.Open(name)
	if err != nil {
		return nil, err
	}
	if r.Len()%RecordSize != 0 {
		r.Close()
		return nil, fmt.Errorf("%w: %s has size %d", ErrTruncated,
			name, r.Len())
	}
	return &File{r: r}, nil
}

// Len returns the number of records.
func (f *File) Len() int { return f.r.Len() / RecordSize }

// At returns record i.
func (f *File) At(i int) Candidate {
	if !(0 <= i && i < f.Len()) {
		panic(fmt.Errorf("dict: record index %d out of range [0,%d)",
			i, f.Len()))
	}
	var buf [RecordSize]byte
	if _, err := f.r.ReadAt(buf[:], int64(i)*RecordSize); err != nil {
		panic(fmt.Errorf("dict: ReadAt error %w", err))
	}
	return parseRecord(buf[:])
}

// All returns all records in file order.
func (f *File) All() iter.Seq2[int, Candidate] {
	return func(yield func(int, Candidate) bool) {
		n := f.Len()
		for i := 0; i < n; i++ {
			if !yield(i, f.At(i)) {
				return
			}
		}
	}
}

// Close unmaps the file.
func (f *File) Close() error { return f.r.Close() }

// Materialize returns the bytes of the candidate in the text.
func Materialize(text larray.Bytes, c Candidate) []byte {
	if c.Length < 0 || c.Pos < 0 || c.Pos+int64(c.Length) > text.Len() {
		panic(fmt.Errorf("dict: candidate %v outside of text with length %d",
			c, text.Len()))
	}
	p := make([]byte, c.Length)
	for i := range p {
		p[i] = text.Get(c.Pos + int64(i))
	}
	return p
}
