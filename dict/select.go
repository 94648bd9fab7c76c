// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

// Package dict selects dictionary candidates from the LCP intervals of a
// text and reads and writes the file of candidate records.
//
// A candidate is a repeated substring, given by the position of one
// occurrence and its length. The selection avoids redundant candidates: a
// repeat that only occurs as part of a more valuable longer repeat isn't
// reported.
package dict

import (
	"fmt"
	"math"

	"github.com/ulikunitz/lzdict/larray"
	"github.com/ulikunitz/lzdict/suffix"
)

// MinDepth is the minimum length of a dictionary candidate.
const MinDepth = 4

// Candidate describes a dictionary candidate.
type Candidate struct {
	// Pos is the text position of one occurrence.
	Pos int64
	// Length of the repeated substring
	Length int32
	// Rating is the estimated value of the candidate for compression.
	Rating float32
}

func (c Candidate) String() string {
	return fmt.Sprintf("{pos=%d len=%d rating=%g}", c.Pos, c.Length, c.Rating)
}

// Rating computes the rating of a repeat of the given length occurring
// width times. Every occurrence is charged with a cost of 3.
func Rating(width, depth int64) float32 {
	return float32(width) * float32(depth-3) / float32(depth)
}

// score returns depth times width saturated at the maximum value of a
// packed array element.
func score(iv suffix.Interval) int64 {
	w := iv.Width()
	if iv.Depth > larray.MaxPacked/w {
		return larray.MaxPacked
	}
	return iv.Depth * w
}

// Select finds the dictionary candidates of a text, given its suffix array,
// the inverse suffix array and the LCP table, and calls emit for each of
// them. A coverage array with the length of the text is allocated from a.
//
// Select traverses the LCP intervals twice. The first pass records for
// every suffix the best score of an interval covering it. An interval also
// covers the suffixes one position to the right of its occurrences, since
// those are contained in the longer repeat. The second pass emits every
// interval whose score isn't less than the coverage of its last suffix.
//
// An error returned by emit terminates the selection and is returned.
func Select(sa, rank, lcp larray.Ints, a larray.Allocator, emit func(Candidate) error) error {
	n := sa.Len()
	if rank.Len() != n || lcp.Len() != n {
		panic(fmt.Errorf("dict: array lengths sa=%d rank=%d lcp=%d differ",
			n, rank.Len(), lcp.Len()))
	}
	cover, err := larray.AllocPacked(a, n)
	if err != nil {
		return fmt.Errorf("dict: allocation of coverage array: %w", err)
	}
	defer cover.Close()

	propagate(sa, rank, lcp, cover)

	for iv := range suffix.BottomUp(lcp) {
		if iv.Depth < MinDepth || iv.Depth > math.MaxInt32 {
			continue
		}
		if score(iv) < cover.Get(iv.To) {
			continue
		}
		c := Candidate{
			Pos:    sa.Get(iv.To),
			Length: int32(iv.Depth),
			Rating: Rating(iv.Width(), iv.Depth),
		}
		if err = emit(c); err != nil {
			return err
		}
	}
	return cover.Close()
}

// propagate executes the first pass of Select.
func propagate(sa, rank, lcp, cover larray.Ints) {
	n := sa.Len()
	for iv := range suffix.BottomUp(lcp) {
		if iv.Depth < MinDepth {
			continue
		}
		if iv.From == 0 && iv.To == n-1 {
			// root
			continue
		}
		s := score(iv)
		for i := iv.From; i <= iv.To; i++ {
			s = max(s, cover.Get(i))
		}
		for i := iv.From; i <= iv.To; i++ {
			cover.Set(i, s)
		}
		for i := iv.From; i <= iv.To; i++ {
			p := sa.Get(i) + 1
			if p == n {
				continue
			}
			k := rank.Get(p)
			if cover.Get(k) < s {
				cover.Set(k, s)
			}
		}
	}
}
