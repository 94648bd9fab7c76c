// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

package suffix

import (
	"fmt"

	"github.com/ulikunitz/lzdict/larray"
)

// InvertSA computes the inverse of the suffix array, which gives for every
// text position the rank of its suffix: rank[sa[i]] = i.
func InvertSA(sa, rank larray.Ints) {
	n := sa.Len()
	if rank.Len() != n {
		panic(fmt.Errorf("suffix: len(sa)=%d != len(rank)=%d",
			n, rank.Len()))
	}
	for i := int64(0); i < n; i++ {
		rank.Set(sa.Get(i), i)
	}
}

// LCP computes the LCP table for the text t using its suffix array sa and
// the inverse suffix array rank. The entry lcp[k] is the length of the
// common prefix of the suffixes at sa[k-1] and sa[k]; lcp[0] is -1.
//
// The text positions are visited in text order. The common prefix length
// decreases by at most one from one position to the next, so the comparison
// continues from the previous length and the total work is linear.
func LCP(t, sa, rank, lcp larray.Ints) {
	n := sa.Len()
	if t.Len() < n {
		panic(fmt.Errorf("suffix: len(t)=%d < len(sa)=%d", t.Len(), n))
	}
	if rank.Len() != n {
		panic(fmt.Errorf("suffix: len(rank)=%d != len(sa)=%d",
			rank.Len(), n))
	}
	if lcp.Len() != n {
		panic(fmt.Errorf("suffix: len(lcp)=%d != len(sa)=%d",
			lcp.Len(), n))
	}
	var h int64
	for i := int64(0); i < n; i++ {
		k := rank.Get(i)
		if k == 0 {
			lcp.Set(0, -1)
		} else {
			j := sa.Get(k - 1)
			h += matchLen(t, i+h, j+h, n)
			lcp.Set(k, h)
		}
		if h > 0 {
			h--
		}
	}
}

// BuildLCP computes the LCP table with a transient inverse suffix array
// allocated from a.
func BuildLCP(t, sa, lcp larray.Ints, a larray.Allocator) error {
	rank, err := larray.AllocPacked(a, sa.Len())
	if err != nil {
		return fmt.Errorf("suffix: allocation of rank array: %w", err)
	}
	defer rank.Close()
	InvertSA(sa, rank)
	LCP(t, sa, rank, lcp)
	return rank.Close()
}

// matchLen computes the length of the common prefix of t[i:n] and t[j:n].
func matchLen(t larray.Ints, i, j, n int64) int64 {
	var l int64
	for i+l < n && j+l < n && t.Get(i+l) == t.Get(j+l) {
		l++
	}
	return l
}
