// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

// Package superstring merges byte strings into a short common superstring
// using the greedy overlap heuristic.
//
// The shortest common superstring problem is NP-hard. The greedy heuristic
// repeatedly joins the two strings with the largest overlap. Its result is
// known to be at most four times longer than the optimum.
package superstring

import (
	"bytes"
	"cmp"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/slices"
)

// Overlap returns the length of the longest suffix of a that is a prefix of
// b. The overlap is at most min(len(a), len(b)).
func Overlap(a, b []byte) int {
	for k := min(len(a), len(b)); k > 0; k-- {
		if bytes.Equal(a[len(a)-k:], b[:k]) {
			return k
		}
	}
	return 0
}

// RemoveContained removes all strings that are substrings of other strings
// in the slice. Of identical strings only the first is kept. The order of
// the remaining strings is preserved.
func RemoveContained(ss [][]byte) [][]byte {
	drop := bitset.New(uint(len(ss)))
	for i, s := range ss {
		for j, t := range ss {
			if i == j || len(t) < len(s) {
				continue
			}
			if len(t) == len(s) {
				if j < i && !drop.Test(uint(j)) && bytes.Equal(s, t) {
					drop.Set(uint(i))
					break
				}
				continue
			}
			if bytes.Contains(t, s) {
				drop.Set(uint(i))
				break
			}
		}
	}
	r := make([][]byte, 0, len(ss)-int(drop.Count()))
	for i, s := range ss {
		if !drop.Test(uint(i)) {
			r = append(r, s)
		}
	}
	return r
}

type edge struct {
	from, to int
	k        int
}

// chains links the strings greedily by decreasing overlap. It returns for
// every string its successor or -1 and the overlap with its predecessor.
func chains(ss [][]byte) (next, overlap []int, hasPred *bitset.BitSet) {
	n := len(ss)
	var edges []edge
	for i, a := range ss {
		for j, b := range ss {
			if i == j {
				continue
			}
			if k := Overlap(a, b); k > 0 {
				edges = append(edges, edge{i, j, k})
			}
		}
	}
	slices.SortStableFunc(edges, func(x, y edge) int {
		return cmp.Compare(y.k, x.k)
	})

	next = make([]int, n)
	overlap = make([]int, n)
	// The chains are tracked as disjoint sets to detect cycles.
	root := make([]int, n)
	for i := range next {
		next[i] = -1
		root[i] = i
	}
	find := func(i int) int {
		for root[i] != i {
			root[i] = root[root[i]]
			i = root[i]
		}
		return i
	}
	hasPred = bitset.New(uint(n))
	for _, e := range edges {
		if next[e.from] >= 0 || hasPred.Test(uint(e.to)) {
			continue
		}
		rf, rt := find(e.from), find(e.to)
		if rf == rt {
			continue
		}
		next[e.from] = e.to
		overlap[e.to] = e.k
		hasPred.Set(uint(e.to))
		root[rt] = rf
	}
	return next, overlap, hasPred
}

// Merge computes a common superstring of all strings. Strings contained in
// others are removed first, the rest is joined greedily. Chains of strings
// that can't be joined further are concatenated in the order of their
// first strings in ss.
func Merge(ss [][]byte) []byte {
	ss = RemoveContained(ss)
	next, overlap, hasPred := chains(ss)
	var r []byte
	for i := range ss {
		if hasPred.Test(uint(i)) {
			continue
		}
		for j := i; j >= 0; j = next[j] {
			r = append(r, ss[j][overlap[j]:]...)
		}
	}
	return r
}
