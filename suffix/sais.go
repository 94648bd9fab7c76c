// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

// Package suffix builds suffix arrays and LCP arrays for texts that may be
// larger than the available memory and traverses the LCP intervals of the
// virtual suffix tree.
//
// All functions work on [larray.Ints], so the arrays can be anonymous memory
// or memory-mapped files. Suffix sorting uses the SA-IS algorithm as
// described in
//
//	Ge Nong, Sen Zhang and Wai Hong Chan, Two Efficient Algorithms for
//	Linear Suffix Array Construction, 2008.
//
// The implementation follows the sais-lite layout by Yuta Mori, which places
// bucket tables, names and the reduced problem into unused parts of the
// suffix array instead of allocating new arrays for every recursion level.
package suffix

import (
	"fmt"

	"github.com/ulikunitz/lzdict/larray"
)

// Sort computes the suffix array of the text t and stores it in sa. The
// length of sa defines the length n of the text; t may be longer, for
// instance because of virtual zero elements, but only t[0:n] is sorted. The
// symbols of the text must be in the range [0,k). Bucket tables that don't
// fit into free space of sa are allocated from a.
//
// Suffixes are compared as if the text were followed by an end symbol that
// is smaller than all other symbols.
func Sort(t, sa larray.Ints, k int64, a larray.Allocator) error {
	n := sa.Len()
	if t.Len() < n {
		panic(fmt.Errorf("suffix: len(t)=%d < len(sa)=%d", t.Len(), n))
	}
	if k < 1 {
		panic(fmt.Errorf("suffix: alphabet size %d must be positive", k))
	}
	switch n {
	case 0:
		return nil
	case 1:
		checkSymbol(t.Get(0), k)
		sa.Set(0, 0)
		return nil
	}
	s := sorter{alloc: a}
	return s.sais(t, sa, 0, n, k)
}

type sorter struct {
	alloc larray.Allocator
}

func checkSymbol(c, k int64) {
	if !(0 <= c && c < k) {
		panic(fmt.Errorf("suffix: symbol %d outside of alphabet [0,%d)",
			c, k))
	}
}

// buckets provides the bucket count table c and the bucket pointer table b.
// If fs provides enough space after the first n elements of sa, the tables
// are views into sa. Otherwise a single table is allocated and shared by c
// and b. The caller must close c.
func (s *sorter) buckets(sa larray.Ints, fs, n, k int64) (c, b larray.Ints, shared bool, err error) {
	if k <= fs {
		c = larray.NewView(sa, n)
		if k <= fs-k {
			return c, larray.NewView(sa, n+k), false, nil
		}
		return c, c, true, nil
	}
	p, err := larray.AllocPacked(s.alloc, k)
	if err != nil {
		return nil, nil, false, fmt.Errorf(
			"suffix: allocation of %d buckets: %w", k, err)
	}
	return p, p, true, nil
}

// getCounts counts the occurrences of every symbol.
func getCounts(t, c larray.Ints, n, k int64) {
	for i := int64(0); i < k; i++ {
		c.Set(i, 0)
	}
	for i := int64(0); i < n; i++ {
		ch := t.Get(i)
		checkSymbol(ch, k)
		c.Set(ch, c.Get(ch)+1)
	}
}

// getBuckets computes the start or the end of each bucket.
func getBuckets(c, b larray.Ints, k int64, end bool) {
	var sum int64
	for i := int64(0); i < k; i++ {
		x := c.Get(i)
		sum += x
		if end {
			b.Set(i, sum)
		} else {
			b.Set(i, sum-x)
		}
	}
}

// put stores j at sa[p]. It negates j if the suffix preceding j must not
// be induced from it in the current pass.
func put(sa larray.Ints, p, j int64, negate bool) {
	if negate {
		j = ^j
	}
	sa.Set(p, j)
}

// induce sorts all suffixes from the sorted LMS suffixes. The first pass
// scans sa left to right and places the L-type predecessors at the bucket
// starts, the second pass scans right to left and places the S-type
// predecessors at the bucket ends.
func induce(t, sa, c, b larray.Ints, n, k int64, shared bool) {
	if shared {
		getCounts(t, c, n, k)
	}
	getBuckets(c, b, k, false)
	j := n - 1
	c1 := t.Get(j)
	p := b.Get(c1)
	put(sa, p, j, j > 0 && t.Get(j-1) < c1)
	p++
	for i := int64(0); i < n; i++ {
		j = sa.Get(i)
		sa.Set(i, ^j)
		if j > 0 {
			j--
			if c0 := t.Get(j); c0 != c1 {
				b.Set(c1, p)
				c1 = c0
				p = b.Get(c1)
			}
			put(sa, p, j, j > 0 && t.Get(j-1) < c1)
			p++
		}
	}

	if shared {
		getCounts(t, c, n, k)
	}
	getBuckets(c, b, k, true)
	c1 = 0
	p = b.Get(c1)
	for i := n - 1; i >= 0; i-- {
		j = sa.Get(i)
		if j > 0 {
			j--
			if c0 := t.Get(j); c0 != c1 {
				b.Set(c1, p)
				c1 = c0
				p = b.Get(c1)
			}
			p--
			put(sa, p, j, j == 0 || t.Get(j-1) > c1)
		} else {
			sa.Set(i, ^j)
		}
	}
}

// sais sorts the suffixes of t[0:n] over the alphabet [0,k). The array sa
// must provide n+fs elements; the fs elements after n are free workspace.
func (s *sorter) sais(t, sa larray.Ints, fs, n, k int64) error {
	m, name, err := s.sortLMS(t, sa, fs, n, k)
	if err != nil {
		return err
	}

	// Solve the reduced problem if the names of the LMS substrings are not
	// unique.
	if name < m {
		j := n + fs - 1
		for i := m + n>>1 - 1; i >= m; i-- {
			if v := sa.Get(i); v != 0 {
				sa.Set(j, v-1)
				j--
			}
		}
		ra := larray.NewView(sa, n+fs-m)
		if err = s.sais(ra, sa, fs+n-2*m, m, name); err != nil {
			return err
		}
		j = 2*m - 1
		var flag int64
		c1 := t.Get(n - 1)
		for i := n - 2; i >= 0; i-- {
			c0 := t.Get(i)
			if c0 < c1+flag {
				flag = 1
			} else if flag != 0 {
				sa.Set(j, i+1)
				j--
				flag = 0
			}
			c1 = c0
		}
		for i := int64(0); i < m; i++ {
			sa.Set(i, sa.Get(sa.Get(i)+m))
		}
	}

	return s.induceAll(t, sa, fs, n, k, m)
}

// sortLMS sorts the LMS substrings, compacts them into sa[0:m] and names
// them. The name of the LMS substring starting at p is stored at
// sa[m+p/2]. The function returns the number m of LMS substrings and the
// number of different names.
func (s *sorter) sortLMS(t, sa larray.Ints, fs, n, k int64) (m, name int64, err error) {
	c, b, shared, err := s.buckets(sa, fs, n, k)
	if err != nil {
		return 0, 0, err
	}
	defer c.Close()

	getCounts(t, c, n, k)
	getBuckets(c, b, k, true)
	for i := int64(0); i < n; i++ {
		sa.Set(i, 0)
	}
	var flag int64
	c1 := t.Get(n - 1)
	for i := n - 2; i >= 0; i-- {
		c0 := t.Get(i)
		if c0 < c1+flag {
			flag = 1
		} else if flag != 0 {
			sa.Set(larray.Update(b, c1, -1), i+1)
			flag = 0
		}
		c1 = c0
	}
	induce(t, sa, c, b, n, k, shared)

	// Compact the sorted LMS substrings into the first m items of sa.
	// 2*m is not larger than n.
	for i := int64(0); i < n; i++ {
		p := sa.Get(i)
		if p <= 0 {
			continue
		}
		c0 := t.Get(p)
		if t.Get(p-1) <= c0 {
			continue
		}
		j := p + 1
		for ; j < n; j++ {
			c1 = t.Get(j)
			if c1 != c0 {
				break
			}
		}
		if j < n && c0 < c1 {
			sa.Set(m, p)
			m++
		}
	}

	// Store the lengths of all LMS substrings.
	for i := m; i < m+n>>1; i++ {
		sa.Set(i, 0)
	}
	j := n
	flag = 0
	c1 = t.Get(n - 1)
	for i := n - 2; i >= 0; i-- {
		c0 := t.Get(i)
		if c0 < c1+flag {
			flag = 1
		} else if flag != 0 {
			sa.Set(m+(i+1)>>1, j-i-1)
			j = i + 1
			flag = 0
		}
		c1 = c0
	}

	// Name the LMS substrings. Equal substrings are neighbors in sa.
	q, qlen := n, int64(0)
	for i := int64(0); i < m; i++ {
		p := sa.Get(i)
		plen := sa.Get(m + p>>1)
		diff := true
		if plen == qlen {
			j := int64(0)
			for j < plen && t.Get(p+j) == t.Get(q+j) {
				j++
			}
			diff = j != plen
		}
		if diff {
			name++
			q, qlen = p, plen
		}
		sa.Set(m+p>>1, name)
	}
	return m, name, nil
}

// induceAll places the sorted LMS suffixes in sa[0:m] at the ends of their
// buckets and induces the order of all suffixes.
func (s *sorter) induceAll(t, sa larray.Ints, fs, n, k, m int64) error {
	c, b, shared, err := s.buckets(sa, fs, n, k)
	if err != nil {
		return err
	}
	defer c.Close()

	getCounts(t, c, n, k)
	getBuckets(c, b, k, true)
	for i := m; i < n; i++ {
		sa.Set(i, 0)
	}
	for i := m - 1; i >= 0; i-- {
		j := sa.Get(i)
		sa.Set(i, 0)
		sa.Set(larray.Update(b, t.Get(j), -1), j)
	}
	induce(t, sa, c, b, n, k, shared)
	return nil
}
