// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

package suffix

import (
	"fmt"
	"iter"

	"github.com/ulikunitz/lzdict/larray"
)

// Interval is an LCP interval: the maximal range sa[From:To+1] of suffixes
// sharing a common prefix of exactly Depth bytes. It corresponds to an
// internal node of the suffix tree.
type Interval struct {
	Depth int64
	From  int64
	To    int64
}

// Width returns the number of suffixes in the interval.
func (iv Interval) Width() int64 { return iv.To - iv.From + 1 }

func (iv Interval) String() string {
	return fmt.Sprintf("(%d,[%d,%d])", iv.Depth, iv.From, iv.To)
}

// BottomUp returns all LCP intervals of the LCP table in a single left to
// right pass. Child intervals are returned before their parents and the
// interval covering the whole array, with depth zero, is returned last.
// Leaves aren't returned. The value lcp[0] is treated as zero.
//
// Every call of the returned sequence performs a new pass over lcp.
func BottomUp(lcp larray.Ints) iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		n := lcp.Len()
		if n < 2 {
			return
		}
		type item struct {
			depth int64
			from  int64
		}
		stack := make([]item, 1, 64)
		// stack[0] = item{0, 0} is the root
		for i := int64(1); i < n; i++ {
			d := lcp.Get(i)
			left := i - 1
			for d < stack[len(stack)-1].depth {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if !yield(Interval{Depth: top.depth, From: top.from, To: i - 1}) {
					return
				}
				left = top.from
			}
			if d > stack[len(stack)-1].depth {
				stack = append(stack, item{d, left})
			}
		}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(Interval{Depth: top.depth, From: top.from, To: n - 1}) {
				return
			}
		}
	}
}
