package suffix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ulikunitz/lzdict/larray"
)

// computeLCP builds suffix array and LCP table of p.
func computeLCP(tb testing.TB, p []byte) (sa, lcp []int64) {
	tb.Helper()
	a := larray.Heap{}
	text := textInts(tb, a, p)
	n := int64(len(p))
	s, err := larray.AllocPacked(a, n)
	require.NoError(tb, err)
	require.NoError(tb, Sort(text, s, 256, a))
	l, err := larray.AllocPacked(a, n)
	require.NoError(tb, err)
	require.NoError(tb, BuildLCP(text, s, l, a))
	return toSlice(s), toSlice(l)
}

func naiveMatchLen(p, q []byte) int64 {
	var n int64
	for int(n) < len(p) && int(n) < len(q) && p[n] == q[n] {
		n++
	}
	return n
}

func TestLCP(t *testing.T) {
	tests := []struct {
		text string
		sa   []int64
		lcp  []int64
	}{
		{"banana", []int64{5, 3, 1, 0, 4, 2}, []int64{-1, 1, 3, 0, 0, 2}},
		{"aaaa", []int64{3, 2, 1, 0}, []int64{-1, 1, 2, 3}},
		{"a", []int64{0}, []int64{-1}},
		{"", []int64{}, []int64{}},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			sa, lcp := computeLCP(t, []byte(tc.text))
			if diff := cmp.Diff(tc.sa, sa); diff != "" {
				t.Fatalf("sa mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.lcp, lcp); diff != "" {
				t.Fatalf("lcp mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInvertSA(t *testing.T) {
	a := larray.Heap{}
	sa, err := larray.AllocPacked(a, 6)
	require.NoError(t, err)
	for i, v := range []int64{5, 3, 1, 0, 4, 2} {
		sa.Set(int64(i), v)
	}
	rank, err := larray.AllocPacked(a, 6)
	require.NoError(t, err)
	InvertSA(sa, rank)
	want := []int64{3, 2, 5, 1, 4, 0}
	if diff := cmp.Diff(want, toSlice(rank)); diff != "" {
		t.Fatalf("rank mismatch (-want +got):\n%s", diff)
	}
}

func FuzzLCP(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("a"))
	f.Add([]byte("ab"))
	f.Add([]byte("ba"))
	f.Add([]byte("ababbab"))
	f.Fuzz(func(t *testing.T, p []byte) {
		sa, lcp := computeLCP(t, p)
		if err := verifySuffixArray(p, sa); err != nil {
			t.Fatal(err)
		}
		for i, l := range lcp {
			if i == 0 {
				if l != -1 {
					t.Fatalf("lcp[0] = %d; want -1", l)
				}
				continue
			}
			n := naiveMatchLen(p[sa[i-1]:], p[sa[i]:])
			if n != l {
				t.Fatalf("lcp[%d] = %d; want %d", i, l, n)
			}
		}
	})
}
