package suffix

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ulikunitz/lzdict/larray"
)

var allocators = []struct {
	name  string
	alloc larray.Allocator
}{
	{"heap", larray.Heap{}},
	{"anon", larray.Anon{}},
}

// textInts copies p into a byte array allocated from a.
func textInts(tb testing.TB, a larray.Allocator, p []byte) *larray.ByteInts {
	tb.Helper()
	r, err := a.Alloc(int64(len(p)))
	require.NoError(tb, err)
	for i, c := range p {
		r.Set(int64(i), c)
	}
	return larray.NewByteInts(r, 0)
}

func toSlice(a larray.Ints) []int64 {
	s := make([]int64, a.Len())
	for i := range s {
		s[i] = a.Get(int64(i))
	}
	return s
}

// sortBytes computes the suffix array of p.
func sortBytes(tb testing.TB, a larray.Allocator, p []byte) []int64 {
	tb.Helper()
	text := textInts(tb, a, p)
	defer text.Close()
	sa, err := larray.AllocPacked(a, int64(len(p)))
	require.NoError(tb, err)
	defer sa.Close()
	if err = Sort(text, sa, 256, a); err != nil {
		tb.Fatalf("Sort error %s", err)
	}
	return toSlice(sa)
}

func shorter(s []byte) string {
	if len(s) > 16 {
		return fmt.Sprintf("%s...", s[:16])
	}
	return string(s)
}

func verifyPermutation(a []int64) error {
	b := make([]int64, len(a))
	for i := range b {
		b[i] = -1
	}
	for i, j := range a {
		if j < 0 || j >= int64(len(a)) {
			return fmt.Errorf("a[%d]=%d is out of range [0,%d)",
				i, j, len(a))
		}
		if b[j] >= 0 {
			return fmt.Errorf("a[%d]=%d conflicts with a[%d]=%d",
				i, j, b[j], j)
		}
		b[j] = int64(i)
	}
	return nil
}

func verifySuffixArray(t []byte, sa []int64) error {
	if len(t) != len(sa) {
		return fmt.Errorf("len(t)=%d != len(sa)=%d", len(t), len(sa))
	}
	if err := verifyPermutation(sa); err != nil {
		return err
	}
	for i := 1; i < len(sa); i++ {
		u, v := t[sa[i-1]:], t[sa[i]:]
		if bytes.Compare(u, v) >= 0 {
			return fmt.Errorf(
				"t[sa[%d]=%d:]=%s >= t[sa[%d]=%d:]=%s",
				i-1, sa[i-1], shorter(u), i, sa[i], shorter(v))
		}
	}
	return nil
}

func TestSort(t *testing.T) {
	tests := []string{
		"",
		"a",
		"ab",
		"ba",
		"aaaa",
		"abbaabbaabbaabba",
		"ababababababababac",
		"cdcdcdcdccdd$",
		"banana",
		"christmas",
		"mississippi",
		"cba",
		"The brown fox jumps over the lazy dog.",
		"<mediawiki xmlns=\"http://www.mediawik",
	}
	for _, a := range allocators {
		for i, tc := range tests {
			t.Run(fmt.Sprintf("%s/%02d", a.name, i), func(t *testing.T) {
				p := []byte(tc)
				sa := sortBytes(t, a.alloc, p)
				if err := verifySuffixArray(p, sa); err != nil {
					t.Fatal(err)
				}
			})
		}
	}
}

func TestSortBanana(t *testing.T) {
	sa := sortBytes(t, larray.Heap{}, []byte("banana"))
	want := []int64{5, 3, 1, 0, 4, 2}
	if diff := cmp.Diff(want, sa); diff != "" {
		t.Fatalf("suffix array mismatch (-want +got):\n%s", diff)
	}
}

func TestSortRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, k := range []int{1, 2, 3, 4, 26, 256} {
		for _, n := range []int{2, 3, 17, 100, 1000, 5000} {
			p := make([]byte, n)
			for i := range p {
				p[i] = byte(r.Intn(k))
			}
			sa := sortBytes(t, larray.Heap{}, p)
			if err := verifySuffixArray(p, sa); err != nil {
				t.Fatalf("k=%d n=%d: %s", k, n, err)
			}
		}
	}
}

func TestSortRepeated(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&buf, "abcab%d", i%7)
	}
	p := buf.Bytes()
	sa := sortBytes(t, larray.Anon{}, p)
	if err := verifySuffixArray(p, sa); err != nil {
		t.Fatal(err)
	}
}

// TestSortIntegers sorts a text over an integer alphabet larger than the
// free space of the suffix array.
func TestSortIntegers(t *testing.T) {
	const k = 1000
	r := rand.New(rand.NewSource(7))
	n := 300
	text, err := larray.AllocPacked(larray.Heap{}, int64(n))
	require.NoError(t, err)
	s := make([]int64, n)
	for i := range s {
		s[i] = int64(r.Intn(k))
		text.Set(int64(i), s[i])
	}
	sa, err := larray.AllocPacked(larray.Heap{}, int64(n))
	require.NoError(t, err)
	require.NoError(t, Sort(text, sa, k, larray.Heap{}))
	got := toSlice(sa)
	require.NoError(t, verifyPermutation(got))
	for i := 1; i < n; i++ {
		u, v := s[got[i-1]:], s[got[i]:]
		if cmpInts(u, v) >= 0 {
			t.Fatalf("suffix %d not smaller than suffix %d",
				got[i-1], got[i])
		}
	}
}

func cmpInts(u, v []int64) int {
	for i := 0; i < len(u) && i < len(v); i++ {
		switch {
		case u[i] < v[i]:
			return -1
		case u[i] > v[i]:
			return 1
		}
	}
	return len(u) - len(v)
}

func TestSortSymbolOutOfRange(t *testing.T) {
	text, err := larray.AllocPacked(larray.Heap{}, 3)
	require.NoError(t, err)
	text.Set(0, 1)
	text.Set(1, 5)
	text.Set(2, 0)
	sa, err := larray.AllocPacked(larray.Heap{}, 3)
	require.NoError(t, err)
	require.Panics(t, func() { Sort(text, sa, 4, larray.Heap{}) })
}

func TestSortShortText(t *testing.T) {
	text := textInts(t, larray.Heap{}, []byte("ab"))
	sa, err := larray.AllocPacked(larray.Heap{}, 3)
	require.NoError(t, err)
	require.Panics(t, func() { Sort(text, sa, 256, larray.Heap{}) })
}

func FuzzSort(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("a"))
	f.Add([]byte("abbaabbaabbaabba"))
	f.Add([]byte("mississippi"))
	f.Add([]byte{0, 0, 0, 1, 0, 0, 255})
	f.Fuzz(func(t *testing.T, p []byte) {
		sa := sortBytes(t, larray.Heap{}, p)
		if err := verifySuffixArray(p, sa); err != nil {
			t.Fatal(err)
		}
	})
}

func TestVerifySuffixArray(t *testing.T) {
	tests := []struct {
		t  []byte
		sa []int64
	}{
		{t: []byte("abba"), sa: []int64{3, 2, 0, 1}},
		{t: []byte("aaa"), sa: []int64{1, 1, 1}},
	}
	for _, tc := range tests {
		if err := verifySuffixArray(tc.t, tc.sa); err == nil {
			t.Fatalf("verifySuffixArray(%q, %d) no error", tc.t,
				tc.sa)
		}
	}
}
