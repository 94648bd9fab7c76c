package lzdict

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/ledgerwatch/log/v3"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ulikunitz/lzdict/dict"
	"github.com/ulikunitz/lzdict/larray"
	"github.com/ulikunitz/lzdict/superstring"
)

// Candidates returns the dictionary candidates with a rating of at least
// MinRating ordered by decreasing rating. Candidates with the same rating
// are ordered by position. At most Limit candidates are returned if Limit
// is positive.
func (w *Workspace) Candidates() ([]dict.Candidate, error) {
	f, err := dict.Open(w.cfg.Path(IntervalsFile))
	if err != nil {
		return nil, fmt.Errorf("lzdict: %w", err)
	}
	defer f.Close()
	var s []dict.Candidate
	for _, c := range f.All() {
		if c.Rating >= w.cfg.MinRating {
			s = append(s, c)
		}
	}
	slices.SortStableFunc(s, func(a, b dict.Candidate) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return cmp.Compare(a.Pos, b.Pos)
	})
	if w.cfg.Limit > 0 && len(s) > w.cfg.Limit {
		s = s[:w.cfg.Limit]
	}
	return s, nil
}

// bytesToInts converts p into a JSON array of numbers instead of a base64
// string.
func bytesToInts(p []byte) []int {
	a := make([]int, len(p))
	for i, b := range p {
		a[i] = int(b)
	}
	return a
}

// Extract writes the selected candidates as JSON array of byte arrays. The
// candidates are selected as described for [Workspace.Candidates].
func (w *Workspace) Extract(out io.Writer) error {
	start := time.Now()
	cands, err := w.Candidates()
	if err != nil {
		return err
	}
	text, err := larray.OpenFile(w.cfg.Path(DataFile))
	if err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	defer text.Close()

	v := make([][]int, 0, len(cands))
	var total int64
	for _, c := range cands {
		v = append(v, bytesToInts(dict.Materialize(text, c)))
		total += int64(c.Length)
	}
	if err = json.NewEncoder(out).Encode(v); err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	w.log.Info("[extract] done", "candidates", len(cands),
		"bytes", humanSize(total), "took", time.Since(start))
	return nil
}

// ReadStrings reads a JSON array of byte arrays as written by Extract.
func ReadStrings(r io.Reader) ([][]byte, error) {
	var v [][]int
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("lzdict: %w", err)
	}
	ss := make([][]byte, len(v))
	for i, a := range v {
		p := make([]byte, len(a))
		for j, x := range a {
			if !(0 <= x && x <= math.MaxUint8) {
				return nil, fmt.Errorf(
					"lzdict: value %d of string %d is not a byte",
					x, i)
			}
			p[j] = byte(x)
		}
		ss[i] = p
	}
	return ss, nil
}

// Superstring reads the strings written by Extract from in and writes a
// common superstring of them to out.
func Superstring(in io.Reader, out io.Writer, logger log.Logger) error {
	start := time.Now()
	ss, err := ReadStrings(in)
	if err != nil {
		return err
	}
	var total int
	for _, s := range ss {
		total += len(s)
	}
	p := superstring.Merge(ss)
	if _, err = out.Write(p); err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	if logger == nil {
		logger = log.Root()
	}
	logger.Info("[superstring] done", "strings", len(ss),
		"input", humanSize(int64(total)), "output", humanSize(int64(len(p))),
		"took", time.Since(start))
	return nil
}

// Stats prints statistics about the data and the candidate file.
func (w *Workspace) Stats(out io.Writer) error {
	fi, err := os.Stat(w.cfg.Path(DataFile))
	if err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	f, err := dict.Open(w.cfg.Path(IntervalsFile))
	if err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	defer f.Close()

	var (
		total     int64
		minLen    int32 = math.MaxInt32
		maxLen    int32
		maxRating float32
	)
	for _, c := range f.All() {
		total += int64(c.Length)
		minLen = min(minLen, c.Length)
		maxLen = max(maxLen, c.Length)
		maxRating = max(maxRating, c.Rating)
	}
	if f.Len() == 0 {
		minLen = 0
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(out, "Data size: %d byte(s)\n", fi.Size())
	p.Fprintf(out, "Candidates: %d\n", f.Len())
	p.Fprintf(out, "Total candidate length: %d byte(s)\n", total)
	p.Fprintf(out, "Min candidate length: %d byte(s)\n", minLen)
	p.Fprintf(out, "Max candidate length: %d byte(s)\n", maxLen)
	p.Fprintf(out, "Max rating: %.2f\n", maxRating)
	return nil
}
