package lzdict

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/gofrs/flock"
	"github.com/ledgerwatch/log/v3"

	"github.com/ulikunitz/lzdict/dict"
	"github.com/ulikunitz/lzdict/larray"
	"github.com/ulikunitz/lzdict/suffix"
)

// Workspace executes the build phases in a work directory. It holds an
// exclusive lock on the directory until it is closed.
type Workspace struct {
	cfg   Config
	alloc larray.Allocator
	lock  *flock.Flock
	log   log.Logger
}

// Open locks the work directory of the configuration. It returns an error
// wrapping [ErrLocked] if another process holds the lock.
func Open(cfg Config) (*Workspace, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	fi, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("lzdict: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("lzdict: %s is not a directory", cfg.Dir)
	}
	l := flock.New(cfg.Path(LockFile))
	locked, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lzdict: lock %s: %w", cfg.Dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, cfg.Dir)
	}
	w := &Workspace{
		cfg:   cfg,
		alloc: cfg.Alloc.allocator(),
		lock:  l,
		log:   cfg.Logger,
	}
	return w, nil
}

// Config returns the configuration of the workspace with all defaults
// applied.
func (w *Workspace) Config() Config { return w.cfg }

// Close releases the lock on the work directory.
func (w *Workspace) Close() error {
	if w.lock == nil {
		return nil
	}
	err := w.lock.Unlock()
	w.lock = nil
	if err != nil {
		return fmt.Errorf("lzdict: unlock %s: %w", w.cfg.Dir, err)
	}
	return nil
}

func humanSize(n int64) string {
	return datasize.ByteSize(n).HumanReadable()
}

// commit renames the temporary file of a phase to its final name if err is
// nil. Otherwise the temporary file is removed.
func (w *Workspace) commit(name string, err error) error {
	tmp := w.cfg.Path(name + tmpSuffix)
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err = os.Rename(tmp, w.cfg.Path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("lzdict: %w", err)
	}
	return nil
}

// writeWide creates the array file name with n elements, fills it and
// commits it.
func (w *Workspace) writeWide(name string, n int64, fill func(a larray.Ints) error) (err error) {
	a, err := larray.CreateWide(w.cfg.Path(name+tmpSuffix), n)
	if err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	defer func() {
		err = errors.Join(err, a.Close())
		err = w.commit(name, err)
	}()
	return fill(a)
}

func (w *Workspace) openWide(name string) (*larray.Wide, error) {
	a, err := larray.OpenWide(w.cfg.Path(name))
	if err != nil {
		return nil, fmt.Errorf("lzdict: %w", err)
	}
	return a, nil
}

func (w *Workspace) openData() (*larray.ByteInts, error) {
	t, err := larray.OpenBytes(w.cfg.Path(DataFile))
	if err != nil {
		return nil, fmt.Errorf("lzdict: %w", err)
	}
	return t, nil
}

// BuildSA computes the suffix array of the data file and writes the sa
// file. The suffix array is sorted in a transient packed array and copied
// into the file afterwards.
func (w *Workspace) BuildSA() error {
	start := time.Now()
	text, err := w.openData()
	if err != nil {
		return err
	}
	defer text.Close()
	n := text.Len()
	w.log.Info("[sa] sorting suffixes", "n", n,
		"workspace", humanSize(n*larray.PackedWidth), "alloc", w.cfg.Alloc)

	sa, err := larray.AllocPacked(w.alloc, n)
	if err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	defer sa.Close()
	if err = suffix.Sort(text, sa, 256, w.alloc); err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	w.log.Debug("[sa] sorted", "took", time.Since(start))

	err = w.writeWide(SAFile, n, func(a larray.Ints) error {
		larray.Copy(a, sa)
		return nil
	})
	if err != nil {
		return err
	}
	w.log.Info("[sa] done", "size", humanSize(n*larray.WideWidth),
		"took", time.Since(start))
	return nil
}

// BuildRSA computes the inverse suffix array from the sa file and writes
// the rsa file.
func (w *Workspace) BuildRSA() error {
	start := time.Now()
	sa, err := w.openWide(SAFile)
	if err != nil {
		return err
	}
	defer sa.Close()
	n := sa.Len()
	w.log.Info("[rsa] inverting suffix array", "n", n)
	err = w.writeWide(RSAFile, n, func(a larray.Ints) error {
		suffix.InvertSA(sa, a)
		return nil
	})
	if err != nil {
		return err
	}
	w.log.Info("[rsa] done", "size", humanSize(n*larray.WideWidth),
		"took", time.Since(start))
	return nil
}

// BuildLCP computes the LCP table from the data and sa files and writes the
// lcp file. The inverse suffix array is computed again in transient memory.
func (w *Workspace) BuildLCP() error {
	start := time.Now()
	text, err := w.openData()
	if err != nil {
		return err
	}
	defer text.Close()
	sa, err := w.openWide(SAFile)
	if err != nil {
		return err
	}
	defer sa.Close()
	n := sa.Len()
	if text.Len() != n {
		return fmt.Errorf("lzdict: sa has %d entries; data has %d bytes",
			n, text.Len())
	}
	w.log.Info("[lcp] computing LCP table", "n", n,
		"workspace", humanSize(n*larray.PackedWidth))
	err = w.writeWide(LCPFile, n, func(a larray.Ints) error {
		return suffix.BuildLCP(text, sa, a, w.alloc)
	})
	if err != nil {
		return err
	}
	w.log.Info("[lcp] done", "size", humanSize(n*larray.WideWidth),
		"took", time.Since(start))
	return nil
}

// BuildIntervals selects the dictionary candidates using the sa, rsa and
// lcp files and writes the frequent-intervals file.
func (w *Workspace) BuildIntervals() (err error) {
	start := time.Now()
	arrays := make([]*larray.Wide, 0, 3)
	defer func() {
		for _, a := range arrays {
			a.Close()
		}
	}()
	for _, name := range []string{SAFile, RSAFile, LCPFile} {
		a, err := w.openWide(name)
		if err != nil {
			return err
		}
		arrays = append(arrays, a)
	}
	sa, rsa, lcp := arrays[0], arrays[1], arrays[2]
	n := sa.Len()
	if rsa.Len() != n || lcp.Len() != n {
		return fmt.Errorf("lzdict: array lengths sa=%d rsa=%d lcp=%d differ",
			n, rsa.Len(), lcp.Len())
	}
	w.log.Info("[intervals] selecting candidates", "n", n,
		"min_depth", dict.MinDepth)

	f, err := os.Create(w.cfg.Path(IntervalsFile + tmpSuffix))
	if err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
		err = w.commit(IntervalsFile, err)
	}()

	logEvery := time.NewTicker(w.cfg.LogEvery)
	defer logEvery.Stop()
	out := dict.NewWriter(f, int(w.cfg.WriteBuffer))
	err = dict.Select(sa, rsa, lcp, w.alloc, func(c dict.Candidate) error {
		select {
		case <-logEvery.C:
			w.log.Info("[intervals] progress", "candidates", out.Count(),
				"took", time.Since(start))
		default:
		}
		return out.Write(c)
	})
	if err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	if err = out.Flush(); err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	w.log.Info("[intervals] done", "candidates", out.Count(),
		"size", humanSize(out.Count()*dict.RecordSize),
		"took", time.Since(start))
	return nil
}

// Build executes all phases in order.
func (w *Workspace) Build() error {
	phases := []func() error{
		w.BuildSA,
		w.BuildRSA,
		w.BuildLCP,
		w.BuildIntervals,
	}
	for _, phase := range phases {
		if err := phase(); err != nil {
			return err
		}
	}
	return nil
}
