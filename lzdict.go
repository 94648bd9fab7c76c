// Package lzdict builds a dictionary of repeated substrings for a byte
// corpus. The dictionary is intended for compressors that store frequent
// substrings once and reference them.
//
// The dictionary is built in phases inside a work directory. Every phase
// reads the files of the previous phases and writes a new one:
//
//	data                the corpus
//	sa                  suffix array
//	rsa                 inverse suffix array
//	lcp                 LCP table
//	frequent-intervals  dictionary candidates
//
// The arrays sa, rsa and lcp store 8-byte little-endian integers. The
// candidate file stores records of 16 bytes as described in package dict.
// The phases write to temporary files that are renamed after successful
// completion, so an interrupted phase never leaves a complete-looking
// output file.
package lzdict

import (
	"errors"
	"path/filepath"
)

// Names of the files in the work directory.
const (
	DataFile      = "data"
	SAFile        = "sa"
	RSAFile       = "rsa"
	LCPFile       = "lcp"
	IntervalsFile = "frequent-intervals"
	LockFile      = "LOCK"
)

const tmpSuffix = ".tmp"

// ErrLocked indicates that the work directory is used by another process.
var ErrLocked = errors.New("lzdict: work directory locked by another process")

// Path returns the path of the named file in the work directory.
func (cfg *Config) Path(name string) string {
	return filepath.Join(cfg.Dir, name)
}
