package lzdict

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	jsoniter "github.com/json-iterator/go"
	"github.com/ledgerwatch/log/v3"

	"github.com/ulikunitz/lzdict/larray"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AllocType selects the memory used for transient arrays.
type AllocType int

const (
	// Anon uses anonymous memory mappings.
	Anon AllocType = 1 + iota
	// Heap uses the Go heap.
	Heap
)

func (at AllocType) String() string {
	p, err := at.MarshalText()
	if err != nil {
		return fmt.Sprintf("AllocType(%d)", int(at))
	}
	return string(p)
}

func (at AllocType) MarshalText() ([]byte, error) {
	switch at {
	case Anon:
		return []byte("anon"), nil
	case Heap:
		return []byte("heap"), nil
	default:
		return nil, fmt.Errorf("lzdict: unknown AllocType %d", at)
	}
}

func (at *AllocType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "anon":
		*at = Anon
	case "heap":
		*at = Heap
	default:
		return fmt.Errorf("lzdict: unknown AllocType %q", text)
	}
	return nil
}

func (at AllocType) allocator() larray.Allocator {
	if at == Heap {
		return larray.Heap{}
	}
	return larray.Anon{}
}

// Config describes the work directory and the parameters of the build
// phases.
type Config struct {
	// Dir is the work directory. It must contain the file data.
	Dir string `json:"dir,omitempty"`
	// Alloc selects the memory for the transient arrays. The default is
	// Anon.
	Alloc AllocType `json:"alloc,omitempty"`
	// WriteBuffer is the buffer size for writing the candidate file. It
	// defaults to 1 MB.
	WriteBuffer datasize.ByteSize `json:"writeBuffer,omitempty"`
	// LogEvery is the interval for progress messages. It defaults to 30
	// seconds.
	LogEvery time.Duration `json:"logEvery,omitempty"`
	// MinRating is the minimum rating of extracted candidates.
	MinRating float32 `json:"minRating,omitempty"`
	// Limit is the maximum number of extracted candidates. Zero means no
	// limit.
	Limit int `json:"limit,omitempty"`

	// Logger receives the log messages. The root logger is used if it is
	// nil.
	Logger log.Logger `json:"-"`
}

// ApplyDefaults sets the zero values of the configuration to their
// defaults.
func (cfg *Config) ApplyDefaults() {
	if cfg.Alloc == 0 {
		cfg.Alloc = Anon
	}
	if cfg.WriteBuffer == 0 {
		cfg.WriteBuffer = 1 * datasize.MB
	}
	if cfg.LogEvery == 0 {
		cfg.LogEvery = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Root()
	}
}

// Verify checks the configuration for errors. Call ApplyDefaults before
// Verify.
func (cfg *Config) Verify() error {
	if cfg.Dir == "" {
		return fmt.Errorf("lzdict: cfg.Dir must be set")
	}
	if _, err := cfg.Alloc.MarshalText(); err != nil {
		return err
	}
	if !(0 < cfg.WriteBuffer && cfg.WriteBuffer <= math.MaxInt32) {
		return fmt.Errorf("lzdict: cfg.WriteBuffer must be in range 1-%d",
			math.MaxInt32)
	}
	if cfg.LogEvery <= 0 {
		return fmt.Errorf("lzdict: cfg.LogEvery must be positive")
	}
	if math.IsNaN(float64(cfg.MinRating)) {
		return fmt.Errorf("lzdict: cfg.MinRating must be a number")
	}
	if cfg.Limit < 0 {
		return fmt.Errorf("lzdict: cfg.Limit must be non-negative")
	}
	return nil
}

// LoadConfig reads a JSON configuration file into cfg. Fields missing in
// the file keep their values.
func LoadConfig(name string, cfg *Config) error {
	p, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("lzdict: %w", err)
	}
	if err = json.Unmarshal(p, cfg); err != nil {
		return fmt.Errorf("lzdict: config %s: %w", name, err)
	}
	return nil
}
