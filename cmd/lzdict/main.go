// Command lzdict builds a dictionary of repeated substrings for a corpus.
//
// The corpus must be stored as file data in the work directory. The build
// command runs all phases; the phases can also be run one by one.
//
//	lzdict --dir work build
//	lzdict --dir work extract --min-rating 2 --out dict.json
//	lzdict superstring --in dict.json --out dict.bin
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/ulikunitz/lzdict"
)

var (
	DirFlag = cli.StringFlag{
		Name:  "dir",
		Usage: "work directory containing the data file",
		Value: ".",
	}
	AllocFlag = cli.StringFlag{
		Name:  "alloc",
		Usage: "memory for transient arrays: anon or heap",
	}
	WriteBufferFlag = cli.StringFlag{
		Name:  "write-buffer",
		Usage: "buffer size for writing the candidate file, e.g. 4MB",
	}
	LogEveryFlag = cli.DurationFlag{
		Name:  "log-every",
		Usage: "interval between progress messages",
	}
	VerbosityFlag = cli.StringFlag{
		Name:  "verbosity",
		Usage: "log level: crit, error, warn, info, debug or trace",
		Value: "info",
	}
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "JSON configuration file; flags override its values",
	}

	MinRatingFlag = cli.Float64Flag{
		Name:  "min-rating",
		Usage: "minimum rating of extracted candidates",
	}
	LimitFlag = cli.IntFlag{
		Name:  "limit",
		Usage: "maximum number of extracted candidates, 0 for all",
	}
	OutFlag = cli.StringFlag{
		Name:  "out",
		Usage: "output file; standard output if not set",
	}
	InFlag = cli.StringFlag{
		Name:  "in",
		Usage: "input file; standard input if not set",
	}
)

func phase(name, usage string, run func(w *lzdict.Workspace) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(cliCtx *cli.Context) error {
			return withWorkspace(cliCtx, run)
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "lzdict",
		Usage: "build a dictionary of repeated substrings",
		Flags: []cli.Flag{
			&DirFlag,
			&AllocFlag,
			&WriteBufferFlag,
			&LogEveryFlag,
			&VerbosityFlag,
			&ConfigFlag,
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			phase("sa", "compute the suffix array", (*lzdict.Workspace).BuildSA),
			phase("rsa", "compute the inverse suffix array", (*lzdict.Workspace).BuildRSA),
			phase("lcp", "compute the LCP table", (*lzdict.Workspace).BuildLCP),
			phase("intervals", "select the dictionary candidates", (*lzdict.Workspace).BuildIntervals),
			phase("build", "run all phases", (*lzdict.Workspace).Build),
			{
				Name:   "extract",
				Usage:  "write the best candidates as JSON",
				Flags:  []cli.Flag{&MinRatingFlag, &LimitFlag, &OutFlag},
				Action: extract,
			},
			{
				Name:   "superstring",
				Usage:  "merge extracted candidates into a common superstring",
				Flags:  []cli.Flag{&InFlag, &OutFlag},
				Action: mergeStrings,
			},
			{
				Name:  "stats",
				Usage: "print statistics of the candidate file",
				Action: func(cliCtx *cli.Context) error {
					return withWorkspace(cliCtx, func(w *lzdict.Workspace) error {
						return w.Stats(cliCtx.App.Writer)
					})
				},
			},
		},
	}
}

func setupLogging(cliCtx *cli.Context) error {
	lvl, err := log.LvlFromString(strings.ToLower(cliCtx.String(VerbosityFlag.Name)))
	if err != nil {
		return err
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))
	return nil
}

// config builds the configuration from the config file and the flags.
func config(cliCtx *cli.Context) (cfg lzdict.Config, err error) {
	if cliCtx.IsSet(ConfigFlag.Name) {
		if err = lzdict.LoadConfig(cliCtx.String(ConfigFlag.Name), &cfg); err != nil {
			return cfg, err
		}
	}
	if cliCtx.IsSet(DirFlag.Name) || cfg.Dir == "" {
		cfg.Dir = cliCtx.String(DirFlag.Name)
	}
	if cliCtx.IsSet(AllocFlag.Name) {
		if err = cfg.Alloc.UnmarshalText([]byte(cliCtx.String(AllocFlag.Name))); err != nil {
			return cfg, err
		}
	}
	if cliCtx.IsSet(WriteBufferFlag.Name) {
		var size datasize.ByteSize
		if err = size.UnmarshalText([]byte(cliCtx.String(WriteBufferFlag.Name))); err != nil {
			return cfg, fmt.Errorf("invalid --%s: %w", WriteBufferFlag.Name, err)
		}
		cfg.WriteBuffer = size
	}
	if cliCtx.IsSet(LogEveryFlag.Name) {
		cfg.LogEvery = cliCtx.Duration(LogEveryFlag.Name)
	}
	if cliCtx.IsSet(MinRatingFlag.Name) {
		cfg.MinRating = float32(cliCtx.Float64(MinRatingFlag.Name))
	}
	if cliCtx.IsSet(LimitFlag.Name) {
		cfg.Limit = cliCtx.Int(LimitFlag.Name)
	}
	return cfg, nil
}

func withWorkspace(cliCtx *cli.Context, run func(w *lzdict.Workspace) error) error {
	cfg, err := config(cliCtx)
	if err != nil {
		return err
	}
	w, err := lzdict.Open(cfg)
	if err != nil {
		return err
	}
	defer w.Close()
	return run(w)
}

func extract(cliCtx *cli.Context) error {
	return withWorkspace(cliCtx, func(w *lzdict.Workspace) (err error) {
		name := cliCtx.String(OutFlag.Name)
		if name == "" {
			return w.Extract(cliCtx.App.Writer)
		}
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		return w.Extract(f)
	})
}

func mergeStrings(cliCtx *cli.Context) (err error) {
	in := os.Stdin
	if name := cliCtx.String(InFlag.Name); name != "" {
		if in, err = os.Open(name); err != nil {
			return err
		}
		defer in.Close()
	}
	out := cliCtx.App.Writer
	if name := cliCtx.String(OutFlag.Name); name != "" {
		var f *os.File
		if f, err = os.Create(name); err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}
	return lzdict.Superstring(in, out, log.Root())
}

func main() {
	start := time.Now()
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Debug("finished", "took", time.Since(start))
}
