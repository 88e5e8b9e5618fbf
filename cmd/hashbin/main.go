// Hashbin assigns each record of a newline-delimited file to a stable bucket.
//
// Usage:
//
//	hashbin -bins 1000 values.txt
//	hashbin -bins 1000 -salt 133,137 -mask '' values.txt.zst
//	hashbin -bins 1000 -sep '\t' -workers 8 pairs.tsv
//	hashbin -config hasher.yaml < values.txt
//
// Flags:
//
//	-bins         Number of buckets (required unless -config is given)
//	-mask         Value reserved for bucket 0
//	-salt         Strong-hash salt: one value or two comma-separated values
//	-int          Treat records (and the mask) as base-10 integers
//	-workers      Number of parallel workers (default: 1)
//	-sep          Split records into columns on this separator and cross them
//	-config       Load the hasher from a YAML/JSON (or .bin) configuration;
//	              excludes -bins, -mask and -salt
//	-save-config  Write the hasher configuration to a file
//	-v            Verbose (debug) logging to stderr
//
// Plain input files are memory-mapped; .zst and .gz inputs are
// decompressed. Without an input argument records are read from stdin.
// Each output line holds the space-separated buckets of one record.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/tamirms/hashbin"
	"github.com/tamirms/hashbin/internal/input"
)

type options struct {
	bins       int
	mask       string
	hasMask    bool
	salt       string
	ints       bool
	workers    int
	sep        string
	config     string
	saveConfig string
	verbose    bool
	input      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "hashbin: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("hashbin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.IntVar(&o.bins, "bins", 0, "number of buckets")
	fs.Func("mask", "value reserved for bucket 0", func(s string) error {
		o.mask, o.hasMask = s, true
		return nil
	})
	fs.StringVar(&o.salt, "salt", "", "strong-hash salt: s or s0,s1")
	fs.BoolVar(&o.ints, "int", false, "treat records as base-10 integers")
	fs.IntVar(&o.workers, "workers", 1, "number of parallel workers")
	fs.StringVar(&o.sep, "sep", "", "split records into columns and cross them")
	fs.StringVar(&o.config, "config", "", "load hasher configuration from file")
	fs.StringVar(&o.saveConfig, "save-config", "", "write hasher configuration to file")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		o.input = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected at most one input, got %d", fs.NArg())
	}
	if o.config != "" {
		var conflicts []string
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bins", "mask", "salt":
				conflicts = append(conflicts, "-"+f.Name)
			}
		})
		if len(conflicts) > 0 {
			return nil, fmt.Errorf("-config cannot be combined with %s", strings.Join(conflicts, ", "))
		}
	} else if o.bins == 0 {
		return nil, errors.New("-bins or -config is required")
	}
	if o.sep != "" {
		sep, err := strconv.Unquote(`"` + o.sep + `"`)
		if err != nil {
			return nil, fmt.Errorf("invalid -sep %q: %w", o.sep, err)
		}
		o.sep = sep
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	h, err := buildHasher(o, logger)
	if err != nil {
		return err
	}
	if o.saveConfig != "" {
		if err := saveConfig(o.saveConfig, h.Config()); err != nil {
			return err
		}
		logger.Debug("saved configuration", "path", o.saveConfig)
	}

	src, err := openInput(o.input, stdin)
	if err != nil {
		return err
	}
	defer src.Close()

	var records [][]byte
	for line := range src.Lines() {
		records = append(records, line)
	}
	logger.Debug("loaded input", "records", len(records), "bytes", len(src.Bytes()))

	w := bufio.NewWriter(stdout)
	if o.sep == "" {
		err = hashRecords(ctx, h, o.ints, records, w)
	} else {
		err = crossRecords(ctx, h, o.ints, o.sep, records, w)
	}
	if err != nil {
		return err
	}
	return w.Flush()
}

func buildHasher(o *options, logger *slog.Logger) (*hashbin.Hasher, error) {
	opts := []hashbin.Option{
		hashbin.WithWorkers(o.workers),
		hashbin.WithLogger(logger),
	}

	if o.config != "" {
		cfg, err := loadConfig(o.config)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded configuration", "path", o.config, "num_bins", cfg.NumBins)
		return hashbin.FromConfig(cfg, opts...)
	}

	if o.hasMask {
		mask, err := parseValue(o.mask, o.ints)
		if err != nil {
			return nil, fmt.Errorf("invalid -mask: %w", err)
		}
		opts = append(opts, hashbin.WithMask(mask))
	}
	if o.salt != "" {
		var salt []uint64
		for part := range strings.SplitSeq(o.salt, ",") {
			s, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid -salt %q: %w", o.salt, err)
			}
			salt = append(salt, s)
		}
		opts = append(opts, hashbin.WithSalt(salt...))
	}
	return hashbin.New(o.bins, opts...)
}

func loadConfig(path string) (hashbin.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return hashbin.Config{}, fmt.Errorf("read config: %w", err)
	}
	if filepath.Ext(path) == ".bin" {
		var cfg hashbin.Config
		if err := cfg.UnmarshalBinary(data); err != nil {
			return hashbin.Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
		return cfg, nil
	}
	cfg, err := hashbin.ParseConfig(data)
	if err != nil {
		return hashbin.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func saveConfig(path string, cfg hashbin.Config) error {
	var (
		data []byte
		err  error
	)
	if filepath.Ext(path) == ".bin" {
		data, err = cfg.MarshalBinary()
	} else {
		data, err = cfg.YAML()
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func openInput(path string, stdin io.Reader) (*input.Source, error) {
	if path == "" || path == "-" {
		return input.FromReader(stdin)
	}
	return input.Open(path)
}

func parseValue(b string, ints bool) (hashbin.Scalar, error) {
	if !ints {
		return hashbin.String(b), nil
	}
	i, err := strconv.ParseInt(b, 10, 64)
	if err != nil {
		return hashbin.Scalar{}, err
	}
	return hashbin.Int(i), nil
}

func hashRecords(ctx context.Context, h *hashbin.Hasher, ints bool, records [][]byte, w *bufio.Writer) error {
	vals := make([]hashbin.Scalar, len(records))
	for i, rec := range records {
		v, err := parseValue(string(rec), ints)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		vals[i] = v
	}

	buckets, err := h.HashColumnContext(ctx, vals)
	if err != nil {
		return err
	}
	var buf []byte
	for _, b := range buckets {
		buf = strconv.AppendUint(buf[:0], uint64(b), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// crossRecords treats field j of every record as dense column j.
func crossRecords(ctx context.Context, h *hashbin.Hasher, ints bool, sep string, records [][]byte, w *bufio.Writer) error {
	var cols [][]hashbin.Scalar
	for i, rec := range records {
		fields := strings.Split(string(rec), sep)
		if i == 0 {
			cols = make([][]hashbin.Scalar, len(fields))
			for j := range cols {
				cols[j] = make([]hashbin.Scalar, len(records))
			}
		} else if len(fields) != len(cols) {
			return fmt.Errorf("record %d: got %d fields, want %d", i+1, len(fields), len(cols))
		}
		for j, f := range fields {
			v, err := parseValue(f, ints)
			if err != nil {
				return fmt.Errorf("record %d field %d: %w", i+1, j+1, err)
			}
			cols[j][i] = v
		}
	}
	if len(records) == 0 {
		return nil
	}

	columns := make([]hashbin.Column, len(cols))
	for j, c := range cols {
		columns[j] = hashbin.DenseFromColumn(c)
	}
	res, err := h.CrossContext(ctx, columns...)
	if err != nil {
		return err
	}
	if !res.IsDense() {
		return fmt.Errorf("unexpected sparse cross result for dense input")
	}

	var buf []byte
	for i := range res.Dense.Rows {
		buf = buf[:0]
		for k, b := range res.Dense.Row(i) {
			if k > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, uint64(b), 10)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
