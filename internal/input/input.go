// Package input loads newline-delimited record files for the hashbin CLI.
//
// Plain files are memory-mapped read-only. Files ending in .zst or .gz are
// decompressed into memory. Records are returned as sub-slices of the
// loaded data, so they are valid until Close.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Source is a loaded input file.
//
// Thread Safety:
// Lines may be called concurrently. Close must only be called once all
// readers are done with the returned records.
type Source struct {
	mmap mmap.MMap // nil unless the file is memory-mapped
	data []byte
}

// Open loads path. The compression format is chosen by extension.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		return FromReader(dec)
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		src, err := FromReader(zr)
		if err != nil {
			return nil, errors.Join(err, zr.Close())
		}
		return src, zr.Close()
	}
	return OpenFile(f)
}

// OpenFile memory-maps f. The caller is responsible for closing f; per
// POSIX mmap(2) it may be closed immediately after OpenFile returns.
func OpenFile(f *os.File) (*Source, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("open input: %s is a directory", f.Name())
	}
	if stat.Size() == 0 {
		// mmap of a zero-length file fails with EINVAL.
		return &Source{}, nil
	}

	fadviseSequential(int(f.Fd()), 0, stat.Size())
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap input: %w", err)
	}
	madviseSequential(mm)
	return &Source{mmap: mm, data: []byte(mm)}, nil
}

// FromReader reads r to EOF into memory.
func FromReader(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return &Source{data: data}, nil
}

// FromBytes wraps data without copying it.
func FromBytes(data []byte) *Source {
	return &Source{data: data}
}

// Bytes returns the loaded contents.
func (s *Source) Bytes() []byte { return s.data }

// Lines yields each record without its line terminator ("\n" or "\r\n").
// A final record without a trailing newline is yielded; the empty string
// after a final newline is not.
func (s *Source) Lines() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		data := s.data
		for len(data) > 0 {
			line := data
			if i := bytes.IndexByte(data, '\n'); i >= 0 {
				line, data = data[:i], data[i+1:]
			} else {
				data = nil
			}
			line = bytes.TrimSuffix(line, []byte{'\r'})
			if !yield(line) {
				return
			}
		}
	}
}

// Close unmaps the file. It is a no-op for in-memory sources.
func (s *Source) Close() error {
	if s.mmap == nil {
		return nil
	}
	err := s.mmap.Unmap()
	s.mmap, s.data = nil, nil
	return err
}
