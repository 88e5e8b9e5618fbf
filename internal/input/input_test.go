package input

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const sample = "A\nB\r\n\nC\nlast"

var sampleLines = []string{"A", "B", "", "C", "last"}

func collect(t *testing.T, s *Source) []string {
	t.Helper()
	var out []string
	for line := range s.Lines() {
		out = append(out, string(line))
	}
	return out
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n", []string{""}},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\n", []string{"a", ""}},
		{sample, sampleLines},
	}
	for _, tt := range tests {
		if got := collect(t, FromBytes([]byte(tt.in))); !slices.Equal(got, tt.want) {
			t.Errorf("Lines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLinesEarlyStop(t *testing.T) {
	n := 0
	for range FromBytes([]byte("a\nb\nc\n")).Lines() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterated %d times, want 2", n)
	}
}

func TestOpenPlain(t *testing.T) {
	path := writeFile(t, "values.txt", []byte(sample))
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.mmap == nil {
		t.Error("plain file was not memory-mapped")
	}
	if got := collect(t, s); !slices.Equal(got, sampleLines) {
		t.Errorf("got %q, want %q", got, sampleLines)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestOpenEmpty(t *testing.T) {
	s, err := Open(writeFile(t, "empty.txt", nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := collect(t, s); len(got) != 0 {
		t.Errorf("got %q, want no records", got)
	}
}

func TestOpenZstd(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write([]byte(sample)); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := Open(writeFile(t, "values.txt.zst", buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got := collect(t, s); !slices.Equal(got, sampleLines) {
		t.Errorf("got %q, want %q", got, sampleLines)
	}
}

func TestOpenGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(sample)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := Open(writeFile(t, "values.txt.gz", buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got := collect(t, s); !slices.Equal(got, sampleLines) {
		t.Errorf("got %q, want %q", got, sampleLines)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error when opening a directory")
	}
	if _, err := Open(writeFile(t, "bad.gz", []byte("not gzip"))); err == nil {
		t.Error("expected error for corrupt gzip")
	}
	if _, err := Open(writeFile(t, "bad.zst", []byte("not zstd at all"))); err == nil {
		t.Error("expected error for corrupt zstd")
	}
}
