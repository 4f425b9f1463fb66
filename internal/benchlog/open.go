package benchlog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// StdinPath reads the log from standard input.
const StdinPath = "-"

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic = []byte{0x1F, 0x8B}
)

type logReader struct {
	io.Reader
	closers []func() error
}

func (r *logReader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open opens a benchmark log. Zstd and gzip compressed files are detected
// by their magic bytes and decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	var (
		src    io.Reader
		closer func() error
	)
	if path == StdinPath {
		src = os.Stdin
		closer = func() error { return nil }
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		src = f
		closer = f.Close
	}

	r, err := newLogReader(src)
	if err != nil {
		closer()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	r.closers = append(r.closers, closer)
	return r, nil
}

// newLogReader wraps src with a decompressor when it starts with a zstd or
// gzip magic number.
func newLogReader(src io.Reader) (*logReader, error) {
	br := bufio.NewReader(src)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read magic bytes: %w", err)
	}

	switch {
	case bytes.HasPrefix(magic, zstdMagic):
		decoder, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		return &logReader{
			Reader:  decoder,
			closers: []func() error{func() error { decoder.Close(); return nil }},
		}, nil
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &logReader{Reader: gz, closers: []func() error{gz.Close}}, nil
	}
	return &logReader{Reader: br}, nil
}
