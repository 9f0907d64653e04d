package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/javanhut/refscope/internal/refs"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// FileSource replays a saved `git ls-remote` listing. Files starting with
// the zstd magic number are decompressed on the fly.
type FileSource struct {
	path string
	head string
}

// FileOption configures a FileSource.
type FileOption func(*FileSource)

// WithHead sets the symbolic head reported by the source, e.g.
// "refs/heads/main". Without it HeadName fails and the listing is treated
// as having a detached HEAD.
func WithHead(head string) FileOption {
	return func(s *FileSource) { s.head = head }
}

// NewFileSource creates a source reading the listing at path.
func NewFileSource(path string, opts ...FileOption) *FileSource {
	s := &FileSource{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HeadName implements refs.Source.
func (s *FileSource) HeadName(ctx context.Context) (string, error) {
	if s.head == "" {
		return "", &refs.SourceError{Op: "head", Err: fmt.Errorf("no head recorded for %s", s.path)}
	}
	return s.head, nil
}

// Refs implements refs.Source.
func (s *FileSource) Refs(ctx context.Context, fn func(id, name string) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return &refs.SourceError{Op: "open", Err: err}
	}
	defer f.Close()

	r, err := decompress(f)
	if err != nil {
		return &refs.SourceError{Op: "decompress", Err: err}
	}
	defer r.Close()

	var fnErr error
	err = Parse(r, func(id, name string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(id, name); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return &refs.SourceError{Op: "read", Err: err}
	}
	return nil
}

// decompress wraps r in a zstd decoder when the stream is compressed.
func decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(magic, zstdMagic) {
		return io.NopCloser(br), nil
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	return dec.IOReadCloser(), nil
}

var _ refs.Source = (*FileSource)(nil)
