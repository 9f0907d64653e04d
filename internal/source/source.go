// Package source provides the reference listings consumed by refs.Manager.
//
// Three implementations are available: GitSource runs `git ls-remote`
// against a repository, FileSource replays a listing saved to disk
// (optionally zstd-compressed), and Static serves an in-memory fixture.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// Pair is one `id, name` line of a reference listing.
type Pair struct {
	ID   string
	Name string
}

// Parse reads a tab-separated `id<TAB>name` listing and calls fn for every
// non-empty line. A line without a tab is reported as an id with an empty
// name.
func Parse(r io.Reader, fn func(id, name string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if line == "" {
			continue
		}
		id, name, _ := strings.Cut(line, "\t")
		if err := fn(id, strings.TrimSpace(name)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read listing: %w", err)
	}
	return nil
}

// ParsePair parses a single "<id> <name>" or "<id>\t<name>" string.
func ParsePair(s string) (Pair, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Pair{}, fmt.Errorf("invalid ref %q: expected \"<id> <name>\"", s)
	}
	return Pair{ID: fields[0], Name: fields[1]}, nil
}

// Static serves a fixed listing.
type Static struct {
	Head  string
	Pairs []Pair
	// Err, when set, is returned by Refs after all pairs have been sent.
	Err error
}

// HeadName implements refs.Source.
func (s *Static) HeadName(ctx context.Context) (string, error) {
	if s.Head == "" {
		return "", fmt.Errorf("no symbolic head")
	}
	return s.Head, nil
}

// Refs implements refs.Source.
func (s *Static) Refs(ctx context.Context, fn func(id, name string) error) error {
	for _, p := range s.Pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(p.ID, p.Name); err != nil {
			return err
		}
	}
	return s.Err
}
