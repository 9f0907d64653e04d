// Package refs tracks the references of a repository as reported by
// `git ls-remote`.
//
// The package keeps three pieces of state:
//   - a catalog of reference records, deduplicated by name (or, for
//     replacement refs, by the replaced object id) and kept in a stable
//     display order;
//   - a pointer to the record HEAD currently resolves to;
//   - an index answering "which refs point at object X", built lazily per
//     object id and pruned incrementally on every reload.
//
// Records are never removed. A record that vanishes from the source is
// tombstoned: its ID is cleared but the record itself, and any pointer held
// to it, stays valid. When the same key shows up again the record is revived.
//
// A Manager is not safe for concurrent use.
package refs

import (
	"context"
	"errors"
	"fmt"
)

// IDLength is the number of hex digits kept for an object id.
const IDLength = 40

// ID is a bounded object identifier. The empty ID marks a tombstoned record.
type ID string

// NewID returns s truncated to IDLength bytes.
func NewID(s string) ID {
	if len(s) > IDLength {
		s = s[:IDLength]
	}
	return ID(s)
}

// IsZero reports whether the id is the empty tombstone value.
func (id ID) IsZero() bool { return id == "" }

// Short returns the first n characters of the id.
func (id ID) Short(n int) string {
	if len(id) <= n {
		return string(id)
	}
	return string(id[:n])
}

func (id ID) String() string { return string(id) }

// State is the reconciliation state of a record.
type State uint8

const (
	// StateFresh records were confirmed by the last source pass or inserted manually.
	StateFresh State = iota
	// StateStale records have not been seen yet in the reload in progress.
	StateStale
	// StateTombstoned records were missing from the last completed reload.
	StateTombstoned
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateTombstoned:
		return "tombstoned"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Flags holds the category of a record.
type Flags struct {
	Tag          bool // refs/tags/*
	AnnotatedTag bool // tag object listed before its peeled commit
	Head         bool // the branch HEAD points at, or a detached HEAD
	Remote       bool // refs/remotes/*
	Tracked      bool // remote branch matching the configured upstream
	Replace      bool // refs/replace/*
}

// Record is one reference in the catalog.
type Record struct {
	Name string
	ID   ID
	Flags
	State State
}

// Valid reports whether the record was confirmed by the latest source pass.
func (r *Record) Valid() bool { return r.State == StateFresh }

// Visible reports whether the record currently points at an object.
func (r *Record) Visible() bool { return !r.ID.IsZero() }

// Kind returns a short label for the record category.
func (r *Record) Kind() string {
	switch {
	case r.Tag && r.AnnotatedTag:
		return "annotated-tag"
	case r.Tag:
		return "tag"
	case r.Replace:
		return "replace"
	case r.Tracked:
		return "tracked"
	case r.Remote:
		return "remote"
	case r.Head:
		return "head"
	default:
		return "branch"
	}
}

func (r *Record) String() string {
	return fmt.Sprintf("%s %s (%s)", r.ID.Short(7), r.Name, r.Kind())
}

// ErrAllocation is returned when the catalog cannot grow any further.
var ErrAllocation = errors.New("reference storage exhausted")

// SourceError is returned when the reference source could not be run or read.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string { return fmt.Sprintf("refs source %s: %v", e.Op, e.Err) }

func (e *SourceError) Unwrap() error { return e.Err }

// Source produces the raw reference listing of a repository.
//
// Refs must call fn for every `id, name` pair in the order the underlying
// tool emits them; in particular an annotated tag's own object id has to be
// reported right before its peeled `^{}` line. An error returned by fn
// stops the listing and is returned as is.
type Source interface {
	HeadName(ctx context.Context) (string, error)
	Refs(ctx context.Context, fn func(id, name string) error) error
}
