package refs

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"lukechampine.com/blake3"
)

// Phase is the step of a reload the manager is in.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseStaling
	PhaseIngesting
	PhaseTombstoning
	PhasePruning
	PhaseSorted
)

var phaseNames = [...]string{"idle", "staling", "ingesting", "tombstoning", "pruning", "sorted"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// Fingerprint is a BLAKE3 digest of the visible catalog.
type Fingerprint [32]byte

func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// Options configures a Manager.
type Options struct {
	// Remote is the tracked remote branch, e.g. "origin/main".
	Remote string
	// Head is the current branch. When empty it is resolved from the source
	// on the next reload.
	Head string
	// MaxRecords bounds the catalog size; 0 means no limit.
	MaxRecords int
	Logger     *zap.Logger
}

// Manager owns the catalog, the head pointer and the index, and keeps them
// in sync with a Source.
type Manager struct {
	src     Source
	remote  string
	head    string
	catalog *Catalog
	index   *Index
	log     *zap.Logger

	phase       Phase
	loaded      bool
	generation  uint64
	fingerprint Fingerprint
}

// NewManager creates a manager reading references from src.
func NewManager(src Source, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	catalog := NewCatalog(opts.MaxRecords, log)
	return &Manager{
		src:     src,
		remote:  opts.Remote,
		head:    opts.Head,
		catalog: catalog,
		index:   NewIndex(catalog),
		log:     log,
	}
}

// Reload synchronises the catalog with the source. Unless force is set, a
// manager that has already loaded successfully does nothing. A forced
// reload also re-resolves the head branch.
//
// On error the reload is abandoned where it stopped: records already
// upserted keep their new values and the rest stay stale.
func (m *Manager) Reload(ctx context.Context, force bool) error {
	if force {
		m.head = ""
	} else if m.loaded {
		return nil
	}
	if m.src == nil {
		return nil
	}
	defer m.setPhase(PhaseIdle)

	m.setPhase(PhaseStaling)
	m.catalog.markStale()

	m.setPhase(PhaseIngesting)
	if m.head == "" {
		m.resolveHead(ctx)
	}
	opts := ClassifyOptions{Remote: m.remote, Head: m.head}
	seen := 0
	err := m.src.Refs(ctx, func(id, name string) error {
		seen++
		return m.add(id, name, opts)
	})
	if err != nil {
		if errors.Is(err, ErrAllocation) {
			return fmt.Errorf("reload refs: %w", err)
		}
		var serr *SourceError
		if errors.As(err, &serr) {
			return err
		}
		return &SourceError{Op: "list", Err: err}
	}

	m.setPhase(PhaseTombstoning)
	tombstoned := m.catalog.tombstone()

	m.setPhase(PhasePruning)
	pruned := m.index.prune()

	m.setPhase(PhaseSorted)
	m.catalog.sort()

	m.loaded = true
	if fp := m.computeFingerprint(); fp != m.fingerprint || m.generation == 0 {
		m.fingerprint = fp
		m.generation++
	}

	m.log.Info("refs reloaded",
		zap.Int("lines", seen),
		zap.Int("records", m.catalog.Len()),
		zap.Int("tombstoned", tombstoned),
		zap.Int("unindexed", pruned),
		zap.String("head", m.head),
		zap.Uint64("generation", m.generation))
	return nil
}

func (m *Manager) resolveHead(ctx context.Context) {
	name, err := m.src.HeadName(ctx)
	if err != nil {
		m.log.Debug("head is not a symbolic ref", zap.Error(err))
		return
	}
	m.head = TrimHeadPrefix(name)
}

// Insert adds a single reference without touching the state of the others.
func (m *Manager) Insert(id, name, remote, head string) error {
	if err := m.add(id, name, ClassifyOptions{Remote: remote, Head: head}); err != nil {
		return fmt.Errorf("insert ref %q: %w", name, err)
	}
	return nil
}

func (m *Manager) add(id, name string, opts ClassifyOptions) error {
	cl, ok := Classify(id, name, opts)
	if !ok {
		return nil
	}
	_, err := m.catalog.Upsert(cl)
	return err
}

// ForEach calls fn for each record pointing at an object, in catalog order,
// until fn returns false. Records still waiting to be confirmed by an
// unfinished reload are skipped.
func (m *Manager) ForEach(fn func(*Record) bool) {
	m.catalog.ForEach(func(r *Record) bool {
		if !r.Visible() || r.State == StateStale {
			return true
		}
		return fn(r)
	})
}

// Head returns the record HEAD resolves to.
func (m *Manager) Head() (*Record, bool) {
	h := m.catalog.Head()
	return h, h != nil
}

// HeadName returns the branch name the manager currently considers HEAD.
func (m *Manager) HeadName() string { return m.head }

// Lookup returns the records pointing at the object id, sorted for display.
func (m *Manager) Lookup(id string) ([]*Record, bool) {
	return m.index.Get(NewID(id))
}

// Len returns the number of records, tombstoned ones included.
func (m *Manager) Len() int { return m.catalog.Len() }

// Phase returns the reload step in progress.
func (m *Manager) Phase() Phase { return m.phase }

// Loaded reports whether a reload has completed successfully.
func (m *Manager) Loaded() bool { return m.loaded }

// Generation increases every time a reload changes the visible catalog.
func (m *Manager) Generation() uint64 { return m.generation }

// Fingerprint returns the digest of the visible catalog after the last
// successful reload.
func (m *Manager) Fingerprint() Fingerprint { return m.fingerprint }

func (m *Manager) setPhase(p Phase) {
	m.phase = p
	m.log.Debug("refs reload phase", zap.Stringer("phase", p))
}

func (m *Manager) computeFingerprint() Fingerprint {
	h := blake3.New(32, nil)
	m.ForEach(func(r *Record) bool {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%t%t%t%t%t%t\n",
			r.Name, r.ID, r.Kind(),
			r.Tag, r.AnnotatedTag, r.Head, r.Remote, r.Tracked, r.Replace)
		return true
	})
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}
