package refs

const indexListCapacity = 8

// indexEntry lists the records pointing at one object id.
type indexEntry struct {
	id   ID
	refs vector[*Record]
}

// Index maps object ids to the sorted list of records pointing at them.
// Entries are built on first lookup and only ever shrink afterwards.
type Index struct {
	catalog *Catalog
	entries vector[*indexEntry]
	byID    map[ID]*indexEntry
}

// NewIndex creates an empty index over catalog.
func NewIndex(catalog *Catalog) *Index {
	return &Index{
		catalog: catalog,
		entries: newVector[*indexEntry](indexListCapacity, 0),
		byID:    make(map[ID]*indexEntry),
	}
}

// Get returns the records pointing at id, sorted with Compare. The result is
// a copy; it does not change when the catalog is reloaded.
func (x *Index) Get(id ID) ([]*Record, bool) {
	if id.IsZero() {
		return nil, false
	}
	if e, ok := x.byID[id]; ok {
		if e.refs.Len() == 0 {
			return nil, false
		}
		return e.refs.Slice(), true
	}

	e := &indexEntry{id: id, refs: newVector[*Record](indexListCapacity, 0)}
	var err error
	x.catalog.ForEach(func(r *Record) bool {
		if r.ID == id {
			err = e.refs.Push(r)
		}
		return err == nil
	})
	if err != nil || e.refs.Len() == 0 {
		return nil, false
	}

	e.refs.SortStable(Less)
	if err := x.entries.Push(e); err != nil {
		return nil, false
	}
	x.byID[id] = e
	return e.refs.Slice(), true
}

// Len returns the number of cached entries, empty ones included.
func (x *Index) Len() int { return x.entries.Len() }

// prune drops records whose id no longer matches their entry. Entries that
// become empty are kept.
func (x *Index) prune() int {
	dropped := 0
	for i := 0; i < x.entries.Len(); i++ {
		e := x.entries.At(i)
		before := e.refs.Len()
		e.refs.Retain(func(r *Record) bool { return r.ID == e.id })
		dropped += before - e.refs.Len()
	}
	return dropped
}
