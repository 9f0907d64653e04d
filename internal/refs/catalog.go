package refs

import "go.uber.org/zap"

const catalogInitialCapacity = 256

// Catalog is the deduplicated, ordered collection of reference records.
type Catalog struct {
	records   vector[*Record]
	byName    map[string]*Record
	byReplace map[ID]*Record
	head      *Record
	log       *zap.Logger
}

// NewCatalog creates an empty catalog holding at most maxRecords records
// (0 for no limit).
func NewCatalog(maxRecords int, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		records:   newVector[*Record](catalogInitialCapacity, maxRecords),
		byName:    make(map[string]*Record),
		byReplace: make(map[ID]*Record),
		log:       log,
	}
}

// Len returns the number of records, tombstoned ones included.
func (c *Catalog) Len() int { return c.records.Len() }

// Head returns the record HEAD resolves to.
func (c *Catalog) Head() *Record { return c.head }

func (c *Catalog) find(cl Classification) *Record {
	if cl.Replace {
		return c.byReplace[cl.ID]
	}
	return c.byName[cl.Name]
}

// Upsert stores a classified reference. An existing record with the same
// key is overwritten in place, so for an annotated tag the peeled commit id
// listed second replaces the tag object id listed first.
func (c *Catalog) Upsert(cl Classification) (*Record, error) {
	rec := c.find(cl)
	if rec == nil {
		rec = &Record{Name: cl.Name}
		if err := c.records.Push(rec); err != nil {
			return nil, err
		}
		if cl.Replace {
			c.byReplace[cl.ID] = rec
		} else {
			c.byName[cl.Name] = rec
		}
	}

	flags := cl.Flags
	if cl.Peeled {
		if rec.State == StateFresh && rec.Tag {
			flags.AnnotatedTag = rec.AnnotatedTag
		} else {
			c.log.Warn("peeled tag listed without its tag object",
				zap.String("tag", cl.Name), zap.String("id", cl.ID.String()))
		}
	}

	rec.ID = cl.ID
	rec.Flags = flags
	rec.State = StateFresh

	if rec.Head {
		c.head = rec
	}
	return rec, nil
}

// ForEach calls fn for every record in catalog order until fn returns false.
func (c *Catalog) ForEach(fn func(*Record) bool) {
	for i := 0; i < c.records.Len(); i++ {
		if !fn(c.records.At(i)) {
			return
		}
	}
}

func (c *Catalog) markStale() {
	c.head = nil
	c.ForEach(func(r *Record) bool {
		r.State = StateStale
		return true
	})
}

// tombstone clears the id of every record left stale and reports how many
// records were tombstoned.
func (c *Catalog) tombstone() int {
	n := 0
	c.ForEach(func(r *Record) bool {
		if r.State == StateStale {
			r.State = StateTombstoned
			r.ID = ""
			n++
		}
		return true
	})
	return n
}

func (c *Catalog) sort() {
	c.records.SortStable(Less)
}
