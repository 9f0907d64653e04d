package refs

import "strings"

const (
	tagsPrefix    = "refs/tags/"
	remotesPrefix = "refs/remotes/"
	replacePrefix = "refs/replace/"
	headsPrefix   = "refs/heads/"
	peelSuffix    = "^{}"

	// ReplacedName is the display name shared by all replacement records.
	ReplacedName = "replaced"
	// HeadName is the literal name of a detached HEAD line.
	HeadName = "HEAD"
)

// ClassifyOptions carries the repository state the classifier depends on.
type ClassifyOptions struct {
	// Remote is the tracked remote branch, e.g. "origin/main".
	Remote string
	// Head is the branch HEAD points at, or empty when detached or unknown.
	Head string
}

// Classification is the result of classifying one `id, name` pair.
type Classification struct {
	// Name is the display name stored on the record.
	Name string
	// ID is the object id stored on the record.
	ID ID
	Flags
	// Peeled is set for `refs/tags/<n>^{}` lines.
	Peeled bool
}

// Key returns the catalog key: the replaced object id for replacement
// records and the name for everything else.
func (c Classification) Key() string {
	if c.Replace {
		return string(c.ID)
	}
	return c.Name
}

// Classify maps a raw ls-remote line onto a record category. It returns
// false when the line must be ignored, which only happens for a HEAD line
// while the symbolic head is known.
func Classify(id, name string, opts ClassifyOptions) (Classification, bool) {
	c := Classification{Name: name, ID: NewID(id)}

	switch {
	case strings.HasPrefix(name, tagsPrefix):
		c.Tag = true
		c.Name = strings.TrimPrefix(name, tagsPrefix)
		if strings.HasSuffix(c.Name, peelSuffix) {
			c.Name = strings.TrimSuffix(c.Name, peelSuffix)
			c.Peeled = true
		} else {
			c.AnnotatedTag = true
		}

	case strings.HasPrefix(name, remotesPrefix):
		c.Remote = true
		c.Name = strings.TrimPrefix(name, remotesPrefix)
		c.Tracked = c.Name == opts.Remote

	case strings.HasPrefix(name, replacePrefix):
		c.Replace = true
		c.ID = NewID(strings.TrimPrefix(name, replacePrefix))
		c.Name = ReplacedName

	case strings.HasPrefix(name, headsPrefix):
		c.Name = strings.TrimPrefix(name, headsPrefix)
		c.Head = c.Name == opts.Head

	case name == HeadName:
		// HEAD is listed on its own when it is not a symbolic ref, e.g.
		// during a rebase.
		if opts.Head != "" {
			return Classification{}, false
		}
		c.Head = true
	}

	return c, true
}

// TrimHeadPrefix strips the refs/heads/ prefix from a symbolic-ref target.
func TrimHeadPrefix(ref string) string {
	return strings.TrimPrefix(ref, headsPrefix)
}
