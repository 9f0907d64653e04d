package refs

import "strings"

// Compare orders records for display: tags, annotated tags, the head, the
// tracked remote branch and replacements come first, plain remote branches
// come last, and the name breaks any remaining tie.
func Compare(a, b *Record) int {
	if c := first(a.Tag, b.Tag); c != 0 {
		return c
	}
	if c := first(a.AnnotatedTag, b.AnnotatedTag); c != 0 {
		return c
	}
	if c := first(a.Head, b.Head); c != 0 {
		return c
	}
	if c := first(a.Tracked, b.Tracked); c != 0 {
		return c
	}
	if c := first(a.Replace, b.Replace); c != 0 {
		return c
	}
	// Order remotes last.
	if c := first(b.Remote, a.Remote); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

// Less reports whether a sorts before b.
func Less(a, b *Record) bool { return Compare(a, b) < 0 }

// first returns -1 when only x is set and 1 when only y is set.
func first(x, y bool) int {
	switch {
	case x == y:
		return 0
	case x:
		return -1
	default:
		return 1
	}
}
