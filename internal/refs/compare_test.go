package refs

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(records []*Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestCompareOrder(t *testing.T) {
	records := []*Record{
		{Name: "zeta", Flags: Flags{Remote: true}},
		{Name: "alpha", Flags: Flags{Remote: true}},
		{Name: "feature"},
		{Name: "bugfix"},
		{Name: "origin/main", Flags: Flags{Remote: true, Tracked: true}},
		{Name: "main", Flags: Flags{Head: true}},
		{Name: "v2", Flags: Flags{Tag: true}},
		{Name: "v1", Flags: Flags{Tag: true}},
	}

	sort.SliceStable(records, func(i, j int) bool { return Less(records[i], records[j]) })

	assert.Equal(t, []string{
		"v1", "v2",
		"main",
		"origin/main",
		"bugfix", "feature",
		"alpha", "zeta",
	}, names(records))
}

func TestComparePriorities(t *testing.T) {
	tests := []struct {
		name string
		a, b *Record
	}{
		{"tag before head", &Record{Name: "z", Flags: Flags{Tag: true}}, &Record{Name: "a", Flags: Flags{Head: true}}},
		{"annotated before lightweight", &Record{Name: "z", Flags: Flags{Tag: true, AnnotatedTag: true}}, &Record{Name: "a", Flags: Flags{Tag: true}}},
		{"head before tracked", &Record{Name: "z", Flags: Flags{Head: true}}, &Record{Name: "a", Flags: Flags{Remote: true, Tracked: true}}},
		{"tracked before replace", &Record{Name: "z", Flags: Flags{Tracked: true}}, &Record{Name: "a", Flags: Flags{Replace: true}}},
		{"replace before branch", &Record{Name: "z", Flags: Flags{Replace: true}}, &Record{Name: "a"}},
		{"branch before remote", &Record{Name: "z"}, &Record{Name: "a", Flags: Flags{Remote: true}}},
		{"name breaks ties", &Record{Name: "a"}, &Record{Name: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, -1, Compare(tt.a, tt.b))
			assert.Equal(t, 1, Compare(tt.b, tt.a))
		})
	}

	r := &Record{Name: "same"}
	assert.Equal(t, 0, Compare(r, &Record{Name: "same"}))
}
