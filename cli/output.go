package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/javanhut/refscope/internal/colors"
	"github.com/javanhut/refscope/internal/refs"
)

func renderRefs(w io.Writer, records []*refs.Record) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Object", "Kind", "Reference"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetColWidth(60)
	for _, r := range records {
		table.Append([]string{
			colors.Dim(r.ID.String()),
			r.Kind(),
			colors.Decorate(r.Kind(), r.Name),
		})
	}
	table.Render()
}

// recordFilter selects records by category. The zero filter keeps
// everything.
type recordFilter struct {
	tags     bool
	remotes  bool
	branches bool
}

func (f recordFilter) keep(r *refs.Record) bool {
	if !f.tags && !f.remotes && !f.branches {
		return true
	}
	switch {
	case r.Tag:
		return f.tags
	case r.Remote:
		return f.remotes
	case r.Replace:
		return false
	default:
		return f.branches
	}
}
