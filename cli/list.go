package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/javanhut/refscope/internal/colors"
	"github.com/javanhut/refscope/internal/refs"
	"github.com/javanhut/refscope/internal/source"
)

func newListCmd(a *app) *cobra.Command {
	var (
		filter recordFilter
		inject []string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List references",
		Long: `List every reference that points at an object, tags first, then the
current branch, the tracked remote branch, replacements, other branches and
finally remote branches.

Examples:
  refscope list
  refscope ls --tags
  refscope list --from-file refs.txt.zst --head main
  refscope list --inject "3f2a... refs/heads/wip"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd.Context())
			if err != nil {
				return err
			}

			for _, spec := range inject {
				p, err := source.ParsePair(spec)
				if err != nil {
					return err
				}
				if err := m.Insert(p.ID, p.Name, a.remote, m.HeadName()); err != nil {
					return err
				}
			}

			var records []*refs.Record
			m.ForEach(func(r *refs.Record) bool {
				if filter.keep(r) {
					records = append(records, r)
				}
				return true
			})
			sort.SliceStable(records, func(i, j int) bool { return refs.Less(records[i], records[j]) })

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, colors.Gray("No references found"))
				return nil
			}
			renderRefs(out, records)
			return nil
		},
	}

	cmd.Flags().BoolVar(&filter.tags, "tags", false, "Show tags")
	cmd.Flags().BoolVar(&filter.remotes, "remotes", false, "Show remote branches")
	cmd.Flags().BoolVar(&filter.branches, "branches", false, "Show local branches")
	cmd.Flags().StringArrayVar(&inject, "inject", nil, `Add a reference after loading, as "<id> <name>" (repeatable)`)
	return cmd
}
