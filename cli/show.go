package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javanhut/refscope/internal/colors"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the references pointing at an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd.Context())
			if err != nil {
				return err
			}

			records, ok := m.Lookup(args[0])
			if !ok {
				return fmt.Errorf("no references point at %s", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, colors.SectionHeader(records[0].ID.String()))
			for _, r := range records {
				fmt.Fprintf(out, "  %-14s %s\n", r.Kind(), colors.Decorate(r.Kind(), r.Name))
			}
			return nil
		},
	}
}
