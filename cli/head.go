package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javanhut/refscope/internal/colors"
)

func newHeadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "head",
		Short: "Show the reference HEAD points at",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd.Context())
			if err != nil {
				return err
			}

			head, ok := m.Head()
			if !ok {
				return errors.New("HEAD does not point at a listed reference")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", colors.Decorate(head.Kind(), head.Name), head.ID)
			if a.remote != "" {
				fmt.Fprintf(out, "tracking %s\n", colors.Decorate("tracked", a.remote))
			}
			return nil
		},
	}
}
