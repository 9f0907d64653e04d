package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/javanhut/refscope/internal/colors"
	"github.com/javanhut/refscope/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var (
		list  bool
		unset bool
	)

	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set configuration options",
		Long: `Get and set refscope configuration options.

Values set here are stored in the settings database and apply to every
repository. Environment variables (REFSCOPE_<SECTION>_<KEY>), a config file
and command line flags take precedence over them.

Examples:
  refscope config repo.remote origin/main
  refscope config color.ui false
  refscope config --unset repo.remote
  refscope config --list
  refscope config repo.remote`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case list:
				return a.listConfig(cmd)
			case unset && len(args) == 1:
				return a.updateConfig(func(s config.Settings) error {
					return config.UnsetValue(s, args[0])
				})
			case !unset && len(args) == 1:
				value, err := a.cfg.GetValue(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			case !unset && len(args) == 2:
				if err := a.updateConfig(func(s config.Settings) error {
					return config.SetValue(s, args[0], args[1])
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", colors.SuccessText("Set"), args[0], args[1])
				return nil
			}
			return fmt.Errorf("invalid usage. See: refscope config --help")
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List all configuration")
	cmd.Flags().BoolVar(&unset, "unset", false, "Remove a stored value")
	return cmd
}

func (a *app) updateConfig(fn func(config.Settings) error) error {
	db, err := a.openSettings()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (a *app) listConfig(cmd *cobra.Command) error {
	stored, err := readSettings(a.settingsPath)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Key", "Value", "Stored"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, key := range config.Keys() {
		value, err := a.cfg.GetValue(key)
		if err != nil {
			return err
		}
		if value == "" {
			value = colors.Gray("(not set)")
		}
		table.Append([]string{key, value, stored[key]})
	}
	table.Render()
	return nil
}
