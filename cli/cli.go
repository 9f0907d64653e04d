// Package cli implements the refscope command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/javanhut/refscope/internal/colors"
	"github.com/javanhut/refscope/internal/config"
	"github.com/javanhut/refscope/internal/logger"
	"github.com/javanhut/refscope/internal/refs"
	"github.com/javanhut/refscope/internal/source"
	"github.com/javanhut/refscope/internal/store"
)

// flagKeys binds persistent flags to configuration keys.
var flagKeys = map[string]string{
	"repo.git_dir": "git-dir",
	"repo.remote":  "remote",
	"repo.head":    "head",
	"source.file":  "from-file",
	"log.level":    "log-level",
	"log.format":   "log-format",
}

// app holds the state shared by every subcommand once the root command has
// loaded the configuration.
type app struct {
	configFile   string
	noColor      bool
	settingsPath string

	cfg    *config.Config
	log    *zap.Logger
	remote string
}

// NewRootCommand builds the refscope command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "refscope",
		Short: "Inspect the references of a git repository",
		Long: `refscope lists the branches, tags, remotes and replacements of a git
repository, grouped by the objects they point at.

References are read with ` + "`git ls-remote`" + ` (override with TIG_LS_REMOTE or
source.ls_remote) or from a saved listing with --from-file.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("git-dir", ".git", "Path to the repository's git directory")
	flags.String("remote", "", "Tracked remote branch, e.g. origin/main (default: the upstream of HEAD)")
	flags.String("head", "", "Current branch (default: resolved from HEAD)")
	flags.String("from-file", "", "Read references from a saved ls-remote listing (plain or zstd)")
	flags.StringVar(&a.configFile, "config", "", "Config file")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.String("log-format", "console", "Log format: console or json")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newHeadCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.settingsPath == "" {
		path, err := store.DefaultPath()
		if err != nil {
			return err
		}
		a.settingsPath = path
	}
	settings, err := readSettings(a.settingsPath)
	if err != nil {
		return err
	}

	bound := make(map[string]*pflag.Flag, len(flagKeys))
	for key, name := range flagKeys {
		bound[key] = cmd.Flag(name)
	}
	cfg, err := config.Load(config.LoadOptions{
		Dir:      ".",
		File:     a.configFile,
		Settings: settings,
		Flags:    bound,
	})
	if err != nil {
		return err
	}
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return err
	}

	if a.noColor || !cfg.Color.UI {
		colors.SetColorEnabled(false)
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// readSettings returns the persisted settings, or nothing when no settings
// database has been created yet.
func readSettings(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.AllConfig()
}

// openSettings opens the settings database for writing.
func (a *app) openSettings() (*store.DB, error) {
	return store.Open(a.settingsPath)
}

// newSource picks the reference source from the configuration and resolves
// the tracked remote branch when none is configured.
func (a *app) newSource(ctx context.Context) (refs.Source, error) {
	a.remote = a.cfg.Repo.Remote

	if path := a.cfg.Source.File; path != "" {
		var opts []source.FileOption
		if head := a.cfg.Repo.Head; head != "" {
			opts = append(opts, source.WithHead("refs/heads/"+head))
		}
		return source.NewFileSource(path, opts...), nil
	}

	src, err := source.NewGitSource(a.cfg.Repo.GitDir, source.WithLsRemote(a.cfg.Source.LsRemote))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.cfg.Repo.GitDir, err)
	}
	if a.remote == "" {
		upstream, err := src.Upstream(ctx)
		if err != nil {
			a.log.Debug("no upstream branch", zap.Error(err))
		} else {
			a.remote = upstream
		}
	}
	return src, nil
}

// loadManager builds a manager and runs the initial reload.
func (a *app) loadManager(ctx context.Context) (*refs.Manager, error) {
	src, err := a.newSource(ctx)
	if err != nil {
		return nil, err
	}
	m := refs.NewManager(src, refs.Options{
		Remote:     a.remote,
		Head:       a.cfg.Repo.Head,
		MaxRecords: a.cfg.Catalog.MaxRecords,
		Logger:     a.log,
	})
	if err := m.Reload(ctx, false); err != nil {
		return nil, err
	}
	return m, nil
}
