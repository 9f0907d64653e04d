package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javanhut/refscope/internal/colors"
	"github.com/javanhut/refscope/internal/refs"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		count    int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload references periodically and print changes",
		Long: `Reload the references every interval and print the listing whenever it
changes. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("invalid interval %s", interval)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, err := a.newSource(ctx)
			if err != nil {
				return err
			}
			m := refs.NewManager(src, refs.Options{
				Remote:     a.remote,
				Head:       a.cfg.Repo.Head,
				MaxRecords: a.cfg.Catalog.MaxRecords,
				Logger:     a.log,
			})
			return a.watch(ctx, cmd, m, interval, count)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Time between reloads")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many reloads (0 runs until interrupted)")
	return cmd
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, m *refs.Manager, interval time.Duration, count int) error {
	out := cmd.OutOrStdout()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var shown uint64
	for n := 1; ; n++ {
		err := m.Reload(ctx, true)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, refs.ErrAllocation):
			return err
		case err != nil:
			a.log.Warn("reload failed", zap.Error(err))
		case m.Generation() != shown:
			shown = m.Generation()
			fmt.Fprintf(out, "%s generation %d (%s)\n",
				colors.SectionHeader(time.Now().Format(time.TimeOnly)),
				shown, m.Fingerprint().String()[:12])
			var records []*refs.Record
			m.ForEach(func(r *refs.Record) bool {
				records = append(records, r)
				return true
			})
			renderRefs(out, records)
		}

		if count > 0 && n >= count {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
