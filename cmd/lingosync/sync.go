package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lingosync/internal/datasync"
)

func newSyncCommand() *cobra.Command {
	var trigger string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass: vocabulary queue, pending minutes, then statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := datasync.Trigger(trigger)
			switch t {
			case datasync.TriggerMount, datasync.TriggerConnectivity, datasync.TriggerForeground:
			default:
				return fmt.Errorf("unknown trigger: %s", trigger)
			}

			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				fmt.Fprintf(out, "Sync (%s):\n", t)
				_, err := a.orchestrator.Handle(cmd.Context(), t)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&trigger, "trigger", string(datasync.TriggerMount), "Trigger to report: mount, connectivity or foreground")
	return cmd
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Stay in the foreground: accrue a minute per tick and sync when the remote store comes back",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				a.monitor.Check(ctx)
				fmt.Fprintf(out, "Sync (%s):\n", datasync.TriggerMount)
				if _, err := a.orchestrator.Handle(ctx, datasync.TriggerMount); err != nil {
					a.logger.Warn("initial sync incomplete", "error", err)
				}

				ticker := datasync.NewTicker(a.orchestrator, a.monitor, a.cfg.Sync.TickInterval, a.cfg.Sync.ProbeInterval, a.logger)
				if err := ticker.Start(ctx); err != nil {
					return fmt.Errorf("ticker.Start() > %w", err)
				}
				<-ctx.Done()
				ticker.Stop()

				// the signal context is done, the last flush gets its own
				report, err := a.minutes.Flush(cmd.Context())
				if err != nil {
					a.logger.Warn("final time flush incomplete", "error", err)
				}
				fmt.Fprintf(out, "Stopped: flushed %d, pending %d\n", report.Flushed, report.Remaining)
				return nil
			})
		},
	}
}
