package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTimeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Study minutes",
	}
	cmd.AddCommand(newTimeAddCommand(), newTimeShowCommand())
	return cmd
}

func newTimeAddCommand() *cobra.Command {
	var flush bool

	cmd := &cobra.Command{
		Use:   "add <minutes>",
		Short: "Record foreground minutes for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil || minutes <= 0 {
				return fmt.Errorf("minutes must be a positive number: %s", args[0])
			}
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				snap, err := a.minutes.Accrue(cmd.Context(), minutes)
				if err != nil {
					return fmt.Errorf("minutes.Accrue(%d) > %w", minutes, err)
				}
				if flush {
					report, err := a.minutes.Flush(cmd.Context())
					if err != nil {
						a.logger.Warn("time flush incomplete", "error", err)
					}
					if snap, err = a.minutes.Snapshot(cmd.Context()); err != nil {
						return fmt.Errorf("minutes.Snapshot() > %w", err)
					}
					fmt.Fprintf(out, "Flushed %d\n", report.Flushed)
				}
				fmt.Fprintf(out, "Total %d minutes, %d not synced\n", snap.Total(), snap.Pending)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&flush, "flush", false, "Send pending minutes right away")
	return cmd
}

func newTimeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show minutes for the last 7 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				week, err := a.minutes.FetchWeek(cmd.Context())
				if err != nil {
					return fmt.Errorf("minutes.FetchWeek() > %w", err)
				}
				snap, err := a.minutes.Snapshot(cmd.Context())
				if err != nil {
					return fmt.Errorf("minutes.Snapshot() > %w", err)
				}
				for _, day := range week {
					fmt.Fprintf(out, "%s %d\n", day.Day, day.Minutes)
				}
				fmt.Fprintf(out, "Total %d minutes, %d not synced\n", snap.Total(), snap.Pending)
				return nil
			})
		},
	}
}
