package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVocabCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Learned vocabulary",
	}
	cmd.AddCommand(
		newVocabMarkCommand(),
		newVocabListCommand(),
		newVocabSyncCommand(),
	)
	return cmd
}

func newVocabMarkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <lesson-key>",
		Short: "Mark every term of a lesson learned (keys: 12_4, Ch12_L4, 12004 or a lesson number)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				result, err := a.tracker.MarkLessonVocabsLearned(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("tracker.MarkLessonVocabsLearned(%s) > %w", args[0], err)
				}
				fmt.Fprintf(out, "Lesson %s: %d terms, %d learned", args[0], result.Unique, result.Learned)
				if result.Queued {
					fmt.Fprint(out, " (queued for sync)")
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}

func newVocabListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the locally mirrored learned vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				items, err := a.tracker.LearnedList(cmd.Context())
				if err != nil {
					return fmt.Errorf("tracker.LearnedList() > %w", err)
				}
				for _, item := range items {
					fmt.Fprintf(out, "%s\t%s\t%s\n", item.Vocab, item.Pinyin, item.Translation)
				}
				pending, err := a.tracker.Pending(cmd.Context())
				if err != nil {
					return fmt.Errorf("tracker.Pending() > %w", err)
				}
				fmt.Fprintf(out, "%d learned, %d batches waiting to sync\n", len(items), len(pending))
				return nil
			})
		},
	}
}

func newVocabSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send queued learned vocabulary to the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				report, err := a.tracker.SyncPending(cmd.Context())
				fmt.Fprintf(out, "Drained %d, remaining %d, replayed %d\n", report.Drained, report.Remaining, report.Replayed)
				if err != nil {
					return fmt.Errorf("tracker.SyncPending() > %w", err)
				}
				return nil
			})
		},
	}
}
