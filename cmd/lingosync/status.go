package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/lingosync/internal/statistics"
)

const chartWidth = 30

func newStatusCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show vocabulary, lessons, chapters, study minutes and the last 7 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("--format must be text or yaml")
			}
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				summary, err := a.stats.Refresh(cmd.Context())
				if err != nil {
					return fmt.Errorf("stats.Refresh() > %w", err)
				}
				if format == "yaml" {
					return writeSummaryYAML(out, summary)
				}
				writeSummaryText(out, summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")
	return cmd
}

func writeSummaryYAML(w io.Writer, summary statistics.Summary) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("yaml.Encode() > %w", err)
	}
	return encoder.Close()
}

func writeSummaryText(w io.Writer, summary statistics.Summary) {
	heading := color.New(color.Bold)
	source := color.New(color.FgGreen)
	if summary.Source != statistics.SourceServer {
		source = color.New(color.FgYellow)
	}

	heading.Fprintln(w, "Progress")
	source.Fprintf(w, "  source: %s\n", summary.Source)
	fmt.Fprintf(w, "  vocabulary learned: %d (%s)\n", summary.VocabCount, summary.VocabSource)
	fmt.Fprintf(w, "  lessons completed:  %d\n", summary.LessonsCompleted)
	fmt.Fprintf(w, "  chapters completed: %d\n", summary.ChaptersCompleted)
	fmt.Fprintf(w, "  minutes studied:    %d", summary.TotalMinutes)
	if summary.PendingMinutes > 0 {
		color.New(color.FgYellow).Fprintf(w, " (%d not synced)", summary.PendingMinutes)
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "Last 7 days")
	peak := 0
	for _, day := range summary.Week {
		peak = max(peak, day.Minutes)
	}
	for _, day := range summary.Week {
		width := 0
		if peak > 0 {
			width = day.Minutes * chartWidth / peak
		}
		fmt.Fprintf(w, "  %s %4d %s\n", day.Day, day.Minutes, strings.Repeat("#", width))
	}
}
