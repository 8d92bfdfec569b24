package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/progress"
)

func newLessonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Lesson catalog, reading position and practice",
	}
	cmd.AddCommand(
		newLessonListCommand(),
		newLessonOpenCommand(),
		newLessonPageCommand(),
		newLessonNextCommand(),
		newLessonRestartCommand(),
		newLessonFinishCommand(),
		newLessonCheckCommand(),
		newLessonDownloadCommand(),
	)
	return cmd
}

func newLessonListCommand() *cobra.Command {
	var chapterNo int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lessons by chapter with completion marks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				var sections []lesson.Section
				if chapterNo > 0 {
					metas, err := a.catalog.ChapterLessons(ctx, chapterNo).Await(ctx)
					if err != nil {
						return fmt.Errorf("catalog.ChapterLessons(%d) > %w", chapterNo, err)
					}
					sections = lesson.Sections(metas)
				} else {
					var err error
					sections, err = a.catalog.Sections(ctx)
					if err != nil {
						return fmt.Errorf("catalog.Sections() > %w", err)
					}
				}

				for _, section := range sections {
					color.New(color.Bold).Fprintln(out, section.Title)
					for _, meta := range section.Lessons {
						done, err := a.ledger.IsCompleted(ctx, meta.Ref())
						if err != nil {
							a.logger.Warn("completed map unavailable", "lesson", meta.ID(), "error", err)
						}
						downloaded, err := a.catalog.IsDownloaded(ctx, meta.Ref())
						if err != nil {
							a.logger.Warn("download marks unavailable", "lesson", meta.ID(), "error", err)
						}
						writeLessonRow(out, meta, done, downloaded)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&chapterNo, "chapter", 0, "Only list this chapter")
	return cmd
}

func writeLessonRow(w io.Writer, meta lesson.Meta, done, downloaded bool) {
	mark := "[ ]"
	if done {
		mark = color.GreenString("[x]")
	}
	fmt.Fprintf(w, "  %s %s %s", mark, meta.Ref().Key(), meta.LessonTitle)
	if meta.IsPremium {
		fmt.Fprint(w, " (premium)")
	}
	if downloaded {
		fmt.Fprint(w, " (offline)")
	}
	fmt.Fprintln(w)
}

func newLessonOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <chapter> <lesson>",
		Short: "Show where a lesson resumes and print that page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRefArgs(args[0], args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				resume := a.ledger.Open(ctx, ref)
				fmt.Fprintf(out, "Lesson %s resumes at page %d/%d (%s)\n", ref.Key(), resume.Page, a.ledger.TotalPages(), resume.Source)
				if resume.OfferRestart {
					color.New(color.FgYellow).Fprintf(out, "Lesson finished. Run `lingosync lesson restart %d %d` to start over.\n", ref.ChapterNo, ref.LessonNo)
					return nil
				}
				pages, err := a.catalog.LoadPages(ctx, ref, practiceRange(a))
				if err != nil {
					return fmt.Errorf("catalog.LoadPages(%s) > %w", ref, err)
				}
				writePage(out, pages[resume.Page])
				return nil
			})
		},
	}
}

func newLessonPageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "page <chapter> <lesson> <page>",
		Short: "Save the reading position of a lesson",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRefArgs(args[0], args[1])
			if err != nil {
				return err
			}
			page, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid page: %s", args[2])
			}
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				if err := a.ledger.SetPage(cmd.Context(), ref, page); err != nil {
					return fmt.Errorf("ledger.SetPage(%s, %d) > %w", ref, page, err)
				}
				fmt.Fprintf(out, "Lesson %s at page %d\n", ref.Key(), page)
				return nil
			})
		},
	}
}

func newLessonNextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next <chapter> <lesson> <page>",
		Short: "Advance past a page; past the last page the lesson is finished",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRefArgs(args[0], args[1])
			if err != nil {
				return err
			}
			page, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid page: %s", args[2])
			}
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				step, err := a.ledger.Advance(cmd.Context(), ref, page)
				writeStep(out, ref, step)
				return err
			})
		},
	}
}

func newLessonFinishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <chapter> <lesson>",
		Short: "Finish a lesson and mark its vocabulary learned",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRefArgs(args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				step, err := a.ledger.Advance(cmd.Context(), ref, a.ledger.TotalPages())
				writeStep(out, ref, step)
				return err
			})
		},
	}
}

func writeStep(w io.Writer, ref lesson.Ref, step progress.Step) {
	if step.ExitToList {
		color.New(color.FgGreen).Fprintf(w, "Lesson %s finished\n", ref.Key())
		return
	}
	fmt.Fprintf(w, "Lesson %s at page %d\n", ref.Key(), step.Page)
}

func newLessonRestartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restart <chapter> <lesson>",
		Short: "Start a finished lesson over from page 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRefArgs(args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				page, err := a.ledger.Restart(cmd.Context(), ref)
				if err != nil {
					return fmt.Errorf("ledger.Restart(%s) > %w", ref, err)
				}
				fmt.Fprintf(out, "Lesson %s at page %d\n", ref.Key(), page)
				return nil
			})
		},
	}
}

func newLessonCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <chapter> <lesson> <page> <answer>",
		Short: "Check the answer to a practice question",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRefArgs(args[0], args[1])
			if err != nil {
				return err
			}
			page, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid page: %s", args[2])
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				pages, err := a.catalog.LoadPages(ctx, ref, practiceRange(a))
				if err != nil {
					return fmt.Errorf("catalog.LoadPages(%s) > %w", ref, err)
				}
				verdict, err := a.ledger.CheckAnswer(page, pages[page].Question, args[3])
				if err != nil {
					return err
				}
				if verdict.Correct {
					color.New(color.FgGreen).Fprintln(out, "Correct")
					return nil
				}
				color.New(color.FgRed).Fprintf(out, "Incorrect. The answer is %q\n", verdict.Expected)
				return nil
			})
		},
	}
}

func newLessonDownloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "download <chapter> <lesson>",
		Short: "Store a lesson's lines, questions and vocabulary for offline use",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRefArgs(args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return withApp(out, func(a *app) error {
				bundle, err := a.catalog.Download(cmd.Context(), ref)
				if err != nil {
					return fmt.Errorf("catalog.Download(%s) > %w", ref, err)
				}
				fmt.Fprintf(out, "Downloaded lesson %s: %d lines, %d questions, %d vocabulary\n",
					ref.Key(), len(bundle.Lines), len(bundle.Questions), len(bundle.Vocab))
				return nil
			})
		},
	}
}

func practiceRange(a *app) lesson.PracticeRange {
	return lesson.PracticeRange{First: a.cfg.Lesson.PracticeFirstPage, Last: a.cfg.Lesson.PracticeLastPage}
}

func writePage(w io.Writer, page lesson.Page) {
	if page.Question != nil {
		color.New(color.Bold).Fprintf(w, "Practice: %s\n", page.Question.QuestionText)
		return
	}
	for _, line := range page.Lines {
		fmt.Fprintf(w, "  %s: %s\n", line.Speaker, line.Chinese)
		if line.Pinyin != "" {
			fmt.Fprintf(w, "      %s\n", line.Pinyin)
		}
		if line.Translation != "" {
			fmt.Fprintf(w, "      %s\n", line.Translation)
		}
	}
}
