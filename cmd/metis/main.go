package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"metis/internal/bootstrap"
	librarydto "metis/internal/modules/library/dto"
	"metis/internal/platform/config"
	"metis/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var vaultPath string

	root := &cobra.Command{
		Use:           "metis",
		Short:         "Personal learning tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&vaultPath, "vault", ".", "vault path holding .metis/ and session notes")

	root.AddCommand(newTUICmd(&vaultPath))
	root.AddCommand(newBookCmd(&vaultPath))
	root.AddCommand(newGoalCmd(&vaultPath))
	root.AddCommand(newReviewCmd(&vaultPath))
	root.AddCommand(newSessionCmd(&vaultPath))
	root.AddCommand(newStreakCmd(&vaultPath))
	return root
}

// withApp builds the app with logs on stderr, runs fn and closes the state
// store afterwards.
func withApp(vaultPath string, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.New(vaultPath)
	if err != nil {
		return err
	}
	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, logging.New(cfg.LogLevel, os.Stderr))
	if err != nil {
		return err
	}
	runErr := fn(ctx, app)
	if err := app.Close(ctx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func runTUI(vaultPath, startTab string) error {
	cfg, err := config.New(vaultPath)
	if err != nil {
		return err
	}
	logFile, err := logging.OpenFile(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, logging.New(cfg.LogLevel, logFile))
	if err != nil {
		return err
	}
	runErr := bootstrap.RunTUI(app, startTab)
	if err := app.Close(ctx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func newTUICmd(vaultPath *string) *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run metis terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(*vaultPath, tab)
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "dashboard", "first tab: dashboard|session|review")
	return cmd
}

func newBookCmd(vaultPath *string) *cobra.Command {
	book := &cobra.Command{Use: "book", Short: "Manage books"}

	var coverURL, role string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book to the shelf",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LibraryCLI.AddBook(ctx, strings.Join(args, " "), coverURL, role)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s book %q (%s)\n", out.Role, out.Title, out.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&coverURL, "cover", "", "cover image URL")
	add.Flags().StringVar(&role, "role", "main", "book role: main|secondary")

	list := &cobra.Command{
		Use:   "list",
		Short: "List books, main first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				books, err := app.LibraryCLI.ListBooks(ctx)
				if err != nil {
					return err
				}
				for _, b := range books {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", b.ID, b.Role, b.Title)
				}
				return nil
			})
		},
	}

	book.AddCommand(add, list)
	return book
}

func newGoalCmd(vaultPath *string) *cobra.Command {
	goal := &cobra.Command{Use: "goal", Short: "Manage reading goals"}

	var level int
	set := &cobra.Command{
		Use:   "set <text>",
		Short: "Set the in-progress goal of the main book",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LibraryCLI.SetGoal(ctx, strings.Join(args, " "), level)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal %s level=%d status=%s\n", out.ID, out.Level, out.Status)
				return nil
			})
		},
	}
	set.Flags().IntVar(&level, "level", 1, "goal level")

	var bookID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				goals, err := app.LibraryCLI.ListGoals(ctx, bookID)
				if err != nil {
					return err
				}
				writeGoals(cmd.OutOrStdout(), goals)
				return nil
			})
		},
	}
	list.Flags().StringVar(&bookID, "book-id", "", "only goals of this book")

	move := &cobra.Command{
		Use:   "move <goal-id> <todo|in-progress|completed>",
		Short: "Move a goal on the board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LibraryCLI.MoveGoal(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal %s status=%s\n", out.ID, out.Status)
				return nil
			})
		},
	}

	goal.AddCommand(set, list, move)
	return goal
}

func newReviewCmd(vaultPath *string) *cobra.Command {
	review := &cobra.Command{Use: "review", Short: "Spaced repetition queue"}

	var today string
	due := &cobra.Command{
		Use:   "due",
		Short: "List reviews due today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.ReviewCLI.Due(ctx, today)
				if err != nil {
					return err
				}
				for _, item := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tdue=%s\tinterval=%d\n", item.GoalID, item.DueDate, item.Interval)
				}
				return nil
			})
		},
	}
	due.Flags().StringVar(&today, "today", "", "evaluate as of YYYY-MM-DD")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the whole review queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.ReviewCLI.List(ctx)
				if err != nil {
					return err
				}
				for _, item := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tdue=%s\tinterval=%d\n", item.GoalID, item.DueDate, item.Interval)
				}
				return nil
			})
		},
	}

	record := &cobra.Command{
		Use:   "record <goal-id> <forgot|good|perfect>",
		Short: "Record a review outcome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ReviewCLI.Record(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if !out.Applied {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no review scheduled for %s\n", args[0])
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "next review %s (interval=%d)\n", out.DueDate, out.Interval)
				return nil
			})
		},
	}

	review.AddCommand(due, list, record)
	return review
}

func newSessionCmd(vaultPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Guided reading sessions"}

	run := &cobra.Command{
		Use:   "run",
		Short: "Open the session runner for the current goal",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(*vaultPath, "session")
		},
	}

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List finished sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				records, err := app.SessionCLI.History(ctx)
				if err != nil {
					return err
				}
				shown := 0
				for i := len(records) - 1; i >= 0; i-- {
					if limit > 0 && shown == limit {
						break
					}
					r := records[i]
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tgoal=%s\t%dmin\n", r.StartTime.Format(time.RFC3339), r.GoalID, r.DurationMinutes)
					shown++
				}
				return nil
			})
		},
	}
	history.Flags().IntVar(&limit, "limit", 0, "show at most n sessions (0 = all)")

	session.AddCommand(run, history)
	return session
}

func newStreakCmd(vaultPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the daily session streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Streak(ctx)
				if err != nil {
					return err
				}
				last := out.LastSessionDate
				if last == "" {
					last = "never"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "streak=%d days last=%s\n", out.Days, last)
				return nil
			})
		},
	}
}

func writeGoals(w io.Writer, goals []librarydto.GoalOutput) {
	for _, g := range goals {
		_, _ = fmt.Fprintf(w, "%s\t%s\tL%d\t%s\t%s\n", g.ID, g.Status, g.Level, g.BookID, g.Text)
	}
}
