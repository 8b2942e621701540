package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KUROROSUKE/english-learning/internal/clock"
	"github.com/KUROROSUKE/english-learning/internal/domain"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit  int
	QuizID string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent attempts, newest first",
		Example: `  studyengine history
  studyengine history --quiz grammar-01 --limit 5 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "number of attempts (default: history-limit setting)")
	cmd.Flags().StringVar(&opts.QuizID, "quiz", "", "only attempts of this quiz")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	limit := opts.Limit
	if limit <= 0 {
		limit = opts.Config.HistoryLimit
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	ctx := commandContext(cmd)
	var attempts []domain.Attempt
	if opts.QuizID != "" {
		attempts, err = st.ListQuizAttempts(ctx, opts.QuizID, limit)
	} else {
		attempts, err = st.ListAttempts(ctx, limit)
	}
	if err != nil {
		return outputError(cmd, opts.RootOptions, "failed to list attempts", err, "")
	}

	if opts.Format == "json" {
		return outputJSON(cmd, attempts, "")
	}

	w := cmd.OutOrStdout()
	if len(attempts) == 0 {
		fmt.Fprintln(w, "No attempts recorded.")
		return nil
	}
	fmt.Fprintf(w, "%-6s %-20s %-24s %s\n", "ID", "TIME", "QUIZ", "SCORE")
	for _, a := range attempts {
		fmt.Fprintf(w, "%-6d %-20s %-24s %d/%d\n",
			a.ID, formatTime(a.Timestamp), a.QuizID, a.Correct, a.Total)
	}
	return nil
}

// formatTime renders epoch milliseconds as RFC 3339 UTC.
func formatTime(ms int64) string {
	return clock.ToTime(ms).Format(time.RFC3339)
}
