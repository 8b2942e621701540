package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KUROROSUKE/english-learning/internal/analytics"
	"github.com/KUROROSUKE/english-learning/internal/store"
)

// WeakOptions holds flags for the weak command.
type WeakOptions struct {
	*RootOptions
	Limit int
}

// NewWeakCommand creates the weak command.
func NewWeakCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WeakOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "weak",
		Short: "Rank the weakest items, quizzes and tags",
		Long: `Aggregate accuracy over the attempt log and list, lowest first:
the 10 weakest items, every quiz, and the 10 weakest primary tags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeak(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "analyze only the most recent N attempts (0 = all)")

	return cmd
}

// weaknessReport analyzes the newest limit attempts, or the whole log when
// limit is 0.
func weaknessReport(cmd *cobra.Command, st *store.Store, limit int) (analytics.Report, error) {
	ctx := commandContext(cmd)
	if limit <= 0 {
		return analytics.AnalyzeLog(st.Attempts(ctx))
	}

	attempts, err := st.ListAttempts(ctx, limit)
	if err != nil {
		return analytics.Report{}, err
	}
	return analytics.Analyze(attempts), nil
}

func runWeak(opts *WeakOptions, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	report, err := weaknessReport(cmd, st, opts.Limit)
	if err != nil {
		return outputError(cmd, opts.RootOptions, "failed to analyze attempts", err, "")
	}

	if opts.Format == "json" {
		return outputJSON(cmd, report, "")
	}
	outputWeakText(cmd.OutOrStdout(), report)
	return nil
}

func outputWeakText(w io.Writer, r analytics.Report) {
	if len(r.Quizzes) == 0 {
		fmt.Fprintln(w, "No results recorded.")
		return
	}

	fmt.Fprintln(w, "Weakest items:")
	for _, s := range r.WorstItems {
		fmt.Fprintf(w, "  %-30s %3.0f%%  (%d/%d)\n", s.Key, s.Accuracy*100, s.Correct, s.Attempts)
	}
	fmt.Fprintln(w, "Quizzes:")
	for _, s := range r.Quizzes {
		fmt.Fprintf(w, "  %-30s %3.0f%%  (%d/%d)\n", s.QuizID, s.Accuracy*100, s.Correct, s.Total)
	}
	fmt.Fprintln(w, "Weakest tags:")
	for _, s := range r.WorstTags {
		fmt.Fprintf(w, "  %-30s %3.0f%%  (%d/%d)\n", s.Tag, s.Accuracy*100, s.Correct, s.Attempts)
	}
}
