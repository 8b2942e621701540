package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KUROROSUKE/english-learning/internal/study"
)

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <file>",
		Short: "Record a graded quiz attempt",
		Long: `Append a graded attempt to the log and update the review schedule
of every graded item.

The submission is a YAML or JSON document; use "-" to read stdin.

Exit codes:
  0 - Attempt and all cards recorded
  1 - Storage failure (the attempt may be recorded with some cards pending)
  2 - Invalid submission or database unavailable

Examples:
  studyengine record attempt.yaml
  cat attempt.json | studyengine record - --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runRecord(opts *RootOptions, path string, cmd *cobra.Command) error {
	sub, err := readSubmission(path, cmd.InOrStdin())
	if err != nil {
		return outputError(cmd, opts, "failed to read submission", err, "")
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	rec := study.NewRecorder(st, opts.Clock, opts.TraceIDs, study.WithLogger(opts.Logger))
	res, err := rec.Record(commandContext(cmd), sub)
	if err != nil {
		return outputError(cmd, opts, "failed to record attempt", err, res.TraceID)
	}

	if opts.Format == "json" {
		return outputJSON(cmd, res, res.TraceID)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Recorded attempt %d for %s: %d/%d correct\n", res.AttemptID, res.QuizID, res.Correct, res.Total)
	fmt.Fprintf(w, "Updated %d cards\n", len(res.Cards))
	for _, c := range res.Cards {
		fmt.Fprintf(w, "  %-30s reps=%d interval=%.2fd ease=%.2f\n", c.Key, c.Reps, c.IntervalDays, c.Ease)
	}
	return nil
}

func readSubmission(path string, stdin io.Reader) (study.Submission, error) {
	if path == "-" {
		return study.DecodeSubmission(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return study.Submission{}, fmt.Errorf("%w: %v", study.ErrInvalidSubmission, err)
	}
	defer f.Close()
	return study.DecodeSubmission(f)
}

// commandContext returns the command's context, or Background if unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
