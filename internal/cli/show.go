package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <attempt-id>",
		Short: "Show one attempt with per-item results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid attempt id", err)
			}
			return runShow(rootOpts, id, cmd)
		},
	}
	return cmd
}

func runShow(opts *RootOptions, id int64, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	a, ok, err := st.ReadAttempt(commandContext(cmd), id)
	if err != nil {
		return outputError(cmd, opts, "failed to read attempt", err, "")
	}
	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("attempt %d not found", id))
	}

	if opts.Format == "json" {
		return outputJSON(cmd, a, "")
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Attempt %d  %s\n", a.ID, formatTime(a.Timestamp))
	fmt.Fprintf(w, "Quiz:   %s", a.QuizID)
	if a.QuizTitle != "" {
		fmt.Fprintf(w, " (%s)", a.QuizTitle)
	}
	fmt.Fprintln(w)
	if a.QuizSourceURL != "" {
		fmt.Fprintf(w, "Source: %s\n", a.QuizSourceURL)
	}
	fmt.Fprintf(w, "Score:  %d/%d", a.Correct, a.Total)
	if a.ScoreItems > 0 {
		fmt.Fprintf(w, "  (free text %d over %d items)", a.ScoreSum, a.ScoreItems)
	}
	fmt.Fprintln(w)

	for _, itemID := range a.ResultOrder() {
		r := a.ResultState[itemID]
		mark := "x"
		if r.Correct {
			mark = "o"
		}
		fmt.Fprintf(w, "  [%s] %-12s %-14s %s\n", mark, itemID, a.PrimaryTag(itemID), r.Message)
		if r.Explanation != "" {
			fmt.Fprintf(w, "      %s\n", r.Explanation)
		}
		if len(r.Feedback) > 0 {
			fmt.Fprintf(w, "      %s\n", strings.Join(r.Feedback, "; "))
		}
	}
	return nil
}
