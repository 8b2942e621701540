package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KUROROSUKE/english-learning/internal/domain"
	"github.com/KUROROSUKE/english-learning/internal/due"
)

// CardView is a card with its due label.
type CardView struct {
	domain.Card
	Label string `json:"label"`
}

// NewCardCommand creates the card command.
func NewCardCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card <quiz-id> <item-id>",
		Short: "Show the review schedule of one item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCard(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runCard(opts *RootOptions, quizID, itemID string, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	key := domain.CardKey(quizID, itemID)
	c, ok, err := st.GetCard(commandContext(cmd), key)
	if err != nil {
		return outputError(cmd, opts, "failed to read card", err, "")
	}
	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("no card for %s", key))
	}

	view := CardView{Card: c, Label: due.Label(c.DueTs, opts.Clock.Now())}
	if opts.Format == "json" {
		return outputJSON(cmd, view, "")
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Card:     %s\n", c.Key)
	fmt.Fprintf(w, "Tag:      %s\n", c.Tag)
	fmt.Fprintf(w, "Reps:     %d\n", c.Reps)
	fmt.Fprintf(w, "Interval: %.2f days\n", c.IntervalDays)
	fmt.Fprintf(w, "Ease:     %.2f\n", c.Ease)
	fmt.Fprintf(w, "Quality:  %d (last review %s)\n", c.LastQuality, formatTime(c.LastTs))
	fmt.Fprintf(w, "Due:      %s, %s\n", formatTime(c.DueTs), view.Label)
	return nil
}
