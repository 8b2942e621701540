package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KUROROSUKE/english-learning/internal/due"
)

// DueOptions holds flags for the due command.
type DueOptions struct {
	*RootOptions
	Limit            int
	QuizID           string
	Tag              string
	At               int64
	MostOverdueFirst bool
}

// NewDueCommand creates the due command.
func NewDueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List items due for review",
		Long: `List cards whose due time has passed.

By default the least overdue card is listed first; --most-overdue-first
lists the card that has waited longest first.`,
		Example: `  studyengine due
  studyengine due --tag grammar --limit 5
  studyengine due --at 1718000000000 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDue(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum cards (default: due-limit setting)")
	cmd.Flags().StringVar(&opts.QuizID, "quiz", "", "only cards of this quiz")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "only cards with this primary tag")
	cmd.Flags().Int64Var(&opts.At, "at", 0, "evaluate at this epoch-millisecond instant (default: now)")
	cmd.Flags().BoolVar(&opts.MostOverdueFirst, "most-overdue-first", false, "list the longest-waiting card first")

	return cmd
}

func (o *DueOptions) filter() due.Filter {
	f := due.Filter{QuizID: o.QuizID, Tag: o.Tag}
	if o.MostOverdueFirst {
		f.Order = due.MostOverdueFirst
	}
	return f
}

func (o *DueOptions) asOf() int64 {
	if o.At > 0 {
		return o.At
	}
	return o.Clock.Now()
}

func (o *DueOptions) limit() int {
	if o.Limit > 0 {
		return o.Limit
	}
	return o.Config.DueLimit
}

func runDue(opts *DueOptions, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	digest, err := due.NewQuery(st).Digest(commandContext(cmd), opts.filter(), opts.limit(), opts.asOf())
	if err != nil {
		return outputError(cmd, opts.RootOptions, "failed to list due cards", err, "")
	}

	if opts.Format == "json" {
		return outputJSON(cmd, digest, "")
	}

	w := cmd.OutOrStdout()
	if digest.Total == 0 {
		fmt.Fprintln(w, "Nothing due.")
		return nil
	}
	fmt.Fprintf(w, "%d due, showing %d\n", digest.Total, len(digest.Entries))
	for _, e := range digest.Entries {
		fmt.Fprintf(w, "  %-30s %-14s %s\n", e.Card.Key, e.Card.Tag, e.Label)
	}
	return nil
}
