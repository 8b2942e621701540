package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KUROROSUKE/english-learning/internal/due"
	"github.com/KUROROSUKE/english-learning/internal/remind"
)

// RemindOptions holds flags for the remind command.
type RemindOptions struct {
	*RootOptions
	Every  time.Duration
	Limit  int
	QuizID string
	Tag    string
	Once   bool
}

// NewRemindCommand creates the remind command.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Print a due digest periodically",
		Long: `Print how many cards are due, and the first few, right away and then
every --every interval until interrupted (Ctrl-C or SIGTERM).

With --once, print a single digest and exit.`,
		Example: `  studyengine remind --every 30m
  studyengine remind --once --tag grammar`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemind(opts, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Every, "every", 0, "interval between digests (default: remind-every setting)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 5, "cards listed per digest")
	cmd.Flags().StringVar(&opts.QuizID, "quiz", "", "only cards of this quiz")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "only cards with this primary tag")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "print one digest and exit")

	return cmd
}

func runRemind(opts *RemindOptions, cmd *cobra.Command) error {
	every := opts.Every
	if every <= 0 {
		every = opts.Config.RemindEvery
	}
	if every < time.Second {
		return NewExitError(ExitCommandError, "--every must be at least 1s")
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	r := remind.New(
		due.NewQuery(st),
		opts.Clock,
		remind.WriterNotifier{W: cmd.OutOrStdout()},
		due.Filter{QuizID: opts.QuizID, Tag: opts.Tag},
		opts.Limit,
		opts.Logger,
	)

	ctx := commandContext(cmd)
	if opts.Once {
		if err := r.Check(ctx); err != nil {
			return outputError(cmd, opts.RootOptions, "due check failed", err, "")
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Start(ctx, every); err != nil {
		return WrapExitError(ExitFailure, "failed to start reminder", err)
	}
	<-ctx.Done()
	r.Stop()
	opts.Logger.Info("reminder stopped")
	return nil
}
