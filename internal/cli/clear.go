package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Yes bool
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded attempt",
		Long: `Permanently delete the attempt log. Review cards are kept.

Requires --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm deletion")

	return cmd
}

func runClear(opts *ClearOptions, cmd *cobra.Command) error {
	if !opts.Yes {
		return NewExitError(ExitCommandError, "refusing to clear attempts without --yes")
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	ctx := commandContext(cmd)
	n, err := st.CountAttempts(ctx)
	if err != nil {
		return outputError(cmd, opts.RootOptions, "failed to count attempts", err, "")
	}
	if err := st.ClearAttempts(ctx); err != nil {
		return outputError(cmd, opts.RootOptions, "failed to clear attempts", err, "")
	}
	opts.Logger.Info("cleared attempts", "count", n)

	if opts.Format == "json" {
		return outputJSON(cmd, map[string]int{"deleted": n}, "")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d attempts.\n", n)
	return nil
}
