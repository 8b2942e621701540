package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KUROROSUKE/english-learning/internal/analytics"
	"github.com/KUROROSUKE/english-learning/internal/due"
	"github.com/KUROROSUKE/english-learning/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Out   string
	Limit int
}

// ExportResult summarizes a written workbook.
type ExportResult struct {
	Path     string `json:"path"`
	Attempts int    `json:"attempts"`
	Due      int    `json:"due"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an .xlsx study report",
		Long: `Write a workbook with History, Items, Quizzes, Tags and Due sheets.

History lists the newest --limit attempts; weakness rankings cover the
same attempts.`,
		Example: `  studyengine export --out report.xlsx`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output .xlsx path (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().IntVar(&opts.Limit, "limit", 1000, "attempts to include")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	ctx := commandContext(cmd)
	attempts, err := st.ListAttempts(ctx, opts.Limit)
	if err != nil {
		return outputError(cmd, opts.RootOptions, "failed to list attempts", err, "")
	}

	report := analytics.Analyze(attempts)

	entries, err := due.NewQuery(st).List(ctx, due.Filter{}, opts.Config.DueLimit, opts.Clock.Now())
	if err != nil {
		return outputError(cmd, opts.RootOptions, "failed to list due cards", err, "")
	}

	if err := export.WriteFile(opts.Out, export.Report{Attempts: attempts, Weakness: report, Due: entries}); err != nil {
		return WrapExitError(ExitFailure, "failed to write workbook", err)
	}
	opts.Logger.Info("exported workbook", "path", opts.Out, "attempts", len(attempts), "due", len(entries))

	result := ExportResult{Path: opts.Out, Attempts: len(attempts), Due: len(entries)}
	if opts.Format == "json" {
		return outputJSON(cmd, result, "")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d attempts, %d due cards)\n", result.Path, result.Attempts, result.Due)
	return nil
}
