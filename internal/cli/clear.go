package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewClearCommand creates the clear command. Destructive: it replaces
// the snapshot with a fresh empty one, audit history included, so it
// requires the --yes flag.
func NewClearCommand(opts *RootOptions) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset the ledger to an empty snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return NewExitError(ExitCommandError, "refusing to clear without --yes")
			}

			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := eng.ClearAll(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "clear ledger", err)
			}

			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			return formatter.SuccessText(
				map[string]string{"status": "cleared"},
				func(w io.Writer) { fmt.Fprintln(w, "Ledger cleared") },
			)
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the reset")

	return cmd
}
