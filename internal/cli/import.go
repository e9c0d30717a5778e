package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command. The incoming document is
// validated before the stored snapshot is replaced; a malformed file
// rejects the operation without touching the ledger.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the snapshot with a previously exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			if err := eng.ImportFile(cmd.Context(), args[0]); err != nil {
				formatter.Error(ErrorCode(err), err.Error(), nil)
				return NewExitError(ExitFailure, "import failed")
			}

			return formatter.SuccessText(
				map[string]string{"path": args[0]},
				func(w io.Writer) { fmt.Fprintf(w, "Imported snapshot from %s\n", args[0]) },
			)
		},
	}
}
