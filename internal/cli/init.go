package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command. It opens (creating if
// needed) the ledger database and writes an empty snapshot if none
// exists. Safe to run repeatedly.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ledger database and an empty snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			if err := eng.Initialize(cmd.Context()); err != nil {
				formatter.Error(ErrCodeStore, err.Error(), nil)
				return WrapExitError(ExitCommandError, "initialize ledger", err)
			}
			return formatter.SuccessText(
				map[string]string{"db": opts.DBPath, "status": "initialized"},
				func(w io.Writer) { fmt.Fprintf(w, "Initialized ledger at %s\n", opts.DBPath) },
			)
		},
	}
}
