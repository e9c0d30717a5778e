package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewHistoryCommand creates the history command: the audit trail of
// ledger mutations, newest first, capped at the trail limit.
func NewHistoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the audit trail of ledger mutations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := eng.History(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "read history", err)
			}

			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			printer := message.NewPrinter(language.English)
			return formatter.SuccessText(entries, func(w io.Writer) {
				printer.Fprintf(w, "%d audit entries\n", len(entries))
				for _, entry := range entries {
					fmt.Fprintf(w, "  %s  %s\n", entry.Timestamp.Format(time.RFC3339), entry.Action)
					if opts.Verbose && len(entry.Payload) > 0 {
						fmt.Fprintf(w, "    %s\n", entry.Payload)
					}
				}
			})
		},
	}
}
