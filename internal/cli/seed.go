package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/farmfork/agrisync/internal/seed"
)

// NewSeedCommand creates the seed command. Seeding is idempotent: a
// ledger that already holds batches is left untouched.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty ledger with demo records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := eng.Initialize(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "initialize ledger", err)
			}

			seeded, err := seed.Seed(cmd.Context(), eng)
			if err != nil {
				return WrapExitError(ExitFailure, "seed ledger", err)
			}

			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			return formatter.SuccessText(
				map[string]bool{"seeded": seeded},
				func(w io.Writer) {
					if seeded {
						fmt.Fprintln(w, "Seeded demo records")
					} else {
						fmt.Fprintln(w, "Ledger already has data, nothing to seed")
					}
				},
			)
		},
	}
}
