package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command: write the full snapshot
// to a dated, pretty-printed JSON artifact.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full snapshot to a dated JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			path, err := eng.Export(cmd.Context(), dir)
			if err != nil {
				formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
				return NewExitError(ExitFailure, "export failed")
			}
			return formatter.SuccessText(
				map[string]string{"path": path},
				func(w io.Writer) { fmt.Fprintf(w, "Exported snapshot to %s\n", path) },
			)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the export into")

	return cmd
}
