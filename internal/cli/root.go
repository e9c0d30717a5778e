// Package cli implements the agrisync command line interface: the
// outer surface through which collaborators list collections, add
// records, run transfers, and drive seed/export/import/clear.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/farmfork/agrisync/internal/engine"
	"github.com/farmfork/agrisync/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DBPath  string

	// Logger is set by main; commands fall back to a no-op logger.
	Logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultDBPath is used when neither --db nor AGRISYNC_DB is set.
const DefaultDBPath = "agrisync.db"

// NewRootCommand creates the root command for the agrisync CLI.
// A nil logger disables diagnostics (commands fall back to a no-op).
func NewRootCommand(log *zap.Logger) *cobra.Command {
	opts := &RootOptions{Logger: log}

	cmd := &cobra.Command{
		Use:   "agrisync",
		Short: "AgriSync - farm-to-fork supply-chain ledger",
		Long:  "A persisted ledger of goods moving farmer → distributor → retailer,\nwith quantity-conserving transfers, order records, and an audit trail.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.DBPath == "" {
				opts.DBPath = os.Getenv("AGRISYNC_DB")
			}
			if opts.DBPath == "" {
				opts.DBPath = DefaultDBPath
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "ledger database path (default $AGRISYNC_DB or "+DefaultDBPath+")")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddBatchCommand(opts))
	cmd.AddCommand(NewTransferCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// logger returns the configured logger or a no-op fallback.
func (o *RootOptions) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// openEngine opens the ledger database and wraps it in an engine.
// Callers must Close the returned store.
func openEngine(opts *RootOptions) (*engine.Engine, *store.Store, error) {
	st, err := store.Open(opts.DBPath, opts.logger())
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("open ledger database %s", opts.DBPath), err)
	}
	eng := engine.New(st, engine.WithLogger(opts.logger()))
	return eng, st, nil
}
