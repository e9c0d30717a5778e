package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// NewTransferCommand creates the transfer command group: the two
// cross-tier operations of the ledger.
func NewTransferCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move quantity between supply-chain tiers",
	}

	cmd.AddCommand(newTransferToDistributorCommand(opts))
	cmd.AddCommand(newTransferToRetailerCommand(opts))

	return cmd
}

func newTransferToDistributorCommand(opts *RootOptions) *cobra.Command {
	var (
		batchID       string
		distributorID string
		quantity      string
	)

	cmd := &cobra.Command{
		Use:   "to-distributor",
		Short: "Transfer quantity from a farmer batch to distributor inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(quantity)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --quantity %q", quantity), err)
			}

			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			item, err := eng.SyncFarmerBatchToDistributor(cmd.Context(), batchID, distributorID, qty)
			if err != nil {
				formatter.Error(ErrorCode(err), err.Error(), nil)
				return NewExitError(ExitFailure, "transfer failed")
			}

			return formatter.SuccessText(item, func(w io.Writer) {
				fmt.Fprintf(w, "Transferred %s %s of %s; inventory item %s sells at %s/%s\n",
					item.Quantity, item.Unit, item.ProductName, item.ID, item.SellingPrice, item.Unit)
			})
		},
	}

	cmd.Flags().StringVar(&batchID, "batch", "", "source batch id (required)")
	cmd.Flags().StringVar(&distributorID, "distributor", "", "destination distributor id (required)")
	cmd.Flags().StringVar(&quantity, "quantity", "", "quantity to transfer (required)")
	cmd.MarkFlagRequired("batch")
	cmd.MarkFlagRequired("distributor")
	cmd.MarkFlagRequired("quantity")

	return cmd
}

func newTransferToRetailerCommand(opts *RootOptions) *cobra.Command {
	var (
		inventoryID string
		retailerID  string
		quantity    string
	)

	cmd := &cobra.Command{
		Use:   "to-retailer",
		Short: "Transfer quantity from distributor inventory to retailer stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(quantity)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --quantity %q", quantity), err)
			}

			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			item, err := eng.SyncDistributorInventoryToRetailer(cmd.Context(), inventoryID, retailerID, qty)
			if err != nil {
				formatter.Error(ErrorCode(err), err.Error(), nil)
				return NewExitError(ExitFailure, "transfer failed")
			}

			return formatter.SuccessText(item, func(w io.Writer) {
				fmt.Fprintf(w, "Transferred %s %s of %s; stock item %s sells at %s/%s\n",
					item.Quantity, item.Unit, item.ProductName, item.ID, item.SellingPrice, item.Unit)
			})
		},
	}

	cmd.Flags().StringVar(&inventoryID, "inventory", "", "source inventory id (required)")
	cmd.Flags().StringVar(&retailerID, "retailer", "", "destination retailer id (required)")
	cmd.Flags().StringVar(&quantity, "quantity", "", "quantity to transfer (required)")
	cmd.MarkFlagRequired("inventory")
	cmd.MarkFlagRequired("retailer")
	cmd.MarkFlagRequired("quantity")

	return cmd
}
