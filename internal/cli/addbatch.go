package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/farmfork/agrisync/internal/ledger"
)

// NewAddBatchCommand creates the add-batch command: the farmer-side
// write path for offering a new harvested lot.
func NewAddBatchCommand(opts *RootOptions) *cobra.Command {
	var (
		crop     string
		variety  string
		quantity string
		unit     string
		price    string
		minOrder string
		farm     string
		harvest  string
		pickup   string
	)

	cmd := &cobra.Command{
		Use:   "add-batch",
		Short: "Add a farmer batch to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(quantity)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --quantity %q", quantity), err)
			}
			pricePerUnit, err := decimal.NewFromString(price)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --price %q", price), err)
			}
			minQty := decimal.Zero
			if minOrder != "" {
				minQty, err = decimal.NewFromString(minOrder)
				if err != nil {
					return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --min-order %q", minOrder), err)
				}
			}

			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			batch, err := eng.AddFarmerBatch(cmd.Context(), ledger.Batch{
				CropName:       crop,
				Variety:        variety,
				TotalQuantity:  qty,
				Unit:           unit,
				PricePerUnit:   pricePerUnit,
				MinimumOrder:   minQty,
				HarvestDate:    harvest,
				PickupLocation: pickup,
				FarmName:       farm,
			})
			if err != nil {
				return WrapExitError(ExitFailure, "add batch", err)
			}

			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			return formatter.SuccessText(batch, func(w io.Writer) {
				fmt.Fprintf(w, "Added batch %s: %s %s %s @ %s/%s from %s\n",
					batch.ID, batch.TotalQuantity, batch.Unit, batch.CropName, batch.PricePerUnit, batch.Unit, batch.FarmName)
			})
		},
	}

	cmd.Flags().StringVar(&crop, "crop", "", "crop name (required)")
	cmd.Flags().StringVar(&variety, "variety", "", "crop variety")
	cmd.Flags().StringVar(&quantity, "quantity", "", "total quantity (required)")
	cmd.Flags().StringVar(&unit, "unit", "kg", "quantity unit")
	cmd.Flags().StringVar(&price, "price", "", "price per unit (required)")
	cmd.Flags().StringVar(&minOrder, "min-order", "", "minimum order quantity")
	cmd.Flags().StringVar(&farm, "farm", "", "origin farm name (required)")
	cmd.Flags().StringVar(&harvest, "harvest-date", "", "harvest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&pickup, "pickup", "", "pickup location")

	cmd.MarkFlagRequired("crop")
	cmd.MarkFlagRequired("quantity")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("farm")

	return cmd
}
