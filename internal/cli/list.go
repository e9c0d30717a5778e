package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/farmfork/agrisync/internal/ledger"
)

// NewListCommand creates the list command, the read surface over the
// four collections: batches, inventory, stock, orders.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var orderType string

	cmd := &cobra.Command{
		Use:       "list {batches|inventory|stock|orders}",
		Short:     "List a ledger collection, most recent first",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"batches", "inventory", "stock", "orders"},
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, st, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			printer := message.NewPrinter(language.English)

			switch args[0] {
			case "batches":
				batches, err := eng.FarmerBatches(ctx)
				if err != nil {
					return WrapExitError(ExitCommandError, "list batches", err)
				}
				return formatter.SuccessText(batches, func(w io.Writer) {
					printer.Fprintf(w, "%d batches\n", len(batches))
					for _, b := range batches {
						fmt.Fprintf(w, "  %s  %-22s %8s %-6s @ %s/%s  [%s]  %s\n",
							b.ID, b.CropName, b.TotalQuantity, b.Unit, b.PricePerUnit, b.Unit, b.Status, b.FarmName)
					}
				})
			case "inventory":
				items, err := eng.DistributorInventory(ctx)
				if err != nil {
					return WrapExitError(ExitCommandError, "list inventory", err)
				}
				return formatter.SuccessText(items, func(w io.Writer) {
					printer.Fprintf(w, "%d inventory items\n", len(items))
					for _, item := range items {
						fmt.Fprintf(w, "  %s  %-22s %8s %-6s buy %s sell %s  [%s]\n",
							item.ID, item.ProductName, item.Quantity, item.Unit, item.PurchasePrice, item.SellingPrice, item.Status)
					}
				})
			case "stock":
				items, err := eng.RetailerStock(ctx)
				if err != nil {
					return WrapExitError(ExitCommandError, "list stock", err)
				}
				return formatter.SuccessText(items, func(w io.Writer) {
					printer.Fprintf(w, "%d stock items\n", len(items))
					for _, item := range items {
						fmt.Fprintf(w, "  %s  %-22s %8s %-6s buy %s sell %s  [%s]\n",
							item.ID, item.ProductName, item.Quantity, item.Unit, item.PurchasePrice, item.SellingPrice, item.Status)
					}
				})
			case "orders":
				orders, err := eng.Orders(ctx, ledger.OrderType(orderType))
				if err != nil {
					return WrapExitError(ExitCommandError, "list orders", err)
				}
				return formatter.SuccessText(orders, func(w io.Writer) {
					printer.Fprintf(w, "%d orders\n", len(orders))
					for _, o := range orders {
						fmt.Fprintf(w, "  %s  %-21s %-22s %8s %-6s total %s  %s → %s\n",
							o.ID, o.Type, o.ProductName, o.Quantity, o.Unit, o.TotalAmount, o.From, o.To)
					}
				})
			default:
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown collection %q", args[0]))
			}
		},
	}

	cmd.Flags().StringVar(&orderType, "type", "", "order type filter (farmerToDistributor|distributorToRetailer)")

	return cmd
}
