package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/farmfork/agrisync/internal/ledger"
)

// transferRequest is the audit payload for both transfer operations.
type transferRequest struct {
	SourceID string          `json:"sourceId"`
	TargetID string          `json:"targetId"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SyncFarmerBatchToDistributor moves quantity from a farmer batch into
// a new distributor holding and logs the order. All three writes happen
// in one critical section and one save.
//
// The source batch keeps its identity: its quantity is decremented and
// its status flips to Sold when it reaches zero. The new holding buys
// at the batch's price per unit and sells at a fixed 20% markup.
//
// Transferring more than the batch has returns an insufficient-quantity
// error; the source's silent negative-quantity behavior is not kept.
func (e *Engine) SyncFarmerBatchToDistributor(ctx context.Context, batchID, distributorID string, quantity decimal.Decimal) (ledger.InventoryItem, error) {
	if quantity.Sign() <= 0 {
		return ledger.InventoryItem{}, NewInvalidQuantityError(quantity)
	}

	var created ledger.InventoryItem
	payload := transferRequest{SourceID: batchID, TargetID: distributorID, Quantity: quantity}

	err := e.mutate(ctx, "syncFarmerBatchToDistributor", payload, func(snap *ledger.Snapshot) error {
		batch := snap.FindBatch(batchID)
		if batch == nil {
			return NewNotFoundError("batch", batchID)
		}
		if quantity.GreaterThan(batch.TotalQuantity) {
			return NewInsufficientQuantityError("batch", batchID, batch.TotalQuantity, quantity)
		}

		now := e.now()

		remaining := batch.TotalQuantity.Sub(quantity)
		batch.TotalQuantity = remaining
		batch.Status = ledger.BatchStatusFor(remaining)
		snap.Farmers.LastUpdated = now

		created = ledger.InventoryItem{
			ID:            e.newID(),
			ProductName:   batch.CropName,
			Variety:       batch.Variety,
			Quantity:      quantity,
			Unit:          batch.Unit,
			PurchasePrice: batch.PricePerUnit,
			SellingPrice:  ledger.RoundMoney(batch.PricePerUnit.Mul(ledger.DistributorMarkup)),
			Supplier:      batch.FarmName,
			Status:        ledger.ItemStatusFor(quantity),
			SourceBatchID: batch.ID,
			CreatedAt:     now,
		}
		snap.Distributors.Inventory = append([]ledger.InventoryItem{created}, snap.Distributors.Inventory...)
		snap.Distributors.LastUpdated = now

		order := ledger.Order{
			ID:          e.newID(),
			Type:        ledger.OrderFarmerToDistributor,
			From:        batch.FarmName,
			To:          distributorID,
			ProductName: batch.CropName,
			Quantity:    quantity,
			Unit:        batch.Unit,
			UnitPrice:   batch.PricePerUnit,
			TotalAmount: ledger.RoundMoney(quantity.Mul(batch.PricePerUnit)),
			Status:      ledger.OrderCompleted,
			CreatedAt:   now,
		}
		appendOrder(snap, order)

		return nil
	})
	if err != nil {
		return ledger.InventoryItem{}, err
	}
	return created, nil
}

// SyncDistributorInventoryToRetailer moves quantity from a distributor
// holding into a new retailer holding, one tier down. The retailer buys
// at the holding's selling price and resells at a fixed 30% markup.
// After the decrement the holding's status follows the low-stock rule:
// Sold at zero, Low Stock at or below the threshold, In Stock above it.
func (e *Engine) SyncDistributorInventoryToRetailer(ctx context.Context, inventoryID, retailerID string, quantity decimal.Decimal) (ledger.StockItem, error) {
	if quantity.Sign() <= 0 {
		return ledger.StockItem{}, NewInvalidQuantityError(quantity)
	}

	var created ledger.StockItem
	payload := transferRequest{SourceID: inventoryID, TargetID: retailerID, Quantity: quantity}

	err := e.mutate(ctx, "syncDistributorInventoryToRetailer", payload, func(snap *ledger.Snapshot) error {
		item := snap.FindInventory(inventoryID)
		if item == nil {
			return NewNotFoundError("inventory", inventoryID)
		}
		if quantity.GreaterThan(item.Quantity) {
			return NewInsufficientQuantityError("inventory", inventoryID, item.Quantity, quantity)
		}

		now := e.now()

		remaining := item.Quantity.Sub(quantity)
		item.Quantity = remaining
		item.Status = ledger.ItemStatusFor(remaining)
		snap.Distributors.LastUpdated = now

		created = ledger.StockItem{
			ID:                e.newID(),
			ProductName:       item.ProductName,
			Variety:           item.Variety,
			Quantity:          quantity,
			Unit:              item.Unit,
			PurchasePrice:     item.SellingPrice,
			SellingPrice:      ledger.RoundMoney(item.SellingPrice.Mul(ledger.RetailerMarkup)),
			Supplier:          item.Supplier,
			Category:          item.Category,
			Status:            ledger.ItemStatusFor(quantity),
			SourceInventoryID: item.ID,
			PurchaseDate:      now,
		}
		snap.Retailers.Stock = append([]ledger.StockItem{created}, snap.Retailers.Stock...)
		snap.Retailers.LastUpdated = now

		order := ledger.Order{
			ID:          e.newID(),
			Type:        ledger.OrderDistributorToRetailer,
			From:        "distributor",
			To:          retailerID,
			ProductName: item.ProductName,
			Quantity:    quantity,
			Unit:        item.Unit,
			UnitPrice:   item.SellingPrice,
			TotalAmount: ledger.RoundMoney(quantity.Mul(item.SellingPrice)),
			Status:      ledger.OrderCompleted,
			CreatedAt:   now,
		}
		appendOrder(snap, order)

		return nil
	})
	if err != nil {
		return ledger.StockItem{}, err
	}
	return created, nil
}
