package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus is the lifecycle state of a farmer batch.
// A batch is Sold exactly when its total quantity has been drawn down to zero.
type BatchStatus string

const (
	BatchAvailable BatchStatus = "Available"
	BatchSold      BatchStatus = "Sold"
)

// ItemStatus is the stock state of a distributor or retailer holding.
type ItemStatus string

const (
	ItemInStock  ItemStatus = "In Stock"
	ItemLowStock ItemStatus = "Low Stock"
	ItemSold     ItemStatus = "Sold"
)

// OrderType identifies which tier boundary a transfer crossed.
type OrderType string

const (
	OrderFarmerToDistributor   OrderType = "farmerToDistributor"
	OrderDistributorToRetailer OrderType = "distributorToRetailer"
)

// OrderCompleted is the only order status the ledger produces.
// Orders are written after the transfer has been applied, so there are
// no pending or failed states.
const OrderCompleted = "Completed"

// Markup policy applied by the transfer engine. Fixed, not configurable
// per call - persisted data depends on these exact factors.
var (
	DistributorMarkup = decimal.RequireFromString("1.20")
	RetailerMarkup    = decimal.RequireFromString("1.30")
)

// DefaultLowStockThreshold is the quantity at or below which a holding
// with remaining stock is flagged Low Stock.
var DefaultLowStockThreshold = decimal.NewFromInt(10)

// RoundMoney rounds a monetary amount to 2 decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// BatchStatusFor derives the batch status from its remaining quantity.
func BatchStatusFor(quantity decimal.Decimal) BatchStatus {
	if quantity.Sign() <= 0 {
		return BatchSold
	}
	return BatchAvailable
}

// ItemStatusFor derives a holding's status from its remaining quantity,
// applying the low-stock threshold.
func ItemStatusFor(quantity decimal.Decimal) ItemStatus {
	switch {
	case quantity.Sign() <= 0:
		return ItemSold
	case quantity.LessThanOrEqual(DefaultLowStockThreshold):
		return ItemLowStock
	default:
		return ItemInStock
	}
}

// Batch is a farmer-origin lot offered for transfer.
type Batch struct {
	ID             string          `json:"id"`
	CropName       string          `json:"cropName"`
	Variety        string          `json:"variety,omitempty"`
	TotalQuantity  decimal.Decimal `json:"totalQuantity"`
	Unit           string          `json:"unit"`
	PricePerUnit   decimal.Decimal `json:"pricePerUnit"`
	MinimumOrder   decimal.Decimal `json:"minimumOrder"`
	HarvestDate    string          `json:"harvestDate,omitempty"`
	AvailableFrom  string          `json:"availableFrom,omitempty"`
	AvailableUntil string          `json:"availableUntil,omitempty"`
	PickupLocation string          `json:"pickupLocation,omitempty"`
	FarmName       string          `json:"farmName"`
	Status         BatchStatus     `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// InventoryItem is a distributor-held holding, derived from a batch
// transfer or added directly.
type InventoryItem struct {
	ID            string          `json:"id"`
	ProductName   string          `json:"productName"`
	Variety       string          `json:"variety,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Supplier      string          `json:"supplier"`
	Category      string          `json:"category,omitempty"`
	Description   string          `json:"description,omitempty"`
	Status        ItemStatus      `json:"status"`
	SourceBatchID string          `json:"sourceBatchId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StockItem is a retailer-held holding, derived from an inventory
// transfer. PurchasePrice equals the source item's selling price at
// transfer time.
type StockItem struct {
	ID                string          `json:"id"`
	ProductName       string          `json:"productName"`
	Variety           string          `json:"variety,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	PurchasePrice     decimal.Decimal `json:"purchasePrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	Supplier          string          `json:"supplier"`
	Category          string          `json:"category,omitempty"`
	Status            ItemStatus      `json:"status"`
	SourceInventoryID string          `json:"sourceInventoryId,omitempty"`
	PurchaseDate      time.Time       `json:"purchaseDate"`
}

// Order is an immutable, denormalized record of one transfer.
// Orders carry no foreign keys - they are an activity log, not a join table.
type Order struct {
	ID          string          `json:"id"`
	Type        OrderType       `json:"type"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// BatchPatch is a shallow-merge update for a Batch. Nil fields are left
// untouched. Patching never creates a record (no upsert).
type BatchPatch struct {
	TotalQuantity  *decimal.Decimal
	PricePerUnit   *decimal.Decimal
	MinimumOrder   *decimal.Decimal
	PickupLocation *string
	AvailableUntil *string
	Status         *BatchStatus
}

// InventoryPatch is a shallow-merge update for an InventoryItem.
type InventoryPatch struct {
	Quantity     *decimal.Decimal
	SellingPrice *decimal.Decimal
	Description  *string
	Category     *string
	Status       *ItemStatus
}

// StockPatch is a shallow-merge update for a StockItem.
type StockPatch struct {
	Quantity     *decimal.Decimal
	SellingPrice *decimal.Decimal
	Category     *string
	Status       *ItemStatus
}
