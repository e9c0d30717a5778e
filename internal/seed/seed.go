// Package seed populates an empty ledger with representative demo
// records on first run.
//
// Sample rows live in an embedded YAML file and enter the store through
// the normal repository add paths, not the transfer engine - seeded
// inventory and stock are illustrative and deliberately carry no
// quantity-conservation link to the seeded batches. Seeding is
// idempotent: if any batch already exists, nothing is written.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/farmfork/agrisync/internal/engine"
	"github.com/farmfork/agrisync/internal/ledger"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Batches   []batchRow     `yaml:"batches"`
	Inventory []inventoryRow `yaml:"inventory"`
	Stock     []stockRow     `yaml:"stock"`
	Orders    []orderRow     `yaml:"orders"`
}

type batchRow struct {
	CropName       string `yaml:"cropName"`
	Variety        string `yaml:"variety"`
	TotalQuantity  string `yaml:"totalQuantity"`
	Unit           string `yaml:"unit"`
	PricePerUnit   string `yaml:"pricePerUnit"`
	MinimumOrder   string `yaml:"minimumOrder"`
	HarvestDate    string `yaml:"harvestDate"`
	AvailableFrom  string `yaml:"availableFrom"`
	AvailableUntil string `yaml:"availableUntil"`
	PickupLocation string `yaml:"pickupLocation"`
	FarmName       string `yaml:"farmName"`
}

type inventoryRow struct {
	ProductName   string `yaml:"productName"`
	Variety       string `yaml:"variety"`
	Quantity      string `yaml:"quantity"`
	Unit          string `yaml:"unit"`
	PurchasePrice string `yaml:"purchasePrice"`
	SellingPrice  string `yaml:"sellingPrice"`
	Supplier      string `yaml:"supplier"`
	Category      string `yaml:"category"`
	Description   string `yaml:"description"`
}

type stockRow struct {
	ProductName   string `yaml:"productName"`
	Variety       string `yaml:"variety"`
	Quantity      string `yaml:"quantity"`
	Unit          string `yaml:"unit"`
	PurchasePrice string `yaml:"purchasePrice"`
	SellingPrice  string `yaml:"sellingPrice"`
	Supplier      string `yaml:"supplier"`
	Category      string `yaml:"category"`
}

type orderRow struct {
	Type        string `yaml:"type"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	ProductName string `yaml:"productName"`
	Quantity    string `yaml:"quantity"`
	Unit        string `yaml:"unit"`
	UnitPrice   string `yaml:"unitPrice"`
	TotalAmount string `yaml:"totalAmount"`
}

// Seed populates the ledger with the embedded demo records if no batch
// exists yet. Returns true if records were written, false if the ledger
// already had data.
func Seed(ctx context.Context, eng *engine.Engine) (bool, error) {
	existing, err := eng.FarmerBatches(ctx)
	if err != nil {
		return false, fmt.Errorf("check existing data: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	file, err := parse(seedYAML)
	if err != nil {
		return false, err
	}

	// Adds prepend, so walk each list back to front to keep the file
	// order as the displayed (most-recent-first) order.
	for i := len(file.Batches) - 1; i >= 0; i-- {
		b, err := file.Batches[i].toBatch()
		if err != nil {
			return false, err
		}
		if _, err := eng.AddFarmerBatch(ctx, b); err != nil {
			return false, fmt.Errorf("seed batch %q: %w", b.CropName, err)
		}
	}
	for i := len(file.Inventory) - 1; i >= 0; i-- {
		item, err := file.Inventory[i].toItem()
		if err != nil {
			return false, err
		}
		if _, err := eng.AddDistributorInventory(ctx, item); err != nil {
			return false, fmt.Errorf("seed inventory %q: %w", item.ProductName, err)
		}
	}
	for i := len(file.Stock) - 1; i >= 0; i-- {
		item, err := file.Stock[i].toItem()
		if err != nil {
			return false, err
		}
		if _, err := eng.AddRetailerStock(ctx, item); err != nil {
			return false, fmt.Errorf("seed stock %q: %w", item.ProductName, err)
		}
	}
	for i := len(file.Orders) - 1; i >= 0; i-- {
		o, err := file.Orders[i].toOrder()
		if err != nil {
			return false, err
		}
		if _, err := eng.AddOrder(ctx, o); err != nil {
			return false, fmt.Errorf("seed order %q: %w", o.ProductName, err)
		}
	}

	return true, nil
}

// parse decodes the seed file, rejecting unknown fields so typos in the
// YAML fail loudly instead of silently dropping data.
func parse(data []byte) (*seedFile, error) {
	var file seedFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &file, nil
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("seed field %s: %w", field, err)
	}
	return d, nil
}

func (r batchRow) toBatch() (ledger.Batch, error) {
	qty, err := parseDecimal("totalQuantity", r.TotalQuantity)
	if err != nil {
		return ledger.Batch{}, err
	}
	price, err := parseDecimal("pricePerUnit", r.PricePerUnit)
	if err != nil {
		return ledger.Batch{}, err
	}
	minOrder, err := parseDecimal("minimumOrder", r.MinimumOrder)
	if err != nil {
		return ledger.Batch{}, err
	}

	return ledger.Batch{
		CropName:       r.CropName,
		Variety:        r.Variety,
		TotalQuantity:  qty,
		Unit:           r.Unit,
		PricePerUnit:   price,
		MinimumOrder:   minOrder,
		HarvestDate:    r.HarvestDate,
		AvailableFrom:  r.AvailableFrom,
		AvailableUntil: r.AvailableUntil,
		PickupLocation: r.PickupLocation,
		FarmName:       r.FarmName,
	}, nil
}

func (r inventoryRow) toItem() (ledger.InventoryItem, error) {
	qty, err := parseDecimal("quantity", r.Quantity)
	if err != nil {
		return ledger.InventoryItem{}, err
	}
	purchase, err := parseDecimal("purchasePrice", r.PurchasePrice)
	if err != nil {
		return ledger.InventoryItem{}, err
	}
	selling, err := parseDecimal("sellingPrice", r.SellingPrice)
	if err != nil {
		return ledger.InventoryItem{}, err
	}

	return ledger.InventoryItem{
		ProductName:   r.ProductName,
		Variety:       r.Variety,
		Quantity:      qty,
		Unit:          r.Unit,
		PurchasePrice: purchase,
		SellingPrice:  selling,
		Supplier:      r.Supplier,
		Category:      r.Category,
		Description:   r.Description,
	}, nil
}

func (r stockRow) toItem() (ledger.StockItem, error) {
	qty, err := parseDecimal("quantity", r.Quantity)
	if err != nil {
		return ledger.StockItem{}, err
	}
	purchase, err := parseDecimal("purchasePrice", r.PurchasePrice)
	if err != nil {
		return ledger.StockItem{}, err
	}
	selling, err := parseDecimal("sellingPrice", r.SellingPrice)
	if err != nil {
		return ledger.StockItem{}, err
	}

	return ledger.StockItem{
		ProductName:   r.ProductName,
		Variety:       r.Variety,
		Quantity:      qty,
		Unit:          r.Unit,
		PurchasePrice: purchase,
		SellingPrice:  selling,
		Supplier:      r.Supplier,
		Category:      r.Category,
	}, nil
}

func (r orderRow) toOrder() (ledger.Order, error) {
	qty, err := parseDecimal("quantity", r.Quantity)
	if err != nil {
		return ledger.Order{}, err
	}
	unitPrice, err := parseDecimal("unitPrice", r.UnitPrice)
	if err != nil {
		return ledger.Order{}, err
	}
	total, err := parseDecimal("totalAmount", r.TotalAmount)
	if err != nil {
		return ledger.Order{}, err
	}

	return ledger.Order{
		Type:        ledger.OrderType(r.Type),
		From:        r.From,
		To:          r.To,
		ProductName: r.ProductName,
		Quantity:    qty,
		Unit:        r.Unit,
		UnitPrice:   unitPrice,
		TotalAmount: total,
	}, nil
}
