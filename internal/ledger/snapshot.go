package ledger

import (
	"encoding/json"
	"time"
)

// MaxAuditEntries caps the audit trail. When a new entry would push the
// trail past this size, the oldest entries are dropped.
const MaxAuditEntries = 100

// AuditEntry is one append-only log record of a mutation.
// Payload is the serialized input of the mutation, kept opaque.
type AuditEntry struct {
	Action    string          `json:"action"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// FarmerState holds the farmer-tier collection.
type FarmerState struct {
	Batches     []Batch   `json:"batches"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// DistributorState holds the distributor-tier collection.
type DistributorState struct {
	Inventory   []InventoryItem `json:"inventory"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// RetailerState holds the retailer-tier collection.
type RetailerState struct {
	Stock       []StockItem `json:"stock"`
	LastUpdated time.Time   `json:"lastUpdated"`
}

// OrderState holds the per-type order logs.
type OrderState struct {
	FarmerToDistributor   []Order   `json:"farmerToDistributor"`
	DistributorToRetailer []Order   `json:"distributorToRetailer"`
	LastUpdated           time.Time `json:"lastUpdated"`
}

// Snapshot is the single persisted document: all four collections plus
// the audit trail. Field names are the persisted-format contract.
type Snapshot struct {
	Farmers      FarmerState      `json:"farmers"`
	Retailers    RetailerState    `json:"retailers"`
	Distributors DistributorState `json:"distributors"`
	Orders       OrderState       `json:"orders"`
	SyncHistory  []AuditEntry     `json:"syncHistory"`
}

// NewSnapshot returns an empty snapshot with non-nil collections, so
// the serialized form always contains every key.
func NewSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Farmers:      FarmerState{Batches: []Batch{}, LastUpdated: now},
		Retailers:    RetailerState{Stock: []StockItem{}, LastUpdated: now},
		Distributors: DistributorState{Inventory: []InventoryItem{}, LastUpdated: now},
		Orders: OrderState{
			FarmerToDistributor:   []Order{},
			DistributorToRetailer: []Order{},
			LastUpdated:           now,
		},
		SyncHistory: []AuditEntry{},
	}
}

// Normalize replaces nil collections with empty slices. Applied after
// deserializing external input so the rest of the code never sees nil.
func (s *Snapshot) Normalize() {
	if s.Farmers.Batches == nil {
		s.Farmers.Batches = []Batch{}
	}
	if s.Retailers.Stock == nil {
		s.Retailers.Stock = []StockItem{}
	}
	if s.Distributors.Inventory == nil {
		s.Distributors.Inventory = []InventoryItem{}
	}
	if s.Orders.FarmerToDistributor == nil {
		s.Orders.FarmerToDistributor = []Order{}
	}
	if s.Orders.DistributorToRetailer == nil {
		s.Orders.DistributorToRetailer = []Order{}
	}
	if s.SyncHistory == nil {
		s.SyncHistory = []AuditEntry{}
	}
}

// RecordAudit prepends one audit entry (newest first) and truncates the
// trail to MaxAuditEntries, dropping the oldest entries.
func (s *Snapshot) RecordAudit(action string, payload json.RawMessage, at time.Time) {
	entry := AuditEntry{Action: action, Timestamp: at, Payload: payload}
	s.SyncHistory = append([]AuditEntry{entry}, s.SyncHistory...)
	if len(s.SyncHistory) > MaxAuditEntries {
		s.SyncHistory = s.SyncHistory[:MaxAuditEntries]
	}
}

// FindBatch returns a pointer into the batches slice, or nil.
func (s *Snapshot) FindBatch(id string) *Batch {
	for i := range s.Farmers.Batches {
		if s.Farmers.Batches[i].ID == id {
			return &s.Farmers.Batches[i]
		}
	}
	return nil
}

// FindInventory returns a pointer into the inventory slice, or nil.
func (s *Snapshot) FindInventory(id string) *InventoryItem {
	for i := range s.Distributors.Inventory {
		if s.Distributors.Inventory[i].ID == id {
			return &s.Distributors.Inventory[i]
		}
	}
	return nil
}

// FindStock returns a pointer into the stock slice, or nil.
func (s *Snapshot) FindStock(id string) *StockItem {
	for i := range s.Retailers.Stock {
		if s.Retailers.Stock[i].ID == id {
			return &s.Retailers.Stock[i]
		}
	}
	return nil
}
