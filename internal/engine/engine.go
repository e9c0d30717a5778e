package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/farmfork/agrisync/internal/ledger"
)

// SnapshotStore is the persistence surface the engine needs. The
// SQLite-backed store implements it; tests may substitute their own.
type SnapshotStore interface {
	Initialize(ctx context.Context) error
	Load(ctx context.Context) (*ledger.Snapshot, error)
	Save(ctx context.Context, snap *ledger.Snapshot) error
	Reset(ctx context.Context) error
}

// Engine owns the ledger operations. Construct one per process with
// New and pass it by reference; it holds no global state.
//
// All mutations serialize on an internal mutex so each load-mutate-save
// sequence behaves as a single atomic unit.
type Engine struct {
	store SnapshotStore
	log   *zap.Logger

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the wall clock. Used by tests and golden
// fixtures to make timestamps deterministic.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator substitutes the record ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an Engine over the given store.
func New(store SnapshotStore, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   zap.NewNop(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: ledger.NewID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize ensures an empty snapshot exists. Idempotent.
func (e *Engine) Initialize(ctx context.Context) error {
	return e.store.Initialize(ctx)
}

// ClearAll resets the ledger to a fresh empty snapshot, audit history
// included.
func (e *Engine) ClearAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Reset(ctx)
}

// loadLocked loads the snapshot, treating "no data" as an empty
// document. Callers must hold e.mu.
func (e *Engine) loadLocked(ctx context.Context) (*ledger.Snapshot, error) {
	snap, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = ledger.NewSnapshot(e.now())
	}
	return snap, nil
}

// mutate runs fn against the loaded snapshot inside the critical
// section, then appends one audit entry and saves. If fn returns an
// error nothing is persisted and no audit entry is written.
func (e *Engine) mutate(ctx context.Context, action string, payload any, fn func(*ledger.Snapshot) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.loadLocked(ctx)
	if err != nil {
		return err
	}

	if err := fn(snap); err != nil {
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	snap.RecordAudit(action, raw, e.now())

	if err := e.store.Save(ctx, snap); err != nil {
		return err
	}

	e.log.Debug("ledger mutation saved", zap.String("action", action))
	return nil
}

// FarmerBatches returns all farmer batches, most recent first.
func (e *Engine) FarmerBatches(ctx context.Context) ([]ledger.Batch, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, err := e.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Farmers.Batches, nil
}

// DistributorInventory returns all distributor holdings, most recent first.
func (e *Engine) DistributorInventory(ctx context.Context) ([]ledger.InventoryItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, err := e.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Distributors.Inventory, nil
}

// RetailerStock returns all retailer holdings, most recent first.
func (e *Engine) RetailerStock(ctx context.Context) ([]ledger.StockItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, err := e.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Retailers.Stock, nil
}

// Orders returns the order log for the given type. An empty type
// returns both logs, farmer→distributor first, each most recent first.
func (e *Engine) Orders(ctx context.Context, typ ledger.OrderType) ([]ledger.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, err := e.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	switch typ {
	case ledger.OrderFarmerToDistributor:
		return snap.Orders.FarmerToDistributor, nil
	case ledger.OrderDistributorToRetailer:
		return snap.Orders.DistributorToRetailer, nil
	case "":
		all := make([]ledger.Order, 0, len(snap.Orders.FarmerToDistributor)+len(snap.Orders.DistributorToRetailer))
		all = append(all, snap.Orders.FarmerToDistributor...)
		all = append(all, snap.Orders.DistributorToRetailer...)
		return all, nil
	default:
		return nil, fmt.Errorf("unknown order type %q", typ)
	}
}

// History returns the audit trail, newest first.
func (e *Engine) History(ctx context.Context) ([]ledger.AuditEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, err := e.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	return snap.SyncHistory, nil
}

// AddFarmerBatch stores a new batch. The id, creation timestamp and
// status are assigned here; the returned record is the stored one.
func (e *Engine) AddFarmerBatch(ctx context.Context, b ledger.Batch) (ledger.Batch, error) {
	b.ID = e.newID()
	b.CreatedAt = e.now()
	b.Status = ledger.BatchStatusFor(b.TotalQuantity)

	err := e.mutate(ctx, "addFarmerBatch", b, func(snap *ledger.Snapshot) error {
		snap.Farmers.Batches = append([]ledger.Batch{b}, snap.Farmers.Batches...)
		snap.Farmers.LastUpdated = b.CreatedAt
		return nil
	})
	if err != nil {
		return ledger.Batch{}, err
	}
	return b, nil
}

// AddDistributorInventory stores a new distributor holding.
func (e *Engine) AddDistributorInventory(ctx context.Context, item ledger.InventoryItem) (ledger.InventoryItem, error) {
	item.ID = e.newID()
	item.CreatedAt = e.now()
	if item.Status == "" {
		item.Status = ledger.ItemStatusFor(item.Quantity)
	}

	err := e.mutate(ctx, "addDistributorInventory", item, func(snap *ledger.Snapshot) error {
		snap.Distributors.Inventory = append([]ledger.InventoryItem{item}, snap.Distributors.Inventory...)
		snap.Distributors.LastUpdated = item.CreatedAt
		return nil
	})
	if err != nil {
		return ledger.InventoryItem{}, err
	}
	return item, nil
}

// AddRetailerStock stores a new retailer holding.
func (e *Engine) AddRetailerStock(ctx context.Context, item ledger.StockItem) (ledger.StockItem, error) {
	item.ID = e.newID()
	if item.PurchaseDate.IsZero() {
		item.PurchaseDate = e.now()
	}
	if item.Status == "" {
		item.Status = ledger.ItemStatusFor(item.Quantity)
	}

	err := e.mutate(ctx, "addRetailerStock", item, func(snap *ledger.Snapshot) error {
		snap.Retailers.Stock = append([]ledger.StockItem{item}, snap.Retailers.Stock...)
		snap.Retailers.LastUpdated = e.now()
		return nil
	})
	if err != nil {
		return ledger.StockItem{}, err
	}
	return item, nil
}

// AddOrder stores an order in the log matching its type. Used by the
// seeder; transfers write their orders inside their own critical
// section instead.
func (e *Engine) AddOrder(ctx context.Context, o ledger.Order) (ledger.Order, error) {
	if o.Type != ledger.OrderFarmerToDistributor && o.Type != ledger.OrderDistributorToRetailer {
		return ledger.Order{}, fmt.Errorf("unknown order type %q", o.Type)
	}

	o.ID = e.newID()
	o.CreatedAt = e.now()
	if o.Status == "" {
		o.Status = ledger.OrderCompleted
	}

	err := e.mutate(ctx, "addOrder", o, func(snap *ledger.Snapshot) error {
		appendOrder(snap, o)
		return nil
	})
	if err != nil {
		return ledger.Order{}, err
	}
	return o, nil
}

// appendOrder prepends an order to the log matching its type.
func appendOrder(snap *ledger.Snapshot, o ledger.Order) {
	switch o.Type {
	case ledger.OrderFarmerToDistributor:
		snap.Orders.FarmerToDistributor = append([]ledger.Order{o}, snap.Orders.FarmerToDistributor...)
	case ledger.OrderDistributorToRetailer:
		snap.Orders.DistributorToRetailer = append([]ledger.Order{o}, snap.Orders.DistributorToRetailer...)
	}
	snap.Orders.LastUpdated = o.CreatedAt
}

// UpdateFarmerBatch shallow-merges the patch into an existing batch.
// Returns the updated record; a missing id is a not-found error, never
// an upsert.
func (e *Engine) UpdateFarmerBatch(ctx context.Context, id string, patch ledger.BatchPatch) (ledger.Batch, error) {
	var updated ledger.Batch
	err := e.mutate(ctx, "updateFarmerBatch", map[string]any{"id": id}, func(snap *ledger.Snapshot) error {
		b := snap.FindBatch(id)
		if b == nil {
			return NewNotFoundError("batch", id)
		}
		applyBatchPatch(b, patch)
		snap.Farmers.LastUpdated = e.now()
		updated = *b
		return nil
	})
	if err != nil {
		return ledger.Batch{}, err
	}
	return updated, nil
}

// UpdateDistributorInventory shallow-merges the patch into an existing holding.
func (e *Engine) UpdateDistributorInventory(ctx context.Context, id string, patch ledger.InventoryPatch) (ledger.InventoryItem, error) {
	var updated ledger.InventoryItem
	err := e.mutate(ctx, "updateDistributorInventory", map[string]any{"id": id}, func(snap *ledger.Snapshot) error {
		item := snap.FindInventory(id)
		if item == nil {
			return NewNotFoundError("inventory", id)
		}
		applyInventoryPatch(item, patch)
		snap.Distributors.LastUpdated = e.now()
		updated = *item
		return nil
	})
	if err != nil {
		return ledger.InventoryItem{}, err
	}
	return updated, nil
}

// UpdateRetailerStock shallow-merges the patch into an existing holding.
func (e *Engine) UpdateRetailerStock(ctx context.Context, id string, patch ledger.StockPatch) (ledger.StockItem, error) {
	var updated ledger.StockItem
	err := e.mutate(ctx, "updateRetailerStock", map[string]any{"id": id}, func(snap *ledger.Snapshot) error {
		item := snap.FindStock(id)
		if item == nil {
			return NewNotFoundError("stock", id)
		}
		applyStockPatch(item, patch)
		snap.Retailers.LastUpdated = e.now()
		updated = *item
		return nil
	})
	if err != nil {
		return ledger.StockItem{}, err
	}
	return updated, nil
}

func applyBatchPatch(b *ledger.Batch, p ledger.BatchPatch) {
	if p.TotalQuantity != nil {
		b.TotalQuantity = *p.TotalQuantity
	}
	if p.PricePerUnit != nil {
		b.PricePerUnit = *p.PricePerUnit
	}
	if p.MinimumOrder != nil {
		b.MinimumOrder = *p.MinimumOrder
	}
	if p.PickupLocation != nil {
		b.PickupLocation = *p.PickupLocation
	}
	if p.AvailableUntil != nil {
		b.AvailableUntil = *p.AvailableUntil
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

func applyInventoryPatch(item *ledger.InventoryItem, p ledger.InventoryPatch) {
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.SellingPrice != nil {
		item.SellingPrice = *p.SellingPrice
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
}

func applyStockPatch(item *ledger.StockItem, p ledger.StockPatch) {
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.SellingPrice != nil {
		item.SellingPrice = *p.SellingPrice
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
}
