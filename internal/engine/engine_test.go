package engine_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmfork/agrisync/internal/engine"
	"github.com/farmfork/agrisync/internal/ledger"
	"github.com/farmfork/agrisync/internal/store"
	"github.com/farmfork/agrisync/internal/testutil"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err, "bad decimal %q", s)
	return d
}

func newTestEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return engine.New(st, opts...)
}

// deterministicEngine pins the clock and id generator so records carry
// predictable timestamps and ids ("id-0001", "id-0002", ...).
func deterministicEngine(t *testing.T, step time.Duration) *engine.Engine {
	t.Helper()
	clock := testutil.NewTickingClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), step)
	ids := testutil.NewSequentialIDs("id")
	return newTestEngine(t, engine.WithClock(clock.Now), engine.WithIDGenerator(ids.Next))
}

func tomatoBatch(t *testing.T) ledger.Batch {
	t.Helper()
	return ledger.Batch{
		CropName:      "Organic Tomatoes",
		Variety:       "Roma",
		TotalQuantity: dec(t, "100"),
		Unit:          "kg",
		PricePerUnit:  dec(t, "60"),
		MinimumOrder:  dec(t, "10"),
		FarmName:      "Green Valley Farm",
	}
}

func TestAddFarmerBatch_AssignsIdentity(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	batch, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)

	assert.NotEmpty(t, batch.ID)
	assert.False(t, batch.CreatedAt.IsZero())
	assert.Equal(t, ledger.BatchAvailable, batch.Status)

	batches, err := eng.FarmerBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, batch.ID, batches[0].ID)
}

func TestAddFarmerBatch_PrependsNewestFirst(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	first := tomatoBatch(t)
	_, err := eng.AddFarmerBatch(ctx, first)
	require.NoError(t, err)

	second := tomatoBatch(t)
	second.CropName = "Basmati Rice"
	_, err = eng.AddFarmerBatch(ctx, second)
	require.NoError(t, err)

	batches, err := eng.FarmerBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "Basmati Rice", batches[0].CropName)
	assert.Equal(t, "Organic Tomatoes", batches[1].CropName)
}

func TestAddDistributorInventory_DerivesStatus(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	item, err := eng.AddDistributorInventory(ctx, ledger.InventoryItem{
		ProductName:   "Fresh Spinach",
		Quantity:      dec(t, "8"),
		Unit:          "kg",
		PurchasePrice: dec(t, "30"),
		SellingPrice:  dec(t, "36"),
		Supplier:      "Riverbed Greens",
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.ItemLowStock, item.Status)
}

func TestAddRetailerStock_DefaultsPurchaseDate(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	item, err := eng.AddRetailerStock(ctx, ledger.StockItem{
		ProductName:   "Organic Tomatoes",
		Quantity:      dec(t, "20"),
		Unit:          "kg",
		PurchasePrice: dec(t, "72"),
		SellingPrice:  dec(t, "93.60"),
		Supplier:      "Green Valley Farm",
	})
	require.NoError(t, err)
	assert.False(t, item.PurchaseDate.IsZero())
	assert.Equal(t, ledger.ItemInStock, item.Status)
}

func TestUpdateFarmerBatch_ShallowMerge(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	batch, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)

	newQty := dec(t, "80")
	pickup := "Gate 2"
	updated, err := eng.UpdateFarmerBatch(ctx, batch.ID, ledger.BatchPatch{
		TotalQuantity:  &newQty,
		PickupLocation: &pickup,
	})
	require.NoError(t, err)

	assert.True(t, updated.TotalQuantity.Equal(newQty))
	assert.Equal(t, "Gate 2", updated.PickupLocation)

	// Untouched fields survive the merge.
	assert.Equal(t, batch.CropName, updated.CropName)
	assert.True(t, updated.PricePerUnit.Equal(batch.PricePerUnit))
	assert.Equal(t, batch.FarmName, updated.FarmName)

	batches, err := eng.FarmerBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].TotalQuantity.Equal(newQty))
}

func TestUpdateFarmerBatch_NotFoundNeverUpserts(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	qty := dec(t, "10")
	_, err := eng.UpdateFarmerBatch(ctx, "no-such-id", ledger.BatchPatch{TotalQuantity: &qty})
	require.Error(t, err)
	assert.True(t, engine.IsNotFound(err))

	batches, err := eng.FarmerBatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, batches)

	history, err := eng.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history, "failed update must not write an audit entry")
}

func TestUpdateDistributorInventory_ShallowMerge(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	item, err := eng.AddDistributorInventory(ctx, ledger.InventoryItem{
		ProductName:   "Organic Tomatoes",
		Quantity:      dec(t, "45"),
		Unit:          "kg",
		PurchasePrice: dec(t, "60"),
		SellingPrice:  dec(t, "72"),
		Supplier:      "Green Valley Farm",
	})
	require.NoError(t, err)

	selling := dec(t, "75")
	updated, err := eng.UpdateDistributorInventory(ctx, item.ID, ledger.InventoryPatch{SellingPrice: &selling})
	require.NoError(t, err)
	assert.True(t, updated.SellingPrice.Equal(selling))
	assert.True(t, updated.Quantity.Equal(item.Quantity))
}

func TestUpdateRetailerStock_NotFound(t *testing.T) {
	eng := newTestEngine(t)

	selling := dec(t, "99")
	_, err := eng.UpdateRetailerStock(context.Background(), "no-such-id", ledger.StockPatch{SellingPrice: &selling})
	require.Error(t, err)
	assert.True(t, engine.IsNotFound(err))
}

func TestAddOrder_RejectsUnknownType(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.AddOrder(context.Background(), ledger.Order{
		Type:        "sideways",
		ProductName: "Organic Tomatoes",
		Quantity:    dec(t, "10"),
	})
	require.Error(t, err)
}

func TestOrders_FilterAndMerge(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddOrder(ctx, ledger.Order{
		Type:        ledger.OrderFarmerToDistributor,
		From:        "Green Valley Farm",
		To:          "metro-fresh",
		ProductName: "Organic Tomatoes",
		Quantity:    dec(t, "45"),
		Unit:        "kg",
		UnitPrice:   dec(t, "60"),
		TotalAmount: dec(t, "2700"),
	})
	require.NoError(t, err)

	_, err = eng.AddOrder(ctx, ledger.Order{
		Type:        ledger.OrderDistributorToRetailer,
		From:        "distributor",
		To:          "corner-greens",
		ProductName: "Organic Tomatoes",
		Quantity:    dec(t, "20"),
		Unit:        "kg",
		UnitPrice:   dec(t, "72"),
		TotalAmount: dec(t, "1440"),
	})
	require.NoError(t, err)

	f2d, err := eng.Orders(ctx, ledger.OrderFarmerToDistributor)
	require.NoError(t, err)
	require.Len(t, f2d, 1)
	assert.Equal(t, "metro-fresh", f2d[0].To)

	d2r, err := eng.Orders(ctx, ledger.OrderDistributorToRetailer)
	require.NoError(t, err)
	require.Len(t, d2r, 1)
	assert.Equal(t, "corner-greens", d2r[0].To)

	all, err := eng.Orders(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ledger.OrderFarmerToDistributor, all[0].Type)
	assert.Equal(t, ledger.OrderDistributorToRetailer, all[1].Type)

	_, err = eng.Orders(ctx, "sideways")
	require.Error(t, err)
}

func TestHistory_RecordsMutationsNewestFirst(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)

	_, err = eng.AddDistributorInventory(ctx, ledger.InventoryItem{
		ProductName:   "Fresh Spinach",
		Quantity:      dec(t, "8"),
		Unit:          "kg",
		PurchasePrice: dec(t, "30"),
		SellingPrice:  dec(t, "36"),
		Supplier:      "Riverbed Greens",
	})
	require.NoError(t, err)

	history, err := eng.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "addDistributorInventory", history[0].Action)
	assert.Equal(t, "addFarmerBatch", history[1].Action)
	assert.NotEmpty(t, history[0].Payload)
}

func TestHistory_CapsAtLimitDroppingOldest(t *testing.T) {
	eng := deterministicEngine(t, time.Second)
	ctx := context.Background()

	for i := 0; i < ledger.MaxAuditEntries+1; i++ {
		b := tomatoBatch(t)
		b.CropName = fmt.Sprintf("Crop %d", i)
		_, err := eng.AddFarmerBatch(ctx, b)
		require.NoError(t, err)
	}

	history, err := eng.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, ledger.MaxAuditEntries)

	// The very first add (id-0001) fell off the end of the trail.
	oldest := string(history[len(history)-1].Payload)
	assert.True(t, strings.Contains(oldest, `"id":"id-0002"`), "oldest retained entry is %s", oldest)
}

func TestClearAll_ResetsEverything(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)

	require.NoError(t, eng.ClearAll(ctx))

	batches, err := eng.FarmerBatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, batches)

	history, err := eng.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestInitialize_Idempotent(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Initialize(ctx))

	_, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)

	require.NoError(t, eng.Initialize(ctx))

	batches, err := eng.FarmerBatches(ctx)
	require.NoError(t, err)
	assert.Len(t, batches, 1)
}
