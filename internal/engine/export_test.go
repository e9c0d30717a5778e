package engine_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmfork/agrisync/internal/engine"
	"github.com/farmfork/agrisync/internal/ledger"
)

func TestExportFileName(t *testing.T) {
	at := time.Date(2025, 8, 29, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "agriculture-platform-data-2025-08-29.json", engine.ExportFileName(at))
}

func TestExportJSON_PrettyPrinted(t *testing.T) {
	eng := newTestEngine(t)

	data, err := eng.ExportJSON(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "{\n  \"farmers\""), "export is not indented: %s", data)
	assert.True(t, json.Valid(data))
}

func TestExportImport_RoundTrip(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	batch, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)
	item, err := eng.SyncFarmerBatchToDistributor(ctx, batch.ID, "metro-fresh", dec(t, "40"))
	require.NoError(t, err)
	_, err = eng.SyncDistributorInventoryToRetailer(ctx, item.ID, "corner-greens", dec(t, "25"))
	require.NoError(t, err)

	exported, err := eng.ExportJSON(ctx)
	require.NoError(t, err)

	require.NoError(t, eng.Import(ctx, exported))

	reExported, err := eng.ExportJSON(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(exported), string(reExported))
}

func TestImport_PreservesAuditTrail(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)

	before, err := eng.History(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	exported, err := eng.ExportJSON(ctx)
	require.NoError(t, err)
	require.NoError(t, eng.Import(ctx, exported))

	after, err := eng.History(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1, "import must not append an audit entry")
	assert.Equal(t, before[0].Action, after[0].Action)
}

func TestImport_RejectsMalformedJSONWithoutMutation(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)

	before, err := eng.ExportJSON(ctx)
	require.NoError(t, err)

	err = eng.Import(ctx, []byte("{not json"))
	require.Error(t, err)
	assert.True(t, engine.IsInvalidSnapshot(err))

	after, err := eng.ExportJSON(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestImport_RejectsWrongShape(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	err := eng.Import(ctx, []byte(`{"farmers": {"batches": [], "lastUpdated": "2025-01-01T00:00:00Z"}}`))
	require.Error(t, err)
	assert.True(t, engine.IsInvalidSnapshot(err))
}

func TestImport_RejectsInvalidStatus(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)

	exported, err := eng.ExportJSON(ctx)
	require.NoError(t, err)

	tampered := strings.ReplaceAll(string(exported), `"Available"`, `"Vanished"`)
	err = eng.Import(ctx, []byte(tampered))
	require.Error(t, err)
	assert.True(t, engine.IsInvalidSnapshot(err))
}

func TestImportFile_MissingFile(t *testing.T) {
	eng := newTestEngine(t)

	err := eng.ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.False(t, engine.IsInvalidSnapshot(err))
}

func TestExport_WritesDatedArtifact(t *testing.T) {
	eng := deterministicEngine(t, 0)
	ctx := context.Background()

	_, err := eng.AddFarmerBatch(ctx, tomatoBatch(t))
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := eng.Export(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, "agriculture-platform-data-2025-06-01.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	require.NoError(t, eng.Import(ctx, data))
}

func TestExportJSON_GoldenEmpty(t *testing.T) {
	eng := deterministicEngine(t, 0)

	data, err := eng.ExportJSON(context.Background())
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "export_empty", data)
}

func TestExportJSON_GoldenBatch(t *testing.T) {
	eng := deterministicEngine(t, 0)
	ctx := context.Background()

	_, err := eng.AddFarmerBatch(ctx, ledger.Batch{
		CropName:      "Organic Tomatoes",
		Variety:       "Roma",
		TotalQuantity: dec(t, "100"),
		Unit:          "kg",
		PricePerUnit:  dec(t, "60"),
		MinimumOrder:  dec(t, "10"),
		FarmName:      "Green Valley Farm",
	})
	require.NoError(t, err)

	data, err := eng.ExportJSON(ctx)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "export_batch", data)
}
