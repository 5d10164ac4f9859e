package inventory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/dealmax/internal/adapters/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_FetchInventory_YAML(t *testing.T) {
	vehicles, err := inventory.NewFile("testdata/inventory.yaml").FetchInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	v := vehicles[0]
	assert.Equal(t, "A100", v.ID)
	assert.Equal(t, "North", v.Trim)
	assert.InDelta(t, 19500, v.CollateralValue, 0.001)
	assert.True(t, v.InStock)

	assert.Equal(t, "1500", vehicles[1].Model)
	assert.False(t, vehicles[1].InStock)
}

func TestFile_FetchInventory_JSONList(t *testing.T) {
	vehicles, err := inventory.NewFile("testdata/inventory.json").FetchInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "C300", vehicles[0].ID)
	assert.InDelta(t, 24000, vehicles[0].Cost, 0.001)
	assert.InDelta(t, 26500, vehicles[0].CollateralValue, 0.001)
}

func TestFile_FetchInventory_YAMLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.yml")
	require.NoError(t, os.WriteFile(path, []byte("- id: X1\n  year: 2020\n  make: Kia\n  in_stock: true\n"), 0o600))

	vehicles, err := inventory.NewFile(path).FetchInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Kia", vehicles[0].Make)
}

func TestFile_FetchInventory_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	vehicles, err := inventory.NewFile(path).FetchInventory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vehicles)
}

func TestFile_FetchInventory_Missing(t *testing.T) {
	_, err := inventory.NewFile("testdata/nope.yaml").FetchInventory(context.Background())
	assert.Error(t, err)
}
