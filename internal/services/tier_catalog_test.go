package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierCatalogLoadsAndCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.json")
	content := `[
	  {"name": "Silver", "description": "Basic", "details": ["Gym access"]},
	  {"name": "Gold", "description": "Popular", "details": ["Gym access", "Classes"]}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog := NewTierCatalog(path)
	tiers, err := catalog.GetTiers()
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, "Silver", tiers[0].Name)
	assert.Equal(t, []string{"Gym access", "Classes"}, tiers[1].Details)

	// The file is only read once; deleting it afterwards must not matter.
	require.NoError(t, os.Remove(path))
	tiers, err = catalog.GetTiers()
	require.NoError(t, err)
	assert.Len(t, tiers, 2)
}

func TestTierCatalogMissingFile(t *testing.T) {
	catalog := NewTierCatalog(filepath.Join(t.TempDir(), "nope.json"))
	_, err := catalog.GetTiers()
	assert.Error(t, err)
}
