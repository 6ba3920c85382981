package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gym_backend/internal/models"
)

// TierCatalog serves the membership tier descriptions shown on the signup
// page. The catalog is a JSON file loaded once and cached for the process
// lifetime.
type TierCatalog struct {
	path string

	mu    sync.Mutex
	tiers []models.MembershipTier
}

// NewTierCatalog creates a catalog backed by the given JSON file. The file is
// not read until the first GetTiers call.
func NewTierCatalog(path string) *TierCatalog {
	return &TierCatalog{path: path}
}

// GetTiers returns the membership tier catalog.
func (c *TierCatalog) GetTiers() ([]models.MembershipTier, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tiers == nil {
		data, err := os.ReadFile(c.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read membership tier catalog %s: %w", c.path, err)
		}
		var tiers []models.MembershipTier
		if err := json.Unmarshal(data, &tiers); err != nil {
			return nil, fmt.Errorf("failed to parse membership tier catalog %s: %w", c.path, err)
		}
		c.tiers = tiers
	}

	out := make([]models.MembershipTier, len(c.tiers))
	copy(out, c.tiers)
	return out, nil
}
