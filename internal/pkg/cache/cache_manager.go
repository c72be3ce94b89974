package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

// CacheManager holds all application caches
type CacheManager struct {
	// Public listing pages keyed by query.
	Listings *UnifiedCache[[]models.Property]

	// Single properties keyed by id.
	Properties *UnifiedCache[models.Property]
}

// NewCacheManager creates the caches; property details live twice as long
// as listing pages.
func NewCacheManager(listingsTTL time.Duration, logger *zap.Logger) *CacheManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheManager{
		Listings:   NewUnifiedCache[[]models.Property](listingsTTL, "listings", logger),
		Properties: NewUnifiedCache[models.Property](2*listingsTTL, "properties", logger),
	}
}

// GetAllMetrics returns metrics for all caches
func (cm *CacheManager) GetAllMetrics() map[string]CacheMetrics {
	return map[string]CacheMetrics{
		"listings":   cm.Listings.GetMetrics(),
		"properties": cm.Properties.GetMetrics(),
	}
}

func (cm *CacheManager) ClearAll() {
	cm.Listings.Clear()
	cm.Properties.Clear()
}
