package cache

import (
	"context"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

// Noop is used when no Redis address is configured.
type Noop struct{}

var _ repository.ListingCache = Noop{}

func (Noop) GetListing(context.Context, string) (models.Listing, bool) { return models.Listing{}, false }
func (Noop) SetListing(context.Context, models.Listing) {}
func (Noop) DeleteListing(context.Context, string) {}
func (Noop) GetStats(context.Context) (models.ListingStats, bool) { return models.ListingStats{}, false }
func (Noop) SetStats(context.Context, models.ListingStats) {}
func (Noop) InvalidateStats(context.Context) {}
