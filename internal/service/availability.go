package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/cache"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Pricer produces ordered offers for a stay.  *pricing.Engine satisfies it.
type Pricer interface {
	Search(ctx context.Context, q database.Querier, stay model.Stay) ([]model.Offer, error)
	TaxesPercentage() float64
}

// SearchResult is what the availability endpoint renders.  Entry is zero
// when the result could not be cached.
type SearchResult struct {
	Offers []model.Offer
	Entry  cache.Entry
	Hit    bool
}

// Cached reports whether Entry carries validators.
func (r SearchResult) Cached() bool { return r.Entry.Hash != "" }

// Availability answers searches from the cache or the pricing engine.
type Availability struct {
	db     database.Querier
	pricer Pricer
	cache  *cache.SearchCache
	log    *zap.Logger
}

func NewAvailability(db database.Querier, pricer Pricer, sc *cache.SearchCache, log *zap.Logger) *Availability {
	if log == nil {
		log = zap.NewNop()
	}
	return &Availability{db: db, pricer: pricer, cache: sc, log: log.With(zap.String("service", "availability"))}
}

// Search returns the offers for an already validated stay.
func (a *Availability) Search(ctx context.Context, stay model.Stay) (SearchResult, error) {
	key := cache.Key(stay)
	offers, entry, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		a.log.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		return SearchResult{Offers: offers, Entry: entry, Hit: true}, nil
	}

	offers, err = a.pricer.Search(ctx, a.db, stay)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	if len(offers) == 0 {
		return SearchResult{Offers: offers}, nil
	}
	entry, err = a.cache.Set(ctx, key, offers)
	if err != nil {
		if a.cache.Enabled() {
			a.log.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
		}
		return SearchResult{Offers: offers}, nil
	}
	return SearchResult{Offers: offers, Entry: entry}, nil
}
