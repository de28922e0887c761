package service

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/cache"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ExtrasLister reads the extras catalog from storage.
type ExtrasLister interface {
	List(ctx context.Context) ([]model.Extra, error)
}

// ExtrasCatalog serves the extras list through the "extras" collection.
type ExtrasCatalog struct {
	repo ExtrasLister
	col  *cache.Collection
	log  *zap.Logger
}

func NewExtrasCatalog(repo ExtrasLister, col *cache.Collection, log *zap.Logger) *ExtrasCatalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExtrasCatalog{repo: repo, col: col, log: log.With(zap.String("service", "extras"))}
}

const extrasKey = "all"

// List returns every active extra.
func (c *ExtrasCatalog) List(ctx context.Context) ([]model.Extra, error) {
	extras, _, err := c.ListCached(ctx)
	return extras, err
}

// ListCached returns the extras plus the cache entry describing them.  The
// entry is zero when caching is off or the write failed.
func (c *ExtrasCatalog) ListCached(ctx context.Context) ([]model.Extra, cache.Entry, error) {
	if e, ok, err := c.col.Get(ctx, extrasKey); err != nil {
		c.log.Warn("extras cache read failed", zap.Error(err))
	} else if ok {
		var extras []model.Extra
		if err := json.Unmarshal(e.Value, &extras); err == nil {
			return extras, e, nil
		}
	}

	extras, err := c.repo.List(ctx)
	if err != nil {
		return nil, cache.Entry{}, err
	}
	raw, err := json.Marshal(extras)
	if err != nil {
		return nil, cache.Entry{}, err
	}
	e, err := c.col.Set(ctx, extrasKey, raw)
	if err != nil {
		if c.col.Enabled() {
			c.log.Warn("extras cache write failed", zap.Error(err))
		}
		return extras, cache.Entry{}, nil
	}
	return extras, e, nil
}

// RoomGetter loads a room by id.
type RoomGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
}

// RoomCatalog serves single rooms through the "rooms" collection.
type RoomCatalog struct {
	repo RoomGetter
	col  *cache.Collection
	log  *zap.Logger
}

func NewRoomCatalog(repo RoomGetter, col *cache.Collection, log *zap.Logger) *RoomCatalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoomCatalog{repo: repo, col: col, log: log.With(zap.String("service", "rooms"))}
}

// Get returns the room and its cache entry (zero when not cached).
func (c *RoomCatalog) Get(ctx context.Context, id uint64) (*model.Room, cache.Entry, error) {
	key := "id:" + strconv.FormatUint(id, 10)
	if e, ok, err := c.col.Get(ctx, key); err != nil {
		c.log.Warn("room cache read failed", zap.Uint64("room_id", id), zap.Error(err))
	} else if ok {
		var r model.Room
		if err := json.Unmarshal(e.Value, &r); err == nil {
			return &r, e, nil
		}
	}

	r, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, cache.Entry{}, err
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, cache.Entry{}, err
	}
	e, err := c.col.Set(ctx, key, raw)
	if err != nil {
		return r, cache.Entry{}, nil
	}
	return r, e, nil
}
