package gateway

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"txpreview/internal/domain/entity"
)

// EntityCache holds assets and non-fungible items created by transactions
// reviewed in this session. The ledger does not know them until the
// transaction commits, so the client consults this cache before going to
// the network. It also doubles as a short-lived cache for resolved ledger
// state.
type EntityCache struct {
	assets *gocache.Cache
	items  *gocache.Cache
}

// NewEntityCache creates a cache with the given TTL and cleanup interval.
func NewEntityCache(ttl, cleanup time.Duration) *EntityCache {
	return &EntityCache{
		assets: gocache.New(ttl, cleanup),
		items:  gocache.New(ttl, cleanup),
	}
}

// PutAssets stores resolved or synthesized assets keyed by resource address.
func (c *EntityCache) PutAssets(assets []entity.Asset) {
	for _, asset := range assets {
		c.assets.SetDefault(string(asset.ResourceAddress()), asset)
	}
}

// PutItems stores non-fungible items keyed by their global id.
func (c *EntityCache) PutItems(items []entity.NonFungibleItem) {
	for _, item := range items {
		c.items.SetDefault(item.GlobalID().String(), item)
	}
}

// Asset returns the cached asset for the address, if any.
func (c *EntityCache) Asset(address entity.ResourceAddress) (entity.Asset, bool) {
	if cached, ok := c.assets.Get(string(address)); ok {
		return cached.(entity.Asset), true
	}
	return entity.Asset{}, false
}

// Item returns the cached item for the global id, if any.
func (c *EntityCache) Item(id entity.NonFungibleGlobalID) (entity.NonFungibleItem, bool) {
	if cached, ok := c.items.Get(id.String()); ok {
		return cached.(entity.NonFungibleItem), true
	}
	return entity.NonFungibleItem{}, false
}
