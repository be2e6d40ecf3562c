package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"txpreview/internal/domain/entity"
)

func TestPartitionIdentifiers(t *testing.T) {
	identifiers := []entity.ResourceOrNonFungible{
		entity.ResourceID("resource_rdx1_a"),
		entity.NonFungibleID("resource_rdx1_nft", "#1#"),
		entity.NonFungibleID("resource_rdx1_nft", "#2#"),
		entity.ResourceID("resource_rdx1_a"),
	}

	addresses, items := partitionIdentifiers(identifiers)

	assert.Equal(t, []entity.ResourceAddress{"resource_rdx1_a", "resource_rdx1_nft"}, addresses)
	assert.Equal(t, []entity.NonFungibleLocalID{"#1#", "#2#"}, items["resource_rdx1_nft"])
}

func TestToAssetKinds(t *testing.T) {
	token, ok := toAsset(entityDetails{
		Address:      "resource_rdx1_a",
		Kind:         "token",
		Divisibility: 6,
		Metadata:     entityMetadata{Symbol: "TKN"},
	})
	require.True(t, ok)
	assert.Equal(t, entity.AssetToken, token.Kind)
	assert.Equal(t, int32(6), token.Fungible.Divisibility)

	lsu, ok := toAsset(entityDetails{
		Address: "resource_rdx1_lsu",
		Kind:    "liquidStakeUnit",
		Validator: &validatorDetail{
			Address:         "validator_rdx1_v",
			TotalXRDStake:   decimal.NewFromInt(100),
			StakeUnitSupply: decimal.NewFromInt(90),
		},
	})
	require.True(t, ok)
	assert.Equal(t, entity.AssetLiquidStakeUnit, lsu.Kind)
	assert.Equal(t, entity.ValidatorAddress("validator_rdx1_v"), lsu.Validator.Address)

	// A stake unit without its validator is unusable.
	_, ok = toAsset(entityDetails{Address: "resource_rdx1_x", Kind: "liquidStakeUnit"})
	assert.False(t, ok)

	_, ok = toAsset(entityDetails{Address: "resource_rdx1_y", Kind: "royaltyVault"})
	assert.False(t, ok)
}

func TestAttachItemsFillsEveryCollection(t *testing.T) {
	cache := NewEntityCache(time.Minute, time.Minute)
	cache.PutItems([]entity.NonFungibleItem{
		{CollectionAddress: "resource_rdx1_nft_a", LocalID: "#1#"},
		{CollectionAddress: "resource_rdx1_nft_b", LocalID: "#7#"},
	})
	client := NewLedgerClient("http://gateway.invalid", time.Second,
		rate.NewLimiter(rate.Inf, 1), cache, zap.NewNop(), 20)

	resolved := map[entity.ResourceAddress]entity.Asset{
		"resource_rdx1_nft_a": {
			Kind:        entity.AssetNonFungibleCollection,
			NonFungible: &entity.NonFungibleResource{Address: "resource_rdx1_nft_a"},
		},
		"resource_rdx1_nft_b": {
			Kind:        entity.AssetNonFungibleCollection,
			NonFungible: &entity.NonFungibleResource{Address: "resource_rdx1_nft_b"},
		},
	}

	err := client.attachItems(context.Background(), resolved, map[entity.ResourceAddress][]entity.NonFungibleLocalID{
		"resource_rdx1_nft_a": {"#1#"},
		"resource_rdx1_nft_b": {"#7#"},
	})
	require.NoError(t, err)

	require.Len(t, resolved["resource_rdx1_nft_a"].NonFungible.Items, 1)
	assert.Equal(t, entity.NonFungibleLocalID("#1#"), resolved["resource_rdx1_nft_a"].NonFungible.Items[0].LocalID)
	require.Len(t, resolved["resource_rdx1_nft_b"].NonFungible.Items, 1)
	assert.Equal(t, entity.NonFungibleLocalID("#7#"), resolved["resource_rdx1_nft_b"].NonFungible.Items[0].LocalID)
}

func TestEntityCacheRoundTrip(t *testing.T) {
	cache := NewEntityCache(time.Minute, time.Minute)

	asset := entity.Asset{
		Kind:     entity.AssetToken,
		Fungible: &entity.FungibleResource{Address: "resource_rdx1_a"},
	}
	cache.PutAssets([]entity.Asset{asset})

	cached, ok := cache.Asset("resource_rdx1_a")
	require.True(t, ok)
	assert.Equal(t, entity.AssetToken, cached.Kind)

	_, ok = cache.Asset("resource_rdx1_missing")
	assert.False(t, ok)

	item := entity.NonFungibleItem{CollectionAddress: "resource_rdx1_nft", LocalID: "#1#"}
	cache.PutItems([]entity.NonFungibleItem{item})

	cachedItem, ok := cache.Item(entity.NonFungibleGlobalID{ResourceAddress: "resource_rdx1_nft", LocalID: "#1#"})
	require.True(t, ok)
	assert.Equal(t, entity.NonFungibleLocalID("#1#"), cachedItem.LocalID)
}
