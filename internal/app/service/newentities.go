package service

import (
	"txpreview/internal/domain/entity"
)

// cacheNewEntities records the resources and items the reviewed transaction
// creates so follow-up resolutions in the session can serve them before the
// ledger knows about them. Fungibility of a created resource is inferred
// from how the summary moves it; untouched ones default to fungible.
func (s *PreviewServiceImpl) cacheNewEntities(summary entity.ExecutionSummary) {
	if s.newEntities == nil {
		return
	}
	if len(summary.NewEntities.Metadata) == 0 && len(summary.NewlyCreatedNonFungibles) == 0 {
		return
	}

	nonFungible := make(map[entity.ResourceAddress]struct{})
	markNonFungible := func(indicators map[entity.AccountAddress][]entity.ResourceIndicator) {
		for _, perAccount := range indicators {
			for _, indicator := range perAccount {
				if !indicator.IsFungible() {
					nonFungible[indicator.ResourceAddress] = struct{}{}
				}
			}
		}
	}
	markNonFungible(summary.Withdrawals)
	markNonFungible(summary.Deposits)
	for _, id := range summary.NewlyCreatedNonFungibles {
		nonFungible[id.ResourceAddress] = struct{}{}
	}

	assets := make([]entity.Asset, 0, len(summary.NewEntities.Metadata))
	for address, created := range summary.NewEntities.Metadata {
		if _, ok := nonFungible[address]; ok {
			assets = append(assets, entity.Asset{
				Kind: entity.AssetNonFungibleCollection,
				NonFungible: &entity.NonFungibleResource{
					Address:  address,
					Metadata: created.Metadata(),
				},
			})
			continue
		}
		assets = append(assets, entity.Asset{
			Kind: entity.AssetToken,
			Fungible: &entity.FungibleResource{
				Address:      address,
				Divisibility: newlyCreatedDivisibility,
				Metadata:     created.Metadata(),
			},
		})
	}

	items := make([]entity.NonFungibleItem, 0, len(summary.NewlyCreatedNonFungibles))
	for _, id := range summary.NewlyCreatedNonFungibles {
		items = append(items, entity.NonFungibleItem{
			CollectionAddress: id.ResourceAddress,
			LocalID:           id.LocalID,
		})
	}

	if len(assets) > 0 {
		s.newEntities.PutAssets(assets)
	}
	if len(items) > 0 {
		s.newEntities.PutItems(items)
	}
	s.logger.Debug("Cached newly created entities", "assets", len(assets), "items", len(items))
}
