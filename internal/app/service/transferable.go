package service

import (
	"github.com/shopspring/decimal"

	"txpreview/internal/domain/entity"
	"txpreview/internal/pkg/decimals"
)

// Resources minted inside the reviewed transaction have no ledger record to
// read a divisibility from; the ledger maximum is assumed.
const newlyCreatedDivisibility int32 = 18

// resolveTransferable converts one resource indicator into a typed,
// guarantee-annotated transferable. Resources created within the transaction
// are synthesized from the summary's own metadata and take precedence over
// anything the resolver returned for the same address. A moved resource that
// is neither newly created nor resolved aborts the analysis. Moved amounts
// carry the indicator's value untouched; only derived worth and breakdown
// values are rounded to the declared divisibility.
func resolveTransferable(
	summary entity.ExecutionSummary,
	byAddress map[entity.ResourceAddress]entity.Asset,
	indicator entity.ResourceIndicator,
	direction entity.TransferDirection,
	guaranteeOffset decimal.Decimal,
) (entity.Transferable, error) {
	asset, err := resolveTransferableAsset(summary, byAddress, indicator)
	if err != nil {
		return entity.Transferable{}, err
	}

	return entity.Transferable{
		Direction: direction,
		Asset:     asset,
		Guarantee: indicator.GuaranteeFor(guaranteeOffset),
	}, nil
}

func resolveTransferableAsset(
	summary entity.ExecutionSummary,
	byAddress map[entity.ResourceAddress]entity.Asset,
	indicator entity.ResourceIndicator,
) (entity.TransferableAsset, error) {
	if created, ok := summary.NewEntities.Metadata[indicator.ResourceAddress]; ok {
		return newlyCreatedTransferable(indicator, created), nil
	}

	asset, ok := byAddress[indicator.ResourceAddress]
	if !ok || asset.IsFungible() != indicator.IsFungible() {
		return entity.TransferableAsset{}, entity.NewResourceNotResolvedError(indicator.ResourceAddress)
	}

	switch asset.Kind {
	case entity.AssetToken:
		return entity.TransferableAsset{
			Kind: entity.AssetToken,
			Token: &entity.TokenTransfer{
				Resource: *asset.Fungible,
				Amount:   indicator.Amount(),
			},
		}, nil

	case entity.AssetLiquidStakeUnit:
		amount := indicator.Amount()
		return entity.TransferableAsset{
			Kind: entity.AssetLiquidStakeUnit,
			LSU: &entity.LSUTransfer{
				Resource:  *asset.Fungible,
				Validator: *asset.Validator,
				Amount:    amount,
				XRDWorth: decimals.StakeUnitValue(
					asset.Validator.TotalXRDStake,
					asset.Validator.StakeUnitSupply,
					amount,
					asset.Fungible.Divisibility,
				),
			},
		}, nil

	case entity.AssetPoolUnit:
		amount := indicator.Amount()
		contributions := make(map[entity.ResourceAddress]decimal.Decimal, len(asset.Pool.Resources))
		for _, constituent := range asset.Pool.Resources {
			contributions[constituent.Address] = decimals.PoolResourceValue(
				constituent.Reserve,
				asset.Pool.UnitSupply,
				amount,
				constituent.Divisibility,
			)
		}
		return entity.TransferableAsset{
			Kind: entity.AssetPoolUnit,
			PoolUnit: &entity.PoolUnitTransfer{
				Resource:                *asset.Fungible,
				Pool:                    *asset.Pool,
				Amount:                  amount,
				ContributionPerResource: contributions,
			},
		}, nil

	case entity.AssetNonFungibleCollection:
		return entity.TransferableAsset{
			Kind: entity.AssetNonFungibleCollection,
			NFT: &entity.NFTTransfer{
				Resource: *asset.NonFungible,
				Items:    movedItems(*asset.NonFungible, indicator.NonFungible.IDs),
			},
		}, nil

	case entity.AssetStakeClaim:
		items := movedItems(*asset.NonFungible, indicator.NonFungible.IDs)
		worthPerItem := make(map[entity.NonFungibleLocalID]decimal.Decimal, len(items))
		for _, item := range items {
			if item.ClaimAmountXRD != nil {
				worthPerItem[item.LocalID] = *item.ClaimAmountXRD
			}
		}
		return entity.TransferableAsset{
			Kind: entity.AssetStakeClaim,
			StakeClaim: &entity.StakeClaimTransfer{
				Resource:        *asset.NonFungible,
				Validator:       *asset.Validator,
				Items:           items,
				XRDWorthPerItem: worthPerItem,
			},
		}, nil
	}

	return entity.TransferableAsset{}, entity.NewResourceNotResolvedError(indicator.ResourceAddress)
}

// movedItems selects the moved items from the resolved collection, falling
// back to an id-only placeholder for items the ledger did not report. Item
// data is best-effort and never blocks the preview.
func movedItems(collection entity.NonFungibleResource, ids []entity.NonFungibleLocalID) []entity.NonFungibleItem {
	items := make([]entity.NonFungibleItem, 0, len(ids))
	for _, localID := range ids {
		if item, ok := collection.ItemByLocalID(localID); ok {
			items = append(items, item)
			continue
		}
		items = append(items, entity.NonFungibleItem{
			CollectionAddress: collection.Address,
			LocalID:           localID,
		})
	}
	return items
}

// newlyCreatedTransferable synthesizes a transferable for a resource created
// within the reviewed transaction from the summary's own metadata.
func newlyCreatedTransferable(indicator entity.ResourceIndicator, created entity.NewlyCreatedResource) entity.TransferableAsset {
	if indicator.IsFungible() {
		return entity.TransferableAsset{
			Kind:           entity.AssetToken,
			IsNewlyCreated: true,
			Token: &entity.TokenTransfer{
				Resource: entity.FungibleResource{
					Address:      indicator.ResourceAddress,
					Divisibility: newlyCreatedDivisibility,
					Metadata:     created.Metadata(),
				},
				Amount: indicator.Amount(),
			},
		}
	}

	items := make([]entity.NonFungibleItem, 0, len(indicator.NonFungible.IDs))
	for _, localID := range indicator.NonFungible.IDs {
		items = append(items, entity.NonFungibleItem{
			CollectionAddress: indicator.ResourceAddress,
			LocalID:           localID,
		})
	}
	return entity.TransferableAsset{
		Kind:           entity.AssetNonFungibleCollection,
		IsNewlyCreated: true,
		NFT: &entity.NFTTransfer{
			Resource: entity.NonFungibleResource{
				Address:  indicator.ResourceAddress,
				Metadata: created.Metadata(),
				Items:    items,
			},
			Items: items,
		},
	}
}
