package service

import (
	"txpreview/internal/domain/entity"
)

// involvedAddresses collects the identifiers an execution summary requires
// from the asset resolver: every resource moved by a withdrawal or deposit
// and every identifier implied by a presented proof. Resources created by
// the transaction itself never existed on ledger and are excluded, as are
// non-fungible ids minted by the transaction.
func involvedAddresses(summary entity.ExecutionSummary) []entity.ResourceOrNonFungible {
	seen := make(map[entity.ResourceOrNonFungible]struct{})
	identifiers := make([]entity.ResourceOrNonFungible, 0)

	add := func(id entity.ResourceOrNonFungible) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		identifiers = append(identifiers, id)
	}

	collect := func(indicators map[entity.AccountAddress][]entity.ResourceIndicator) {
		for _, perAccount := range indicators {
			for _, indicator := range perAccount {
				if summary.IsNewlyCreated(indicator.ResourceAddress) {
					continue
				}

				add(entity.ResourceID(indicator.ResourceAddress))

				if indicator.NonFungible == nil {
					continue
				}
				for _, localID := range indicator.NonFungible.IDs {
					globalID := entity.NonFungibleGlobalID{
						ResourceAddress: indicator.ResourceAddress,
						LocalID:         localID,
					}
					if summary.IsNewlyCreatedNonFungible(globalID) {
						continue
					}
					add(entity.NonFungibleID(indicator.ResourceAddress, localID))
				}
			}
		}
	}

	collect(summary.Withdrawals)
	collect(summary.Deposits)

	for _, proof := range summary.PresentedProofs {
		for _, id := range proof.Identifiers() {
			add(id)
		}
	}

	return identifiers
}

// indexAssets keys a resolved asset list by resource address. The resolver
// contract allows at most one asset per address.
func indexAssets(assets []entity.Asset) map[entity.ResourceAddress]entity.Asset {
	byAddress := make(map[entity.ResourceAddress]entity.Asset, len(assets))
	for _, asset := range assets {
		byAddress[asset.ResourceAddress()] = asset
	}
	return byAddress
}

// resolveBadges maps the presented proofs onto resolved assets. Fungible
// proofs carry the presented amount from the specifier since the resolver
// does not report it. A proof whose resource is missing from the resolved
// set is dropped: proofs are supplementary information and never block the
// preview. Output order follows presented-proof order.
func resolveBadges(summary entity.ExecutionSummary, byAddress map[entity.ResourceAddress]entity.Asset) []entity.Badge {
	badges := make([]entity.Badge, 0, len(summary.PresentedProofs))

	for _, proof := range summary.PresentedProofs {
		asset, ok := byAddress[proof.ResourceAddress]
		if !ok {
			continue
		}

		badge := entity.Badge{Asset: asset}
		if proof.Amount != nil {
			if !asset.IsFungible() {
				continue
			}
			amount := *proof.Amount
			badge.Amount = &amount
		} else {
			badge.IDs = proof.IDs
		}

		badges = append(badges, badge)
	}

	return badges
}
