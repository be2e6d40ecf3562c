package service

import (
	"context"
	"sort"

	"txpreview/internal/domain/entity"
)

// processDepositSettings renders a deposit-settings update. The transaction
// moves no resources; only the resources and badges mentioned by the diff
// are resolved, and a miss leaves the entry address-only instead of failing
// the preview.
func (s *PreviewServiceImpl) processDepositSettings(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
	classification entity.DetailedManifestClass,
) (*entity.Preview, error) {
	byAddress, err := s.resolveSettingsAssets(ctx, classification)
	if err != nil {
		return nil, err
	}

	addresses := settingsAccounts(classification)

	changes := make([]entity.AccountDepositSettingsChange, 0, len(addresses))
	for _, address := range addresses {
		change := entity.AccountDepositSettingsChange{Address: address}
		if account, ok := wallet.OwnedAccount(address); ok {
			change.Owned = true
			change.Account = account
		}

		if rule, ok := classification.DepositRuleUpdates[address]; ok {
			updated := rule
			change.DefaultDepositRule = &updated
		}

		change.ResourcePreferences = resolvePreferenceChanges(classification.ResourcePreferenceUpdates[address], byAddress)
		change.DepositorsAdded = resolveDepositorChanges(classification.AuthorizedDepositorsAdded[address], byAddress)
		change.DepositorsRemoved = resolveDepositorChanges(classification.AuthorizedDepositorsRemoved[address], byAddress)

		changes = append(changes, change)
	}

	sortSettingsOwnedFirst(changes, wallet)

	return &entity.Preview{
		Kind:            entity.PreviewAccountDepositSettings,
		DepositSettings: changes,
	}, nil
}

// resolveSettingsAssets resolves every resource and badge the settings diff
// mentions in one round-trip.
func (s *PreviewServiceImpl) resolveSettingsAssets(
	ctx context.Context,
	classification entity.DetailedManifestClass,
) (map[entity.ResourceAddress]entity.Asset, error) {
	seen := make(map[entity.ResourceOrNonFungible]struct{})
	identifiers := make([]entity.ResourceOrNonFungible, 0)
	add := func(id entity.ResourceOrNonFungible) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		identifiers = append(identifiers, id)
	}

	for _, updates := range classification.ResourcePreferenceUpdates {
		for address := range updates {
			add(entity.ResourceID(address))
		}
	}
	for _, depositors := range classification.AuthorizedDepositorsAdded {
		for _, id := range depositors {
			add(id)
		}
	}
	for _, depositors := range classification.AuthorizedDepositorsRemoved {
		for _, id := range depositors {
			add(id)
		}
	}

	if len(identifiers) == 0 {
		return map[entity.ResourceAddress]entity.Asset{}, nil
	}

	assets, err := s.assets.Resolve(ctx, identifiers)
	if err != nil {
		return nil, err
	}
	return indexAssets(assets), nil
}

// settingsAccounts returns the union of accounts the diff touches, in
// lexicographic order as the deterministic baseline.
func settingsAccounts(classification entity.DetailedManifestClass) []entity.AccountAddress {
	seen := make(map[entity.AccountAddress]struct{})
	for address := range classification.DepositRuleUpdates {
		seen[address] = struct{}{}
	}
	for address := range classification.ResourcePreferenceUpdates {
		seen[address] = struct{}{}
	}
	for address := range classification.AuthorizedDepositorsAdded {
		seen[address] = struct{}{}
	}
	for address := range classification.AuthorizedDepositorsRemoved {
		seen[address] = struct{}{}
	}

	addresses := make([]entity.AccountAddress, 0, len(seen))
	for address := range seen {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })
	return addresses
}

func resolvePreferenceChanges(
	updates map[entity.ResourceAddress]entity.ResourcePreferenceUpdate,
	byAddress map[entity.ResourceAddress]entity.Asset,
) []entity.ResourcePreferenceChange {
	if len(updates) == 0 {
		return nil
	}

	addresses := make([]entity.ResourceAddress, 0, len(updates))
	for address := range updates {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })

	changes := make([]entity.ResourcePreferenceChange, 0, len(addresses))
	for _, address := range addresses {
		change := entity.ResourcePreferenceChange{
			Address: address,
			Update:  updates[address],
		}
		if asset, ok := byAddress[address]; ok {
			resolved := asset
			change.Resource = &resolved
		}
		changes = append(changes, change)
	}
	return changes
}

func resolveDepositorChanges(
	depositors []entity.ResourceOrNonFungible,
	byAddress map[entity.ResourceAddress]entity.Asset,
) []entity.AuthorizedDepositorChange {
	if len(depositors) == 0 {
		return nil
	}

	changes := make([]entity.AuthorizedDepositorChange, 0, len(depositors))
	for _, identifier := range depositors {
		change := entity.AuthorizedDepositorChange{Identifier: identifier}
		if asset, ok := byAddress[identifier.ResourceAddress]; ok {
			resolved := asset
			change.Resource = &resolved
		}
		changes = append(changes, change)
	}
	return changes
}

func sortSettingsOwnedFirst(changes []entity.AccountDepositSettingsChange, wallet entity.WalletContext) {
	rank := func(c entity.AccountDepositSettingsChange) int {
		if !c.Owned {
			return len(wallet.OwnedAccounts)
		}
		for i, owned := range wallet.OwnedAccounts {
			if owned.Address == c.Address {
				return i
			}
		}
		return len(wallet.OwnedAccounts)
	}
	sort.SliceStable(changes, func(i, j int) bool { return rank(changes[i]) < rank(changes[j]) })
}
