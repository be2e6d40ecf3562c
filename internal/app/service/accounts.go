package service

import (
	"sort"

	"txpreview/internal/domain/entity"
)

// resolveAccountTransfers groups one side of the summary (withdrawals or
// deposits) into per-account transferable lists. Accounts are first laid out
// in lexicographic address order so the result is deterministic, then owned
// accounts are moved to the front in profile order while third-party
// accounts keep their relative order.
func resolveAccountTransfers(
	indicators map[entity.AccountAddress][]entity.ResourceIndicator,
	wallet entity.WalletContext,
	resolve func(entity.ResourceIndicator) (entity.Transferable, error),
) ([]entity.AccountWithTransferables, error) {
	addresses := make([]entity.AccountAddress, 0, len(indicators))
	for address := range indicators {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })

	accounts := make([]entity.AccountWithTransferables, 0, len(addresses))
	for _, address := range addresses {
		transferables := make([]entity.Transferable, 0, len(indicators[address]))
		for _, indicator := range indicators[address] {
			transferable, err := resolve(indicator)
			if err != nil {
				return nil, err
			}
			transferables = append(transferables, transferable)
		}

		grouped := entity.AccountWithTransferables{
			Address:       address,
			Transferables: transferables,
		}
		if account, ok := wallet.OwnedAccount(address); ok {
			grouped.Owned = true
			grouped.Account = account
		}
		accounts = append(accounts, grouped)
	}

	sortOwnedFirst(accounts, wallet)
	return accounts, nil
}

// sortOwnedFirst stable-sorts the accounts so wallet accounts come first, in
// the order they appear in the profile. Non-owned accounts all share the same
// rank and therefore keep their relative order.
func sortOwnedFirst(accounts []entity.AccountWithTransferables, wallet entity.WalletContext) {
	rank := func(a entity.AccountWithTransferables) int {
		if !a.Owned {
			return len(wallet.OwnedAccounts)
		}
		for i, owned := range wallet.OwnedAccounts {
			if owned.Address == a.Address {
				return i
			}
		}
		return len(wallet.OwnedAccounts)
	}
	sort.SliceStable(accounts, func(i, j int) bool { return rank(accounts[i]) < rank(accounts[j]) })
}
