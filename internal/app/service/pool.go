package service

import (
	"context"

	"github.com/shopspring/decimal"

	"txpreview/internal/domain/entity"
	"txpreview/internal/pkg/decimals"
)

// processPoolContribution renders a pool contribution: constituents out of
// the wallet, pool units in. The per-constituent worth of each deposited
// pool unit is taken from the tracked contribution records rather than the
// pool's current reserves, scaled when only part of the minted units lands
// in the account.
func (s *PreviewServiceImpl) processPoolContribution(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
	classification entity.DetailedManifestClass,
) (*entity.Preview, error) {
	byAddress, err := s.resolveSummaryAssets(ctx, summary)
	if err != nil {
		return nil, err
	}

	withdrawals, err := s.resolveWithdrawals(summary, wallet, byAddress)
	if err != nil {
		return nil, err
	}
	deposits, err := s.resolveDeposits(summary, wallet, byAddress)
	if err != nil {
		return nil, err
	}

	augmentPoolUnits(deposits, func(transfer *entity.PoolUnitTransfer) {
		applyTrackedContributions(transfer, classification.PoolContributions)
	})

	return &entity.Preview{
		Kind:        entity.PreviewPoolContribution,
		Withdrawals: withdrawals,
		Deposits:    deposits,
		Badges:      resolveBadges(summary, byAddress),
	}, nil
}

// processPoolRedemption renders a pool redemption: pool units out of the
// wallet, constituents in. The redeemed worth per withdrawn pool unit comes
// from the tracked redemption records.
func (s *PreviewServiceImpl) processPoolRedemption(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
	classification entity.DetailedManifestClass,
) (*entity.Preview, error) {
	byAddress, err := s.resolveSummaryAssets(ctx, summary)
	if err != nil {
		return nil, err
	}

	withdrawals, err := s.resolveWithdrawals(summary, wallet, byAddress)
	if err != nil {
		return nil, err
	}
	deposits, err := s.resolveDeposits(summary, wallet, byAddress)
	if err != nil {
		return nil, err
	}

	augmentPoolUnits(withdrawals, func(transfer *entity.PoolUnitTransfer) {
		applyTrackedRedemptions(transfer, classification.PoolRedemptions)
	})

	return &entity.Preview{
		Kind:        entity.PreviewPoolRedemption,
		Withdrawals: withdrawals,
		Deposits:    deposits,
		Badges:      resolveBadges(summary, byAddress),
	}, nil
}

// augmentPoolUnits applies augment to every pool unit transferable in place.
func augmentPoolUnits(accounts []entity.AccountWithTransferables, augment func(*entity.PoolUnitTransfer)) {
	for i := range accounts {
		for j := range accounts[i].Transferables {
			asset := &accounts[i].Transferables[j].Asset
			if asset.Kind == entity.AssetPoolUnit {
				augment(asset.PoolUnit)
			}
		}
	}
}

// applyTrackedContributions replaces the transfer's reserve-share breakdown
// with the amounts actually contributed for its pool units. When the tracked
// records cover more units than the transfer moves, the breakdown is scaled
// to the moved share. Transfers without a matching record keep the
// reserve-share fallback.
func applyTrackedContributions(transfer *entity.PoolUnitTransfer, tracked []entity.TrackedPoolContribution) {
	totalUnits := decimal.Zero
	contributed := make(map[entity.ResourceAddress]decimal.Decimal)
	matched := false

	for _, record := range tracked {
		if record.PoolUnitsResource != transfer.Resource.Address {
			continue
		}
		matched = true
		totalUnits = totalUnits.Add(record.PoolUnitsAmount)
		for address, amount := range record.ContributedResources {
			contributed[address] = contributed[address].Add(amount)
		}
	}

	if !matched || totalUnits.IsZero() {
		return
	}

	transfer.ContributionPerResource = scaleBreakdown(transfer, contributed, transfer.Amount.Div(totalUnits))
}

// applyTrackedRedemptions mirrors applyTrackedContributions for the redeemed
// side of a pool redemption.
func applyTrackedRedemptions(transfer *entity.PoolUnitTransfer, tracked []entity.TrackedPoolRedemption) {
	totalUnits := decimal.Zero
	redeemed := make(map[entity.ResourceAddress]decimal.Decimal)
	matched := false

	for _, record := range tracked {
		if record.PoolUnitsResource != transfer.Resource.Address {
			continue
		}
		matched = true
		totalUnits = totalUnits.Add(record.PoolUnitsAmount)
		for address, amount := range record.RedeemedResources {
			redeemed[address] = redeemed[address].Add(amount)
		}
	}

	if !matched || totalUnits.IsZero() {
		return
	}

	transfer.ContributionPerResource = scaleBreakdown(transfer, redeemed, transfer.Amount.Div(totalUnits))
}

func scaleBreakdown(
	transfer *entity.PoolUnitTransfer,
	totals map[entity.ResourceAddress]decimal.Decimal,
	share decimal.Decimal,
) map[entity.ResourceAddress]decimal.Decimal {
	breakdown := make(map[entity.ResourceAddress]decimal.Decimal, len(totals))
	for address, amount := range totals {
		breakdown[address] = decimals.RoundToDivisibility(amount.Mul(share), constituentDivisibility(transfer.Pool, address))
	}
	return breakdown
}

func constituentDivisibility(pool entity.Pool, address entity.ResourceAddress) int32 {
	for _, constituent := range pool.Resources {
		if constituent.Address == address {
			return constituent.Divisibility
		}
	}
	return newlyCreatedDivisibility
}
