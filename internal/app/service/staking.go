package service

import (
	"context"

	"github.com/shopspring/decimal"

	"txpreview/internal/domain/entity"
	"txpreview/internal/pkg/decimals"
)

// processValidatorStake renders a stake: XRD out of the wallet, liquid stake
// units in. The worth of each deposited stake unit batch is derived from the
// tracked stake instructions rather than the validator's global exchange
// rate, so a preview of the staking transaction itself reports exactly the
// XRD being staked.
func (s *PreviewServiceImpl) processValidatorStake(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
	classification entity.DetailedManifestClass,
) (*entity.Preview, error) {
	byAddress, err := s.resolveSummaryAssets(ctx, summary, entity.ResourceID(s.xrdAddress))
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

	augmentStakeUnitWorth(deposits, classification.ValidatorStakes)

	return &entity.Preview{
		Kind:        entity.PreviewValidatorStake,
		Withdrawals: withdrawals,
		Deposits:    deposits,
		Badges:      resolveBadges(summary, byAddress),
		Validators:  collectValidators(classification.ValidatorAddresses, withdrawals, deposits),
	}, nil
}

// processValidatorUnstake renders an unstake: liquid stake units out, claim
// NFTs in. The claim NFTs are minted by the transaction itself, so their
// claimable XRD comes from the classification's claim summary instead of
// ledger data.
func (s *PreviewServiceImpl) processValidatorUnstake(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
	classification entity.DetailedManifestClass,
) (*entity.Preview, error) {
	byAddress, err := s.resolveSummaryAssets(ctx, summary, entity.ResourceID(s.xrdAddress))
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

	augmentStakeUnitWorth(withdrawals, classification.ValidatorUnstakes)
	augmentClaimWorth(deposits, classification.UnstakeClaimsInSummary)

	return &entity.Preview{
		Kind:        entity.PreviewValidatorUnstake,
		Withdrawals: withdrawals,
		Deposits:    deposits,
		Badges:      resolveBadges(summary, byAddress),
		Validators:  collectValidators(classification.ValidatorAddresses, withdrawals, deposits),
	}, nil
}

// processValidatorClaim renders a claim: claim NFTs out, XRD in. Withdrawn
// claim NFTs exist on ledger and carry their claimable amount from
// resolution; the tracked claims fill any item the ledger data missed.
func (s *PreviewServiceImpl) processValidatorClaim(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
	classification entity.DetailedManifestClass,
) (*entity.Preview, error) {
	byAddress, err := s.resolveSummaryAssets(ctx, summary, entity.ResourceID(s.xrdAddress))
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

	augmentClaimWorth(withdrawals, trackedClaimAmounts(classification.ValidatorClaims))

	return &entity.Preview{
		Kind:        entity.PreviewValidatorClaim,
		Withdrawals: withdrawals,
		Deposits:    deposits,
		Badges:      resolveBadges(summary, byAddress),
		Validators:  collectValidators(classification.ValidatorAddresses, withdrawals, deposits),
	}, nil
}

// augmentStakeUnitWorth recomputes the XRD worth of every liquid stake unit
// transferable from the tracked stake or unstake instructions minting or
// burning that unit. Units without a matching record keep the exchange-rate
// estimate.
func augmentStakeUnitWorth(accounts []entity.AccountWithTransferables, tracked []entity.TrackedValidatorStake) {
	for i := range accounts {
		for j := range accounts[i].Transferables {
			asset := &accounts[i].Transferables[j].Asset
			if asset.Kind != entity.AssetLiquidStakeUnit {
				continue
			}

			totalUnits := decimal.Zero
			totalXRD := decimal.Zero
			matched := false
			for _, record := range tracked {
				if record.LiquidStakeUnit != asset.LSU.Resource.Address {
					continue
				}
				matched = true
				totalUnits = totalUnits.Add(record.LiquidStakeUnitAmount)
				totalXRD = totalXRD.Add(record.XRDAmount)
			}
			if !matched || totalUnits.IsZero() {
				continue
			}

			asset.LSU.XRDWorth = decimals.RoundToDivisibility(
				asset.LSU.Amount.Div(totalUnits).Mul(totalXRD),
				asset.LSU.Resource.Divisibility,
			)
		}
	}
}

// augmentClaimWorth fills the claimable XRD of stake-claim items from the
// classification's per-item amounts. Items the classification does not
// mention keep whatever resolution reported.
func augmentClaimWorth(accounts []entity.AccountWithTransferables, amounts map[entity.NonFungibleGlobalID]decimal.Decimal) {
	if len(amounts) == 0 {
		return
	}
	for i := range accounts {
		for j := range accounts[i].Transferables {
			asset := &accounts[i].Transferables[j].Asset
			if asset.Kind != entity.AssetStakeClaim {
				continue
			}
			for k := range asset.StakeClaim.Items {
				item := &asset.StakeClaim.Items[k]
				amount, ok := amounts[item.GlobalID()]
				if !ok {
					continue
				}
				worth := amount
				item.ClaimAmountXRD = &worth
				asset.StakeClaim.XRDWorthPerItem[item.LocalID] = worth
			}
		}
	}
}

// trackedClaimAmounts flattens the tracked claim instructions to per-item
// XRD amounts. A claim instruction covering several NFTs reports one total;
// it maps to an item only when unambiguous.
func trackedClaimAmounts(claims []entity.TrackedValidatorClaim) map[entity.NonFungibleGlobalID]decimal.Decimal {
	amounts := make(map[entity.NonFungibleGlobalID]decimal.Decimal)
	for _, claim := range claims {
		if len(claim.ClaimNFTIDs) != 1 {
			continue
		}
		id := entity.NonFungibleGlobalID{
			ResourceAddress: claim.ClaimNFTResource,
			LocalID:         claim.ClaimNFTIDs[0],
		}
		amounts[id] = claim.XRDAmount
	}
	return amounts
}

// collectValidators gathers the resolved validators referenced by the
// transferables, returned distinct in classification order.
func collectValidators(order []entity.ValidatorAddress, accountLists ...[]entity.AccountWithTransferables) []entity.Validator {
	byAddress := make(map[entity.ValidatorAddress]entity.Validator)
	for _, accounts := range accountLists {
		for _, account := range accounts {
			for _, transferable := range account.Transferables {
				switch transferable.Asset.Kind {
				case entity.AssetLiquidStakeUnit:
					byAddress[transferable.Asset.LSU.Validator.Address] = transferable.Asset.LSU.Validator
				case entity.AssetStakeClaim:
					byAddress[transferable.Asset.StakeClaim.Validator.Address] = transferable.Asset.StakeClaim.Validator
				}
			}
		}
	}

	validators := make([]entity.Validator, 0, len(order))
	seen := make(map[entity.ValidatorAddress]struct{}, len(order))
	for _, address := range order {
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		if validator, ok := byAddress[address]; ok {
			validators = append(validators, validator)
		}
	}
	return validators
}
