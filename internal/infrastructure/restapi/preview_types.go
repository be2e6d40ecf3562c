package restapi

import (
	"github.com/shopspring/decimal"

	"txpreview/internal/domain/entity"
)

// PreviewRequest is the body of POST /api/v1/preview: the simulator's
// execution summary plus the caller's wallet context.
type PreviewRequest struct {
	Summary ExecutionSummaryDTO `json:"summary" binding:"required"`
	Wallet  WalletContextDTO    `json:"wallet"`
}

type ExecutionSummaryDTO struct {
	Withdrawals map[string][]ResourceIndicatorDTO `json:"withdrawals"`
	Deposits    map[string][]ResourceIndicatorDTO `json:"deposits"`

	PresentedProofs []ResourceSpecifierDTO `json:"presented_proofs"`

	NewEntities              map[string]NewlyCreatedResourceDTO `json:"new_entities"`
	NewlyCreatedNonFungibles []NonFungibleGlobalIDDTO           `json:"newly_created_non_fungibles"`

	EncounteredComponents []string `json:"encountered_components"`

	Classifications []ManifestClassDTO `json:"classifications"`
}

type ResourceIndicatorDTO struct {
	ResourceAddress string                   `json:"resource_address"`
	Fungible        *FungibleIndicatorDTO    `json:"fungible,omitempty"`
	NonFungible     *NonFungibleIndicatorDTO `json:"non_fungible,omitempty"`
}

type FungibleIndicatorDTO struct {
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	InstructionIndex uint64          `json:"instruction_index,omitempty"`
}

type NonFungibleIndicatorDTO struct {
	Kind             string   `json:"kind"`
	IDs              []string `json:"ids"`
	InstructionIndex uint64   `json:"instruction_index,omitempty"`
}

type ResourceSpecifierDTO struct {
	ResourceAddress string           `json:"resource_address"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	IDs             []string         `json:"ids,omitempty"`
}

type NewlyCreatedResourceDTO struct {
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Description string   `json:"description"`
	IconURL     string   `json:"icon_url"`
	Tags        []string `json:"tags"`
}

type NonFungibleGlobalIDDTO struct {
	ResourceAddress string `json:"resource_address"`
	LocalID         string `json:"local_id"`
}

type ManifestClassDTO struct {
	Kind string `json:"kind"`

	PoolAddresses     []string                     `json:"pool_addresses,omitempty"`
	PoolContributions []TrackedPoolContributionDTO `json:"pool_contributions,omitempty"`
	PoolRedemptions   []TrackedPoolRedemptionDTO   `json:"pool_redemptions,omitempty"`

	ValidatorAddresses     []string                   `json:"validator_addresses,omitempty"`
	ValidatorStakes        []TrackedValidatorStakeDTO `json:"validator_stakes,omitempty"`
	ValidatorUnstakes      []TrackedValidatorStakeDTO `json:"validator_unstakes,omitempty"`
	ValidatorClaims        []TrackedValidatorClaimDTO `json:"validator_claims,omitempty"`
	UnstakeClaimsInSummary []UnstakeClaimDTO          `json:"unstake_claims_in_summary,omitempty"`

	DepositRuleUpdates          map[string]string                                 `json:"deposit_rule_updates,omitempty"`
	ResourcePreferenceUpdates   map[string]map[string]ResourcePreferenceUpdateDTO `json:"resource_preference_updates,omitempty"`
	AuthorizedDepositorsAdded   map[string][]ResourceOrNonFungibleDTO             `json:"authorized_depositors_added,omitempty"`
	AuthorizedDepositorsRemoved map[string][]ResourceOrNonFungibleDTO             `json:"authorized_depositors_removed,omitempty"`
}

type TrackedPoolContributionDTO struct {
	PoolAddress          string                     `json:"pool_address"`
	ContributedResources map[string]decimal.Decimal `json:"contributed_resources"`
	PoolUnitsResource    string                     `json:"pool_units_resource"`
	PoolUnitsAmount      decimal.Decimal            `json:"pool_units_amount"`
}

type TrackedPoolRedemptionDTO struct {
	PoolAddress       string                     `json:"pool_address"`
	PoolUnitsResource string                     `json:"pool_units_resource"`
	PoolUnitsAmount   decimal.Decimal            `json:"pool_units_amount"`
	RedeemedResources map[string]decimal.Decimal `json:"redeemed_resources"`
}

type TrackedValidatorStakeDTO struct {
	ValidatorAddress      string          `json:"validator_address"`
	XRDAmount             decimal.Decimal `json:"xrd_amount"`
	LiquidStakeUnit       string          `json:"liquid_stake_unit"`
	LiquidStakeUnitAmount decimal.Decimal `json:"liquid_stake_unit_amount"`
}

type TrackedValidatorClaimDTO struct {
	ValidatorAddress string          `json:"validator_address"`
	ClaimNFTResource string          `json:"claim_nft_resource"`
	ClaimNFTIDs      []string        `json:"claim_nft_ids"`
	XRDAmount        decimal.Decimal `json:"xrd_amount"`
}

type UnstakeClaimDTO struct {
	ResourceAddress string          `json:"resource_address"`
	LocalID         string          `json:"local_id"`
	XRDAmount       decimal.Decimal `json:"xrd_amount"`
}

type ResourcePreferenceUpdateDTO struct {
	Kind       string `json:"kind"`
	Preference string `json:"preference,omitempty"`
}

type ResourceOrNonFungibleDTO struct {
	ResourceAddress string `json:"resource_address"`
	LocalID         string `json:"local_id,omitempty"`
}

type WalletContextDTO struct {
	OwnedAccounts           []AccountDTO     `json:"owned_accounts"`
	DefaultDepositGuarantee *decimal.Decimal `json:"default_deposit_guarantee,omitempty"`
}

type AccountDTO struct {
	Address      string `json:"address"`
	Name         string `json:"name"`
	AppearanceID uint8  `json:"appearance_id"`
}

// ToEntity converts the request summary to its domain form.
func (d ExecutionSummaryDTO) ToEntity() entity.ExecutionSummary {
	summary := entity.ExecutionSummary{
		Withdrawals: toIndicators(d.Withdrawals),
		Deposits:    toIndicators(d.Deposits),
	}

	for _, proof := range d.PresentedProofs {
		specifier := entity.ResourceSpecifier{
			ResourceAddress: entity.ResourceAddress(proof.ResourceAddress),
			Amount:          proof.Amount,
			IDs:             toLocalIDs(proof.IDs),
		}
		summary.PresentedProofs = append(summary.PresentedProofs, specifier)
	}

	if len(d.NewEntities) > 0 {
		summary.NewEntities.Metadata = make(map[entity.ResourceAddress]entity.NewlyCreatedResource, len(d.NewEntities))
		for address, created := range d.NewEntities {
			summary.NewEntities.Metadata[entity.ResourceAddress(address)] = entity.NewlyCreatedResource{
				Name:        created.Name,
				Symbol:      created.Symbol,
				Description: created.Description,
				IconURL:     created.IconURL,
				Tags:        created.Tags,
			}
		}
	}

	for _, id := range d.NewlyCreatedNonFungibles {
		summary.NewlyCreatedNonFungibles = append(summary.NewlyCreatedNonFungibles, entity.NonFungibleGlobalID{
			ResourceAddress: entity.ResourceAddress(id.ResourceAddress),
			LocalID:         entity.NonFungibleLocalID(id.LocalID),
		})
	}

	for _, component := range d.EncounteredComponents {
		summary.EncounteredComponents = append(summary.EncounteredComponents, entity.ComponentAddress(component))
	}

	for _, classification := range d.Classifications {
		summary.DetailedClassifications = append(summary.DetailedClassifications, classification.ToEntity())
	}

	return summary
}

func toIndicators(perAccount map[string][]ResourceIndicatorDTO) map[entity.AccountAddress][]entity.ResourceIndicator {
	if len(perAccount) == 0 {
		return nil
	}
	indicators := make(map[entity.AccountAddress][]entity.ResourceIndicator, len(perAccount))
	for account, list := range perAccount {
		converted := make([]entity.ResourceIndicator, 0, len(list))
		for _, indicator := range list {
			converted = append(converted, indicator.ToEntity())
		}
		indicators[entity.AccountAddress(account)] = converted
	}
	return indicators
}

// ToEntity converts one indicator.
func (d ResourceIndicatorDTO) ToEntity() entity.ResourceIndicator {
	indicator := entity.ResourceIndicator{
		ResourceAddress: entity.ResourceAddress(d.ResourceAddress),
	}
	if d.Fungible != nil {
		indicator.Fungible = &entity.FungibleIndicator{
			Kind:             entity.FungibleIndicatorKind(d.Fungible.Kind),
			Amount:           d.Fungible.Amount,
			InstructionIndex: d.Fungible.InstructionIndex,
		}
	}
	if d.NonFungible != nil {
		indicator.NonFungible = &entity.NonFungibleIndicator{
			Kind:             entity.NonFungibleIndicatorKind(d.NonFungible.Kind),
			IDs:              toLocalIDs(d.NonFungible.IDs),
			InstructionIndex: d.NonFungible.InstructionIndex,
		}
	}
	return indicator
}

// ToEntity converts one classification candidate.
func (d ManifestClassDTO) ToEntity() entity.DetailedManifestClass {
	classification := entity.DetailedManifestClass{
		Kind: entity.ManifestClassKind(d.Kind),
	}

	for _, address := range d.PoolAddresses {
		classification.PoolAddresses = append(classification.PoolAddresses, entity.PoolAddress(address))
	}
	for _, contribution := range d.PoolContributions {
		classification.PoolContributions = append(classification.PoolContributions, entity.TrackedPoolContribution{
			PoolAddress:          entity.PoolAddress(contribution.PoolAddress),
			ContributedResources: toResourceAmounts(contribution.ContributedResources),
			PoolUnitsResource:    entity.ResourceAddress(contribution.PoolUnitsResource),
			PoolUnitsAmount:      contribution.PoolUnitsAmount,
		})
	}
	for _, redemption := range d.PoolRedemptions {
		classification.PoolRedemptions = append(classification.PoolRedemptions, entity.TrackedPoolRedemption{
			PoolAddress:       entity.PoolAddress(redemption.PoolAddress),
			PoolUnitsResource: entity.ResourceAddress(redemption.PoolUnitsResource),
			PoolUnitsAmount:   redemption.PoolUnitsAmount,
			RedeemedResources: toResourceAmounts(redemption.RedeemedResources),
		})
	}

	for _, address := range d.ValidatorAddresses {
		classification.ValidatorAddresses = append(classification.ValidatorAddresses, entity.ValidatorAddress(address))
	}
	classification.ValidatorStakes = toTrackedStakes(d.ValidatorStakes)
	classification.ValidatorUnstakes = toTrackedStakes(d.ValidatorUnstakes)
	for _, claim := range d.ValidatorClaims {
		classification.ValidatorClaims = append(classification.ValidatorClaims, entity.TrackedValidatorClaim{
			ValidatorAddress: entity.ValidatorAddress(claim.ValidatorAddress),
			ClaimNFTResource: entity.ResourceAddress(claim.ClaimNFTResource),
			ClaimNFTIDs:      toLocalIDs(claim.ClaimNFTIDs),
			XRDAmount:        claim.XRDAmount,
		})
	}
	if len(d.UnstakeClaimsInSummary) > 0 {
		classification.UnstakeClaimsInSummary = make(map[entity.NonFungibleGlobalID]decimal.Decimal, len(d.UnstakeClaimsInSummary))
		for _, claim := range d.UnstakeClaimsInSummary {
			id := entity.NonFungibleGlobalID{
				ResourceAddress: entity.ResourceAddress(claim.ResourceAddress),
				LocalID:         entity.NonFungibleLocalID(claim.LocalID),
			}
			classification.UnstakeClaimsInSummary[id] = claim.XRDAmount
		}
	}

	if len(d.DepositRuleUpdates) > 0 {
		classification.DepositRuleUpdates = make(map[entity.AccountAddress]entity.DepositRule, len(d.DepositRuleUpdates))
		for account, rule := range d.DepositRuleUpdates {
			classification.DepositRuleUpdates[entity.AccountAddress(account)] = entity.DepositRule(rule)
		}
	}
	if len(d.ResourcePreferenceUpdates) > 0 {
		classification.ResourcePreferenceUpdates = make(map[entity.AccountAddress]map[entity.ResourceAddress]entity.ResourcePreferenceUpdate, len(d.ResourcePreferenceUpdates))
		for account, updates := range d.ResourcePreferenceUpdates {
			converted := make(map[entity.ResourceAddress]entity.ResourcePreferenceUpdate, len(updates))
			for address, update := range updates {
				converted[entity.ResourceAddress(address)] = entity.ResourcePreferenceUpdate{
					Kind:       entity.ResourcePreferenceUpdateKind(update.Kind),
					Preference: entity.ResourcePreference(update.Preference),
				}
			}
			classification.ResourcePreferenceUpdates[entity.AccountAddress(account)] = converted
		}
	}
	classification.AuthorizedDepositorsAdded = toDepositors(d.AuthorizedDepositorsAdded)
	classification.AuthorizedDepositorsRemoved = toDepositors(d.AuthorizedDepositorsRemoved)

	return classification
}

// ToEntity converts the wallet context, falling back to the supplied default
// guarantee when the request does not carry one.
func (d WalletContextDTO) ToEntity(fallbackGuarantee decimal.Decimal) entity.WalletContext {
	wallet := entity.WalletContext{DefaultDepositGuarantee: fallbackGuarantee}
	if d.DefaultDepositGuarantee != nil {
		wallet.DefaultDepositGuarantee = *d.DefaultDepositGuarantee
	}
	for _, account := range d.OwnedAccounts {
		wallet.OwnedAccounts = append(wallet.OwnedAccounts, entity.Account{
			Address:      entity.AccountAddress(account.Address),
			Name:         account.Name,
			AppearanceID: account.AppearanceID,
		})
	}
	return wallet
}

func toLocalIDs(ids []string) []entity.NonFungibleLocalID {
	if len(ids) == 0 {
		return nil
	}
	converted := make([]entity.NonFungibleLocalID, 0, len(ids))
	for _, id := range ids {
		converted = append(converted, entity.NonFungibleLocalID(id))
	}
	return converted
}

func toResourceAmounts(amounts map[string]decimal.Decimal) map[entity.ResourceAddress]decimal.Decimal {
	if len(amounts) == 0 {
		return nil
	}
	converted := make(map[entity.ResourceAddress]decimal.Decimal, len(amounts))
	for address, amount := range amounts {
		converted[entity.ResourceAddress(address)] = amount
	}
	return converted
}

func toTrackedStakes(stakes []TrackedValidatorStakeDTO) []entity.TrackedValidatorStake {
	if len(stakes) == 0 {
		return nil
	}
	converted := make([]entity.TrackedValidatorStake, 0, len(stakes))
	for _, stake := range stakes {
		converted = append(converted, entity.TrackedValidatorStake{
			ValidatorAddress:      entity.ValidatorAddress(stake.ValidatorAddress),
			XRDAmount:             stake.XRDAmount,
			LiquidStakeUnit:       entity.ResourceAddress(stake.LiquidStakeUnit),
			LiquidStakeUnitAmount: stake.LiquidStakeUnitAmount,
		})
	}
	return converted
}

func toDepositors(perAccount map[string][]ResourceOrNonFungibleDTO) map[entity.AccountAddress][]entity.ResourceOrNonFungible {
	if len(perAccount) == 0 {
		return nil
	}
	converted := make(map[entity.AccountAddress][]entity.ResourceOrNonFungible, len(perAccount))
	for account, depositors := range perAccount {
		identifiers := make([]entity.ResourceOrNonFungible, 0, len(depositors))
		for _, depositor := range depositors {
			identifiers = append(identifiers, entity.ResourceOrNonFungible{
				ResourceAddress: entity.ResourceAddress(depositor.ResourceAddress),
				LocalID:         entity.NonFungibleLocalID(depositor.LocalID),
			})
		}
		converted[entity.AccountAddress(account)] = identifiers
	}
	return converted
}
