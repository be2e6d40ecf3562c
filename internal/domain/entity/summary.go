package entity

import "github.com/shopspring/decimal"

// ResourceSpecifier describes a resource presented as proof. Amount is set
// for fungible proofs, IDs for non-fungible ones.
type ResourceSpecifier struct {
	ResourceAddress ResourceAddress
	Amount          *decimal.Decimal
	IDs             []NonFungibleLocalID
}

// Identifiers expands the specifier to the resolver identifiers it implies:
// the whole resource for fungible proofs, one identifier per item otherwise.
func (s ResourceSpecifier) Identifiers() []ResourceOrNonFungible {
	if s.Amount != nil || len(s.IDs) == 0 {
		return []ResourceOrNonFungible{ResourceID(s.ResourceAddress)}
	}
	ids := make([]ResourceOrNonFungible, 0, len(s.IDs))
	for _, localID := range s.IDs {
		ids = append(ids, NonFungibleID(s.ResourceAddress, localID))
	}
	return ids
}

// NewlyCreatedResource is the simulator's metadata for a resource minted by
// the transaction itself. Such resources do not exist on ledger yet and are
// synthesized locally instead of being resolved.
type NewlyCreatedResource struct {
	Name        string
	Symbol      string
	Description string
	IconURL     string
	Tags        []string
}

// Metadata converts the simulator metadata to resource metadata.
func (n NewlyCreatedResource) Metadata() ResourceMetadata {
	return ResourceMetadata{
		Name:        n.Name,
		Symbol:      n.Symbol,
		Description: n.Description,
		IconURL:     n.IconURL,
		Tags:        n.Tags,
	}
}

// NewEntities collects the entities created within the transaction, keyed by
// their provisional resource address.
type NewEntities struct {
	Metadata map[ResourceAddress]NewlyCreatedResource
}

// ManifestClassKind enumerates the detailed manifest classifications the
// analyzer understands.
type ManifestClassKind string

const (
	ManifestClassGeneral                      ManifestClassKind = "general"
	ManifestClassTransfer                     ManifestClassKind = "transfer"
	ManifestClassPoolContribution             ManifestClassKind = "poolContribution"
	ManifestClassPoolRedemption               ManifestClassKind = "poolRedemption"
	ManifestClassValidatorStake               ManifestClassKind = "validatorStake"
	ManifestClassValidatorUnstake             ManifestClassKind = "validatorUnstake"
	ManifestClassValidatorClaim               ManifestClassKind = "validatorClaim"
	ManifestClassAccountDepositSettingsUpdate ManifestClassKind = "accountDepositSettingsUpdate"
)

// IsConforming reports whether the analyzer can render this classification
// into a structured preview.
func (k ManifestClassKind) IsConforming() bool {
	switch k {
	case ManifestClassGeneral, ManifestClassTransfer,
		ManifestClassPoolContribution, ManifestClassPoolRedemption,
		ManifestClassValidatorStake, ManifestClassValidatorUnstake,
		ManifestClassValidatorClaim, ManifestClassAccountDepositSettingsUpdate:
		return true
	}
	return false
}

// TrackedPoolContribution records one pool contribution instruction.
type TrackedPoolContribution struct {
	PoolAddress          PoolAddress
	ContributedResources map[ResourceAddress]decimal.Decimal
	PoolUnitsResource    ResourceAddress
	PoolUnitsAmount      decimal.Decimal
}

// TrackedPoolRedemption records one pool redemption instruction.
type TrackedPoolRedemption struct {
	PoolAddress       PoolAddress
	PoolUnitsResource ResourceAddress
	PoolUnitsAmount   decimal.Decimal
	RedeemedResources map[ResourceAddress]decimal.Decimal
}

// TrackedValidatorStake records one stake instruction: XRD in, stake units out.
type TrackedValidatorStake struct {
	ValidatorAddress      ValidatorAddress
	XRDAmount             decimal.Decimal
	LiquidStakeUnit       ResourceAddress
	LiquidStakeUnitAmount decimal.Decimal
}

// TrackedValidatorClaim records one claim instruction: claim NFTs in, XRD out.
type TrackedValidatorClaim struct {
	ValidatorAddress ValidatorAddress
	ClaimNFTResource ResourceAddress
	ClaimNFTIDs      []NonFungibleLocalID
	XRDAmount        decimal.Decimal
}

// DepositRule is an account's default policy for incoming deposits.
type DepositRule string

const (
	DepositRuleAcceptAll   DepositRule = "acceptAll"
	DepositRuleDenyAll     DepositRule = "denyAll"
	DepositRuleAcceptKnown DepositRule = "acceptKnown"
)

// ResourcePreference marks a resource as explicitly allowed or disallowed
// for deposit into an account.
type ResourcePreference string

const (
	ResourcePreferenceAllowed    ResourcePreference = "allowed"
	ResourcePreferenceDisallowed ResourcePreference = "disallowed"
)

// ResourcePreferenceUpdateKind tells whether a preference is set or removed.
type ResourcePreferenceUpdateKind string

const (
	ResourcePreferenceSet    ResourcePreferenceUpdateKind = "set"
	ResourcePreferenceRemove ResourcePreferenceUpdateKind = "remove"
)

// ResourcePreferenceUpdate is one change to an account's per-resource
// deposit preference. Preference is meaningful only for the set kind.
type ResourcePreferenceUpdate struct {
	Kind       ResourcePreferenceUpdateKind
	Preference ResourcePreference
}

// DetailedManifestClass is one classification candidate produced by the
// simulator. Only the fields matching the Kind are populated.
type DetailedManifestClass struct {
	Kind ManifestClassKind

	PoolAddresses     []PoolAddress
	PoolContributions []TrackedPoolContribution
	PoolRedemptions   []TrackedPoolRedemption

	ValidatorAddresses []ValidatorAddress
	ValidatorStakes    []TrackedValidatorStake
	ValidatorUnstakes  []TrackedValidatorStake
	ValidatorClaims    []TrackedValidatorClaim
	// UnstakeClaimsInSummary maps each claim NFT minted by an unstake to the
	// XRD amount it will be claimable for.
	UnstakeClaimsInSummary map[NonFungibleGlobalID]decimal.Decimal

	DepositRuleUpdates          map[AccountAddress]DepositRule
	ResourcePreferenceUpdates   map[AccountAddress]map[ResourceAddress]ResourcePreferenceUpdate
	AuthorizedDepositorsAdded   map[AccountAddress][]ResourceOrNonFungible
	AuthorizedDepositorsRemoved map[AccountAddress][]ResourceOrNonFungible
}

// ExecutionSummary is the simulator's structured report of a transaction's
// effects prior to signing. It is the sole input to the analyzer.
type ExecutionSummary struct {
	Withdrawals map[AccountAddress][]ResourceIndicator
	Deposits    map[AccountAddress][]ResourceIndicator

	PresentedProofs []ResourceSpecifier

	NewEntities              NewEntities
	NewlyCreatedNonFungibles []NonFungibleGlobalID

	EncounteredComponents []ComponentAddress

	DetailedClassifications []DetailedManifestClass
}

// IsNewlyCreated reports whether the resource address belongs to an entity
// created within the transaction.
func (s ExecutionSummary) IsNewlyCreated(address ResourceAddress) bool {
	_, ok := s.NewEntities.Metadata[address]
	return ok
}

// IsNewlyCreatedNonFungible reports whether the item was minted within the
// transaction.
func (s ExecutionSummary) IsNewlyCreatedNonFungible(id NonFungibleGlobalID) bool {
	for _, created := range s.NewlyCreatedNonFungibles {
		if created == id {
			return true
		}
	}
	return false
}
