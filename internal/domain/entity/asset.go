package entity

import "github.com/shopspring/decimal"

// ResourceMetadata carries the explicit metadata entries the review screen
// renders for a resource.
type ResourceMetadata struct {
	Name        string
	Symbol      string
	Description string
	IconURL     string
	Tags        []string
}

// FungibleResource is a resolved fungible resource.
type FungibleResource struct {
	Address      ResourceAddress
	Divisibility int32
	Metadata     ResourceMetadata
}

// NonFungibleItem is one item of a non-fungible collection. Data fields are
// best-effort: an item known only by id has them zeroed.
type NonFungibleItem struct {
	CollectionAddress ResourceAddress
	LocalID           NonFungibleLocalID
	Name              string
	// ClaimAmountXRD is set for stake-claim items and carries the amount of
	// XRD claimable with this item.
	ClaimAmountXRD *decimal.Decimal
}

// GlobalID returns the item's global identifier.
func (i NonFungibleItem) GlobalID() NonFungibleGlobalID {
	return NonFungibleGlobalID{ResourceAddress: i.CollectionAddress, LocalID: i.LocalID}
}

// NonFungibleResource is a resolved non-fungible collection together with
// the items known on ledger.
type NonFungibleResource struct {
	Address  ResourceAddress
	Metadata ResourceMetadata
	Items    []NonFungibleItem
}

// ItemByLocalID returns the known item with the given local id, if any.
func (r NonFungibleResource) ItemByLocalID(id NonFungibleLocalID) (NonFungibleItem, bool) {
	for _, item := range r.Items {
		if item.LocalID == id {
			return item, true
		}
	}
	return NonFungibleItem{}, false
}

// Validator is a resolved validator component, carrying the exchange-rate
// inputs for liquid stake unit worth calculations.
type Validator struct {
	Address ValidatorAddress
	Name    string
	IconURL string
	// TotalXRDStake is the XRD currently staked to the validator.
	TotalXRDStake decimal.Decimal
	// StakeUnitSupply is the total supply of the validator's stake unit resource.
	StakeUnitSupply decimal.Decimal
	// ClaimResourceAddress is the validator's unstake claim NFT collection.
	ClaimResourceAddress ResourceAddress
}

// PoolResource is one constituent of a resource pool with its current reserve.
type PoolResource struct {
	Address      ResourceAddress
	Divisibility int32
	Reserve      decimal.Decimal
}

// Pool is a resolved resource pool backing a pool unit.
type Pool struct {
	Address PoolAddress
	// UnitSupply is the total supply of the pool unit resource.
	UnitSupply     decimal.Decimal
	Resources      []PoolResource
	DAppDefinition ComponentAddress
}

// AssetKind enumerates the resolved asset kinds.
type AssetKind string

const (
	AssetToken                 AssetKind = "token"
	AssetLiquidStakeUnit       AssetKind = "liquidStakeUnit"
	AssetPoolUnit              AssetKind = "poolUnit"
	AssetNonFungibleCollection AssetKind = "nonFungibleCollection"
	AssetStakeClaim            AssetKind = "stakeClaim"
)

// Asset is a resolved on-ledger entity. Exactly one of Fungible or
// NonFungible is set depending on the kind; Validator is set for
// liquid stake units and stake claims, Pool for pool units.
type Asset struct {
	Kind        AssetKind
	Fungible    *FungibleResource
	NonFungible *NonFungibleResource
	Validator   *Validator
	Pool        *Pool
}

// ResourceAddress returns the address of the underlying resource regardless
// of kind.
func (a Asset) ResourceAddress() ResourceAddress {
	if a.Fungible != nil {
		return a.Fungible.Address
	}
	return a.NonFungible.Address
}

// IsFungible reports whether the asset's underlying resource is fungible.
func (a Asset) IsFungible() bool {
	return a.Fungible != nil
}
