package entity

import "github.com/shopspring/decimal"

// TransferDirection tells whether a transferable leaves or enters an account.
type TransferDirection string

const (
	DirectionWithdrawing TransferDirection = "withdrawing"
	DirectionDepositing  TransferDirection = "depositing"
)

// TokenTransfer is a plain fungible amount.
type TokenTransfer struct {
	Resource FungibleResource
	Amount   decimal.Decimal
}

// LSUTransfer is a liquid stake unit movement with its derived XRD worth.
type LSUTransfer struct {
	Resource  FungibleResource
	Validator Validator
	Amount    decimal.Decimal
	XRDWorth  decimal.Decimal
}

// PoolUnitTransfer is a pool unit movement with the proportional
// contribution or redemption value per constituent resource.
type PoolUnitTransfer struct {
	Resource FungibleResource
	Pool     Pool
	Amount   decimal.Decimal
	// ContributionPerResource maps each constituent resource to the amount
	// this pool unit movement represents.
	ContributionPerResource map[ResourceAddress]decimal.Decimal
}

// NFTTransfer is a non-fungible collection movement carrying the concrete
// items moved.
type NFTTransfer struct {
	Resource NonFungibleResource
	Items    []NonFungibleItem
}

// StakeClaimTransfer is a stake-claim NFT movement with the claimable XRD
// per item.
type StakeClaimTransfer struct {
	Resource        NonFungibleResource
	Validator       Validator
	Items           []NonFungibleItem
	XRDWorthPerItem map[NonFungibleLocalID]decimal.Decimal
}

// TransferableAsset mirrors Asset but carries the amount or items specific
// to one movement. Exactly one of the kind fields is set.
type TransferableAsset struct {
	Kind           AssetKind
	IsNewlyCreated bool

	Token      *TokenTransfer
	LSU        *LSUTransfer
	PoolUnit   *PoolUnitTransfer
	NFT        *NFTTransfer
	StakeClaim *StakeClaimTransfer
}

// ResourceAddress returns the moved resource's address regardless of kind.
func (t TransferableAsset) ResourceAddress() ResourceAddress {
	switch t.Kind {
	case AssetToken:
		return t.Token.Resource.Address
	case AssetLiquidStakeUnit:
		return t.LSU.Resource.Address
	case AssetPoolUnit:
		return t.PoolUnit.Resource.Address
	case AssetNonFungibleCollection:
		return t.NFT.Resource.Address
	case AssetStakeClaim:
		return t.StakeClaim.Resource.Address
	}
	return ""
}

// Transferable is one typed, guarantee-annotated resource movement.
type Transferable struct {
	Direction TransferDirection
	Asset     TransferableAsset
	Guarantee GuaranteeType
}

// Account is one wallet account, as supplied by the caller's profile.
type Account struct {
	Address      AccountAddress
	Name         string
	AppearanceID uint8
}

// AccountWithTransferables groups the transferables of one involved account
// and records whether the account belongs to the wallet.
type AccountWithTransferables struct {
	// Owned is set when Address matches a wallet account; Account then
	// carries the profile entry.
	Owned         bool
	Account       Account
	Address       AccountAddress
	Transferables []Transferable
}

// WalletContext is the wallet-side input to one analysis call: the accounts
// owned on the current network, in profile order, and the configured default
// deposit guarantee.
type WalletContext struct {
	OwnedAccounts           []Account
	DefaultDepositGuarantee decimal.Decimal
}

// OwnedAccount returns the profile account with the given address, if any.
func (w WalletContext) OwnedAccount(address AccountAddress) (Account, bool) {
	for _, account := range w.OwnedAccounts {
		if account.Address == address {
			return account, true
		}
	}
	return Account{}, false
}
