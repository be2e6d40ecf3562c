package entity

import "fmt"

// AccountAddress identifies an account component on the ledger.
type AccountAddress string

// ResourceAddress identifies a fungible or non-fungible resource on the ledger.
type ResourceAddress string

// ComponentAddress identifies an arbitrary component, e.g. a dApp entity.
type ComponentAddress string

// ValidatorAddress identifies a network validator component.
type ValidatorAddress string

// PoolAddress identifies a resource pool component.
type PoolAddress string

// NonFungibleLocalID is the local part of a non-fungible item identifier,
// unique within its collection.
type NonFungibleLocalID string

// NonFungibleGlobalID addresses a single non-fungible item globally.
type NonFungibleGlobalID struct {
	ResourceAddress ResourceAddress
	LocalID         NonFungibleLocalID
}

// String renders the global id in the canonical "resource:localId" form.
func (id NonFungibleGlobalID) String() string {
	return fmt.Sprintf("%s:%s", id.ResourceAddress, id.LocalID)
}

// ResourceOrNonFungible identifies either a whole resource or a single
// non-fungible item. It is the unit of work for the asset resolver.
// LocalID is empty when the identifier refers to the whole resource.
type ResourceOrNonFungible struct {
	ResourceAddress ResourceAddress
	LocalID         NonFungibleLocalID
}

// IsNonFungibleItem reports whether the identifier points at a single item
// rather than a whole resource.
func (r ResourceOrNonFungible) IsNonFungibleItem() bool {
	return r.LocalID != ""
}

// String renders the identifier for logging and error messages.
func (r ResourceOrNonFungible) String() string {
	if r.IsNonFungibleItem() {
		return fmt.Sprintf("%s:%s", r.ResourceAddress, r.LocalID)
	}
	return string(r.ResourceAddress)
}

// ResourceID builds a whole-resource identifier.
func ResourceID(address ResourceAddress) ResourceOrNonFungible {
	return ResourceOrNonFungible{ResourceAddress: address}
}

// NonFungibleID builds a single-item identifier.
func NonFungibleID(address ResourceAddress, localID NonFungibleLocalID) ResourceOrNonFungible {
	return ResourceOrNonFungible{ResourceAddress: address, LocalID: localID}
}
