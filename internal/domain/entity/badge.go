package entity

import "github.com/shopspring/decimal"

// Badge is a resource presented as proof of ownership or authority during
// the transaction. For fungible proofs Amount carries the presented amount
// (the resolver does not report it); for non-fungible proofs IDs carries the
// presented items.
type Badge struct {
	Asset  Asset
	Amount *decimal.Decimal
	IDs    []NonFungibleLocalID
}
