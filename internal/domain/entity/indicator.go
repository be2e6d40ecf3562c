package entity

import "github.com/shopspring/decimal"

// FungibleIndicatorKind tells whether a fungible movement's amount is final
// or predicted by the simulator.
type FungibleIndicatorKind string

const (
	FungibleGuaranteed FungibleIndicatorKind = "guaranteed"
	FungiblePredicted  FungibleIndicatorKind = "predicted"
)

// FungibleIndicator describes one fungible resource movement.
// InstructionIndex is meaningful only for predicted amounts; it points at
// the instruction whose output the prediction was derived from.
type FungibleIndicator struct {
	Kind             FungibleIndicatorKind
	Amount           decimal.Decimal
	InstructionIndex uint64
}

// NonFungibleIndicatorKind tells how the set of moved non-fungible ids was
// determined by the simulator.
type NonFungibleIndicatorKind string

const (
	NonFungibleByIDs    NonFungibleIndicatorKind = "byIds"
	NonFungibleByAmount NonFungibleIndicatorKind = "byAmount"
	NonFungibleByAll    NonFungibleIndicatorKind = "byAll"
)

// NonFungibleIndicator describes one non-fungible resource movement.
// ByAmount and ByAll carry predicted id sets and therefore an instruction
// index; ByIds is an exact, guaranteed set.
type NonFungibleIndicator struct {
	Kind             NonFungibleIndicatorKind
	IDs              []NonFungibleLocalID
	InstructionIndex uint64
}

// ResourceIndicator is one resource movement inside an execution summary.
// Exactly one of Fungible or NonFungible is set.
type ResourceIndicator struct {
	ResourceAddress ResourceAddress
	Fungible        *FungibleIndicator
	NonFungible     *NonFungibleIndicator
}

// IsFungible reports whether the indicator describes a fungible movement.
func (r ResourceIndicator) IsFungible() bool {
	return r.Fungible != nil
}

// Amount returns the moved amount: the fungible decimal, or the count of
// non-fungible ids.
func (r ResourceIndicator) Amount() decimal.Decimal {
	if r.Fungible != nil {
		return r.Fungible.Amount
	}
	return decimal.NewFromInt(int64(len(r.NonFungible.IDs)))
}

// GuaranteeKind distinguishes final amounts from predicted ones that carry a
// user-adjustable guarantee.
type GuaranteeKind string

const (
	GuaranteeGuaranteed GuaranteeKind = "guaranteed"
	GuaranteePredicted  GuaranteeKind = "predicted"
)

// GuaranteeType annotates a transferable with the origin of its amount.
// For predicted amounts InstructionIndex is copied verbatim from the
// indicator and Offset is the default guarantee the caller configured for
// the movement's direction.
type GuaranteeType struct {
	Kind             GuaranteeKind
	InstructionIndex uint64
	Offset           decimal.Decimal
}

// GuaranteeFor derives the guarantee annotation for this indicator.
// Guaranteed indicators always map to a guaranteed annotation; predicted
// ones keep their instruction index and take the supplied offset.
func (r ResourceIndicator) GuaranteeFor(defaultOffset decimal.Decimal) GuaranteeType {
	if r.Fungible != nil {
		if r.Fungible.Kind == FungibleGuaranteed {
			return GuaranteeType{Kind: GuaranteeGuaranteed}
		}
		return GuaranteeType{
			Kind:             GuaranteePredicted,
			InstructionIndex: r.Fungible.InstructionIndex,
			Offset:           defaultOffset,
		}
	}

	if r.NonFungible.Kind == NonFungibleByIDs {
		return GuaranteeType{Kind: GuaranteeGuaranteed}
	}
	return GuaranteeType{
		Kind:             GuaranteePredicted,
		InstructionIndex: r.NonFungible.InstructionIndex,
		Offset:           defaultOffset,
	}
}
