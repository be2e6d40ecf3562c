// Package decimals centralizes the worth and redemption arithmetic shared by
// the preview processors. All exchange-rate outputs are rounded through
// RoundToDivisibility so every processor reports identical values for
// identical inputs.
package decimals

import "github.com/shopspring/decimal"

// RoundToDivisibility truncates d toward zero to the number of decimal
// places the resource declares.
func RoundToDivisibility(d decimal.Decimal, divisibility int32) decimal.Decimal {
	return d.Truncate(divisibility)
}

// StakeUnitValue converts a stake unit amount to its XRD worth using the
// validator's current exchange rate, rounded to the stake unit resource's
// divisibility. It returns zero when the rate cannot be computed.
func StakeUnitValue(totalXRDStake, stakeUnitSupply, amount decimal.Decimal, divisibility int32) decimal.Decimal {
	if stakeUnitSupply.IsZero() || totalXRDStake.IsZero() {
		return decimal.Zero
	}
	worth := amount.Div(stakeUnitSupply).Mul(totalXRDStake)
	return RoundToDivisibility(worth, divisibility)
}

// PoolResourceValue computes the share of one constituent reserve that a
// pool unit amount represents, rounded to the constituent's divisibility.
// It returns zero when the pool unit supply is unknown.
func PoolResourceValue(reserve, unitSupply, amount decimal.Decimal, divisibility int32) decimal.Decimal {
	if unitSupply.IsZero() {
		return decimal.Zero
	}
	value := amount.Div(unitSupply).Mul(reserve)
	return RoundToDivisibility(value, divisibility)
}
